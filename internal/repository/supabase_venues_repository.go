package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"DateSpark-App/internal/domain/helper"
	"DateSpark-App/internal/domain/model"
	"DateSpark-App/internal/domain/repository"
	"DateSpark-App/internal/infrastructure/database"
)

// SupabaseVenuesRepository is the REST-backed venue store. PostgREST cannot
// express the geography distance check, so retrieval uses geohash range
// filters server-side and applies category and distance filtering client-side.
type SupabaseVenuesRepository struct {
	client *database.SupabaseClient
}

// NewSupabaseVenuesRepository wraps a Supabase client as a VenuesRepository.
func NewSupabaseVenuesRepository(client *database.SupabaseClient) repository.VenuesRepository {
	return &SupabaseVenuesRepository{client: client}
}

func (r *SupabaseVenuesRepository) GetByID(ctx context.Context, placeID string) (*model.Venue, error) {
	data, _, err := r.client.GetClient().From("venues").
		Select("*", "exact", false).
		Eq("place_id", placeID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch venue %s: %w", placeID, err)
	}

	var venues []model.Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue data: %w", err)
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("venue %s not found", placeID)
	}
	return &venues[0], nil
}

// FindNearbyByCategories issues one geohash range query per coverage bound.
// A failed bound is logged and skipped so partial backend trouble degrades
// the candidate set instead of aborting it.
func (r *SupabaseVenuesRepository) FindNearbyByCategories(ctx context.Context, center model.LatLng, categories []string, radiusMeters float64, limit int) ([]*model.Venue, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	var candidates []*model.Venue
	for _, bound := range helper.GeohashCoverageBounds(center, radiusMeters) {
		data, _, err := r.client.GetClient().From("venues").
			Select("*", "exact", false).
			Gte("geohash", bound.Start).
			Lte("geohash", bound.End).
			Execute()
		if err != nil {
			log.Printf("⚠️ geohash range query [%s, %s] failed, skipping: %v", bound.Start, bound.End, err)
			continue
		}

		var venues []model.Venue
		if err := json.Unmarshal(data, &venues); err != nil {
			log.Printf("⚠️ failed to unmarshal venues for range [%s, %s], skipping: %v", bound.Start, bound.End, err)
			continue
		}
		for i := range venues {
			if venues[i].HasAnyCategory(categories) {
				candidates = append(candidates, &venues[i])
			}
		}
	}

	candidates = helper.DeduplicateVenues(candidates)
	candidates = helper.FilterWithinRadius(center, candidates, radiusMeters)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (r *SupabaseVenuesRepository) Create(ctx context.Context, venue *model.Venue) error {
	if venue.Geohash == "" {
		venue.Geohash = helper.EncodeVenueGeohash(venue.ToLatLng())
	}
	data, err := json.Marshal(venue)
	if err != nil {
		return fmt.Errorf("failed to marshal venue: %w", err)
	}

	_, _, err = r.client.GetClient().From("venues").Insert(string(data), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create venue %s: %w", venue.PlaceID, err)
	}
	return nil
}

func (r *SupabaseVenuesRepository) BulkCreate(ctx context.Context, venues []*model.Venue) error {
	for _, venue := range venues {
		if venue.Geohash == "" {
			venue.Geohash = helper.EncodeVenueGeohash(venue.ToLatLng())
		}
	}
	data, err := json.Marshal(venues)
	if err != nil {
		return fmt.Errorf("failed to marshal venues: %w", err)
	}

	_, _, err = r.client.GetClient().From("venues").Insert(string(data), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to bulk create venues: %w", err)
	}
	return nil
}

// MergeEnrichment patches only the non-empty enrichment fields.
func (r *SupabaseVenuesRepository) MergeEnrichment(ctx context.Context, placeID, address, mapsURL string) error {
	fields := make(map[string]string, 2)
	if address != "" {
		fields["address"] = address
	}
	if mapsURL != "" {
		fields["maps_url"] = mapsURL
	}
	if len(fields) == 0 {
		return nil
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment fields: %w", err)
	}

	_, _, err = r.client.GetClient().From("venues").
		Update(string(data), "", "").
		Eq("place_id", placeID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to merge enrichment for %s: %w", placeID, err)
	}
	return nil
}
