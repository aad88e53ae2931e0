package repository

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"DateSpark-App/internal/domain/helper"
	"DateSpark-App/internal/domain/model"
	"DateSpark-App/internal/domain/repository"
	fsinfra "DateSpark-App/internal/infrastructure/firestore"
)

const venuesCollection = "venues"

// FirestoreVenuesRepository is the primary venue store: venues indexed by
// geohash, retrieved via string-range queries over the geohash field.
type FirestoreVenuesRepository struct {
	client *firestore.Client
}

// NewFirestoreVenuesRepository wraps a Firestore client as a VenuesRepository.
func NewFirestoreVenuesRepository(client *fsinfra.FirestoreClient) repository.VenuesRepository {
	return &FirestoreVenuesRepository{client: client.GetClient()}
}

func (r *FirestoreVenuesRepository) GetByID(ctx context.Context, placeID string) (*model.Venue, error) {
	doc, err := r.client.Collection(venuesCollection).Doc(placeID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch venue %s: %w", placeID, err)
	}

	var venue model.Venue
	if err := doc.DataTo(&venue); err != nil {
		return nil, fmt.Errorf("failed to decode venue %s: %w", placeID, err)
	}
	return &venue, nil
}

// FindNearbyByCategories covers the search circle with geohash range bounds,
// splits the category set into array-contains-any sized chunks, and fans out
// one query per (bound x chunk) pair. Sub-query failures are logged and
// skipped so one bad shard cannot abort the retrieval. Candidates are
// deduplicated and post-filtered by true great-circle distance.
func (r *FirestoreVenuesRepository) FindNearbyByCategories(ctx context.Context, center model.LatLng, categories []string, radiusMeters float64, limit int) ([]*model.Venue, error) {
	chunks := helper.ChunkCategories(categories)
	if len(chunks) == 0 {
		return nil, nil
	}
	bounds := helper.GeohashCoverageBounds(center, radiusMeters)

	type queryResult struct {
		venues []*model.Venue
	}
	resultsChan := make(chan queryResult, len(bounds)*len(chunks))
	var wg sync.WaitGroup

	for _, bound := range bounds {
		for _, chunk := range chunks {
			wg.Add(1)
			go func(b helper.GeohashBound, cats []string) {
				defer wg.Done()
				venues, err := r.queryRange(ctx, b, cats, limit)
				if err != nil {
					log.Printf("⚠️ geohash range query [%s, %s] failed, skipping: %v", b.Start, b.End, err)
					resultsChan <- queryResult{}
					return
				}
				resultsChan <- queryResult{venues: venues}
			}(bound, chunk)
		}
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var candidates []*model.Venue
	for result := range resultsChan {
		candidates = append(candidates, result.venues...)
	}

	candidates = helper.DeduplicateVenues(candidates)
	candidates = helper.FilterWithinRadius(center, candidates, radiusMeters)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (r *FirestoreVenuesRepository) queryRange(ctx context.Context, bound helper.GeohashBound, categories []string, limit int) ([]*model.Venue, error) {
	query := r.client.Collection(venuesCollection).
		OrderBy("geohash", firestore.Asc).
		StartAt(bound.Start).
		EndAt(bound.End).
		Where("categories", "array-contains-any", categories)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var venues []*model.Venue
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("geohash range iteration failed: %w", err)
		}
		var venue model.Venue
		if err := doc.DataTo(&venue); err != nil {
			log.Printf("⚠️ skipping undecodable venue document %s: %v", doc.Ref.ID, err)
			continue
		}
		venues = append(venues, &venue)
	}
	return venues, nil
}

func (r *FirestoreVenuesRepository) Create(ctx context.Context, venue *model.Venue) error {
	if venue.Geohash == "" {
		venue.Geohash = helper.EncodeVenueGeohash(venue.ToLatLng())
	}
	if _, err := r.client.Collection(venuesCollection).Doc(venue.PlaceID).Set(ctx, venue); err != nil {
		return fmt.Errorf("failed to create venue %s: %w", venue.PlaceID, err)
	}
	return nil
}

func (r *FirestoreVenuesRepository) BulkCreate(ctx context.Context, venues []*model.Venue) error {
	writer := r.client.BulkWriter(ctx)
	for _, venue := range venues {
		if venue.Geohash == "" {
			venue.Geohash = helper.EncodeVenueGeohash(venue.ToLatLng())
		}
		if _, err := writer.Set(r.client.Collection(venuesCollection).Doc(venue.PlaceID), venue); err != nil {
			return fmt.Errorf("failed to enqueue venue %s: %w", venue.PlaceID, err)
		}
	}
	writer.End()
	return nil
}

// MergeEnrichment merge-writes address/maps fields. Empty values are omitted
// so a partial lookup never clears previously cached data.
func (r *FirestoreVenuesRepository) MergeEnrichment(ctx context.Context, placeID, address, mapsURL string) error {
	fields := make(map[string]interface{}, 2)
	if address != "" {
		fields["address"] = address
	}
	if mapsURL != "" {
		fields["maps_url"] = mapsURL
	}
	if len(fields) == 0 {
		return nil
	}

	if _, err := r.client.Collection(venuesCollection).Doc(placeID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge enrichment for %s: %w", placeID, err)
	}
	return nil
}
