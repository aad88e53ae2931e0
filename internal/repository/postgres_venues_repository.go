package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"DateSpark-App/internal/domain/helper"
	"DateSpark-App/internal/domain/model"
	"DateSpark-App/internal/domain/repository"
	"DateSpark-App/internal/infrastructure/database"
)

// PostgresVenuesRepository is the PostGIS-backed venue store: exact
// ST_DWithin distance filtering in SQL instead of geohash range coverage.
type PostgresVenuesRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresVenuesRepository wraps a PostgreSQL client as a VenuesRepository.
func NewPostgresVenuesRepository(client *database.PostgreSQLClient) repository.VenuesRepository {
	return &PostgresVenuesRepository{client: client}
}

// venueRow receives one scanned venue record.
type venueRow struct {
	PlaceID    string
	Name       string
	Lat        float64
	Lng        float64
	Geohash    string
	Categories string
	PriceTier  int
	PhotoURL   sql.NullString
	Address    sql.NullString
	MapsURL    sql.NullString
}

func (row *venueRow) toVenue() (*model.Venue, error) {
	var categories []string
	if err := json.Unmarshal([]byte(row.Categories), &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories JSONB: %w", err)
	}

	venue := &model.Venue{
		PlaceID:    row.PlaceID,
		Name:       row.Name,
		Lat:        row.Lat,
		Lng:        row.Lng,
		Geohash:    row.Geohash,
		Categories: categories,
		PriceTier:  row.PriceTier,
		PhotoURL:   row.PhotoURL.String,
	}
	if row.Address.Valid {
		venue.Address = &row.Address.String
	}
	if row.MapsURL.Valid {
		venue.MapsURL = &row.MapsURL.String
	}
	return venue, nil
}

const venueColumns = `place_id, name, lat, lng, geohash, categories, price_tier, photo_url, address, maps_url`

func (r *PostgresVenuesRepository) GetByID(ctx context.Context, placeID string) (*model.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE place_id = $1`

	var row venueRow
	err := r.client.DB.QueryRowContext(ctx, query, placeID).Scan(
		&row.PlaceID, &row.Name, &row.Lat, &row.Lng, &row.Geohash,
		&row.Categories, &row.PriceTier, &row.PhotoURL, &row.Address, &row.MapsURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("venue %s not found", placeID)
		}
		return nil, fmt.Errorf("failed to fetch venue: %w", err)
	}
	return row.toVenue()
}

// FindNearbyByCategories prefilters with the circle's bounding box on the
// indexed lat/lng columns, then applies the exact geography distance check and
// category overlap in SQL.
func (r *PostgresVenuesRepository) FindNearbyByCategories(ctx context.Context, center model.LatLng, categories []string, radiusMeters float64, limit int) ([]*model.Venue, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	bound := helper.SearchCircleBound(center, radiusMeters)

	query := `
		SELECT ` + venueColumns + `,
			ST_Distance(
				ST_MakePoint($2, $1)::geography,
				ST_MakePoint(lng, lat)::geography
			) AS distance_meters
		FROM venues
		WHERE lat BETWEEN $4 AND $5
		  AND lng BETWEEN $6 AND $7
		  AND ST_DWithin(
				ST_MakePoint($2, $1)::geography,
				ST_MakePoint(lng, lat)::geography,
				$3
			)
		  AND ARRAY(SELECT jsonb_array_elements_text(categories)) && $8
		ORDER BY distance_meters
		LIMIT $9
	`

	rows, err := r.client.DB.QueryContext(ctx, query,
		center.Lat, center.Lng, radiusMeters,
		bound.Min.Lat(), bound.Max.Lat(),
		bound.Min.Lon(), bound.Max.Lon(),
		pq.Array(categories), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("nearby venue search failed: %w", err)
	}
	defer rows.Close()

	var venues []*model.Venue
	for rows.Next() {
		var row venueRow
		var distance float64
		err := rows.Scan(
			&row.PlaceID, &row.Name, &row.Lat, &row.Lng, &row.Geohash,
			&row.Categories, &row.PriceTier, &row.PhotoURL, &row.Address, &row.MapsURL,
			&distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue row: %w", err)
		}
		venue, err := row.toVenue()
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("venue row iteration failed: %w", err)
	}
	return venues, nil
}

func (r *PostgresVenuesRepository) Create(ctx context.Context, venue *model.Venue) error {
	if venue.Geohash == "" {
		venue.Geohash = helper.EncodeVenueGeohash(venue.ToLatLng())
	}
	categoriesJSON, err := json.Marshal(venue.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	query := `
		INSERT INTO venues (` + venueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (place_id) DO NOTHING
	`
	_, err = r.client.DB.ExecContext(ctx, query,
		venue.PlaceID, venue.Name, venue.Lat, venue.Lng, venue.Geohash,
		string(categoriesJSON), venue.PriceTier, venue.PhotoURL, venue.Address, venue.MapsURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create venue %s: %w", venue.PlaceID, err)
	}
	return nil
}

func (r *PostgresVenuesRepository) BulkCreate(ctx context.Context, venues []*model.Venue) error {
	tx, err := r.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	for _, venue := range venues {
		if venue.Geohash == "" {
			venue.Geohash = helper.EncodeVenueGeohash(venue.ToLatLng())
		}
		categoriesJSON, err := json.Marshal(venue.Categories)
		if err != nil {
			return fmt.Errorf("failed to marshal categories for %s: %w", venue.PlaceID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO venues (`+venueColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (place_id) DO NOTHING
		`,
			venue.PlaceID, venue.Name, venue.Lat, venue.Lng, venue.Geohash,
			string(categoriesJSON), venue.PriceTier, venue.PhotoURL, venue.Address, venue.MapsURL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert venue %s: %w", venue.PlaceID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

// MergeEnrichment updates address/maps fields without clearing existing
// values: empty inputs are treated as no-ops per column.
func (r *PostgresVenuesRepository) MergeEnrichment(ctx context.Context, placeID, address, mapsURL string) error {
	query := `
		UPDATE venues
		SET address  = COALESCE(NULLIF($2, ''), address),
		    maps_url = COALESCE(NULLIF($3, ''), maps_url)
		WHERE place_id = $1
	`
	if _, err := r.client.DB.ExecContext(ctx, query, placeID, address, mapsURL); err != nil {
		return fmt.Errorf("failed to merge enrichment for %s: %w", placeID, err)
	}
	return nil
}
