package repository

import (
	"context"

	"DateSpark-App/internal/domain/model"
)

// VenuesRepository is the venue store consumed by the plan-generation engine.
//
// FindNearbyByCategories must return every venue within radiusMeters of center
// whose category set intersects categories; implementations over-approximate
// spatially (geohash ranges, bounding boxes) and post-filter by true
// great-circle distance. A failed sub-query inside one call is logged and
// skipped, not surfaced: callers may see an incomplete but non-erroring
// result.
type VenuesRepository interface {
	GetByID(ctx context.Context, placeID string) (*model.Venue, error)
	FindNearbyByCategories(ctx context.Context, center model.LatLng, categories []string, radiusMeters float64, limit int) ([]*model.Venue, error)
	Create(ctx context.Context, venue *model.Venue) error
	BulkCreate(ctx context.Context, venues []*model.Venue) error
	// MergeEnrichment merge-writes the lazily fetched address/maps fields.
	// Writes are idempotent; concurrent identical merges are safe.
	MergeEnrichment(ctx context.Context, placeID, address, mapsURL string) error
}
