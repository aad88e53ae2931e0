package repository

import (
	"context"

	"DateSpark-App/internal/domain/model"
)

// PlaceDetailsRepository looks up address/maps metadata for a venue from an
// external, rate-limited place-details source. Lookups are best-effort: a
// failure leaves the venue unenriched and never blocks a response.
type PlaceDetailsRepository interface {
	FetchDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error)
}
