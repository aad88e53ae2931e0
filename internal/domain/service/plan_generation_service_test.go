package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DateSpark-App/internal/domain/helper"
	"DateSpark-App/internal/domain/model"
)

var testOrigin = model.LatLng{Lat: 37.3352, Lng: -121.8811}

// venueAt places a venue the given distance due north of the test origin.
func venueAt(placeID, name string, distanceMeters float64, categories ...string) *model.Venue {
	return &model.Venue{
		PlaceID:    placeID,
		Name:       name,
		Lat:        testOrigin.Lat + distanceMeters/111195,
		Lng:        testOrigin.Lng,
		Categories: categories,
	}
}

type fetchCall struct {
	categories []string
	radius     float64
}

// fakeVenuesRepo serves a fixed venue set with true distance and category
// filtering, records every fetch, and can fail selected calls.
type fakeVenuesRepo struct {
	mu      sync.Mutex
	venues  []*model.Venue
	failOn  map[int]bool
	failAll bool
	calls   []fetchCall
	merged  map[string]model.PlaceDetails
}

func newFakeVenuesRepo(venues ...*model.Venue) *fakeVenuesRepo {
	return &fakeVenuesRepo{
		venues: venues,
		failOn: map[int]bool{},
		merged: map[string]model.PlaceDetails{},
	}
}

func (f *fakeVenuesRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeVenuesRepo) GetByID(ctx context.Context, placeID string) (*model.Venue, error) {
	for _, v := range f.venues {
		if v.PlaceID == placeID {
			return v, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeVenuesRepo) FindNearbyByCategories(ctx context.Context, center model.LatLng, categories []string, radiusMeters float64, limit int) ([]*model.Venue, error) {
	f.mu.Lock()
	index := len(f.calls)
	f.calls = append(f.calls, fetchCall{categories: categories, radius: radiusMeters})
	f.mu.Unlock()

	if f.failAll || f.failOn[index] {
		return nil, errors.New("venue store unavailable")
	}

	var result []*model.Venue
	for _, v := range f.venues {
		if !v.HasAnyCategory(categories) {
			continue
		}
		if helper.HaversineDistanceMeters(center, v.ToLatLng()) > radiusMeters {
			continue
		}
		clone := *v
		result = append(result, &clone)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (f *fakeVenuesRepo) Create(ctx context.Context, venue *model.Venue) error {
	f.venues = append(f.venues, venue)
	return nil
}

func (f *fakeVenuesRepo) BulkCreate(ctx context.Context, venues []*model.Venue) error {
	f.venues = append(f.venues, venues...)
	return nil
}

func (f *fakeVenuesRepo) MergeEnrichment(ctx context.Context, placeID, address, mapsURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merged[placeID] = model.PlaceDetails{Address: address, MapsURL: mapsURL}
	return nil
}

// fakeDetailsRepo serves canned place details and records lookups.
type fakeDetailsRepo struct {
	mu      sync.Mutex
	details map[string]model.PlaceDetails
	fetched []string
}

func (f *fakeDetailsRepo) FetchDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, placeID)
	f.mu.Unlock()

	d, ok := f.details[placeID]
	if !ok {
		return nil, errors.New("no details")
	}
	return &d, nil
}

func newTestService(t *testing.T, venuesRepo *fakeVenuesRepo, detailsRepo *fakeDetailsRepo) PlanGenerationService {
	t.Helper()
	bank, err := NewIdeaBank()
	require.NoError(t, err)
	if detailsRepo == nil {
		return NewPlanGenerationService(venuesRepo, nil, bank)
	}
	return NewPlanGenerationService(venuesRepo, detailsRepo, bank)
}

func cafesWithin(count int, distanceMeters float64, category string) []*model.Venue {
	venues := make([]*model.Venue, count)
	for i := range venues {
		venues[i] = venueAt(fmt.Sprintf("place-%d", i), fmt.Sprintf("Corner Spot %d", i), distanceMeters+float64(i), category)
	}
	return venues
}

func TestGeneratePlanStrictRungSatisfies(t *testing.T) {
	repo := newFakeVenuesRepo(cafesWithin(12, 1200, "cafe")...)
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "morning",
		MaxDistanceMeters: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.RelaxationLevel)
	assert.Equal(t, 2000, resp.RadiusUsedMeters)
	assert.Len(t, resp.Themes, 10)
	assert.Equal(t, 1, repo.callCount(), "first rung satisfied, no further fetches")

	seen := make(map[string]struct{})
	for _, theme := range resp.Themes {
		_, dup := seen[theme.ID]
		assert.False(t, dup, "duplicate theme id %s", theme.ID)
		seen[theme.ID] = struct{}{}
		assert.LessOrEqual(t, theme.DistanceMeters, resp.RadiusUsedMeters)
		assert.Equal(t, fmt.Sprintf("Date Quest: %s", theme.VenueName), theme.Title)
		assert.Len(t, theme.Missions, 2)
	}
}

func TestGeneratePlanAliasRung(t *testing.T) {
	// "coffee shop" only enters the allowed set once aliases expand.
	repo := newFakeVenuesRepo(cafesWithin(12, 1200, "coffee shop")...)
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "morning",
		MaxDistanceMeters: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.RelaxationLevel)
	assert.Equal(t, 2000, resp.RadiusUsedMeters)
	assert.Len(t, resp.Themes, 10)
}

func TestGeneratePlanWiderRadiusRung(t *testing.T) {
	// Everything sits past the requested radius but inside 2x.
	repo := newFakeVenuesRepo(cafesWithin(12, 3000, "cafe")...)
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "morning",
		MaxDistanceMeters: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.RelaxationLevel)
	assert.Equal(t, 4000, resp.RadiusUsedMeters)
	assert.Len(t, resp.Themes, 10)
}

func TestGeneratePlanDynamicExpansionStopsAtCap(t *testing.T) {
	// Only three venues exist, so no rung and no expansion step can reach the
	// pool target. The dynamic loop must stop at the radius cap, not spin.
	repo := newFakeVenuesRepo(cafesWithin(3, 4000, "cafe")...)
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "any",
		MaxDistanceMeters: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.RelaxationLevel)
	assert.Equal(t, 9000, resp.RadiusUsedMeters, "last step before the 10km cap")
	assert.Len(t, resp.Themes, 3)
	assert.Nil(t, resp.NextCursor)
}

func TestGeneratePlanUnresolvableMoodsReturnEmpty(t *testing.T) {
	repo := newFakeVenuesRepo(cafesWithin(12, 1200, "cafe")...)
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"nonexistent vibe"},
		TimeOfDay:         "any",
		MaxDistanceMeters: 2000,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Themes)
	assert.Equal(t, 0, resp.RelaxationLevel)
	assert.Equal(t, 0, repo.callCount(), "no store fetch for an empty category set")
}

func TestGeneratePlanFailedRungDegrades(t *testing.T) {
	repo := newFakeVenuesRepo(cafesWithin(12, 1200, "cafe")...)
	repo.failOn[0] = true
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "morning",
		MaxDistanceMeters: 2000,
	})
	require.NoError(t, err, "a failed rung is skipped, not surfaced")

	assert.Equal(t, 1, resp.RelaxationLevel)
	assert.Len(t, resp.Themes, 10)
}

func TestGeneratePlanPersistentFailureEscapes(t *testing.T) {
	repo := newFakeVenuesRepo(cafesWithin(12, 1200, "cafe")...)
	repo.failAll = true
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "any",
		MaxDistanceMeters: 1000,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Themes)
	assert.Equal(t, 4, resp.RelaxationLevel)
	// Four rungs, the forced floor pass, and a single dynamic attempt.
	assert.Equal(t, 6, repo.callCount(), "a failing store must not be hammered in a loop")
}

func TestGeneratePlanPaginationIsStableAndDisjoint(t *testing.T) {
	repo := newFakeVenuesRepo(cafesWithin(15, 1200, "cafe")...)
	svc := newTestService(t, repo, nil)

	base := model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "morning",
		MaxDistanceMeters: 2000,
		PageSize:          5,
	}

	seen := make(map[string]struct{})
	cursor := ""
	for page := 0; page < 3; page++ {
		req := base
		req.PageCursor = cursor
		resp, err := svc.GeneratePlan(context.Background(), &req)
		require.NoError(t, err)
		require.Len(t, resp.Themes, 5, "page %d", page)

		for _, theme := range resp.Themes {
			_, dup := seen[theme.ID]
			assert.False(t, dup, "venue %s repeated across pages", theme.ID)
			seen[theme.ID] = struct{}{}
		}

		if page < 2 {
			require.NotNil(t, resp.NextCursor, "page %d", page)
			cursor = *resp.NextCursor
		} else {
			assert.Nil(t, resp.NextCursor, "last page carries no cursor")
		}
	}
	assert.Len(t, seen, 15)
}

func TestGeneratePlanLaterPagesKeepFirstPageBreadth(t *testing.T) {
	// 12 venues satisfy the strict rung; 8 more only appear once aliases
	// expand. If the pool target grew with the cursor, the second page would
	// climb to the alias rung, shuffle a 20-venue pool under the same session
	// seed, and repeat venues from the first page. Both pages must stay at the
	// strict rung and stay disjoint.
	venues := cafesWithin(12, 1200, "cafe")
	for i := 0; i < 8; i++ {
		venues = append(venues, venueAt(fmt.Sprintf("alias-%d", i), fmt.Sprintf("Alias Spot %d", i), 1300, "coffee shop"))
	}
	repo := newFakeVenuesRepo(venues...)
	svc := newTestService(t, repo, nil)

	base := model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "morning",
		MaxDistanceMeters: 2000,
	}

	first, err := svc.GeneratePlan(context.Background(), &base)
	require.NoError(t, err)
	require.Len(t, first.Themes, 10)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, 0, first.RelaxationLevel)

	next := base
	next.PageCursor = *first.NextCursor
	second, err := svc.GeneratePlan(context.Background(), &next)
	require.NoError(t, err)
	assert.Equal(t, 0, second.RelaxationLevel, "cursor depth must not widen retrieval")
	assert.Len(t, second.Themes, 2, "strict-rung pool has 12 venues, 2 left after page one")
	assert.Nil(t, second.NextCursor)

	seen := make(map[string]struct{})
	for _, theme := range first.Themes {
		seen[theme.ID] = struct{}{}
	}
	for _, theme := range second.Themes {
		_, dup := seen[theme.ID]
		assert.False(t, dup, "venue %s repeated across pages", theme.ID)
	}
}

func TestGeneratePlanCuratedOnlyFilter(t *testing.T) {
	repo := newFakeVenuesRepo(
		venueAt("p-philz", "Philz Coffee", 500, "cafe"),
		venueAt("p-tea", "Tea Alley", 600, "cafe"),
		venueAt("p-random", "Random Pizza Spot", 700, "cafe"),
	)
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:          testOrigin.Lat,
		OriginLng:          testOrigin.Lng,
		Moods:              []string{"cozy"},
		TimeOfDay:          "any",
		MaxDistanceMeters:  1000,
		RequireCuratedOnly: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Themes, 2)
	for _, theme := range resp.Themes {
		assert.True(t, theme.Curated)
		assert.NotEmpty(t, theme.MatchedSlug)
		assert.NotEqual(t, "p-random", theme.ID)
	}
}

func TestGeneratePlanMixedCuratedAndFallback(t *testing.T) {
	repo := newFakeVenuesRepo(
		venueAt("p-philz", "Philz Coffee", 500, "cafe"),
		venueAt("p-random", "Random Pizza Spot", 700, "cafe"),
	)
	svc := newTestService(t, repo, nil)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "any",
		MaxDistanceMeters: 1000,
	})
	require.NoError(t, err)
	require.Len(t, resp.Themes, 2)

	byID := make(map[string]*model.GeneratedTheme)
	for _, theme := range resp.Themes {
		byID[theme.ID] = theme
	}
	require.Contains(t, byID, "p-philz")
	require.Contains(t, byID, "p-random")
	assert.True(t, byID["p-philz"].Curated)
	assert.Equal(t, "philz_coffee", byID["p-philz"].MatchedSlug)
	assert.False(t, byID["p-random"].Curated)
	assert.Empty(t, byID["p-random"].MatchedSlug)
	assert.NotEmpty(t, byID["p-random"].Missions[0], "fallback venues still get a mission")
}

func TestGeneratePlanEnrichesMissingAddresses(t *testing.T) {
	enriched := venueAt("p-known", "Philz Coffee", 500, "cafe")
	enriched.SetAddress("118 Paseo de San Antonio")
	bare := venueAt("p-bare", "Random Pizza Spot", 600, "cafe")

	repo := newFakeVenuesRepo(enriched, bare)
	details := &fakeDetailsRepo{details: map[string]model.PlaceDetails{
		"p-bare": {Address: "201 S 2nd St", MapsURL: "https://maps.example/p-bare"},
	}}
	svc := newTestService(t, repo, details)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "any",
		MaxDistanceMeters: 1000,
	})
	require.NoError(t, err)
	require.Len(t, resp.Themes, 2)

	byID := make(map[string]*model.GeneratedTheme)
	for _, theme := range resp.Themes {
		byID[theme.ID] = theme
	}

	require.NotNil(t, byID["p-bare"].Address)
	assert.Equal(t, "201 S 2nd St", *byID["p-bare"].Address)
	require.NotNil(t, byID["p-known"].Address)
	assert.Equal(t, "118 Paseo de San Antonio", *byID["p-known"].Address)

	assert.Equal(t, []string{"p-bare"}, details.fetched, "cached addresses skip the lookup")
	assert.Contains(t, repo.merged, "p-bare", "fetched details merge back into the store")
}

func TestGeneratePlanEnrichmentFailureIsNonFatal(t *testing.T) {
	repo := newFakeVenuesRepo(venueAt("p-bare", "Random Pizza Spot", 600, "cafe"))
	details := &fakeDetailsRepo{details: map[string]model.PlaceDetails{}}
	svc := newTestService(t, repo, details)

	resp, err := svc.GeneratePlan(context.Background(), &model.PlanRequest{
		OriginLat:         testOrigin.Lat,
		OriginLng:         testOrigin.Lng,
		Moods:             []string{"cozy"},
		TimeOfDay:         "any",
		MaxDistanceMeters: 1000,
	})
	require.NoError(t, err)
	require.Len(t, resp.Themes, 1)
	assert.Nil(t, resp.Themes[0].Address)
	assert.Empty(t, repo.merged)
}
