package service

import (
	"context"
	"log"
	"sync"

	"DateSpark-App/internal/domain/helper"
	"DateSpark-App/internal/domain/model"
	"DateSpark-App/internal/domain/repository"
)

const (
	// candidateFetchLimit caps a single store query.
	candidateFetchLimit = 50
	// minResultTarget is the floor on how many candidates the ladder tries to
	// accumulate before giving up on further relaxation.
	minResultTarget = 10
	// dynamicRadiusStepMeters is the increment of the dynamic expansion loop.
	dynamicRadiusStepMeters = 2000
	// maxRadiusMeters is the hard cap on dynamic expansion.
	maxRadiusMeters = 10000
	// relaxationLevelDynamic marks results that needed the forced floor pass
	// or the dynamic expansion loop.
	relaxationLevelDynamic = 4
)

// ladderRungs are the progressively looser retrieval configurations, tried in
// order: strict categories at the requested radius, then alias-expanded
// categories at 1x, 2x, and 5x. Breadth is monotonic by construction.
var ladderRungs = []struct {
	expandAliases bool
	radiusFactor  float64
}{
	{expandAliases: false, radiusFactor: 1},
	{expandAliases: true, radiusFactor: 1},
	{expandAliases: true, radiusFactor: 2},
	{expandAliases: true, radiusFactor: 5},
}

// PlanGenerationService is the matching engine's single entry point: it turns
// a plan request into a page of themed results.
type PlanGenerationService interface {
	GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.PlanResponse, error)
}

type planGenerationService struct {
	venuesRepo  repository.VenuesRepository
	detailsRepo repository.PlaceDetailsRepository
	ruleEngine  *VibeRuleEngine
	matcher     *CuratedIdeaMatcher
	fallback    *FallbackGenerator
}

// NewPlanGenerationService wires the engine. detailsRepo may be nil, in which
// case address enrichment is skipped entirely.
func NewPlanGenerationService(
	venuesRepo repository.VenuesRepository,
	detailsRepo repository.PlaceDetailsRepository,
	bank *IdeaBank,
) PlanGenerationService {
	return &planGenerationService{
		venuesRepo:  venuesRepo,
		detailsRepo: detailsRepo,
		ruleEngine:  NewVibeRuleEngine(),
		matcher:     NewCuratedIdeaMatcher(bank),
		fallback:    NewFallbackGenerator(),
	}
}

// GeneratePlan runs the relaxation ladder, resolves missions for the pooled
// candidates, and returns one page. Partial backend failures degrade to
// smaller pools; only an unresolvable category set yields an empty themes
// list, never an error.
func (s *planGenerationService) GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.PlanResponse, error) {
	moods := req.NormalizedMoods()
	timeOfDay := req.NormalizedTimeOfDay()
	origin := req.Origin()
	baseRadius := float64(req.MaxDistanceMeters)

	offset := req.Offset()
	pageSize := req.EffectivePageSize()

	// The pool target must not depend on the cursor: a deeper page reaching for
	// a bigger pool would push the ladder further than the first page did,
	// reshuffle different membership under the same session seed, and repeat
	// venues across pages. Every cursor of a session replays the same breadth.
	target := pageSize
	if target < minResultTarget {
		target = minResultTarget
	}

	// The aliased set is a superset of the strict set; if even it is empty, no
	// rung can produce anything.
	if len(s.ruleEngine.ResolveCategories(moods, timeOfDay, true)) == 0 {
		log.Printf("⚠️ no categories resolve for moods=%v timeOfDay=%s, returning empty plan", moods, timeOfDay)
		return &model.PlanResponse{
			Themes:           []*model.GeneratedTheme{},
			RelaxationLevel:  0,
			RadiusUsedMeters: int(baseRadius),
		}, nil
	}

	pool, level, radiusUsed := s.runRelaxationLadder(ctx, origin, moods, timeOfDay, baseRadius, target)

	pool = helper.DeduplicateVenues(pool)
	helper.ShuffleVenues(pool, helper.SessionSeed(origin, moods, timeOfDay))

	themedPool := s.resolveMissions(pool)

	if req.RequireCuratedOnly {
		kept := themedPool[:0]
		dropped := 0
		for _, tv := range themedPool {
			if tv.mission.IsCurated() {
				kept = append(kept, tv)
			} else {
				dropped++
			}
		}
		themedPool = kept
		if dropped > 0 {
			log.Printf("🔎 curated-only filter dropped %d venues without a curated idea", dropped)
		}
	}

	page := paginate(themedPool, offset, pageSize)

	pageVenues := make([]*model.Venue, len(page))
	for i, tv := range page {
		pageVenues[i] = tv.venue
	}
	s.enrichAddresses(ctx, pageVenues)

	themes := make([]*model.GeneratedTheme, len(page))
	for i, tv := range page {
		distance := helper.HaversineDistanceMeters(origin, tv.venue.ToLatLng())
		themes[i] = model.NewGeneratedTheme(tv.venue, distance, tv.mission)
	}

	var nextCursor *string
	if offset+len(page) < len(themedPool) {
		nextCursor = model.NextCursorFor(offset + len(page))
	}

	return &model.PlanResponse{
		Themes:           themes,
		NextCursor:       nextCursor,
		RelaxationLevel:  level,
		RadiusUsedMeters: radiusUsed,
	}, nil
}

// runRelaxationLadder executes rungs 0-3 sequentially, stopping at the first
// rung whose accumulated pool reaches the target. On underflow it runs a
// guaranteed floor pass at 5x, then the dynamic expansion loop: +2km steps,
// merging new finds, until the target is met or the radius passes the hard
// cap. A failed dynamic fetch breaks the loop rather than retrying.
func (s *planGenerationService) runRelaxationLadder(
	ctx context.Context,
	origin model.LatLng,
	moods []string,
	timeOfDay string,
	baseRadius float64,
	target int,
) ([]*model.Venue, int, int) {
	var pool []*model.Venue

	for i, rung := range ladderRungs {
		categories := s.ruleEngine.ResolveCategories(moods, timeOfDay, rung.expandAliases)
		if len(categories) == 0 {
			continue
		}
		radius := baseRadius * rung.radiusFactor
		venues, err := s.venuesRepo.FindNearbyByCategories(ctx, origin, categories, radius, candidateFetchLimit)
		if err != nil {
			log.Printf("⚠️ ladder rung %d fetch failed: %v", i, err)
			venues = nil
		}
		pool = helper.MergeVenues(pool, venues)
		if len(pool) >= target {
			return pool, i, int(radius)
		}
	}

	// Guaranteed floor: one more 5x pass that runs regardless of how the
	// rungs above fared.
	categories := s.ruleEngine.ResolveCategories(moods, timeOfDay, true)
	radius := baseRadius * 5
	venues, err := s.venuesRepo.FindNearbyByCategories(ctx, origin, categories, radius, candidateFetchLimit)
	if err != nil {
		log.Printf("⚠️ forced floor pass failed: %v", err)
	} else {
		pool = helper.MergeVenues(pool, venues)
	}

	for len(pool) < target {
		next := radius + dynamicRadiusStepMeters
		if next > maxRadiusMeters {
			break
		}
		radius = next
		venues, err := s.venuesRepo.FindNearbyByCategories(ctx, origin, categories, radius, candidateFetchLimit)
		if err != nil {
			// Escape valve: a persistent backend failure must not loop forever.
			log.Printf("⚠️ dynamic expansion fetch at %.0fm failed, stopping: %v", radius, err)
			break
		}
		pool = helper.MergeVenues(pool, venues)
	}

	return pool, relaxationLevelDynamic, int(radius)
}

// themedVenue pairs a pooled venue with its resolved mission.
type themedVenue struct {
	venue   *model.Venue
	mission model.Mission
}

// resolveMissions matches every pooled venue against the idea bank, falling
// back to a generic template. Misses are logged for curation-bank expansion.
func (s *planGenerationService) resolveMissions(pool []*model.Venue) []themedVenue {
	result := make([]themedVenue, 0, len(pool))
	for _, venue := range pool {
		match, miss := s.matcher.Match(venue.Name)
		if match != nil {
			result = append(result, themedVenue{venue: venue, mission: model.NewCuratedMission(*match)})
			continue
		}
		log.Printf("📝 no curated idea for %q (slug=%s tokens=%v)", miss.Name, miss.Slug, miss.Tokens)
		result = append(result, themedVenue{venue: venue, mission: s.fallback.Generate(venue.Name, venue.Categories)})
	}
	return result
}

func paginate(pool []themedVenue, offset, pageSize int) []themedVenue {
	if offset >= len(pool) {
		return nil
	}
	end := offset + pageSize
	if end > len(pool) {
		end = len(pool)
	}
	return pool[offset:end]
}

// enrichAddresses fans out best-effort place-details lookups for venues
// missing an address and merge-writes results back into the store. Failures
// leave the field empty and never block the response.
func (s *planGenerationService) enrichAddresses(ctx context.Context, venues []*model.Venue) {
	if s.detailsRepo == nil {
		return
	}

	var wg sync.WaitGroup
	for _, venue := range venues {
		if venue.HasAddress() {
			continue
		}
		wg.Add(1)
		go func(v *model.Venue) {
			defer wg.Done()
			details, err := s.detailsRepo.FetchDetails(ctx, v.PlaceID)
			if err != nil {
				log.Printf("⚠️ address enrichment failed for %s: %v", v.PlaceID, err)
				return
			}
			v.SetAddress(details.Address)
			v.SetMapsURL(details.MapsURL)
			if err := s.venuesRepo.MergeEnrichment(ctx, v.PlaceID, details.Address, details.MapsURL); err != nil {
				log.Printf("⚠️ enrichment merge-back failed for %s: %v", v.PlaceID, err)
			}
		}(venue)
	}
	wg.Wait()
}
