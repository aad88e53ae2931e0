package helper

import (
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"DateSpark-App/internal/domain/model"
)

// MaxCategoriesPerQuery is the venue store's cap on category disjunctions in a
// single range query (Firestore array-contains-any limit).
const MaxCategoriesPerQuery = 10

// ChunkCategories splits an allowed-category set into store-sized chunks.
func ChunkCategories(categories []string) [][]string {
	if len(categories) == 0 {
		return nil
	}
	var chunks [][]string
	for start := 0; start < len(categories); start += MaxCategoriesPerQuery {
		end := start + MaxCategoriesPerQuery
		if end > len(categories) {
			end = len(categories)
		}
		chunks = append(chunks, categories[start:end])
	}
	return chunks
}

// DeduplicateVenues collapses a candidate list by PlaceID, first occurrence
// wins.
func DeduplicateVenues(venues []*model.Venue) []*model.Venue {
	seen := make(map[string]struct{}, len(venues))
	var result []*model.Venue
	for _, v := range venues {
		if v == nil {
			continue
		}
		if _, ok := seen[v.PlaceID]; ok {
			continue
		}
		seen[v.PlaceID] = struct{}{}
		result = append(result, v)
	}
	return result
}

// MergeVenues folds newly fetched venues into an accumulated set keyed by
// PlaceID, preferring already-known entries (which may carry enrichment).
func MergeVenues(known []*model.Venue, fetched []*model.Venue) []*model.Venue {
	seen := make(map[string]struct{}, len(known))
	for _, v := range known {
		seen[v.PlaceID] = struct{}{}
	}
	result := known
	for _, v := range fetched {
		if v == nil {
			continue
		}
		if _, ok := seen[v.PlaceID]; ok {
			continue
		}
		seen[v.PlaceID] = struct{}{}
		result = append(result, v)
	}
	return result
}

// FilterWithinRadius drops candidates whose true great-circle distance from
// the origin exceeds the radius. The geohash coverage is a superset of the
// circle, so this post-filter is what guarantees the distance invariant.
func FilterWithinRadius(origin model.LatLng, venues []*model.Venue, radiusMeters float64) []*model.Venue {
	var result []*model.Venue
	for _, v := range venues {
		if v == nil {
			continue
		}
		if HaversineDistanceMeters(origin, v.ToLatLng()) <= radiusMeters {
			result = append(result, v)
		}
	}
	return result
}

// ShuffleVenues applies a Fisher-Yates permutation seeded by the session seed,
// interleaving venues matched under different moods. The same seed always
// produces the same ordering, which keeps offset pagination stable within a
// session.
func ShuffleVenues(venues []*model.Venue, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(venues), func(i, j int) {
		venues[i], venues[j] = venues[j], venues[i]
	})
}

// SessionSeed derives a deterministic shuffle seed from the logical session:
// rounded origin, sorted moods, time-of-day, and the current UTC date. Two
// paginated calls for the same session on the same day see one stable
// ordering.
func SessionSeed(origin model.LatLng, moods []string, timeOfDay string) int64 {
	sorted := make([]string, len(moods))
	copy(sorted, moods)
	sort.Strings(sorted)

	h := fnv.New64a()
	h.Write([]byte(roundCoord(origin.Lat)))
	h.Write([]byte(roundCoord(origin.Lng)))
	h.Write([]byte(strings.Join(sorted, ",")))
	h.Write([]byte(timeOfDay))
	h.Write([]byte(time.Now().UTC().Format("2006-01-02")))
	return int64(h.Sum64())
}

// roundCoord snaps a coordinate to a ~11m grid so GPS jitter between calls
// does not change the session seed.
func roundCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', 4, 64)
}
