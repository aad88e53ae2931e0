package model

import (
	"strconv"
	"strings"
)

// DefaultPageSize is applied when the caller omits page_size.
const DefaultPageSize = 10

// PlanRequest holds every condition needed to generate a page of date themes.
type PlanRequest struct {
	OriginLat          float64  `json:"origin_lat"`
	OriginLng          float64  `json:"origin_lng"`
	Moods              []string `json:"moods"`
	TimeOfDay          string   `json:"time_of_day"`
	MaxDistanceMeters  int      `json:"max_distance_meters"`
	PageCursor         string   `json:"page_cursor,omitempty"`
	PageSize           int      `json:"page_size,omitempty"`
	RequireCuratedOnly bool     `json:"require_curated_only,omitempty"`
}

// Origin returns the request origin as a LatLng.
func (r *PlanRequest) Origin() LatLng {
	return LatLng{Lat: r.OriginLat, Lng: r.OriginLng}
}

// NormalizedMoods returns the mood tokens lower-cased and trimmed, dropping
// empties. Rule lookups are keyed on this form.
func (r *PlanRequest) NormalizedMoods() []string {
	moods := make([]string, 0, len(r.Moods))
	for _, m := range r.Moods {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			moods = append(moods, m)
		}
	}
	return moods
}

// NormalizedTimeOfDay returns the time-of-day token lower-cased, defaulting to
// "any" when absent.
func (r *PlanRequest) NormalizedTimeOfDay() string {
	tod := strings.ToLower(strings.TrimSpace(r.TimeOfDay))
	if tod == "" {
		return TimeOfDayAny
	}
	return tod
}

// Offset parses the page cursor as a list offset. An absent or malformed
// cursor means the first page.
func (r *PlanRequest) Offset() int {
	if r.PageCursor == "" {
		return 0
	}
	offset, err := strconv.Atoi(r.PageCursor)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// EffectivePageSize returns the requested page size or the default.
func (r *PlanRequest) EffectivePageSize() int {
	if r.PageSize <= 0 {
		return DefaultPageSize
	}
	return r.PageSize
}

// PlanResponse is the paginated engine output.
type PlanResponse struct {
	Themes           []*GeneratedTheme `json:"themes"`
	NextCursor       *string           `json:"next_cursor"`
	RelaxationLevel  int               `json:"relaxation_level"`
	RadiusUsedMeters int               `json:"radius_used_meters"`
}

// NextCursorFor formats the follow-up cursor for a given offset.
func NextCursorFor(offset int) *string {
	cursor := strconv.Itoa(offset)
	return &cursor
}
