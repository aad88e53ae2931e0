package model

import "fmt"

// MissionSource tags where a theme's action/photo pairing came from.
type MissionSource string

const (
	MissionSourceCurated  MissionSource = "curated"
	MissionSourceFallback MissionSource = "fallback"
)

// Mission is the action/photo-prompt content of a theme, tagged by origin.
// Slug is only set for curated missions.
type Mission struct {
	Source      MissionSource
	Slug        string
	Action      string
	PhotoPrompt string
}

// NewCuratedMission builds a mission from an idea-bank match.
func NewCuratedMission(match CuratedMatch) Mission {
	return Mission{
		Source:      MissionSourceCurated,
		Slug:        match.Slug,
		Action:      match.Action,
		PhotoPrompt: match.PhotoPrompt,
	}
}

// NewFallbackMission builds a generic mission for venues without a curated idea.
func NewFallbackMission(action, photoPrompt string) Mission {
	return Mission{
		Source:      MissionSourceFallback,
		Action:      action,
		PhotoPrompt: photoPrompt,
	}
}

// IsCurated reports whether the mission came from the curated idea bank.
func (m Mission) IsCurated() bool {
	return m.Source == MissionSourceCurated
}

// Lines renders the mission as the two lines shown on a theme card.
func (m Mission) Lines() []string {
	return []string{m.Action, fmt.Sprintf("Photo Idea: %s", m.PhotoPrompt)}
}

// GeneratedTheme is one assembled result card: a venue plus its mission.
// ID equals the venue's PlaceID; within one response IDs are unique.
type GeneratedTheme struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	VenueName      string   `json:"venue_name"`
	PhotoURL       string   `json:"photo_url"`
	DistanceMeters int      `json:"distance_meters"`
	Address        *string  `json:"address"`
	Missions       []string `json:"missions"`
	Curated        bool     `json:"curated"`
	MatchedSlug    string   `json:"matched_slug,omitempty"`
}

// NewGeneratedTheme assembles a theme card from a venue, its true distance in
// meters, and the mission resolved for it.
func NewGeneratedTheme(venue *Venue, distanceMeters float64, mission Mission) *GeneratedTheme {
	return &GeneratedTheme{
		ID:             venue.PlaceID,
		Title:          fmt.Sprintf("Date Quest: %s", venue.Name),
		VenueName:      venue.Name,
		PhotoURL:       venue.PhotoURL,
		DistanceMeters: int(distanceMeters + 0.5),
		Address:        venue.Address,
		Missions:       mission.Lines(),
		Curated:        mission.IsCurated(),
		MatchedSlug:    mission.Slug,
	}
}
