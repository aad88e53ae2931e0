package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"DateSpark-App/internal/domain/model"
)

func TestFallbackGeneratorCategoryTemplates(t *testing.T) {
	generator := NewFallbackGenerator()

	cases := []struct {
		label      string
		categories []string
		fragment   string
	}{
		{label: "arcade", categories: []string{"barcade"}, fragment: "battle it out"},
		{label: "bar", categories: []string{"wine bar"}, fragment: "based only on vibes"},
		{label: "cafe", categories: []string{"bubble tea shop"}, fragment: "most unusual thing"},
		{label: "restaurant", categories: []string{"restaurant"}, fragment: "exactly one trade"},
		{label: "unmatched", categories: []string{"planetarium"}, fragment: "would never notice"},
		{label: "no categories", categories: nil, fragment: "would never notice"},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			mission := generator.Generate("Test Venue", tc.categories)
			assert.Equal(t, model.MissionSourceFallback, mission.Source)
			assert.Contains(t, mission.Action, tc.fragment)
			assert.NotEmpty(t, mission.PhotoPrompt)
			assert.Empty(t, mission.Slug)
		})
	}
}

func TestFallbackGeneratorTemplateOrder(t *testing.T) {
	generator := NewFallbackGenerator()

	// A barcade carries both arcade-like and bar-like tags; the arcade template
	// is listed first and must win.
	mission := generator.Generate("Quarters", []string{"bar", "arcade"})
	assert.Contains(t, mission.Action, "battle it out")
}

func TestFallbackGeneratorEmbedsVenueName(t *testing.T) {
	generator := NewFallbackGenerator()

	mission := generator.Generate("Pho Palace", []string{"restaurant"})
	assert.Contains(t, mission.Action, "Pho Palace")
}

func TestFallbackGeneratorKeywordMatchIsCaseInsensitive(t *testing.T) {
	generator := NewFallbackGenerator()

	mission := generator.Generate("Quarters", []string{"ARCADE"})
	assert.Contains(t, mission.Action, "battle it out")
}

func TestMissionLines(t *testing.T) {
	mission := model.NewFallbackMission("Do the thing.", "Snap the thing.")
	lines := mission.Lines()
	assert.Equal(t, "Do the thing.", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Photo Idea: "))
}
