package service

import (
	"fmt"
	"strings"

	"DateSpark-App/internal/domain/model"
)

// fallbackTemplate pairs a category predicate with its templated mission.
type fallbackTemplate struct {
	keywords []string
	action   func(name string) string
	photo    func(name string) string
}

// FallbackGenerator produces a generic action/photo pairing for venues with no
// curated idea, keyed off a small ordered set of category-keyword predicates.
type FallbackGenerator struct {
	templates []fallbackTemplate
}

// NewFallbackGenerator builds the ordered template set. Order matters: the
// first predicate whose keywords intersect the venue's categories wins, and
// the final template is unconditional.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{
		templates: []fallbackTemplate{
			{
				keywords: []string{"arcade", "barcade", "video game", "bowling", "karaoke", "mini golf", "escape room"},
				action: func(name string) string {
					return fmt.Sprintf("Pick a game at %s and battle it out. Loser plans the next date.", name)
				},
				photo: func(name string) string {
					return "Victory pose next to the final score."
				},
			},
			{
				keywords: []string{"bar", "brewery", "pub", "lounge", "cocktail", "wine"},
				action: func(name string) string {
					return fmt.Sprintf("Order for each other at %s based only on vibes, then defend your choice.", name)
				},
				photo: func(name string) string {
					return "Cheers shot with both drinks mid-clink."
				},
			},
			{
				keywords: []string{"cafe", "coffee", "tea", "boba", "bubble", "dessert", "bakery", "ice cream"},
				action: func(name string) string {
					return fmt.Sprintf("Try the most unusual thing on the menu at %s and rate it out of ten.", name)
				},
				photo: func(name string) string {
					return "First-bite reaction faces, side by side."
				},
			},
			{
				keywords: []string{"restaurant", "food", "diner", "kitchen", "grill", "market", "taqueria", "noodle"},
				action: func(name string) string {
					return fmt.Sprintf("Order two different dishes at %s and negotiate exactly one trade.", name)
				},
				photo: func(name string) string {
					return "Overhead shot of the table before anyone touches the food."
				},
			},
		},
	}
}

// Generate returns a category-aware mission for the venue. Never returns an
// empty mission: an unconditional final template covers unmatched categories.
func (g *FallbackGenerator) Generate(venueName string, categories []string) model.Mission {
	lowered := make([]string, len(categories))
	for i, c := range categories {
		lowered[i] = strings.ToLower(c)
	}

	for _, tpl := range g.templates {
		if categoriesMatchAny(lowered, tpl.keywords) {
			return model.NewFallbackMission(tpl.action(venueName), tpl.photo(venueName))
		}
	}

	return model.NewFallbackMission(
		fmt.Sprintf("Explore %s together and each find one thing the other would never notice.", venueName),
		"Candid shot of your favorite discovery.",
	)
}

func categoriesMatchAny(categories []string, keywords []string) bool {
	for _, cat := range categories {
		for _, kw := range keywords {
			if strings.Contains(cat, kw) {
				return true
			}
		}
	}
	return false
}
