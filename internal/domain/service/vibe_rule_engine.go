package service

import (
	"DateSpark-App/internal/domain/model"
)

// VibeRuleEngine resolves a mood set plus a time-of-day token into the union
// of allowed venue categories. All lookup tables are built once at
// construction and never mutated.
type VibeRuleEngine struct {
	rules    model.VibeRuleTable
	defaults map[string][]string
	aliases  map[string][]string
}

// NewVibeRuleEngine builds the engine with the built-in rule table, default
// mood map, and category alias map.
func NewVibeRuleEngine() *VibeRuleEngine {
	return &VibeRuleEngine{
		rules:    model.NewVibeRuleTable(),
		defaults: model.NewDefaultMoodCategories(),
		aliases:  model.NewCategoryAliases(),
	}
}

// ResolveCategories returns the allowed categories for the given moods and
// time-of-day. Per mood: the exact time-of-day bucket wins, else the "any"
// bucket, else the built-in default map. Moods resolving to nothing contribute
// nothing; an overall empty result means zero venues, not an error.
//
// expandAliases additionally admits each resolved category's alias categories;
// this is the relaxation ladder's "include aliases" rung.
func (e *VibeRuleEngine) ResolveCategories(moods []string, timeOfDay string, expandAliases bool) []string {
	var categories []string
	seen := make(map[string]struct{})

	add := func(cats []string) {
		for _, c := range cats {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}

	for _, mood := range moods {
		if buckets, ok := e.rules[mood]; ok {
			if cats, ok := buckets[timeOfDay]; ok {
				add(cats)
				continue
			}
			if cats, ok := buckets[model.TimeOfDayAny]; ok {
				add(cats)
			}
			continue
		}
		if cats, ok := e.defaults[mood]; ok {
			add(cats)
		}
	}

	if expandAliases {
		// Expand over a snapshot so aliases of aliases are not chained.
		base := make([]string, len(categories))
		copy(base, categories)
		for _, c := range base {
			if extra, ok := e.aliases[c]; ok {
				add(extra)
			}
		}
	}

	return categories
}
