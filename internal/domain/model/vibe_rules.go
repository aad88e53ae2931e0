package model

// Time-of-day tokens accepted by the rule table. TimeOfDayAny is the
// fallback bucket consulted when a mood has no entry for the exact token.
const (
	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
	TimeOfDayNight     = "night"
	TimeOfDayAny       = "any"
)

// Mood tokens with explicit rule-table entries.
const (
	MoodCozy        = "cozy"
	MoodAdventurous = "adventurous"
	MoodArtsy       = "artsy"
	MoodFoodie      = "foodie"
	MoodRomantic    = "romantic"
	MoodPlayful     = "playful"
	MoodOutdoorsy   = "outdoorsy"
	MoodStudyBreak  = "study break"
)

// VibeRuleTable maps mood -> time-of-day -> allowed venue categories.
type VibeRuleTable map[string]map[string][]string

// NewVibeRuleTable builds the mood/time-of-day category rules. Construction is
// a pure function run once at startup; the returned table is never mutated.
func NewVibeRuleTable() VibeRuleTable {
	return VibeRuleTable{
		MoodCozy: {
			TimeOfDayMorning: {"cafe", "bakery", "bookstore"},
			TimeOfDayEvening: {"cafe", "dessert shop", "bubble tea shop"},
			TimeOfDayAny:     {"cafe", "bookstore", "bubble tea shop", "dessert shop"},
		},
		MoodAdventurous: {
			TimeOfDayEvening: {"arcade", "karaoke", "bowling alley", "escape room"},
			TimeOfDayAny:     {"arcade", "mini golf", "climbing gym", "escape room", "bowling alley"},
		},
		MoodArtsy: {
			TimeOfDayAfternoon: {"art gallery", "museum", "record store"},
			TimeOfDayAny:       {"art gallery", "museum", "record store", "thrift store", "bookstore"},
		},
		MoodFoodie: {
			TimeOfDayMorning: {"bakery", "cafe", "farmers market"},
			TimeOfDayNight:   {"restaurant", "night market", "dessert shop"},
			TimeOfDayAny:     {"restaurant", "food hall", "farmers market", "dessert shop"},
		},
		MoodRomantic: {
			TimeOfDayEvening: {"restaurant", "wine bar", "rooftop bar"},
			TimeOfDayAny:     {"garden", "scenic viewpoint", "restaurant", "wine bar"},
		},
		MoodPlayful: {
			TimeOfDayAny: {"arcade", "mini golf", "bowling alley", "karaoke", "ice cream shop"},
		},
		MoodOutdoorsy: {
			TimeOfDayMorning: {"park", "trailhead", "garden"},
			TimeOfDayAny:     {"park", "garden", "trailhead", "scenic viewpoint"},
		},
		MoodStudyBreak: {
			TimeOfDayAny: {"cafe", "bubble tea shop", "bookstore", "ice cream shop"},
		},
	}
}

// NewDefaultMoodCategories builds the small built-in category map consulted
// when a mood has no rule-table entry at all.
func NewDefaultMoodCategories() map[string][]string {
	return map[string][]string{
		"arcade":     {"arcade"},
		"boba":       {"bubble tea shop"},
		"coffee":     {"cafe"},
		"dessert":    {"dessert shop", "ice cream shop"},
		"late night": {"restaurant", "karaoke", "arcade"},
		"chill":      {"cafe", "park", "bookstore"},
	}
}

// NewCategoryAliases builds the alias-expansion map: a category admits its
// alias categories when the relaxation ladder turns alias expansion on.
func NewCategoryAliases() map[string][]string {
	return map[string][]string{
		"bubble tea shop": {"cafe", "dessert shop"},
		"arcade":          {"barcade", "video game store"},
		"cafe":            {"coffee shop", "tea house"},
		"wine bar":        {"brewery", "cocktail bar"},
		"art gallery":     {"artist studio"},
		"park":            {"plaza", "garden"},
		"restaurant":      {"food hall", "diner"},
	}
}

// SupportedMoods lists every mood with an explicit rule or built-in default,
// for the discovery endpoint.
func SupportedMoods() []string {
	return []string{
		MoodCozy,
		MoodAdventurous,
		MoodArtsy,
		MoodFoodie,
		MoodRomantic,
		MoodPlayful,
		MoodOutdoorsy,
		MoodStudyBreak,
		"arcade",
		"boba",
		"coffee",
		"dessert",
		"late night",
		"chill",
	}
}

// SupportedTimesOfDay lists the accepted time-of-day tokens.
func SupportedTimesOfDay() []string {
	return []string{
		TimeOfDayMorning,
		TimeOfDayAfternoon,
		TimeOfDayEvening,
		TimeOfDayNight,
		TimeOfDayAny,
	}
}
