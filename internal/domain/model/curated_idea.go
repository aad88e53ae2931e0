package model

// CuratedIdea is one hand-authored entry of the idea bank: a canonical slug,
// optional manual aliases, and the action/photo-prompt pairing shown to users.
// Ideas are immutable after the bank is loaded at startup.
type CuratedIdea struct {
	Slug        string   `json:"slug"`
	Aliases     []string `json:"aliases,omitempty"`
	Action      string   `json:"action"`
	PhotoPrompt string   `json:"photo_prompt"`
}

// CuratedMatch is the result of resolving a venue name against the idea bank.
type CuratedMatch struct {
	Slug        string
	Action      string
	PhotoPrompt string
}

// UnmatchedVenue records a venue name the matcher could not resolve.
// Collected for later expansion of the idea bank, never surfaced as an error.
type UnmatchedVenue struct {
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	Tokens []string `json:"tokens"`
}
