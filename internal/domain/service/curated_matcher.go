package service

import (
	"DateSpark-App/internal/domain/model"
)

const (
	// fuzzyNoiseThreshold excludes tokens/bigrams appearing in more than this
	// many ideas from scoring; overly common words cause mass false positives.
	fuzzyNoiseThreshold = 10
	// exactAliasBoost is added when an idea's alias normalizes to exactly the
	// query slug.
	exactAliasBoost = 5
	// Acceptance gate: a candidate is accepted when it has at least
	// fuzzyMinCombinedMatches combined token/bigram matches OR a score of at
	// least fuzzyMinScore.
	fuzzyMinCombinedMatches = 2
	fuzzyMinScore           = 3
)

// CuratedIdeaMatcher resolves free-text venue names against the idea bank:
// slug normalization, exact/alias lookup, then a scored fuzzy fallback.
type CuratedIdeaMatcher struct {
	bank *IdeaBank
}

// NewCuratedIdeaMatcher wraps a loaded idea bank.
func NewCuratedIdeaMatcher(bank *IdeaBank) *CuratedIdeaMatcher {
	return &CuratedIdeaMatcher{bank: bank}
}

// Match resolves a raw venue name to a curated idea. On a miss it returns a
// structured UnmatchedVenue record instead of an error, so callers can feed
// curation-bank expansion. Exactly one of the two results is non-nil.
func (m *CuratedIdeaMatcher) Match(venueName string) (*model.CuratedMatch, *model.UnmatchedVenue) {
	slug := Slugify(venueName)
	if slug == "" {
		return nil, &model.UnmatchedVenue{Name: venueName, Slug: slug}
	}

	if idea := m.bank.LookupExact(slug); idea != nil {
		return matchFor(idea), nil
	}

	tokens := TokenizeSlug(slug)
	if idea := m.fuzzyMatch(slug, tokens); idea != nil {
		return matchFor(idea), nil
	}

	return nil, &model.UnmatchedVenue{Name: venueName, Slug: slug, Tokens: tokens}
}

func matchFor(idea *model.CuratedIdea) *model.CuratedMatch {
	return &model.CuratedMatch{
		Slug:        idea.Slug,
		Action:      idea.Action,
		PhotoPrompt: idea.PhotoPrompt,
	}
}

// fuzzyMatch scores every idea against the query tokens/bigrams and returns
// the best candidate that clears the acceptance gate, or nil.
func (m *CuratedIdeaMatcher) fuzzyMatch(slug string, tokens []string) *model.CuratedIdea {
	bigrams := BigramsOf(tokens)

	var best *model.CuratedIdea
	bestScore, bestBigrams, bestTokens := 0, 0, 0

	// entries are slug-sorted, so equal-scoring candidates resolve to the
	// lexicographically smaller slug.
	for _, entry := range m.bank.entries {
		tokenMatches := 0
		for _, t := range tokens {
			if _, ok := entry.tokens[t]; !ok {
				continue
			}
			if m.bank.tokenDF[t] > fuzzyNoiseThreshold {
				continue
			}
			tokenMatches++
		}

		bigramMatches := 0
		for _, bg := range bigrams {
			if _, ok := entry.bigrams[bg]; !ok {
				continue
			}
			if m.bank.bigramDF[bg] > fuzzyNoiseThreshold {
				continue
			}
			bigramMatches++
		}

		score := tokenMatches + 2*bigramMatches
		for _, alias := range entry.idea.Aliases {
			if Slugify(alias) == slug {
				score += exactAliasBoost
				break
			}
		}

		if tokenMatches+bigramMatches < fuzzyMinCombinedMatches && score < fuzzyMinScore {
			continue
		}

		if score > bestScore ||
			(score == bestScore && bigramMatches > bestBigrams) ||
			(score == bestScore && bigramMatches == bestBigrams && tokenMatches > bestTokens) {
			best = entry.idea
			bestScore, bestBigrams, bestTokens = score, bigramMatches, tokenMatches
		}
	}

	return best
}
