package service

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"DateSpark-App/internal/domain/model"
)

//go:embed data/curated_ideas.json
var curatedIdeasJSON []byte

// citySuffixes are appended and stripped when deriving alias variants, so
// "tea_alley" also answers to "tea_alley_san_jose" and vice versa.
var citySuffixes = []string{"_san_jose", "_sj"}

// ideaIndexEntry is the precomputed fuzzy-match document for one idea.
type ideaIndexEntry struct {
	idea    *model.CuratedIdea
	tokens  map[string]struct{}
	bigrams map[string]struct{}
}

// IdeaBank holds the curated ideas, the derived alias lookup map, and the
// token/bigram index backing the fuzzy matcher. It is built once at startup
// and immutable afterwards.
type IdeaBank struct {
	ideas    []model.CuratedIdea
	aliasMap map[string]*model.CuratedIdea
	entries  []ideaIndexEntry
	tokenDF  map[string]int
	bigramDF map[string]int
}

// NewIdeaBank loads the bank embedded in the binary.
func NewIdeaBank() (*IdeaBank, error) {
	return NewIdeaBankFromJSON(curatedIdeasJSON)
}

// NewIdeaBankFromJSON builds a bank from raw JSON. The parse is tolerant: if
// the file is not a well-formed array, every well-formed top-level object is
// still extracted so one corrupted entry cannot take down the whole bank.
func NewIdeaBankFromJSON(data []byte) (*IdeaBank, error) {
	ideas, err := parseIdeas(data)
	if err != nil {
		return nil, fmt.Errorf("loading curated idea bank: %w", err)
	}
	if len(ideas) == 0 {
		return nil, errors.New("curated idea bank is empty")
	}

	bank := &IdeaBank{
		ideas:    ideas,
		aliasMap: make(map[string]*model.CuratedIdea),
		tokenDF:  make(map[string]int),
		bigramDF: make(map[string]int),
	}
	bank.buildAliasMap()
	bank.buildFuzzyIndex()
	return bank, nil
}

// Size returns the number of loaded ideas.
func (b *IdeaBank) Size() int {
	return len(b.ideas)
}

// LookupExact resolves a slug through the precomputed alias map.
func (b *IdeaBank) LookupExact(slug string) *model.CuratedIdea {
	return b.aliasMap[slug]
}

// parseIdeas tries the strict decode first and falls back to scanning for
// individual objects when the surrounding structure is corrupted.
func parseIdeas(data []byte) ([]model.CuratedIdea, error) {
	var ideas []model.CuratedIdea
	if err := json.Unmarshal(data, &ideas); err == nil {
		return validIdeas(ideas), nil
	}

	log.Printf("⚠️ curated idea bank is not valid JSON, scanning for recoverable entries")
	var recovered []model.CuratedIdea
	for _, raw := range scanTopLevelObjects(data) {
		var idea model.CuratedIdea
		if err := json.Unmarshal(raw, &idea); err != nil {
			continue
		}
		recovered = append(recovered, idea)
	}
	recovered = validIdeas(recovered)
	if len(recovered) == 0 {
		return nil, errors.New("no recoverable idea objects found")
	}
	log.Printf("✅ recovered %d curated ideas from corrupted bank", len(recovered))
	return recovered, nil
}

func validIdeas(ideas []model.CuratedIdea) []model.CuratedIdea {
	var valid []model.CuratedIdea
	for _, idea := range ideas {
		if idea.Slug == "" || idea.Action == "" || idea.PhotoPrompt == "" {
			continue
		}
		valid = append(valid, idea)
	}
	return valid
}

// scanTopLevelObjects walks the bytes and returns every balanced top-level
// {...} span, tracking string literals and escapes so braces inside values do
// not confuse the depth count.
func scanTopLevelObjects(data []byte) [][]byte {
	var objects [][]byte
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue // stray closer, skip
			}
			depth--
			if depth == 0 && start >= 0 {
				objects = append(objects, data[start:i+1])
				start = -1
			}
		}
	}
	return objects
}

// buildAliasMap registers every idea under its own slug, its manual aliases,
// and auto-derived connector and city-suffix variants. First registration
// wins, keyed on idea order in the bank file.
func (b *IdeaBank) buildAliasMap() {
	for i := range b.ideas {
		idea := &b.ideas[i]

		keys := []string{Slugify(idea.Slug)}
		for _, alias := range idea.Aliases {
			keys = append(keys, Slugify(alias))
		}

		var expanded []string
		for _, key := range keys {
			expanded = append(expanded, key)
			expanded = append(expanded, connectorVariants(key)...)
		}
		for _, key := range expanded {
			b.register(key, idea)
			for _, variant := range citySuffixVariants(key) {
				b.register(variant, idea)
			}
		}
	}
}

func (b *IdeaBank) register(slug string, idea *model.CuratedIdea) {
	if slug == "" {
		return
	}
	if _, exists := b.aliasMap[slug]; exists {
		return
	}
	b.aliasMap[slug] = idea
}

// connectorVariants swaps "_and_" <-> "_n_" and drops the connector entirely,
// so "tea_and_alley", "tea_n_alley", and "tea_alley" all resolve to one idea.
func connectorVariants(slug string) []string {
	var variants []string
	if strings.Contains(slug, "_and_") {
		variants = append(variants,
			strings.ReplaceAll(slug, "_and_", "_n_"),
			strings.ReplaceAll(slug, "_and_", "_"),
		)
	}
	if strings.Contains(slug, "_n_") {
		variants = append(variants,
			strings.ReplaceAll(slug, "_n_", "_and_"),
			strings.ReplaceAll(slug, "_n_", "_"),
		)
	}
	return variants
}

// citySuffixVariants adds and strips the campus city suffixes in both
// directions.
func citySuffixVariants(slug string) []string {
	var variants []string
	for _, suffix := range citySuffixes {
		if strings.HasSuffix(slug, suffix) {
			variants = append(variants, strings.TrimSuffix(slug, suffix))
		} else {
			variants = append(variants, slug+suffix)
		}
	}
	return variants
}

// buildFuzzyIndex tokenizes every idea (slug plus manual aliases) and computes
// token/bigram document frequencies across the bank. Entries are sorted by
// slug so score ties break deterministically.
func (b *IdeaBank) buildFuzzyIndex() {
	for i := range b.ideas {
		idea := &b.ideas[i]
		entry := ideaIndexEntry{
			idea:    idea,
			tokens:  make(map[string]struct{}),
			bigrams: make(map[string]struct{}),
		}

		sources := append([]string{idea.Slug}, idea.Aliases...)
		for _, source := range sources {
			tokens := TokenizeSlug(Slugify(source))
			for _, t := range tokens {
				entry.tokens[t] = struct{}{}
			}
			for _, bg := range BigramsOf(tokens) {
				entry.bigrams[bg] = struct{}{}
			}
		}
		b.entries = append(b.entries, entry)
	}

	sort.Slice(b.entries, func(i, j int) bool {
		return b.entries[i].idea.Slug < b.entries[j].idea.Slug
	})

	for _, entry := range b.entries {
		for t := range entry.tokens {
			b.tokenDF[t]++
		}
		for bg := range entry.bigrams {
			b.bigramDF[bg]++
		}
	}
}
