package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes a venue name into its canonical lookup key: lower-case,
// diacritics transliterated away, "&"/"+" mapped to "and", every run of
// non-alphanumerics collapsed to a single underscore, edges trimmed.
// Slugify is idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(name string) string {
	s := strings.ToLower(name)

	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "+", " and ")

	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := true // trims leading separators
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// slugStopwords are tokens excluded from fuzzy matching: city names around
// campus, generic venue words, and street-type suffixes. They carry no signal
// about which curated idea a name refers to.
var slugStopwords = map[string]struct{}{
	// city names
	"san": {}, "jose": {}, "sj": {}, "santa": {}, "clara": {},
	"sunnyvale": {}, "campbell": {}, "cupertino": {}, "milpitas": {},
	// generic venue words
	"bar": {}, "cafe": {}, "coffee": {}, "shop": {}, "store": {},
	"market": {}, "restaurant": {}, "kitchen": {}, "house": {},
	"lounge": {}, "club": {}, "co": {}, "the": {},
	// street-type suffixes
	"st": {}, "street": {}, "ave": {}, "avenue": {}, "blvd": {},
	"boulevard": {}, "rd": {}, "road": {}, "dr": {}, "drive": {},
	"way": {}, "plaza": {},
}

// TokenizeSlug splits a slug into scoring tokens with stopwords removed.
func TokenizeSlug(slug string) []string {
	var tokens []string
	for _, t := range strings.Split(slug, "_") {
		if t == "" {
			continue
		}
		if _, stop := slugStopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// BigramsOf builds adjacent token pairs, rewarding multi-word phrase matches
// over isolated word hits.
func BigramsOf(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	bigrams := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		bigrams = append(bigrams, tokens[i]+"_"+tokens[i+1])
	}
	return bigrams
}
