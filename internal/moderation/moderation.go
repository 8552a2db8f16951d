// Package moderation screens user-supplied text for prohibited content.
// Listing descriptions and blog comments pass through a Moderator before
// they are persisted.
package moderation

import (
	"strings"
	"unicode"
)

// Moderator decides whether a piece of text is acceptable for publication.
type Moderator interface {
	// Acceptable reports whether the text passes moderation. Implementations
	// must be safe for concurrent use.
	Acceptable(text string) bool
}

// LexiconModerator rejects text containing any term from a fixed blocklist.
// Matching is case-insensitive and token-based, so "scrap" does not flag
// "scrapbook".
type LexiconModerator struct {
	blocked map[string]struct{}
}

// defaultBlocklist covers terms that make a marketplace listing unacceptable.
var defaultBlocklist = []string{
	"counterfeit",
	"stolen",
	"contraband",
	"narcotics",
	"weapon",
	"firearm",
	"explosive",
	"scam",
	"fraud",
	"phishing",
}

// NewLexiconModerator builds a moderator from the given terms. With no terms
// it falls back to the default blocklist.
func NewLexiconModerator(terms ...string) *LexiconModerator {
	if len(terms) == 0 {
		terms = defaultBlocklist
	}
	blocked := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			blocked[t] = struct{}{}
		}
	}
	return &LexiconModerator{blocked: blocked}
}

// Acceptable reports whether no blocked term appears as a token in the text.
func (m *LexiconModerator) Acceptable(text string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, tok := range tokens {
		if _, ok := m.blocked[tok]; ok {
			return false
		}
	}
	return true
}

// AllowAll is a Moderator that accepts everything. Useful in tests and in
// deployments that disable content screening.
type AllowAll struct{}

// Acceptable always returns true.
func (AllowAll) Acceptable(string) bool { return true }
