package dataprocessing

import (
	"strings"
)

// categoryRule maps a lowercase substring of the raw scheme name to its
// canonical uppercase category label.
type categoryRule struct {
	pattern   string
	canonical string
}

// categoryRules is evaluated in order and the first matching substring wins.
// Order matters where patterns overlap: "large & mid cap fund" contains
// "mid cap fund" and must come first.
// The canonical labels must match the literal strings in the downstream
// large/midcap bucket exactly, or records silently fall out of both summary
// buckets.
var categoryRules = []categoryRule{
	{"multi cap fund", "MULTI CAP FUND"},
	{"large cap fund", "LARGE CAP FUND"},
	{"large & mid cap fund", "LARGE & MID CAP FUND"},
	{"mid cap fund", "MID CAP FUND"},
	{"small cap fund", "SMALL CAP FUND"},
	{"dividend yield fund", "DIVIDEND YIELD FUND"},
	{"value fund/contra fund", "VALUE FUND/CONTRA FUND"},
	{"focused fund", "FOCUSED FUND"},
	{"sectoral/thematic", "SECTORAL/THEMATIC FUNDS"},
	{"elss", "ELSS"},
	{"flexi cap fund", "FLEXI CAP FUND"},
}

// CategoryStandardizer maps raw scheme-name text to a canonical category
// label. It is total: every non-empty input yields a non-empty label.
type CategoryStandardizer struct {
	rules []categoryRule
}

// NewCategoryStandardizer returns a standardizer with the AMFI category table.
func NewCategoryStandardizer() *CategoryStandardizer {
	return &CategoryStandardizer{rules: categoryRules}
}

// Standardize returns the canonical label for a raw scheme name. Unmatched
// names fall back to a title-cased copy of the trimmed input, so unmapped
// categories pass through rather than failing — at the cost of labels outside
// the fixed enumeration reaching downstream aggregation.
func (s *CategoryStandardizer) Standardize(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range s.rules {
		if strings.Contains(lower, rule.pattern) {
			return rule.canonical
		}
	}
	return titleCase(strings.TrimSpace(raw))
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest, matching the fallback labelling used historically.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
