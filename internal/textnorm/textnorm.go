// internal/textnorm/textnorm.go

// Package textnorm folds Vietnamese text for accent and case insensitive
// matching, so that "da nang" finds "Đà Nẵng".
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dStroke maps the Vietnamese d with stroke, which has no Unicode
// decomposition, onto a plain d.
var dStroke = runes.Map(func(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	}
	return r
})

// Normalize lower-cases s, strips diacritics and collapses whitespace
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// Chains keep per-call state, so build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), dStroke, norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Matches reports whether the normalized haystack contains the normalized
// needle. An empty needle matches everything.
func Matches(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), n)
}

// MatchesAny reports whether any of the fields matches the needle
func MatchesAny(needle string, fields ...string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Normalize(f), n) {
			return true
		}
	}
	return false
}
