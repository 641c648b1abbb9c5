// Package match ranks catalog candidates against a searched title.
package match

import "strings"

// punctuation is the set of characters treated as word separators when
// comparing titles. Covers the usual subtitle and possessive noise
// ("Dark Souls: Remastered", "Assassin's Creed").
const punctuation = ":-'.!?&,"

// Normalize lowers a title and strips comparison-irrelevant punctuation so
// that spelling variants compare equal. It is idempotent and total, and is
// used only for scoring — never as a cache key.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
