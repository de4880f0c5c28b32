// Package strutil provides small string helpers shared by the metadata
// pipeline.
package strutil

import "unicode"

// Truncate shortens s to at most maxLen runes, appending an ellipsis
// marker when anything was cut. Rune-level slicing keeps multi-byte
// characters intact. Returns "" when maxLen <= 0.
func Truncate(s string, maxLen int) string {
	if s == "" || maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// Capitalize upper-cases the first rune of a word.
func Capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(word)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
