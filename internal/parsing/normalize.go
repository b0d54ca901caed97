// Package parsing provides text normalization shared by the analyzer and its collaborators.
package parsing

import "strings"

// CollapseWhitespace replaces every run of Unicode whitespace (including
// non-breaking and em spaces) with a single space and trims both ends. Case is
// preserved.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Normalize collapses whitespace, trims, and lowercases text for matching.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) string {
	return strings.ToLower(CollapseWhitespace(text))
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
