package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// termMatcher finds taxonomy terms in normalized text. Compiled patterns are
// read-only after construction so a matcher is safe for concurrent use.
type termMatcher struct {
	terms    []string
	patterns []*regexp.Regexp
}

// wordEdge is a word boundary that also works for terms starting or ending in
// punctuation such as "c++", "c#" or ".net".
const wordEdge = `[^\pL\pN_]`

// newWordMatcher matches terms as whole words.
func newWordMatcher(terms []string) *termMatcher {
	m := &termMatcher{
		terms:    terms,
		patterns: make([]*regexp.Regexp, len(terms)),
	}
	for i, term := range terms {
		m.patterns[i] = regexp.MustCompile(`(?:^|` + wordEdge + `)` + regexp.QuoteMeta(term) + `(?:$|` + wordEdge + `)`)
	}
	return m
}

// newSubstringMatcher matches terms anywhere in the text.
func newSubstringMatcher(terms []string) *termMatcher {
	return &termMatcher{terms: terms}
}

func (m *termMatcher) matches(i int, text string) bool {
	if m.patterns != nil {
		return m.patterns[i].MatchString(text)
	}
	return strings.Contains(text, m.terms[i])
}

// find returns the sorted set of terms present in normalized text.
// Empty text yields an empty, non-nil slice.
func (m *termMatcher) find(text string) []string {
	found := make([]string, 0)
	if text == "" {
		return found
	}
	for i, term := range m.terms {
		if m.matches(i, text) {
			found = append(found, term)
		}
	}
	sort.Strings(found)
	return found
}

// any reports whether at least one term is present.
func (m *termMatcher) any(text string) bool {
	if text == "" {
		return false
	}
	for i := range m.terms {
		if m.matches(i, text) {
			return true
		}
	}
	return false
}
