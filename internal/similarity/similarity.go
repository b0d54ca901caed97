// Package similarity provides the semantic similarity capabilities consumed
// by the analyzer: an embedding-based scorer, an offline lexical scorer, and a
// throttling wrapper for shared use across requests.
package similarity

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// Cosine returns the cosine of the angle between a and b, or 0 when either
// vector is empty, zero, or the lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// toPercent maps a cosine to [0, 100] rounded to two decimals. Negative
// cosines count as unrelated.
func toPercent(cosine float64) float64 {
	if math.IsNaN(cosine) {
		return 0
	}
	v := math.Max(0, math.Min(1, cosine)) * 100
	return math.Round(v*100) / 100
}

// Lexical scores texts by the cosine of their term-frequency vectors. It needs
// no network access and is deterministic.
type Lexical struct{}

// Similarity implements analysis.Similarity.
func (Lexical) Similarity(_ context.Context, a, b string) (float64, error) {
	ta, tb := termFrequencies(a), termFrequencies(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0, nil
	}

	va := make([]float64, 0, len(ta))
	vb := make([]float64, 0, len(ta))
	for term, n := range ta {
		va = append(va, n)
		vb = append(vb, tb[term])
	}
	for term, n := range tb {
		if _, ok := ta[term]; !ok {
			va = append(va, 0)
			vb = append(vb, n)
		}
	}
	return toPercent(Cosine(va, vb)), nil
}

func termFrequencies(text string) map[string]float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	return freq
}
