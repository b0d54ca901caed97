package analysis

import (
	"fmt"
	"strings"
)

// summaryInput carries what the summary paragraph reports.
type summaryInput struct {
	role             string
	narrative        Narrative
	responsibilities []string
	keywords         []string
	overall          float64
	skills           float64
	coverage         float64
}

// buildSummary assembles the summary, one item per line in a fixed order.
func buildSummary(in summaryInput) string {
	lines := []string{
		"Role detected: " + in.role,
		"Top strengths: " + joinTop(in.narrative.Strengths, 3, "; "),
		"Top weaknesses: " + joinTop(in.narrative.Weaknesses, 3, "; "),
		"Top suggestions: " + joinTop(in.narrative.Suggestions, 3, "; "),
		"Key responsibilities: " + joinTop(in.responsibilities, 3, "; "),
		"Recommended keywords: " + joinTop(in.keywords, 5, ", "),
		fmt.Sprintf("Overall score: %.2f%%", in.overall),
		fmt.Sprintf("Skills match: %.2f%%", in.skills),
		fmt.Sprintf("Tech stack coverage: %.2f%%", in.coverage),
	}
	return strings.Join(lines, "\n")
}

func joinTop(items []string, n int, sep string) string {
	if len(items) == 0 {
		return "none"
	}
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, sep)
}
