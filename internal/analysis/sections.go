package analysis

import (
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// maxSectionSuggestions caps the suggestions attached to one section record.
const maxSectionSuggestions = 2

// noneMatched and noneMissing are the fallback sentences used in place of
// empty lists so that a report never shows a blank list.
func noneMatched(label string) string {
	return fmt.Sprintf("No matched %s detected.", label)
}

func noneMissing(label string) string {
	return fmt.Sprintf("No missing %s detected.", label)
}

// orFallback returns items, or a single fallback sentence when items is empty.
func orFallback(items []string, fallback string) []string {
	if len(items) == 0 {
		return []string{fallback}
	}
	return items
}

// buildSections returns one detail record per section in narrative order.
func buildSections(f *Facts) []types.Section {
	sections := make([]types.Section, 0, len(sectionDefs))
	for _, def := range sectionDefs {
		sections = append(sections, buildSection(def, f.category(def.key)))
	}
	return sections
}

func buildSection(def sectionDef, c category) types.Section {
	var feedback string
	switch {
	case len(c.matched) == 0:
		feedback = def.noneWeakness + "."
	case len(c.missing) == 0:
		feedback = fmt.Sprintf("Good coverage of %s.", def.label)
	default:
		feedback = fmt.Sprintf("Partial coverage of %s: %d of %d found.",
			def.label, len(c.matched), len(c.matched)+len(c.missing))
	}

	var suggestions []string
	if def.reportMissing && len(c.missing) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Add or highlight: %s", listItems(c.missing)))
	}
	if len(c.matched) == 0 {
		suggestions = append(suggestions, def.noneSuggestion)
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, fmt.Sprintf("Keep your %s visible and back them with measurable results", def.label))
	}
	if len(suggestions) > maxSectionSuggestions {
		suggestions = suggestions[:maxSectionSuggestions]
	}

	return types.Section{
		Name:        def.title,
		Matched:     orFallback(c.matched, noneMatched(def.label)),
		Missing:     orFallback(c.missing, noneMissing(def.label)),
		Feedback:    feedback,
		Suggestions: suggestions,
	}
}
