// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for the analyze and roles commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to fit inside a box, counting runes.
func truncate(line string) string {
	runes := []rune(line)
	if len(runes) <= boxWidth-4 {
		return line
	}
	return string(runes[:boxWidth-7]) + "..."
}

// writeList appends up to maxItemsToShow bullet items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	fmt.Fprintf(sb, "%s:\n", heading)
	if len(items) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
}

// PrintAnalysis outputs the scores, skills and narrative of an analysis.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}
	p.PrintScores(result)
	p.PrintSkills(result)
	p.PrintNarrative(result)
}

// PrintScores outputs the role, profile and score breakdown.
func (p *Printer) PrintScores(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	role := result.RoleDetected
	if result.SelectedRole != "" {
		role += " (selected)"
	}
	fmt.Fprintf(&sb, "Role:       %s\n", role)
	fmt.Fprintf(&sb, "Profile:    %s\n", result.ProfileType)
	fmt.Fprintf(&sb, "Overall:    %.2f%%\n", result.OverallScore)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Skills:     %6.2f%%\n", result.ScoreBreakdown.SkillsMatch)
	fmt.Fprintf(&sb, "Experience: %6.2f%%\n", result.ScoreBreakdown.ExperienceMatch)
	fmt.Fprintf(&sb, "Education:  %6.2f%%\n", result.ScoreBreakdown.EducationMatch)
	if result.ScoreBreakdown.SemanticMatch != nil {
		fmt.Fprintf(&sb, "Semantic:   %6.2f%%\n", *result.ScoreBreakdown.SemanticMatch)
	} else {
		sb.WriteString("Semantic:   not computed\n")
	}
	fmt.Fprintf(&sb, "Tech stack: %6.2f%%\n", result.TechstackCoverage)

	p.printBox("RESUME MATCH", sb.String())
}

// PrintSkills outputs matched and missing skills per category.
func (p *Printer) PrintSkills(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	s := result.Skills
	writeList(&sb, "Matched skills", s.MatchedSkills)
	writeList(&sb, "Missing skills", s.MissingSkills)
	sb.WriteString("\n")
	writeList(&sb, "Matched role stack", s.MatchedRoleSkills)
	writeList(&sb, "Missing role stack", s.MissingRoleSkills)
	sb.WriteString("\n")
	writeList(&sb, "Soft skills", s.MatchedSoftSkills)
	writeList(&sb, "Certifications", s.MatchedCertifications)

	p.printBox("SKILLS", sb.String())
}

// PrintNarrative outputs strengths, weaknesses, suggestions and flaws.
func (p *Printer) PrintNarrative(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	writeList(&sb, "Strengths", result.Strengths)
	writeList(&sb, "Weaknesses", result.Weaknesses)
	writeList(&sb, "Suggestions", result.Suggestions)
	writeList(&sb, "Flaws", result.Flaws)
	if result.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(result.Summary)
		sb.WriteString("\n")
	}

	p.printBox("FEEDBACK", sb.String())
}

// PrintCoaching outputs AI coaching notes.
func (p *Printer) PrintCoaching(coaching *types.Coaching) {
	if coaching == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(coaching.Summary)
	sb.WriteString("\n")
	if len(coaching.Priorities) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Priorities", coaching.Priorities)
	}

	p.printBox("COACHING", sb.String())
}

// PrintRoles outputs each role with the size of its tech stack.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRoles(roles []string, skills func(role string) []string) {
	for i, role := range roles {
		stack := skills(role)
		preview := stack[:min(len(stack), 6)]
		fmt.Fprintf(p.out, "%2d. %-28s %3d skills  %s\n", i+1, role, len(stack), strings.Join(preview, ", "))
	}
}

// PrintReportLocation tells the user where the report was written.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReportLocation(location string) {
	if location == "" {
		return
	}
	fmt.Fprintf(p.out, "Report: %s\n", location)
}
