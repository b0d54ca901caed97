package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/types"
)

func sampleResult() *types.AnalysisResult {
	semantic := 42.5
	return &types.AnalysisResult{
		RoleDetected: "backend developer",
		SelectedRole: "backend developer",
		ProfileType:  types.ProfileExperienced,
		OverallScore: 61.25,
		ScoreBreakdown: types.ScoreBreakdown{
			SkillsMatch:     66.67,
			ExperienceMatch: 80,
			EducationMatch:  85,
			SemanticMatch:   &semantic,
		},
		TechstackCoverage: 40,
		Skills: types.SkillsBreakdown{
			MatchedSkills:     []string{"python", "sql"},
			MissingSkills:     []string{"docker"},
			MatchedRoleSkills: []string{"python"},
			MissingRoleSkills: []string{"go", "kubernetes"},
		},
		Strengths:   []string{"Resume shows technical skills: python, sql"},
		Weaknesses:  []string{"Missing technical skills: docker"},
		Suggestions: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
		Flaws:       []string{types.NoMajorFlaws},
		Summary:     "Overall match is moderate.",
	}
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(sampleResult())
	output := buf.String()

	assert.Contains(t, output, "RESUME MATCH")
	assert.Contains(t, output, "backend developer (selected)")
	assert.Contains(t, output, "Overall:    61.25%")
	assert.Contains(t, output, "Semantic:    42.50%")
	assert.Contains(t, output, "• docker")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "Soft skills:")
	assert.Contains(t, output, "(none)")
	assert.Contains(t, output, "Overall match is moderate.")
}

func TestPrintScores_NoSemantic(t *testing.T) {
	result := sampleResult()
	result.ScoreBreakdown.SemanticMatch = nil
	result.SelectedRole = ""

	var buf bytes.Buffer
	NewPrinter(&buf).PrintScores(result)

	assert.Contains(t, buf.String(), "not computed")
	assert.NotContains(t, buf.String(), "(selected)")
}

func TestPrint_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil)
	p.PrintCoaching(nil)
	p.PrintReportLocation("")

	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintCoaching(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCoaching(&types.Coaching{
		Summary:    "Lead with backend impact.",
		Priorities: []string{"Add Docker projects"},
	})

	assert.Contains(t, buf.String(), "COACHING")
	assert.Contains(t, buf.String(), "• Add Docker projects")
}

func TestPrintRoles(t *testing.T) {
	var buf bytes.Buffer
	stacks := map[string][]string{
		"backend developer": {"python", "go", "sql"},
		"data analyst":      {},
	}

	NewPrinter(&buf).PrintRoles([]string{"backend developer", "data analyst"}, func(role string) []string {
		return stacks[role]
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "backend developer")
	assert.Contains(t, lines[0], "python, go, sql")
	assert.Contains(t, lines[1], "0 skills")
}

func TestPrintReportLocation(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReportLocation("reports/abc.md")
	assert.Equal(t, "Report: reports/abc.md\n", buf.String())
}
