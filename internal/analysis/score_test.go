package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/types"
)

func TestSkillsMatchScore(t *testing.T) {
	tests := []struct {
		name    string
		matched int
		total   int
		want    float64
	}{
		{name: "one of three", matched: 1, total: 3, want: 33.33},
		{name: "all", matched: 4, total: 4, want: 100},
		{name: "none", matched: 0, total: 5, want: 0},
		{name: "empty reference", matched: 0, total: 0, want: 0},
		{name: "two of three rounds up", matched: 2, total: 3, want: 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SkillsMatchScore(tt.matched, tt.total))
		})
	}
}

func TestTechstackCoverage(t *testing.T) {
	assert.Equal(t, 0.0, TechstackCoverage([]string{"go"}, nil))
	assert.Equal(t, 0.0, TechstackCoverage([]string{"go"}, []string{"rust", "zig"}))
	assert.Equal(t, 50.0, TechstackCoverage([]string{"go", "rust", "python"}, []string{"rust", "zig"}))
	assert.Equal(t, 100.0, TechstackCoverage([]string{"rust", "zig"}, []string{"rust", "zig"}))
}

func TestExperienceScore(t *testing.T) {
	assert.Equal(t, 65.0, ExperienceScore(false, false))
	assert.Equal(t, 80.0, ExperienceScore(true, false))
	assert.Equal(t, 75.0, ExperienceScore(false, true))
	assert.Equal(t, 90.0, ExperienceScore(true, true))
}

func TestEducationScore(t *testing.T) {
	assert.Equal(t, 85.0, EducationScore(true))
	assert.Equal(t, 55.0, EducationScore(false))
}

func TestSemanticScore(t *testing.T) {
	assert.Equal(t, 42.12, SemanticScore(42.1234))
	assert.Equal(t, 100.0, SemanticScore(140))
	assert.Equal(t, 0.0, SemanticScore(-3))
	assert.Equal(t, 0.0, SemanticScore(math.NaN()))
}

func TestOverallScore(t *testing.T) {
	semantic := 50.0

	tests := []struct {
		name      string
		breakdown types.ScoreBreakdown
		want      float64
	}{
		{
			name:      "with semantic score",
			breakdown: types.ScoreBreakdown{SkillsMatch: 100, ExperienceMatch: 90, EducationMatch: 85, SemanticMatch: &semantic},
			want:      40 + 27 + 17 + 5,
		},
		{
			name:      "semantic weight is not redistributed",
			breakdown: types.ScoreBreakdown{SkillsMatch: 100, ExperienceMatch: 100, EducationMatch: 100},
			want:      90,
		},
		{
			name:      "baseline heuristics only",
			breakdown: types.ScoreBreakdown{ExperienceMatch: 65, EducationMatch: 55},
			want:      30.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, OverallScore(tt.breakdown), 0.001)
		})
	}
}
