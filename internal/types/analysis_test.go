package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   AnalysisInput
		wantErr bool
	}{
		{"resume and job description", AnalysisInput{ResumeText: "python developer", JobDescription: "python"}, false},
		{"empty job description is allowed", AnalysisInput{ResumeText: "python developer"}, false},
		{"selected role", AnalysisInput{ResumeText: "resume", SelectedRole: "devops engineer"}, false},
		{"missing resume", AnalysisInput{JobDescription: "python"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScoreBreakdown_SemanticOmittedWhenNil(t *testing.T) {
	data, err := json.Marshal(ScoreBreakdown{SkillsMatch: 50, ExperienceMatch: 65, EducationMatch: 55})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "semantic_match")

	semantic := 42.5
	data, err = json.Marshal(ScoreBreakdown{SemanticMatch: &semantic})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"semantic_match":42.5`)
}

func TestAnalysisResult_HasSemanticScore(t *testing.T) {
	result := &AnalysisResult{}
	assert.False(t, result.HasSemanticScore())

	score := 10.0
	result.ScoreBreakdown.SemanticMatch = &score
	assert.True(t, result.HasSemanticScore())
}
