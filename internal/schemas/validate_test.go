package schemas

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/taxonomy"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func analyze(t *testing.T, sim analysis.Similarity, in types.AnalysisInput) *types.AnalysisResult {
	t.Helper()
	tax, err := taxonomy.Default()
	require.NoError(t, err)
	result, err := analysis.New(tax, sim).Analyze(context.Background(), in)
	require.NoError(t, err)
	return result
}

func TestAnalysisResultSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(AnalysisResultSchema()), &v))
	assert.Equal(t, "AnalysisResult", v["title"])
}

func TestValidateResult_AnalyzerOutput(t *testing.T) {
	constant := analysis.SimilarityFunc(func(context.Context, string, string) (float64, error) {
		return 140, nil
	})

	inputs := map[string]struct {
		sim analysis.Similarity
		in  types.AnalysisInput
	}{
		"backend posting": {in: types.AnalysisInput{
			ResumeText:     "Python developer with SQL and AWS. Built projects during internship. B.Tech graduate.",
			JobDescription: "Looking for a backend developer skilled in python, sql, docker",
		}},
		"semantic score": {sim: constant, in: types.AnalysisInput{
			ResumeText:     "Kubernetes, terraform and strong communication",
			JobDescription: "DevOps engineer with teamwork and AWS Certified credentials",
		}},
		"no job description": {in: types.AnalysisInput{ResumeText: "short", SelectedRole: "Data Scientist"}},
		"nothing matches": {in: types.AnalysisInput{ResumeText: "barista", JobDescription: "friendly barista"}},
	}

	for name, tt := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, ValidateResult(analyze(t, tt.sim, tt.in)))
		})
	}
}

func TestValidateResultJSON_Invalid(t *testing.T) {
	valid := analyze(t, nil, types.AnalysisInput{ResumeText: "python", JobDescription: "python developer"})

	tests := []struct {
		name   string
		mutate func(r *types.AnalysisResult)
		field  string
	}{
		{name: "score above range", mutate: func(r *types.AnalysisResult) { r.OverallScore = 101 }, field: "overall_score"},
		{name: "unknown profile type", mutate: func(r *types.AnalysisResult) { r.ProfileType = "Senior" }, field: "profile_type"},
		{name: "null list", mutate: func(r *types.AnalysisResult) { r.Strengths = nil }, field: "strengths"},
		{name: "empty flaws", mutate: func(r *types.AnalysisResult) { r.Flaws = []string{} }, field: "flaws"},
		{name: "missing section", mutate: func(r *types.AnalysisResult) { r.Sections = r.Sections[:6] }, field: "sections"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clone := *valid
			tt.mutate(&clone)

			err := ValidateResult(&clone)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateResultJSON_Malformed(t *testing.T) {
	err := ValidateResultJSON([]byte("{not json"))
	require.Error(t, err)
	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
	assert.True(t, strings.HasPrefix(err.Error(), "failed to read analysis JSON"))
}

func TestValidateResultFile(t *testing.T) {
	dir := t.TempDir()
	result := analyze(t, nil, types.AnalysisInput{ResumeText: "python", JobDescription: "python developer"})

	bare, err := json.Marshal(result)
	require.NoError(t, err)
	barePath := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(barePath, bare, 0o600))
	assert.NoError(t, ValidateResultFile(barePath))

	wrapped, err := json.Marshal(map[string]any{"status": "success", "analysis": result, "report_id": "x"})
	require.NoError(t, err)
	wrappedPath := filepath.Join(dir, "wrapped.json")
	require.NoError(t, os.WriteFile(wrappedPath, wrapped, 0o600))
	assert.NoError(t, ValidateResultFile(wrappedPath))

	assert.Error(t, ValidateResultFile(filepath.Join(dir, "missing.json")))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{"name":1}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
