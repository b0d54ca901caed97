package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/types"
)

type fakeClient struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeClient) Embed(context.Context, string) ([]float32, error) { return nil, nil }

func (f *fakeClient) Close() error { return nil }

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		RoleDetected: "backend developer",
		ProfileType:  types.ProfileExperienced,
		OverallScore: 48.83,
		Skills: types.SkillsBreakdown{
			MatchedSkills: []string{"python"},
			MissingSkills: []string{"docker", "sql"},
		},
		Weaknesses: []string{"Missing technical skills: docker, sql"},
	}
}

func TestCoach_Advise(t *testing.T) {
	client := &fakeClient{response: `{"summary": "Add SQL and Docker work.", "priorities": ["a", "b", "c", "d", "e", "f"]}`}
	coach := NewCoach(client, nil)

	coaching, err := coach.Advise(context.Background(), sampleResult())
	require.NoError(t, err)

	assert.Equal(t, "Add SQL and Docker work.", coaching.Summary)
	assert.Len(t, coaching.Priorities, 5)
	assert.Contains(t, client.lastPrompt, "Role: backend developer")
	assert.Contains(t, client.lastPrompt, "Overall score: 48.83")
	assert.Contains(t, client.lastPrompt, "Missing skills: docker, sql")
	assert.Contains(t, client.lastPrompt, "- Missing technical skills: docker, sql")
	assert.NotContains(t, client.lastPrompt, "{{.")
}

func TestCoach_AdviseErrors(t *testing.T) {
	boom := errors.New("quota")

	tests := []struct {
		name    string
		client  *fakeClient
		wantErr string
	}{
		{name: "client error", client: &fakeClient{err: boom}, wantErr: "failed to generate coaching"},
		{name: "not JSON", client: &fakeClient{response: "sorry"}, wantErr: "failed to parse coaching response"},
		{name: "missing summary", client: &fakeClient{response: `{"priorities": ["a"]}`}, wantErr: "invalid coaching response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoach(tt.client, nil).Advise(context.Background(), sampleResult())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
