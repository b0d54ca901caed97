package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/server"
)

// execute runs the root command in-process and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// offlineEnv pins the settings a developer's .env could otherwise change.
func offlineEnv(t *testing.T) {
	t.Setenv("RESUME_ANALYZER_SIMILARITY_PROVIDER", "lexical")
	t.Setenv("RESUME_ANALYZER_COACHING_ENABLED", "false")
	t.Setenv("RESUME_ANALYZER_DATABASE_DRIVER", "none")
	t.Setenv("RESUME_ANALYZER_TAXONOMY_PATH", "")
	t.Setenv("RESUME_ANALYZER_AUTH_ENABLED", "false")
}

func TestRolesCommand(t *testing.T) {
	offlineEnv(t)

	output, err := execute(t, "roles", "--json")
	require.NoError(t, err)

	var roles []roleOutput
	require.NoError(t, json.Unmarshal([]byte(output), &roles))
	require.NotEmpty(t, roles)

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
		assert.NotNil(t, r.Skills)
	}
	assert.Contains(t, names, "backend developer")
}

func TestAnalyzeAndValidateCommands(t *testing.T) {
	offlineEnv(t)
	dir := t.TempDir()

	resumePath := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(resumePath, []byte(
		"Jane Doe\nBackend engineer. Python, SQL, Docker.\nB.Tech Computer Science. Internship at Acme.\n",
	), 0o644))
	reportPath := filepath.Join(dir, "report.md")

	output, err := execute(t, "analyze",
		"--resume", resumePath,
		"--jd", "Looking for a backend developer skilled in python, sql, docker",
		"--json",
		"--report", reportPath,
	)
	require.NoError(t, err)

	var result analyzeOutput
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "backend developer", result.Analysis.RoleDetected)
	assert.NotNil(t, result.Analysis.ScoreBreakdown.SemanticMatch)
	assert.Equal(t, reportPath, result.Report)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), result.ID)

	savedPath := filepath.Join(dir, "analysis.json")
	require.NoError(t, os.WriteFile(savedPath, []byte(output), 0o644))

	t.Run("validate saved output", func(t *testing.T) {
		out, err := execute(t, "validate", savedPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Validation passed")
	})

	t.Run("validate broken analysis", func(t *testing.T) {
		broken := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(broken, []byte(`{"analysis":{"overall_score":140}}`), 0o644))

		out, err := execute(t, "validate", broken)
		require.Error(t, err)
		assert.Contains(t, out, "Validation failed")
	})

	t.Run("validate missing file", func(t *testing.T) {
		_, err := execute(t, "validate", filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})
}

func TestTokenCommand(t *testing.T) {
	offlineEnv(t)
	secret := strings.Repeat("s", 40)
	t.Setenv("RESUME_ANALYZER_AUTH_JWT_SECRET", secret)

	output, err := execute(t, "token", "--subject", "frontend")
	require.NoError(t, err)

	claims, err := server.NewJWTService(secret, 24).ValidateToken(strings.TrimSpace(output))
	require.NoError(t, err)
	assert.Equal(t, "frontend", claims.Subject)
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	offlineEnv(t)
	t.Setenv("RESUME_ANALYZER_AUTH_JWT_SECRET", "")

	_, err := execute(t, "token", "--subject", "frontend")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt-secret")
}

func TestReadResume_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644))

	_, err := readResume(path)
	assert.Error(t, err)
}
