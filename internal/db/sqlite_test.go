package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/types"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	store, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(score float64) *types.AnalysisResult {
	return &types.AnalysisResult{
		RoleDetected:   "backend developer",
		ProfileType:    types.ProfileExperienced,
		OverallScore:   score,
		ScoreBreakdown: types.ScoreBreakdown{SkillsMatch: 33.33, ExperienceMatch: 65, EducationMatch: 55},
		Skills:         types.SkillsBreakdown{MatchedSkills: []string{"python"}, MissingSkills: []string{"docker"}},
		Flaws:          []string{types.NoMajorFlaws},
		ChartData:      map[string]float64{"overall_score": score},
	}
}

func TestSQLite_SaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := NewRecord(uuid.New(), "fp-1", SourceHTTP, sampleResult(48.83))
	rec.ReportKey = rec.ID.String() + ".md"
	require.NoError(t, store.SaveAnalysis(ctx, rec))
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := store.GetAnalysis(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "fp-1", got.Fingerprint)
	assert.Equal(t, "backend developer", got.Role)
	assert.Equal(t, 48.83, got.OverallScore)
	assert.Equal(t, SourceHTTP, got.Source)
	assert.Equal(t, rec.ReportKey, got.ReportKey)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, rec.Result, got.Result)
}

func TestSQLite_GetMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetAnalysis(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.FindByFingerprint(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_SaveUpdatesExisting(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := NewRecord(uuid.New(), "fp", SourceWorker, sampleResult(10))
	require.NoError(t, store.SaveAnalysis(ctx, rec))

	rec.ReportKey = "later.md"
	rec.Result = sampleResult(20)
	rec.OverallScore = 20
	require.NoError(t, store.SaveAnalysis(ctx, rec))

	got, err := store.GetAnalysis(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "later.md", got.ReportKey)
	assert.Equal(t, 20.0, got.Result.OverallScore)
}

func TestSQLite_ListAndFingerprint(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := range 3 {
		rec := NewRecord(uuid.New(), "same", SourceCLI, sampleResult(float64(i)))
		// Whole seconds and sub-second values must still sort correctly.
		rec.CreatedAt = base.Add(time.Duration(i) * 500 * time.Millisecond)
		require.NoError(t, store.SaveAnalysis(ctx, rec))
		ids = append(ids, rec.ID)
	}

	list, err := store.ListAnalyses(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)

	limited, err := store.ListAnalyses(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	newest, err := store.FindByFingerprint(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, ids[2], newest.ID)
}

func TestSQLite_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyses.db")
	ctx := context.Background()

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	rec := NewRecord(uuid.New(), "fp", SourceCLI, sampleResult(1))
	require.NoError(t, store.SaveAnalysis(ctx, rec))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetAnalysis(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, DriverNone, "", "")
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = Open(ctx, DriverSQLite, "", ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())

	_, err = Open(ctx, "mysql", "", "")
	assert.ErrorContains(t, err, "unknown database driver")
}
