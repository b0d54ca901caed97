package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Sources recorded with each analysis.
const (
	SourceHTTP   = "http"
	SourceCLI    = "cli"
	SourceWorker = "worker"
	SourceMCP    = "mcp"
)

// Record is a persisted analysis.
type Record struct {
	ID           uuid.UUID             `json:"id"`
	Fingerprint  string                `json:"fingerprint"`
	Role         string                `json:"role"`
	SelectedRole string                `json:"selected_role,omitempty"`
	OverallScore float64               `json:"overall_score"`
	Source       string                `json:"source"`
	ReportKey    string                `json:"report_key,omitempty"`
	Result       *types.AnalysisResult `json:"result"`
	CreatedAt    time.Time             `json:"created_at"`
}

// NewRecord fills the denormalized columns from result.
func NewRecord(id uuid.UUID, fingerprint, source string, result *types.AnalysisResult) *Record {
	return &Record{
		ID:           id,
		Fingerprint:  fingerprint,
		Role:         result.RoleDetected,
		SelectedRole: result.SelectedRole,
		OverallScore: result.OverallScore,
		Source:       source,
		Result:       result,
	}
}

// Store persists analyses. Getters return (nil, nil) when nothing matches.
type Store interface {
	SaveAnalysis(ctx context.Context, rec *Record) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByFingerprint(ctx context.Context, fingerprint string) (*Record, error)
	ListAnalyses(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// DefaultListLimit applies when ListAnalyses gets a non-positive limit.
const DefaultListLimit = 50

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
