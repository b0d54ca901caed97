// Package pipeline runs one analysis end to end: scoring, optional coaching,
// report rendering and storage, and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/reports"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepAnalyze = "analyze"
	StepCoach   = "coach"
	StepReport  = "report"
	StepPersist = "persist"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Advisor produces coaching notes for a finished analysis.
type Advisor interface {
	Advise(ctx context.Context, result *types.AnalysisResult) (*types.Coaching, error)
}

// Runner wires the analyzer to its optional collaborators. Nil Advisor,
// Reports and Store skip coaching, report storage and persistence.
type Runner struct {
	Analyzer   *analysis.Analyzer
	Renderer   *rendering.Renderer
	Advisor    Advisor
	Reports    reports.Store
	Store      db.Store
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Request is one analysis to run.
type Request struct {
	// ID is generated when zero.
	ID     uuid.UUID
	Input  types.AnalysisInput
	Source string
}

// Outcome is everything a run produced.
type Outcome struct {
	ID          uuid.UUID
	Fingerprint string
	Result      *types.AnalysisResult
	Coaching    *types.Coaching
	Report      string
	// ReportKey is empty when no report store is configured.
	ReportKey string
	Persisted bool
}

// ErrEmptyResume is returned before analysis when the resume has no text.
var ErrEmptyResume = errors.New("resume text is empty")

func (r *Runner) emit(id uuid.UUID, step, message string) {
	if r.OnProgress != nil {
		r.OnProgress(ProgressEvent{Step: step, Message: message, RunID: id.String()})
	}
}

// Run executes the analysis and its side effects. Coaching and persistence
// failures are logged and do not fail the run; report storage failures do,
// since callers hand out download links for the report.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	if strings.TrimSpace(req.Input.ResumeText) == "" {
		return nil, ErrEmptyResume
	}
	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	fingerprint := analysis.Fingerprint(req.Input)
	log := logging.OrNop(r.Logger).With(
		zap.String(logging.FieldAnalysisID, id.String()),
		zap.String("source", req.Source),
	)

	start := time.Now()
	result, err := r.Analyzer.Analyze(ctx, req.Input)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	log.Info("analysis completed",
		zap.String(logging.FieldRole, result.RoleDetected),
		zap.Float64("overall_score", result.OverallScore),
		zap.Duration("duration", time.Since(start)),
	)
	r.emit(id, StepAnalyze, fmt.Sprintf("Role %s scored %.2f%%", result.RoleDetected, result.OverallScore))

	out := &Outcome{ID: id, Fingerprint: fingerprint, Result: result}

	if r.Advisor != nil {
		coaching, err := r.Advisor.Advise(ctx, result)
		if err != nil {
			log.Warn("coaching failed, continuing without it", zap.Error(err))
		} else {
			out.Coaching = coaching
			r.emit(id, StepCoach, "Coaching notes generated")
		}
	}

	if r.Renderer != nil {
		report, err := r.Renderer.Render(rendering.ReportData{
			ID:          id.String(),
			GeneratedAt: start,
			Result:      result,
			Coaching:    out.Coaching,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render report: %w", err)
		}
		out.Report = report

		if r.Reports != nil {
			key := reports.ReportKey(id.String())
			if err := r.Reports.Put(ctx, key, []byte(report)); err != nil {
				return nil, fmt.Errorf("failed to store report: %w", err)
			}
			out.ReportKey = key
		}
		r.emit(id, StepReport, "Report rendered")
	}

	if r.Store != nil {
		rec := db.NewRecord(id, fingerprint, req.Source, result)
		rec.ReportKey = out.ReportKey
		rec.CreatedAt = start.UTC()
		if err := r.Store.SaveAnalysis(ctx, rec); err != nil {
			log.Warn("failed to persist analysis", zap.Error(err))
		} else {
			out.Persisted = true
			r.emit(id, StepPersist, "Analysis saved")
		}
	}

	return out, nil
}
