// Package worker consumes queued analysis requests and runs them through the
// pipeline with a fixed pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/events"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/reports"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Source yields queued requests.
type Source interface {
	Consume(ctx context.Context) (<-chan events.Message, error)
}

// Publisher sends status updates.
type Publisher interface {
	PublishUpdate(ctx context.Context, update events.AnalysisUpdate) error
}

// Pool processes requests from a Source.
type Pool struct {
	runner    *pipeline.Runner
	uploads   reports.Store
	publisher Publisher
	workers   int
	logger    *zap.Logger
	now       func() time.Time
}

// New returns a pool of n workers. uploads is where resumes named by
// AnalysisRequest.ResumeKey are read from.
func New(runner *pipeline.Runner, uploads reports.Store, publisher Publisher, n int, logger *zap.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{
		runner:    runner,
		uploads:   uploads,
		publisher: publisher,
		workers:   n,
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// Run consumes until ctx is done or the source closes. Individual request
// failures are reported as updates and never stop the pool.
func (p *Pool) Run(ctx context.Context, source Source) error {
	msgs, err := source.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range p.workers {
		log := p.logger.With(zap.Int("worker", i+1))
		g.Go(func() error {
			log.Info("worker started")
			defer log.Info("worker stopped")
			for {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-msgs:
					if !ok {
						return nil
					}
					p.handle(ctx, msg, log)
				}
			}
		})
	}
	return g.Wait()
}

func (p *Pool) handle(ctx context.Context, msg events.Message, log *zap.Logger) {
	req, err := events.DecodeRequest(msg.Body)
	if err != nil {
		log.Warn("dropping malformed request", zap.Error(err))
		p.publish(ctx, log, events.AnalysisUpdate{ID: req.ID, Status: events.StatusFailed, Message: "malformed request"})
		if ackErr := msg.Ack(); ackErr != nil {
			log.Warn("failed to ack message", zap.Error(ackErr))
		}
		return
	}

	log = log.With(zap.String(logging.FieldAnalysisID, req.ID))
	update := p.Process(ctx, req, log)
	p.publish(ctx, log, update)
	if err := msg.Ack(); err != nil {
		log.Warn("failed to ack message", zap.Error(err))
	}
}

// Process runs one request and returns the final update for it.
func (p *Pool) Process(ctx context.Context, req *events.AnalysisRequest, log *zap.Logger) events.AnalysisUpdate {
	p.publish(ctx, log, events.AnalysisUpdate{ID: req.ID, Status: events.StatusProcessing, Message: "analysis started"})

	fail := func(message string, err error) events.AnalysisUpdate {
		log.Error(message, zap.Error(err))
		return events.AnalysisUpdate{ID: req.ID, Status: events.StatusFailed, Message: message}
	}

	data, err := p.uploads.Get(ctx, req.ResumeKey)
	if err != nil {
		return fail("resume download failed", err)
	}

	name := req.Filename
	if name == "" {
		name = req.ResumeKey
	}
	format, err := ingestion.DetectFormat(req.Mime, name)
	if err != nil {
		return fail("unsupported resume format", err)
	}
	text, err := ingestion.ExtractDocument(format, data)
	if err != nil {
		return fail("text extraction failed", err)
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return fail("invalid request id", err)
	}
	out, err := p.runner.Run(ctx, pipeline.Request{
		ID:     id,
		Source: db.SourceWorker,
		Input: types.AnalysisInput{
			ResumeText:     text,
			JobDescription: req.JobDescription,
			SelectedRole:   req.SelectedRole,
		},
	})
	if err != nil {
		return fail("analysis failed", err)
	}

	score := out.Result.OverallScore
	return events.AnalysisUpdate{
		ID:           req.ID,
		Status:       events.StatusCompleted,
		OverallScore: &score,
		ReportKey:    out.ReportKey,
		Message:      "analysis completed",
	}
}

func (p *Pool) publish(ctx context.Context, log *zap.Logger, update events.AnalysisUpdate) {
	if p.publisher == nil {
		return
	}
	update.Timestamp = p.now().UTC()
	if err := p.publisher.PublishUpdate(ctx, update); err != nil {
		log.Warn("failed to publish update", zap.String("status", update.Status), zap.Error(err))
	}
}
