package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/reports"
	"github.com/jonathan/resume-analyzer/internal/similarity"
	"github.com/jonathan/resume-analyzer/internal/taxonomy"
)

// app is the configuration and logger shared by a command run.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// loadApp reads the config file, environment and the flags named in
// bindings (config key to flag name) into a validated configuration.
func loadApp(cmd *cobra.Command, bindings map[string]string) (*app, error) {
	v := config.NewViper()
	if err := config.ReadFile(v, configPath); err != nil {
		return nil, err
	}

	all := map[string]string{"log.json": "log-json", "log.debug": "debug"}
	for key, flag := range bindings {
		all[key] = flag
	}
	for key, name := range all {
		flag := cmd.Flag(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &app{cfg: cfg, logger: logger}, nil
}

// runnerOptions selects which collaborators a command needs.
type runnerOptions struct {
	persist bool
	reports bool
}

// buildRunner wires the analyzer and its configured collaborators. The
// returned cleanup releases clients and connections.
func (a *app) buildRunner(ctx context.Context, opts runnerOptions) (*pipeline.Runner, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	tax, err := a.loadTaxonomy()
	if err != nil {
		return nil, nil, err
	}

	var gemini *llm.GeminiClient
	if a.cfg.Similarity.Provider == "gemini" || a.cfg.Coaching.Enabled {
		llmConfig := llm.DefaultConfig().
			WithEmbeddingModel(a.cfg.Similarity.EmbeddingModel).
			WithModel(llm.TierLite, a.cfg.Coaching.Model)
		gemini, err = llm.NewGeminiClient(ctx, llmConfig, a.cfg.Similarity.APIKey)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = gemini.Close() })
	}

	renderer, err := rendering.NewRenderer()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	runner := &pipeline.Runner{
		Analyzer: analysis.New(tax, a.similarity(gemini)),
		Renderer: renderer,
		Logger:   a.logger,
	}
	if a.cfg.Coaching.Enabled {
		runner.Advisor = llm.NewCoach(gemini, a.logger)
	}

	if opts.reports {
		store, err := a.reportStore(ctx)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		runner.Reports = store
	}

	if opts.persist {
		store, err := db.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.URL, a.cfg.Database.SQLitePath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if store != nil {
			runner.Store = store
			closers = append(closers, func() { _ = store.Close() })
		}
	}

	return runner, cleanup, nil
}

func (a *app) loadTaxonomy() (*taxonomy.Taxonomy, error) {
	if a.cfg.Taxonomy.Path != "" {
		return taxonomy.Load(a.cfg.Taxonomy.Path)
	}
	return taxonomy.Default()
}

// similarity returns the configured capability, or nil when disabled.
func (a *app) similarity(gemini *llm.GeminiClient) analysis.Similarity {
	switch a.cfg.Similarity.Provider {
	case "gemini":
		return similarity.NewThrottled(similarity.NewEmbedding(gemini), similarity.ThrottleOptions{
			RequestsPerSecond: a.cfg.Similarity.RequestsPerSecond,
			Burst:             a.cfg.Similarity.Burst,
			CacheSize:         a.cfg.Similarity.CacheSize,
			Timeout:           a.cfg.Similarity.Timeout,
		}, a.logger)
	case "lexical":
		return similarity.Lexical{}
	default:
		return nil
	}
}

// reportStore returns the configured report backend, or nil for "none".
func (a *app) reportStore(ctx context.Context) (reports.Store, error) {
	switch a.cfg.Reports.Backend {
	case "file":
		return reports.NewFileStore(a.cfg.Reports.Dir)
	case "s3":
		return reports.NewS3Store(ctx, reports.S3Options{
			Bucket:          a.cfg.Reports.Bucket,
			Endpoint:        a.cfg.Reports.Endpoint,
			Region:          a.cfg.Reports.Region,
			AccessKeyID:     a.cfg.Reports.AccessKeyID,
			SecretAccessKey: a.cfg.Reports.SecretAccessKey,
		})
	default:
		return nil, nil
	}
}
