package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/events"
	"github.com/jonathan/resume-analyzer/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process analysis requests from the queue",
	Long: `Consume analysis requests from AMQP, download each resume from the report
storage bucket, analyze it and publish status updates to the update exchange.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().Int("workers", 4, "Number of concurrent workers")
	workerCmd.Flags().String("amqp-url", "", "AMQP broker URL")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, map[string]string{
		"queue.workers": "workers",
		"queue.url":     "amqp-url",
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()
	ctx := cmd.Context()

	if a.cfg.Queue.URL == "" {
		return fmt.Errorf("queue URL is required (--amqp-url or RESUME_ANALYZER_QUEUE_URL)")
	}

	runner, cleanup, err := a.buildRunner(ctx, runnerOptions{persist: true, reports: true})
	if err != nil {
		return err
	}
	defer cleanup()
	if runner.Reports == nil {
		return fmt.Errorf("the worker needs a reports backend to download resumes from")
	}

	broker, err := events.Dial(a.cfg.Queue.URL, events.BrokerOptions{
		RequestQueue:   a.cfg.Queue.RequestQueue,
		UpdateExchange: a.cfg.Queue.UpdateExchange,
		Prefetch:       a.cfg.Queue.Workers,
	})
	if err != nil {
		return err
	}
	defer func() { _ = broker.Close() }()

	a.logger.Info("worker started",
		zap.String("queue", a.cfg.Queue.RequestQueue),
		zap.Int("workers", a.cfg.Queue.Workers),
	)
	pool := worker.New(runner, runner.Reports, broker, a.cfg.Queue.Workers, a.logger)
	return pool.Run(ctx, broker)
}
