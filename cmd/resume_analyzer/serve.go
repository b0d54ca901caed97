package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing resume upload analysis, report downloads and stored analyses.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().Bool("pdf-only", true, "Accept only PDF uploads on POST /analyze")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, map[string]string{
		"server.port":     "port",
		"server.pdf-only": "pdf-only",
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()
	ctx := cmd.Context()

	runner, cleanup, err := a.buildRunner(ctx, runnerOptions{persist: true, reports: true})
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := server.New(server.Options{
		Server:    a.cfg.Server,
		Auth:      a.cfg.Auth,
		RateLimit: a.cfg.RateLimit,
		Runner:    runner,
		Logger:    a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
