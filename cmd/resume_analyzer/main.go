// Package main provides the resume_analyzer CLI: one-off analyses, the HTTP
// API, the queue worker and the MCP tool server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "resume_analyzer",
	Short:         "Resume to job description matching",
	Long:          "Resume Analyzer scores a resume against a job description or a target role, explains the gaps and renders a downloadable report.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default ./resume_analyzer.yaml when present)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
