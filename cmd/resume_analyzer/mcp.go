package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve analysis tools over the Model Context Protocol",
	Long:  `Run an MCP server on stdin/stdout exposing the analyze_resume and list_roles tools. Logs go to stderr.`,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()
	ctx := cmd.Context()

	runner, cleanup, err := a.buildRunner(ctx, runnerOptions{persist: true})
	if err != nil {
		return err
	}
	defer cleanup()

	return mcpserver.Run(ctx, mcpserver.NewServer(runner, version))
}
