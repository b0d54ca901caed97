package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate <analysis.json>",
	Short: "Validate a saved analysis against the result schema",
	Long:  `Validate checks a JSON file holding an analysis (or an analyze --json output) against the embedded AnalysisResult schema.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runValidate(cmd *cobra.Command, args []string) error {
	err := schemas.ValidateResultFile(args[0])
	if err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", args[0])
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Validation failed: %s\n", args[0])
		for _, fe := range validationErr.Errors {
			fmt.Fprintf(w, "  - %s: %s\n", fe.Field, fe.Message)
		}
	}
	return fmt.Errorf("validation failed: %w", err)
}
