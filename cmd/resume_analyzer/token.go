package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token",
	Long:  `Mint an HS256 bearer token for an API client, signed with the configured auth.jwt-secret.`,
	RunE:  runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Client name recorded in the token (required)")
	tokenCmd.Flags().Int("expiration-hours", 24, "Hours until the token expires")
	if err := tokenCmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, map[string]string{"auth.expiration-hours": "expiration-hours"})
	if err != nil {
		return err
	}
	if a.cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt-secret is not configured (set RESUME_ANALYZER_AUTH_JWT_SECRET)")
	}

	token, err := server.NewJWTService(a.cfg.Auth.JWTSecret, a.cfg.Auth.ExpirationHours).GenerateToken(tokenSubject)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
