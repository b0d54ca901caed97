package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/observability"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the roles the analyzer knows",
	Long:  `List taxonomy roles in inference order with their canonical tech stacks.`,
	RunE:  runRoles,
}

var rolesJSON bool

func init() {
	rolesCmd.Flags().BoolVar(&rolesJSON, "json", false, "Print roles as JSON")
	rootCmd.AddCommand(rolesCmd)
}

type roleOutput struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

func runRoles(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, nil)
	if err != nil {
		return err
	}
	tax, err := a.loadTaxonomy()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if !rolesJSON {
		observability.NewPrinter(w).PrintRoles(tax.Roles(), tax.RoleSkills)
		return nil
	}

	roles := make([]roleOutput, 0, len(tax.Roles()))
	for _, name := range tax.Roles() {
		skills := tax.RoleSkills(name)
		if skills == nil {
			skills = []string{}
		}
		roles = append(roles, roleOutput{Name: name, Skills: skills})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(roles)
}
