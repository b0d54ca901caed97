package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description",
	Long: `Analyze extracts text from a resume (PDF, DOCX, text or Markdown) and scores it
against a job description given inline, from a file or fetched from a posting URL.
Without a job description the selected role's tech stack is used instead.`,
	Example: `  resume_analyzer analyze --resume cv.pdf --jd-file posting.txt
  resume_analyzer analyze --resume cv.docx --jd-url https://boards.greenhouse.io/acme/jobs/1 --browser
  resume_analyzer analyze --resume cv.md --role "data scientist" --json`,
	RunE: runAnalyze,
}

var (
	analyzeResume  string
	analyzeJD      string
	analyzeJDFile  string
	analyzeJDURL   string
	analyzeBrowser bool
	analyzeRole    string
	analyzeJSON    bool
	analyzeReport  string
	analyzePersist bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume file (required)")
	analyzeCmd.Flags().StringVar(&analyzeJD, "jd", "", "Job description text")
	analyzeCmd.Flags().StringVar(&analyzeJDFile, "jd-file", "", "Path to a job description file")
	analyzeCmd.Flags().StringVar(&analyzeJDURL, "jd-url", "", "URL of a job posting to fetch")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "browser", false, "Render the posting in headless Chrome when the fetched page has too little text")
	analyzeCmd.Flags().StringVar(&analyzeRole, "role", "", "Role to analyze against instead of inferring it")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeReport, "report", "o", "", "Write the Markdown report to this path")
	analyzeCmd.Flags().BoolVar(&analyzePersist, "persist", false, "Save the analysis to the configured database")

	if err := analyzeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-file", "jd-url")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOutput is the --json output.
type analyzeOutput struct {
	ID       string                `json:"id"`
	Analysis *types.AnalysisResult `json:"analysis"`
	Coaching *types.Coaching       `json:"coaching,omitempty"`
	Report   string                `json:"report,omitempty"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()
	ctx := cmd.Context()

	resumeText, err := readResume(analyzeResume)
	if err != nil {
		return err
	}

	jobDescription, err := readJobDescription(cmd, a)
	if err != nil {
		return err
	}

	runner, cleanup, err := a.buildRunner(ctx, runnerOptions{persist: analyzePersist})
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := runner.Run(ctx, pipeline.Request{
		Input: types.AnalysisInput{
			ResumeText:     resumeText,
			JobDescription: jobDescription,
			SelectedRole:   analyzeRole,
		},
		Source: db.SourceCLI,
	})
	if err != nil {
		return err
	}

	if analyzeReport != "" {
		if err := os.WriteFile(analyzeReport, []byte(out.Report), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(analyzeOutput{
			ID:       out.ID.String(),
			Analysis: out.Result,
			Coaching: out.Coaching,
			Report:   analyzeReport,
		})
	}

	printer := observability.NewPrinter(w)
	printer.PrintAnalysis(out.Result)
	printer.PrintCoaching(out.Coaching)
	printer.PrintReportLocation(analyzeReport)
	return nil
}

func readResume(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	format, err := ingestion.DetectFormat("", path)
	if err != nil {
		return "", err
	}
	return ingestion.ExtractDocument(format, data)
}

func readJobDescription(cmd *cobra.Command, a *app) (string, error) {
	switch {
	case analyzeJD != "":
		return analyzeJD, nil
	case analyzeJDFile != "":
		data, err := os.ReadFile(analyzeJDFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return ingestion.CleanText(string(data)), nil
	case analyzeJDURL != "":
		var renderer fetch.Renderer
		if analyzeBrowser {
			renderer = fetch.NewBrowser(a.logger)
		}
		loader := ingestion.NewJobPostLoader(fetch.NewClient(fetch.Options{}), renderer, a.logger)
		return loader.JobDescriptionFromURL(cmd.Context(), strings.TrimSpace(analyzeJDURL))
	}
	return "", nil
}
