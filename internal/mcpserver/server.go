// Package mcpserver exposes resume analysis as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// AnalyzeInput is the argument of the analyze_resume tool.
type AnalyzeInput struct {
	ResumeText     string `json:"resume_text" jsonschema:"plain text of the resume"`
	JobDescription string `json:"job_description,omitempty" jsonschema:"job description text; omit to compare against the role's canonical skills"`
	SelectedRole   string `json:"selected_role,omitempty" jsonschema:"role to analyze against instead of inferring it from the job description"`
}

// AnalyzeOutput is the result of the analyze_resume tool.
type AnalyzeOutput struct {
	ID       string                `json:"id"`
	Analysis *types.AnalysisResult `json:"analysis"`
	Coaching *types.Coaching       `json:"coaching,omitempty"`
	Report   string                `json:"report"`
}

// RolesInput is the (empty) argument of the list_roles tool.
type RolesInput struct{}

// RoleInfo describes one taxonomy role.
type RoleInfo struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// RolesOutput is the result of the list_roles tool.
type RolesOutput struct {
	Roles []RoleInfo `json:"roles"`
}

// NewServer builds an MCP server with the analysis tools registered.
func NewServer(runner *pipeline.Runner, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "resume_analyzer",
		Version: version,
	}, nil)
	registerAnalyze(server, runner)
	registerRoles(server, runner)
	return server
}

// Run serves over stdio until the client disconnects or ctx is done.
func Run(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAnalyze(server *mcp.Server, runner *pipeline.Runner) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_resume",
		Description: "Score a resume against a job description. Returns the detected role, overall and per-category scores, matched and missing skills, strengths, weaknesses, suggestions and a Markdown report.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, *AnalyzeOutput, error) {
		out, err := runner.Run(ctx, pipeline.Request{
			Input: types.AnalysisInput{
				ResumeText:     input.ResumeText,
				JobDescription: input.JobDescription,
				SelectedRole:   input.SelectedRole,
			},
			Source: db.SourceMCP,
		})
		if errors.Is(err, pipeline.ErrEmptyResume) {
			return nil, nil, errors.New("resume_text is required")
		}
		if err != nil {
			return nil, nil, err
		}
		return nil, &AnalyzeOutput{
			ID:       out.ID.String(),
			Analysis: out.Result,
			Coaching: out.Coaching,
			Report:   out.Report,
		}, nil
	})
}

func registerRoles(server *mcp.Server, runner *pipeline.Runner) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_roles",
		Description: "List the roles the analyzer knows, in inference order, with each role's canonical tech stack.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(context.Context, *mcp.CallToolRequest, RolesInput) (*mcp.CallToolResult, *RolesOutput, error) {
		tax := runner.Analyzer.Taxonomy()
		names := tax.Roles()
		out := &RolesOutput{Roles: make([]RoleInfo, 0, len(names))}
		for _, name := range names {
			skills := tax.RoleSkills(name)
			if skills == nil {
				skills = []string{}
			}
			out.Roles = append(out.Roles, RoleInfo{Name: name, Skills: skills})
		}
		return nil, out, nil
	})
}
