package rendering

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// ReportFilename is the attachment name used when a report is downloaded.
const ReportFilename = "resume_analysis_report.md"

// ReportContentType is the media type of rendered reports.
const ReportContentType = "text/markdown; charset=utf-8"

// emptyList replaces lists with no entries.
const emptyList = "None"

//go:embed templates/report.md.tmpl
var templateFS embed.FS

// ReportData is the input to a report template.
type ReportData struct {
	ID          string
	GeneratedAt time.Time
	Result      *types.AnalysisResult
	// Coaching is optional.
	Coaching *types.Coaching
}

// Renderer executes a parsed report template. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"esc":        EscapeMarkdown,
	"list":       bulletList,
	"pct":        func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"deref":      func(v *float64) float64 { return *v },
	"sortedKeys": sortedKeys,
}

// NewRenderer parses the built-in report template.
func NewRenderer() (*Renderer, error) {
	content, err := fs.ReadFile(templateFS, "templates/report.md.tmpl")
	if err != nil {
		return nil, &TemplateError{Message: "failed to read embedded template", Cause: err}
	}
	return parse("report", string(content))
}

// NewRendererFromFile parses a custom report template from disk. The template
// has access to the same functions as the built-in one.
func NewRendererFromFile(path string) (*Renderer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateError{Message: fmt.Sprintf("template file not found: %s", path), Cause: err}
		}
		return nil, &TemplateError{Message: fmt.Sprintf("failed to read template file: %s", path), Cause: err}
	}
	return parse(path, string(content))
}

func parse(name, content string) (*Renderer, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse template", Cause: err}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template for one analysis.
func (r *Renderer) Render(data ReportData) (string, error) {
	if data.Result == nil {
		return "", &RenderError{Message: "analysis result is required"}
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	var out strings.Builder
	if err := r.tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

// RenderReport renders data with the built-in template.
func RenderReport(data ReportData) (string, error) {
	r, err := NewRenderer()
	if err != nil {
		return "", err
	}
	return r.Render(data)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return emptyList
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + EscapeMarkdown(item)
	}
	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
