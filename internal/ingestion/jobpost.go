package ingestion

import (
	"context"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/fetch"
)

// Fetcher downloads a page over HTTP.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// JobPostLoader turns a job posting URL into job description text.
type JobPostLoader struct {
	fetcher  Fetcher
	renderer fetch.Renderer
	logger   *zap.Logger
}

// NewJobPostLoader returns a loader. renderer may be nil, which disables
// the headless browser fallback.
func NewJobPostLoader(fetcher Fetcher, renderer fetch.Renderer, logger *zap.Logger) *JobPostLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobPostLoader{fetcher: fetcher, renderer: renderer, logger: logger}
}

// JobDescriptionFromURL fetches a posting, isolates its body with
// platform-specific selectors and returns it as cleaned Markdown. When the
// HTTP body is too short and a renderer is configured, the page is rendered
// in a browser and extracted again; render failures keep the HTTP content.
func (l *JobPostLoader) JobDescriptionFromURL(ctx context.Context, rawURL string) (string, error) {
	platform := fetch.DetectPlatform(rawURL)
	log := l.logger.With(zap.String("url", rawURL), zap.String("platform", string(platform)))

	page, err := l.fetcher.Get(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job posting: %w", err)
	}

	content, err := fetch.ExtractContent(page.HTML, platform)
	if err != nil {
		return "", fmt.Errorf("failed to extract job posting: %w", err)
	}
	log.Debug("extracted posting over HTTP", zap.Int("chars", len(content.Text)))

	if l.renderer != nil && fetch.NeedsBrowser(content.Text) {
		log.Info("posting content is short, rendering in browser", zap.Int("chars", len(content.Text)))
		if rendered, renderErr := l.render(ctx, rawURL, platform); renderErr != nil {
			log.Warn("browser fallback failed, using HTTP content", zap.Error(renderErr))
		} else {
			content = rendered
		}
	}

	text := toMarkdown(content, log)
	if text == "" {
		return "", &ExtractionError{Format: "html", Message: "job posting has no text", Cause: ErrEmptyDocument}
	}
	return text, nil
}

func (l *JobPostLoader) render(ctx context.Context, rawURL string, platform fetch.Platform) (*fetch.Content, error) {
	html, err := l.renderer.Render(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return fetch.ExtractContent(html, platform)
}

// toMarkdown keeps headings and bullet lists from the posting. Conversion
// errors fall back to the plain text.
func toMarkdown(content *fetch.Content, log *zap.Logger) string {
	md, err := htmltomarkdown.ConvertString(content.HTML)
	if err != nil {
		log.Debug("markdown conversion failed", zap.Error(err))
		return CleanText(content.Text)
	}
	return CleanText(md)
}
