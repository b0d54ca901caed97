package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the shortest posting text accepted from a plain HTTP
// fetch before a browser render is attempted.
const MinContentLength = 500

// NeedsBrowser reports whether text is too short to be a rendered posting,
// which usually means the page builds its content with JavaScript.
func NeedsBrowser(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}

// Renderer returns the HTML of a page after client-side rendering.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (string, error)
}

// Browser renders pages in headless Chrome. Chrome or Chromium must be installed.
type Browser struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready for scripts to finish.
	Settle time.Duration
	logger *zap.Logger
}

// NewBrowser returns a Browser with a 30s timeout and a 3s settle delay.
func NewBrowser(logger *zap.Logger) *Browser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Browser{Timeout: DefaultTimeout, Settle: 3 * time.Second, logger: logger}
}

// Render implements Renderer.
func (b *Browser) Render(ctx context.Context, rawURL string) (string, error) {
	if err := ValidateURL(rawURL); err != nil {
		return "", err
	}
	b.logger.Debug("rendering page in headless browser", zap.String("url", rawURL))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "browser rendering failed", Cause: err}
	}

	b.logger.Debug("rendered page", zap.String("url", rawURL), zap.Int("bytes", len(html)))
	return html, nil
}

var _ Renderer = (*Browser)(nil)

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, rawURL string) (string, error)

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, rawURL string) (string, error) {
	return f(ctx, rawURL)
}
