package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-analyzer/internal/fetch"
)

const postingHTML = `<!DOCTYPE html>
<html><body>
<nav>Jobs home</nav>
<main>
<h1>Backend Developer</h1>
<ul><li>Python</li><li>SQL</li><li>Docker</li></ul>
<form>Apply here</form>
</main>
<footer>Footer</footer>
</body></html>`

func servePosting(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestJobDescriptionFromURL_Markdown(t *testing.T) {
	server := servePosting(t, postingHTML)
	loader := NewJobPostLoader(fetch.NewClient(fetch.Options{}), nil, nil)

	text, err := loader.JobDescriptionFromURL(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "# Backend Developer")
	assert.Contains(t, text, "- Python")
	assert.Contains(t, text, "- Docker")
	assert.NotContains(t, text, "Jobs home")
	assert.NotContains(t, text, "Apply here")
	assert.NotContains(t, text, "Footer")
}

func TestJobDescriptionFromURL_BrowserFallback(t *testing.T) {
	server := servePosting(t, `<html><body><div id="root"></div></body></html>`)

	long := strings.Repeat("Python SQL Docker Kubernetes ", 30)
	var rendered []string
	renderer := fetch.RendererFunc(func(_ context.Context, rawURL string) (string, error) {
		rendered = append(rendered, rawURL)
		return "<html><body><main><p>" + long + "</p></main></body></html>", nil
	})

	loader := NewJobPostLoader(fetch.NewClient(fetch.Options{}), renderer, nil)
	text, err := loader.JobDescriptionFromURL(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{server.URL}, rendered)
	assert.Equal(t, strings.TrimSpace(long), text)
}

func TestJobDescriptionFromURL_BrowserFailureKeepsHTTPContent(t *testing.T) {
	server := servePosting(t, `<html><body><main><p>Short posting for a data analyst</p></main></body></html>`)

	core, logs := observer.New(zapcore.WarnLevel)
	renderer := fetch.RendererFunc(func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	})

	loader := NewJobPostLoader(fetch.NewClient(fetch.Options{}), renderer, zap.New(core))
	text, err := loader.JobDescriptionFromURL(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Short posting for a data analyst", text)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "browser fallback failed, using HTTP content", logs.All()[0].Message)
}

func TestJobDescriptionFromURL_Errors(t *testing.T) {
	loader := NewJobPostLoader(fetch.NewClient(fetch.Options{}), nil, nil)

	t.Run("invalid url", func(t *testing.T) {
		_, err := loader.JobDescriptionFromURL(context.Background(), "not-a-url")
		var fetchErr *fetch.Error
		assert.ErrorAs(t, err, &fetchErr)
	})

	t.Run("empty posting", func(t *testing.T) {
		server := servePosting(t, `<html><body><nav>only navigation</nav></body></html>`)
		_, err := loader.JobDescriptionFromURL(context.Background(), server.URL)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})
}
