package similarity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/logging"
)

// ThrottleOptions bounds calls to a shared similarity capability.
type ThrottleOptions struct {
	// RequestsPerSecond limits calls to the inner capability. Zero means unlimited.
	RequestsPerSecond float64
	Burst             int
	// CacheSize is the number of scored pairs kept. Zero disables caching.
	CacheSize int
	// Timeout bounds each shared call, including its rate limit wait. Zero
	// means no timeout.
	Timeout time.Duration
}

// Throttled wraps a similarity capability with a rate limit, a bounded result
// cache keyed by content fingerprint, and de-duplication of identical
// in-flight requests.
type Throttled struct {
	inner   analysis.Similarity
	limiter *rate.Limiter
	opts    ThrottleOptions
	group   singleflight.Group
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[string]float64
	order []string
}

// NewThrottled wraps inner.
func NewThrottled(inner analysis.Similarity, opts ThrottleOptions, logger *zap.Logger) *Throttled {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
		opts:    opts,
		logger:  logging.OrNop(logger),
		cache:   make(map[string]float64),
	}
}

// Similarity implements analysis.Similarity.
//
// Identical in-flight requests share one call to the inner capability. The
// shared call runs detached from any single caller's cancellation, bounded by
// Timeout, so a caller that gives up only abandons its own wait.
func (t *Throttled) Similarity(ctx context.Context, a, b string) (float64, error) {
	key := analysis.FingerprintTexts(a, b)
	if score, ok := t.cached(key); ok {
		t.logger.Debug("similarity cache hit", zap.String("key", key[:12]))
		return score, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	ch := t.group.DoChan(key, func() (any, error) {
		return t.compute(context.WithoutCancel(ctx), key, a, b)
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		if res.Shared {
			t.logger.Debug("similarity request shared", zap.String("key", key[:12]))
		}
		return res.Val.(float64), nil
	}
}

// compute waits for the rate limiter and scores the pair, caching the result.
func (t *Throttled) compute(ctx context.Context, key, a, b string) (float64, error) {
	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("failed to wait for similarity rate limit: %w", err)
	}

	score, err := t.inner.Similarity(ctx, a, b)
	if err != nil {
		return 0, err
	}
	t.store(key, score)
	return score, nil
}

func (t *Throttled) cached(key string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	score, ok := t.cache[key]
	return score, ok
}

// store records a score, evicting the oldest entry once the cache is full.
func (t *Throttled) store(key string, score float64) {
	if t.opts.CacheSize <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.cache[key]; ok {
		return
	}
	if len(t.order) >= t.opts.CacheSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.cache, oldest)
	}
	t.cache[key] = score
	t.order = append(t.order, key)
}
