package similarity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
		{name: "length mismatch", a: []float64{1}, b: []float64{1, 1}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestLexical(t *testing.T) {
	ctx := context.Background()
	var l Lexical

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "python sql docker", b: "python sql docker", want: 100},
		{name: "case and order", a: "Docker, SQL and Python", b: "python and sql docker", want: 100},
		{name: "disjoint", a: "python", b: "kotlin swift", want: 0},
		{name: "empty", a: "", b: "python", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Similarity(ctx, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	partial, err := l.Similarity(ctx, "python sql", "python docker")
	require.NoError(t, err)
	assert.Equal(t, 50.0, partial)
}

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[text], nil
}

func TestEmbedding(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedding(&fakeEmbedder{vectors: map[string][]float32{
		"resume":   {1, 0, 0},
		"same":     {2, 0, 0},
		"opposite": {-1, 0, 0},
		"diagonal": {1, 1, 0},
		"short":    {1, 0},
	}})

	got, err := e.Similarity(ctx, "resume", "same")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	got, err = e.Similarity(ctx, "resume", "opposite")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = e.Similarity(ctx, "resume", "diagonal")
	require.NoError(t, err)
	assert.Equal(t, 70.71, got)

	_, err = e.Similarity(ctx, "resume", "short")
	assert.ErrorContains(t, err, "dimensions differ")
}

func TestEmbedding_ErrorPropagates(t *testing.T) {
	boom := errors.New("quota exceeded")
	e := NewEmbedding(&fakeEmbedder{err: boom})

	_, err := e.Similarity(context.Background(), "a", "b")
	assert.ErrorIs(t, err, boom)
}

type countingSimilarity struct {
	calls atomic.Int32
	score float64
	err   error
	block chan struct{}
}

func (c *countingSimilarity) Similarity(_ context.Context, _, _ string) (float64, error) {
	c.calls.Add(1)
	if c.block != nil {
		<-c.block
	}
	return c.score, c.err
}

func TestThrottled_CachesRepeatedPairs(t *testing.T) {
	inner := &countingSimilarity{score: 42}
	th := NewThrottled(inner, ThrottleOptions{CacheSize: 4}, nil)
	ctx := context.Background()

	for range 3 {
		got, err := th.Similarity(ctx, "resume text", "job text")
		require.NoError(t, err)
		assert.Equal(t, 42.0, got)
	}
	assert.Equal(t, int32(1), inner.calls.Load())

	// Normalization-equivalent texts share a cache entry.
	_, err := th.Similarity(ctx, "Resume   TEXT", "job text")
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestThrottled_EvictsOldest(t *testing.T) {
	inner := &countingSimilarity{score: 1}
	th := NewThrottled(inner, ThrottleOptions{CacheSize: 2}, nil)
	ctx := context.Background()

	for _, b := range []string{"a", "b", "c", "a"} {
		_, err := th.Similarity(ctx, "resume", b)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(4), inner.calls.Load())
	assert.Len(t, th.cache, 2)
}

func TestThrottled_NoCache(t *testing.T) {
	inner := &countingSimilarity{score: 1}
	th := NewThrottled(inner, ThrottleOptions{}, nil)

	for range 2 {
		_, err := th.Similarity(context.Background(), "a", "b")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestThrottled_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("unavailable")
	inner := &countingSimilarity{err: boom}
	th := NewThrottled(inner, ThrottleOptions{CacheSize: 4}, nil)

	for range 2 {
		_, err := th.Similarity(context.Background(), "a", "b")
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestThrottled_SharesInFlightRequests(t *testing.T) {
	inner := &countingSimilarity{score: 7, block: make(chan struct{})}
	th := NewThrottled(inner, ThrottleOptions{CacheSize: 4}, nil)

	var wg sync.WaitGroup
	var started atomic.Int32
	results := make([]float64, 5)
	errs := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Add(1)
			results[i], errs[i] = th.Similarity(context.Background(), "a", "b")
		}(i)
	}

	require.Eventually(t, func() bool {
		return started.Load() == 5 && inner.calls.Load() == 1
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(inner.block)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, 7.0, results[i])
	}
}

// contextSimilarity blocks until released or until its context ends.
type contextSimilarity struct {
	calls   atomic.Int32
	score   float64
	started chan struct{}
	release chan struct{}
}

func (c *contextSimilarity) Similarity(ctx context.Context, _, _ string) (float64, error) {
	if c.calls.Add(1) == 1 {
		close(c.started)
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-c.release:
		return c.score, nil
	}
}

func TestThrottled_CallerCancelDoesNotFailSharedRequest(t *testing.T) {
	inner := &contextSimilarity{score: 7, started: make(chan struct{}), release: make(chan struct{})}
	th := NewThrottled(inner, ThrottleOptions{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := th.Similarity(ctx, "resume", "job")
		first <- err
	}()
	<-inner.started

	type result struct {
		score float64
		err   error
	}
	second := make(chan result, 1)
	go func() {
		score, err := th.Similarity(context.Background(), "resume", "job")
		second <- result{score, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-first:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(inner.release)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Equal(t, 7.0, res.score)
	case <-time.After(time.Second):
		t.Fatal("shared caller did not return")
	}
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestThrottled_TimeoutBoundsSharedCall(t *testing.T) {
	inner := &contextSimilarity{score: 7, started: make(chan struct{}), release: make(chan struct{})}
	th := NewThrottled(inner, ThrottleOptions{Timeout: 20 * time.Millisecond}, nil)

	_, err := th.Similarity(context.Background(), "resume", "job")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestThrottled_RateLimitHonorsContext(t *testing.T) {
	inner := &countingSimilarity{score: 1}
	th := NewThrottled(inner, ThrottleOptions{RequestsPerSecond: 0.001, Burst: 1}, nil)

	_, err := th.Similarity(context.Background(), "a", "b")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = th.Similarity(ctx, "a", "c")
	assert.Error(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())
}
