package similarity

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embedding scores texts by the cosine of their embeddings.
type Embedding struct {
	embedder Embedder
}

// NewEmbedding creates an embedding-based scorer.
func NewEmbedding(embedder Embedder) *Embedding {
	return &Embedding{embedder: embedder}
}

// Similarity embeds both texts concurrently and returns their cosine as a
// percentage. Any embedding failure is returned.
func (e *Embedding) Similarity(ctx context.Context, a, b string) (float64, error) {
	var va, vb []float32

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := e.embedder.Embed(gctx, a)
		va = v
		return err
	})
	g.Go(func() error {
		v, err := e.embedder.Embed(gctx, b)
		vb = v
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to embed texts: %w", err)
	}

	if len(va) != len(vb) {
		return 0, fmt.Errorf("embedding dimensions differ: %d and %d", len(va), len(vb))
	}
	return toPercent(Cosine(widen(va), widen(vb))), nil
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
