// Package llm wraps the Gemini API for embeddings and coaching notes.
package llm

// ModelTier represents the capability level of a generation model.
type ModelTier string

const (
	// TierLite is for short, cheap generations such as coaching notes.
	TierLite ModelTier = "lite"
	// TierStandard is for longer structured output.
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider.
type Provider string

// ProviderGemini is the Google Gemini provider.
const ProviderGemini Provider = "gemini"

// DefaultEmbeddingModel is the embedding model used for semantic similarity.
const DefaultEmbeddingModel = "text-embedding-004"

// Config holds the model names used by the client.
type Config struct {
	Provider       Provider
	Models         map[ModelTier]string
	EmbeddingModel string
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash-lite",
			TierStandard: "gemini-2.0-flash",
		},
		EmbeddingModel: DefaultEmbeddingModel,
	}
}

// GetModel returns the model name for tier, falling back to the standard
// and then the lite model.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of c using model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := c.clone()
	next.Models[tier] = model
	return next
}

// WithEmbeddingModel returns a copy of c using model for embeddings.
func (c *Config) WithEmbeddingModel(model string) *Config {
	next := c.clone()
	next.EmbeddingModel = model
	return next
}

func (c *Config) clone() *Config {
	next := &Config{
		Provider:       c.Provider,
		Models:         make(map[ModelTier]string, len(c.Models)),
		EmbeddingModel: c.EmbeddingModel,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	return next
}
