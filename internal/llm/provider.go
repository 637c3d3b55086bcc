package llm

import (
	"context"
	"time"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single prompt (optionally with a page image) and
	// returns the raw model output
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one completion
type Request struct {
	// System is the system prompt
	System string

	// Prompt is the user prompt
	Prompt string

	// ImagePath is an optional PNG of the page being analyzed.
	// Providers without vision support must reject requests that set it.
	ImagePath string

	// Model overrides the configured model for this request
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the raw model output
type Response struct {
	// Content is the unparsed model output
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "qwen", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Qwen
	APIKey string

	// BaseURL for custom endpoints (DashScope compatible mode, Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   60 * time.Second,
		MaxTokens: 2000,
	}
}

// ConfigFromModel converts model.AIConfig to llm.Config
func ConfigFromModel(ai model.AIConfig) Config {
	return Config{
		Provider:  ai.Provider,
		Model:     ai.Model,
		APIKey:    ai.APIKey,
		BaseURL:   ai.BaseURL,
		Timeout:   ai.Timeout,
		MaxTokens: ai.MaxTokens,
	}
}
