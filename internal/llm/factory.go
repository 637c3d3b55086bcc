package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "qwen", "dashscope":
		return NewQwenProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, qwen, ollama)", config.Provider)
	}
}

// APIKeyEnvVar names the environment variable holding the API key for
// a provider. Ollama needs none.
func APIKeyEnvVar(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "qwen", "dashscope":
		return "QWEN_API_KEY"
	default:
		return ""
	}
}
