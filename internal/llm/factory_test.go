package llm

import (
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		config   Config
		wantName string
		wantErr  bool
	}{
		{Config{Provider: "openai", APIKey: "k"}, "openai", false},
		{Config{Provider: "OpenAI", APIKey: "k"}, "openai", false},
		{Config{Provider: "qwen", APIKey: "k"}, "qwen", false},
		{Config{Provider: "dashscope", APIKey: "k"}, "qwen", false},
		{Config{Provider: "ollama", Model: "llava"}, "ollama", false},
		{Config{Provider: "openai"}, "", true}, // no API key
		{Config{Provider: "gemini"}, "", true},
		{Config{Provider: ""}, "", true},
	}

	for _, tt := range tests {
		p, err := NewProvider(tt.config)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewProvider(%q) expected error", tt.config.Provider)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewProvider(%q) failed: %v", tt.config.Provider, err)
			continue
		}
		if p.Name() != tt.wantName {
			t.Errorf("NewProvider(%q).Name() = %q, want %q", tt.config.Provider, p.Name(), tt.wantName)
		}
	}
}

func TestNewProvider_UnknownProviderError(t *testing.T) {
	_, err := NewProvider(Config{Provider: "gemini"})
	if err == nil || !strings.Contains(err.Error(), "unknown LLM provider") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar("openai"); got != "OPENAI_API_KEY" {
		t.Errorf("Unexpected env var %s", got)
	}
	if got := APIKeyEnvVar("qwen"); got != "QWEN_API_KEY" {
		t.Errorf("Unexpected env var %s", got)
	}
	if got := APIKeyEnvVar("ollama"); got != "" {
		t.Errorf("Expected no env var for ollama, got %s", got)
	}
}
