package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chatStub emulates an OpenAI-compatible chat completions endpoint and
// captures the last request body.
func chatStub(t *testing.T, content string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		*captured = body

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  body["model"],
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": content},
				},
			},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
		})
	}))
}

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
	if _, err := NewQwenProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestOpenAIProvider_Complete_Text(t *testing.T) {
	var captured map[string]any
	server := chatStub(t, "```json\n{\"is_precision_evidence\": false}\n```", &captured)
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("Unexpected provider name %s", provider.Name())
	}

	resp, err := provider.Complete(context.Background(), Request{
		System: SystemText,
		Prompt: ExtractTextPrompt("KRAS G12C 结直肠癌"),
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if !strings.Contains(resp.Content, "is_precision_evidence") {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if resp.TokensUsed != 20 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
	if captured["model"] != "gpt-4o" {
		t.Errorf("Unexpected model: %v", captured["model"])
	}

	messages := captured["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("Expected system+user messages, got %d", len(messages))
	}
	user := messages[1].(map[string]any)
	if !strings.Contains(user["content"].(string), "KRAS G12C") {
		t.Error("Expected page text in the user prompt")
	}
}

func TestOpenAIProvider_Complete_VisionSendsDataURL(t *testing.T) {
	var captured map[string]any
	server := chatStub(t, "ok", &captured)
	defer server.Close()

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	if err := os.WriteFile(imgPath, []byte{0x89, 0x50, 0x4e, 0x47}, 0644); err != nil {
		t.Fatal(err)
	}

	provider, err := NewQwenProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "qwen-vl-max"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.Name() != "qwen" {
		t.Errorf("Unexpected provider name %s", provider.Name())
	}

	_, err = provider.Complete(context.Background(), Request{
		System:    SystemVision,
		Prompt:    ExtractImagePrompt(),
		ImagePath: imgPath,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	messages := captured["messages"].([]any)
	user := messages[1].(map[string]any)
	parts, ok := user["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("Expected two-part user message, got %v", user["content"])
	}
	imagePart := parts[0].(map[string]any)
	if imagePart["type"] != "image_url" {
		t.Errorf("Expected image part first, got %v", imagePart["type"])
	}
	url := imagePart["image_url"].(map[string]any)["url"].(string)
	if url != "data:image/png;base64,iVBORw==" {
		t.Errorf("Expected inline data URL, got %s", url)
	}
	textPart := parts[1].(map[string]any)
	if textPart["type"] != "text" {
		t.Errorf("Expected text part second, got %v", textPart["type"])
	}
}

func TestOpenAIProvider_Complete_MissingImage(t *testing.T) {
	provider, err := NewOpenAIProvider(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), Request{
		Prompt:    "x",
		ImagePath: "/nonexistent/page.png",
	})
	if err == nil {
		t.Fatal("Expected error for missing image")
	}
	if !strings.Contains(err.Error(), "read page image") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestQwenProvider_DefaultsToDashScope(t *testing.T) {
	provider, err := NewQwenProvider(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.config.BaseURL != DashScopeBaseURL {
		t.Errorf("Expected DashScope base URL, got %s", provider.config.BaseURL)
	}
}
