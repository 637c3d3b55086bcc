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

func TestOllamaProvider_Complete_Success(t *testing.T) {
	var got ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		resp := ollamaResponse{
			Model:           "qwen2.5:14b",
			Response:        "```json\n{\"is_precision_evidence\": false}\n```",
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := Config{
		BaseURL: server.URL,
		Model:   "qwen2.5:14b",
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), Request{
		System: SystemText,
		Prompt: ExtractTextPrompt("EGFR L858R 突变"),
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if !strings.Contains(resp.Content, "is_precision_evidence") {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
	if got.Stream {
		t.Error("Expected non-streaming request")
	}
	if got.System != SystemText {
		t.Errorf("Unexpected system prompt: %s", got.System)
	}
	if !strings.Contains(got.Prompt, "EGFR L858R") {
		t.Error("Expected page text in the prompt")
	}
}

func TestOllamaProvider_Complete_SendsImage(t *testing.T) {
	var got ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llava", Response: "ok", Done: true})
	}))
	defer server.Close()

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	if err := os.WriteFile(imgPath, []byte{0x89, 0x50, 0x4e, 0x47}, 0644); err != nil {
		t.Fatal(err)
	}

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llava"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), Request{
		System:    SystemVision,
		Prompt:    ExtractImagePrompt(),
		ImagePath: imgPath,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if len(got.Images) != 1 || got.Images[0] != "iVBORw==" {
		t.Errorf("Expected base64 image payload, got %v", got.Images)
	}
}

func TestOllamaProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected API error detail, got %v", err)
	}
}

func TestOllamaProvider_Complete_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "m"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), Request{Prompt: "x"}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestOllamaProvider_Complete_NoModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error when no model provided, got nil")
	}
	if !strings.Contains(err.Error(), "must be specified") {
		t.Errorf("Expected error about missing model, got %v", err)
	}
}
