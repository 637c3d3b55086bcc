package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// DashScopeBaseURL is the OpenAI-compatible endpoint for Qwen models.
const DashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// OpenAIProvider implements the Provider interface against any
// OpenAI-compatible Chat Completions endpoint. Qwen runs through the
// same provider via the DashScope compatible-mode base URL.
type OpenAIProvider struct {
	client *openai.Client
	name   string
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	return newCompatibleProvider("openai", config)
}

// NewQwenProvider creates an OpenAI-compatible provider pointed at
// DashScope.
func NewQwenProvider(config Config) (*OpenAIProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = DashScopeBaseURL
	}
	return newCompatibleProvider("qwen", config)
}

func newCompatibleProvider(name string, config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		name:   name,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Simple check: try to list models (lightweight API call)
	_, err := p.client.ListModels(ctx)
	if err != nil {
		// Log the actual error for debugging (this helps users diagnose API key issues)
		fmt.Fprintf(os.Stderr, "%s API check failed: %v\n", p.name, err)
		return false
	}
	return true
}

// Complete sends one chat completion request
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = p.defaultModel(req.ImagePath != "")
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 2000
	}

	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	userMessage, err := buildUserMessage(req)
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		},
		userMessage,
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.3, // Lower temperature for more focused, factual output
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	return &Response{
		Content:    strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// defaultModel picks the fallback model when neither the request nor
// the config names one.
func (p *OpenAIProvider) defaultModel(vision bool) string {
	if p.name == "qwen" {
		if vision {
			return "qwen-vl-max"
		}
		return "qwen-max"
	}
	if vision {
		return openai.GPT4o
	}
	return openai.GPT4oMini
}

// buildUserMessage packs the prompt, and the page image when present,
// into one user message. Images travel inline as base64 data URLs.
func buildUserMessage(req Request) (openai.ChatCompletionMessage, error) {
	if req.ImagePath == "" {
		return openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		}, nil
	}

	data, err := os.ReadFile(req.ImagePath)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("read page image %s: %w", req.ImagePath, err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
			},
			{
				Type: openai.ChatMessagePartTypeText,
				Text: req.Prompt,
			},
		},
	}, nil
}
