package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/utils"
)

// ChatClient speaks the OpenAI-compatible /chat/completions API. It serves
// both OpenAI and DeepSeek.
type ChatClient struct {
	provider   config.Provider
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a ChatClient.
type Option func(*ChatClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cc *ChatClient) {
		if c != nil {
			cc.httpClient = c
		}
	}
}

// WithBaseURL overrides the provider's base URL.
func WithBaseURL(url string) Option {
	return func(cc *ChatClient) {
		if url != "" {
			cc.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// ChatMessage is one message of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is the response body.
type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatError is the error envelope returned on failure.
type ChatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// NewChatClient creates a client for an OpenAI-compatible provider.
func NewChatClient(settings config.LLMSettings, opts ...Option) *ChatClient {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = settings.Spec.BaseURL
	}
	c := &ChatClient{
		provider:   settings.Spec.Provider,
		apiKey:     settings.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the request and returns the first choice's content.
func (c *ChatClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]ChatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: req.Prompt})

	reqData, err := json.Marshal(ChatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			utils.LogWarning("Failed to close response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Provider: c.provider, StatusCode: resp.StatusCode}
		var chatError ChatError
		if err := json.Unmarshal(respBody, &chatError); err == nil && chatError.Error.Message != "" {
			statusErr.Message = chatError.Error.Message
		} else {
			statusErr.Message = strings.TrimSpace(string(respBody))
		}
		return "", statusErr
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	utils.LogDebug("%s usage: %d prompt + %d completion tokens",
		c.provider, chatResp.Usage.PromptTokens, chatResp.Usage.CompletionTokens)
	return chatResp.Choices[0].Message.Content, nil
}
