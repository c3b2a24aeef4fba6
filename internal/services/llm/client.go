// Package llm talks to the chat-completion backends used for annotation and
// chaptering.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/utils"
)

// ErrEmptyResponse is returned when a backend answers without any content.
var ErrEmptyResponse = errors.New("empty response from LLM")

// Request is a single-turn completion request.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client sends one prompt and returns the raw reply text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// StatusError is a non-2xx answer from a provider.
type StatusError struct {
	Provider   config.Provider
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// New builds the client matching the settings' request shape.
func New(ctx context.Context, settings config.LLMSettings, opts ...Option) (Client, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: set %s for provider %s",
			config.ErrMissingCredential, settings.Spec.CredentialEnv, settings.Spec.Provider)
	}

	switch settings.Spec.Shape {
	case config.ShapeChatCompletions:
		return NewChatClient(settings, opts...), nil
	case config.ShapeGemini:
		return NewGeminiClient(ctx, settings)
	default:
		return nil, fmt.Errorf("%w: no client for %s", config.ErrUnknownProvider, settings.Spec.Provider)
	}
}

// WithDefaults fills zero request fields from settings.
func WithDefaults(req Request, settings config.LLMSettings) Request {
	if req.Model == "" {
		req.Model = settings.Model
	}
	if req.Temperature == 0 {
		req.Temperature = settings.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = settings.MaxTokens
	}
	return req
}

// FromConfig resolves the configured provider and builds its client. A
// missing credential fails here, before any request is made.
func FromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (Client, config.LLMSettings, error) {
	settings, err := cfg.ResolveLLM()
	if err != nil {
		return nil, config.LLMSettings{}, err
	}
	client, err := New(ctx, settings, opts...)
	if err != nil {
		return nil, config.LLMSettings{}, err
	}
	utils.LogVerbose("Using %s model %s", settings.Spec.Provider, settings.Model)
	return client, settings, nil
}
