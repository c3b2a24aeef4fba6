package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownProvider is returned for a provider tag outside the supported set.
	ErrUnknownProvider = errors.New("unknown LLM provider")
	// ErrMissingCredential is returned when the selected provider has no API key.
	ErrMissingCredential = errors.New("missing LLM credential")
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderDeepSeek Provider = "deepseek"
	ProviderGemini   Provider = "gemini"
)

// RequestShape selects the wire protocol used to talk to a provider.
type RequestShape int

const (
	// ShapeChatCompletions is the OpenAI-compatible /chat/completions API.
	ShapeChatCompletions RequestShape = iota
	// ShapeGemini is the Gemini GenerateContent API.
	ShapeGemini
)

// ProviderSpec is the static description of a provider.
type ProviderSpec struct {
	Provider      Provider
	CredentialEnv string
	ModelEnv      string
	DefaultModel  string
	BaseURL       string
	Shape         RequestShape
}

var providerSpecs = map[Provider]ProviderSpec{
	ProviderOpenAI: {
		Provider:      ProviderOpenAI,
		CredentialEnv: "OPENAI_API_KEY",
		ModelEnv:      "YTKIT_OPENAI_MODEL",
		DefaultModel:  "gpt-4o-mini",
		BaseURL:       "https://api.openai.com/v1",
		Shape:         ShapeChatCompletions,
	},
	ProviderDeepSeek: {
		Provider:      ProviderDeepSeek,
		CredentialEnv: "DEEPSEEK_API_KEY",
		ModelEnv:      "YTKIT_DEEPSEEK_MODEL",
		DefaultModel:  "deepseek-chat",
		BaseURL:       "https://api.deepseek.com",
		Shape:         ShapeChatCompletions,
	},
	ProviderGemini: {
		Provider:      ProviderGemini,
		CredentialEnv: "GEMINI_API_KEY",
		ModelEnv:      "YTKIT_GEMINI_MODEL",
		DefaultModel:  "gemini-2.0-flash",
		Shape:         ShapeGemini,
	},
}

// ParseProvider maps a tag such as "OpenAI" to a Provider.
func ParseProvider(tag string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := providerSpecs[p]; !ok {
		return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownProvider, tag, strings.Join(providerNames(), ", "))
	}
	return p, nil
}

// Spec returns the static description of p. It panics on providers that did
// not come from ParseProvider or the constants above.
func (p Provider) Spec() ProviderSpec {
	spec, ok := providerSpecs[p]
	if !ok {
		panic(fmt.Sprintf("config: no spec for provider %q", string(p)))
	}
	return spec
}

func (p Provider) String() string {
	return string(p)
}

// Providers lists the supported providers in name order.
func Providers() []Provider {
	names := providerNames()
	out := make([]Provider, len(names))
	for i, n := range names {
		out[i] = Provider(n)
	}
	return out
}

func providerNames() []string {
	names := make([]string, 0, len(providerSpecs))
	for p := range providerSpecs {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}
