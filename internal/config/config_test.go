package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytkit/ytkit/internal/utils"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ProviderOpenAI, cfg.Provider())
	assert.Equal(t, DefaultBatchSize, cfg.Analyze.BatchSize)
	assert.Equal(t, DefaultTemperature, cfg.LLM.Temperature)
	assert.Equal(t, DefaultMaxTokens, cfg.LLM.MaxTokens)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, DefaultMaxSegments, cfg.Preprocess.MaxSegments)
	assert.Equal(t, []string{"en", "zh-Hans"}, cfg.Download.Languages)
	assert.Equal(t, ".", cfg.Prefix)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
prefix: /videos
llm:
  provider: DeepSeek
  timeoutSeconds: 45
analyze:
  batchSize: 3
download:
  languages: [en, es]
`)

	cfg, err := load(path, envMap(map[string]string{"DEEPSEEK_API_KEY": "ds-key"}))
	require.NoError(t, err)

	assert.Equal(t, ProviderDeepSeek, cfg.Provider())
	assert.Equal(t, "/videos", cfg.Prefix)
	assert.Equal(t, 45, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Analyze.BatchSize)
	assert.Equal(t, []string{"en", "es"}, cfg.Download.Languages)
	assert.Equal(t, "ds-key", cfg.LLM.APIKey)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[llm]
provider = "gemini"
model = "gemini-custom"
max_tokens = 2000

[preprocess]
max_segments = 50
`)

	cfg, err := load(path, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider())
	assert.Equal(t, "gemini-custom", cfg.LLM.Model)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, 50, cfg.Preprocess.MaxSegments)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "config.json", `{}`)

	_, err := load(path, envMap(nil))
	require.Error(t, err)
	var vErr *utils.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "llm:\n  provider: openai\n  model: from-file\n")

	cfg, err := load(path, envMap(map[string]string{
		"YTKIT_LLM_PROVIDER":   "deepseek",
		"YTKIT_DEEPSEEK_MODEL": "deepseek-reasoner",
		"DEEPSEEK_API_KEY":     "  ds  ",
		"OPENAI_API_KEY":       "ignored",
		"YOUTUBE_API_KEY":      "yt",
		"YTKIT_PREFIX":         "/tmp/p",
	}))
	require.NoError(t, err)

	assert.Equal(t, ProviderDeepSeek, cfg.Provider())
	assert.Equal(t, "deepseek-reasoner", cfg.LLM.Model)
	assert.Equal(t, "ds", cfg.LLM.APIKey)
	assert.Equal(t, "yt", cfg.YouTube.APIKey)
	assert.Equal(t, "/tmp/p", cfg.Prefix)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "anthropic-ish" }, "llm.provider"},
		{"timeout too short", func(c *Config) { c.LLM.TimeoutSeconds = 5 }, "llm.timeoutSeconds"},
		{"timeout too long", func(c *Config) { c.LLM.TimeoutSeconds = 601 }, "llm.timeoutSeconds"},
		{"negative batch", func(c *Config) { c.Analyze.BatchSize = -1 }, "analyze.batchSize"},
		{"negative budget", func(c *Config) { c.Preprocess.MaxSegments = -2 }, "preprocess.maxSegments"},
		{"bad language", func(c *Config) { c.Download.Languages = []string{"not a tag!"} }, "download.languages"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var vErr *utils.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestUnknownProviderIsTyped(t *testing.T) {
	_, err := load("", envMap(map[string]string{"YTKIT_LLM_PROVIDER": "mystery"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestResolveLLM(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "sk-test"

	settings, err := cfg.ResolveLLM()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, settings.Spec.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.Model)
	assert.Equal(t, "https://api.openai.com/v1", settings.BaseURL)
	assert.Equal(t, 60*time.Second, settings.Timeout)
	assert.Equal(t, 0.3, settings.Temperature)
	assert.Equal(t, 4000, settings.MaxTokens)
}

func TestResolveLLMMissingCredential(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "deepseek"

	_, err := cfg.ResolveLLM()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p)
	assert.Equal(t, "OPENAI_API_KEY", p.Spec().CredentialEnv)
	assert.Equal(t, "deepseek-chat", ProviderDeepSeek.Spec().DefaultModel)
	assert.Equal(t, ShapeGemini, ProviderGemini.Spec().Shape)

	_, err = ParseProvider("")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Equal(t, []Provider{ProviderDeepSeek, ProviderGemini, ProviderOpenAI}, Providers())
}

func TestNewRunInput(t *testing.T) {
	dir := t.TempDir()
	wf := filepath.Join(dir, "wf.yaml")
	require.NoError(t, os.WriteFile(wf, []byte("name: x"), 0644))
	txt := filepath.Join(dir, "wf.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))

	in, err := NewRunInput(wf, dir, "")
	require.NoError(t, err)
	assert.Equal(t, dir, in.ProjectDir)

	_, err = NewRunInput("", dir, "")
	assert.Error(t, err)

	_, err = NewRunInput(txt, dir, "")
	assert.Error(t, err)

	_, err = NewRunInput(wf, filepath.Join(dir, "missing"), "")
	assert.Error(t, err)

	_, err = NewRunInput(wf, filepath.Join(dir, "missing"), "https://youtu.be/abcdefghijk")
	assert.NoError(t, err)
}
