// Package config loads ytkit settings from an optional YAML or TOML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/ytkit/ytkit/internal/utils"
)

// Defaults
const (
	DefaultBatchSize        = 5
	DefaultTemperature      = 0.3
	DefaultMaxTokens        = 4000
	DefaultTimeoutSeconds   = 60
	MinTimeoutSeconds       = 30
	MaxTimeoutSeconds       = 600
	DefaultMaxSegments      = 200
	DefaultMinChars         = 8
	DefaultMinWords         = 2
	DefaultThumbnailTimeout = 10
	DefaultVideoFormat      = "bestvideo[height<=1080][height>=720][ext=mp4][vcodec^=avc1]+bestaudio[ext=m4a][language^=en]/best[ext=mp4][vcodec^=avc1]"
	DefaultExplanationLang  = "Simplified Chinese"
)

// DefaultLanguages are the subtitle tracks downloaded when none are configured.
var DefaultLanguages = []string{"en", "zh-Hans"}

// Config is the full ytkit configuration.
type Config struct {
	Prefix     string           `yaml:"prefix" toml:"prefix"`
	LLM        LLMConfig        `yaml:"llm" toml:"llm"`
	Preprocess PreprocessConfig `yaml:"preprocess" toml:"preprocess"`
	Analyze    AnalyzeConfig    `yaml:"analyze" toml:"analyze"`
	Download   DownloadConfig   `yaml:"download" toml:"download"`
	YouTube    YouTubeConfig    `yaml:"youtube" toml:"youtube"`
}

// LLMConfig selects and tunes the LLM backend.
type LLMConfig struct {
	Provider       string  `yaml:"provider" toml:"provider"`
	Model          string  `yaml:"model" toml:"model"`
	APIKey         string  `yaml:"apiKey" toml:"api_key"`
	BaseURL        string  `yaml:"baseUrl" toml:"base_url"`
	TimeoutSeconds int     `yaml:"timeoutSeconds" toml:"timeout_seconds"`
	Temperature    float64 `yaml:"temperature" toml:"temperature"`
	MaxTokens      int     `yaml:"maxTokens" toml:"max_tokens"`
}

// PreprocessConfig tunes segmentation and compaction.
type PreprocessConfig struct {
	MaxSegments int `yaml:"maxSegments" toml:"max_segments"`
	MinChars    int `yaml:"minChars" toml:"min_chars"`
	MinWords    int `yaml:"minWords" toml:"min_words"`
}

// AnalyzeConfig tunes the annotation stage.
type AnalyzeConfig struct {
	BatchSize           int    `yaml:"batchSize" toml:"batch_size"`
	PromptTemplate      string `yaml:"promptTemplate" toml:"prompt_template"`
	ExplanationLanguage string `yaml:"explanationLanguage" toml:"explanation_language"`
}

// DownloadConfig tunes the download stage.
type DownloadConfig struct {
	Languages               []string `yaml:"languages" toml:"languages"`
	Format                  string   `yaml:"format" toml:"format"`
	ThumbnailTimeoutSeconds int      `yaml:"thumbnailTimeoutSeconds" toml:"thumbnail_timeout_seconds"`
}

// YouTubeConfig holds optional YouTube Data API credentials.
type YouTubeConfig struct {
	APIKey          string `yaml:"apiKey" toml:"api_key"`
	CredentialsFile string `yaml:"credentialsFile" toml:"credentials_file"`
}

// LLMSettings is the resolved, ready-to-use LLM configuration.
type LLMSettings struct {
	Spec        ProviderSpec
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: defaults do not validate: %v", err))
	}
	return cfg
}

// DefaultDir returns ~/.ytkit.
func DefaultDir() (string, error) {
	return utils.ExpandHomeDir("~/.ytkit")
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path looks for config.yaml, config.yml or
// config.toml in ~/.ytkit and falls back to defaults when none exists.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		found, err := findDefaultFile()
		if err != nil {
			return nil, err
		}
		path = found
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
		utils.LogDebug("Loaded configuration from %s", path)
	}

	cfg.applyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findDefaultFile() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to access %s: %w", candidate, err)
		}
	}
	return "", nil
}

func (c *Config) readFile(path string) error {
	expanded, err := utils.ExpandHomeDir(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", expanded, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse TOML config %s: %w", expanded, err)
		}
	default:
		return &utils.ValidationError{
			Field:   "config",
			Message: fmt.Sprintf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(expanded)),
		}
	}
	return nil
}

// applyEnv overlays environment variables. Provider and model variables win
// over the file; credentials from the environment are only used when the
// file has none.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	if v := get("YTKIT_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := get("YTKIT_PREFIX"); v != "" {
		c.Prefix = v
	}
	if v := get("YOUTUBE_API_KEY"); v != "" && c.YouTube.APIKey == "" {
		c.YouTube.APIKey = v
	}

	provider, err := ParseProvider(c.providerTag())
	if err != nil {
		// Reported by Validate.
		return
	}
	spec := provider.Spec()
	if v := get(spec.ModelEnv); v != "" {
		c.LLM.Model = v
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = get(spec.CredentialEnv)
	}
}

func (c *Config) providerTag() string {
	if c.LLM.Provider == "" {
		return string(ProviderOpenAI)
	}
	return c.LLM.Provider
}

// Validate fills in defaults and rejects invalid values.
func (c *Config) Validate() error {
	provider, err := ParseProvider(c.providerTag())
	if err != nil {
		return &utils.ValidationError{Field: "llm.provider", Message: "unsupported provider", Err: err}
	}
	c.LLM.Provider = string(provider)

	if c.Prefix == "" {
		c.Prefix = "."
	}

	switch {
	case c.LLM.TimeoutSeconds == 0:
		c.LLM.TimeoutSeconds = DefaultTimeoutSeconds
	case c.LLM.TimeoutSeconds < MinTimeoutSeconds || c.LLM.TimeoutSeconds > MaxTimeoutSeconds:
		return &utils.ValidationError{
			Field:   "llm.timeoutSeconds",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinTimeoutSeconds, MaxTimeoutSeconds, c.LLM.TimeoutSeconds),
		}
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = DefaultTemperature
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return &utils.ValidationError{Field: "llm.temperature", Message: "must be between 0 and 2"}
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.LLM.MaxTokens < 0 {
		return &utils.ValidationError{Field: "llm.maxTokens", Message: "must be positive"}
	}

	if err := positiveOrDefault("preprocess.maxSegments", &c.Preprocess.MaxSegments, DefaultMaxSegments); err != nil {
		return err
	}
	if err := positiveOrDefault("preprocess.minChars", &c.Preprocess.MinChars, DefaultMinChars); err != nil {
		return err
	}
	if err := positiveOrDefault("preprocess.minWords", &c.Preprocess.MinWords, DefaultMinWords); err != nil {
		return err
	}
	if err := positiveOrDefault("analyze.batchSize", &c.Analyze.BatchSize, DefaultBatchSize); err != nil {
		return err
	}
	if c.Analyze.ExplanationLanguage == "" {
		c.Analyze.ExplanationLanguage = DefaultExplanationLang
	}

	if len(c.Download.Languages) == 0 {
		c.Download.Languages = append([]string(nil), DefaultLanguages...)
	}
	for _, lang := range c.Download.Languages {
		if _, err := language.Parse(lang); err != nil {
			return &utils.ValidationError{
				Field:   "download.languages",
				Message: fmt.Sprintf("%q is not a BCP 47 language tag", lang),
				Err:     err,
			}
		}
	}
	if c.Download.Format == "" {
		c.Download.Format = DefaultVideoFormat
	}
	if err := positiveOrDefault("download.thumbnailTimeoutSeconds", &c.Download.ThumbnailTimeoutSeconds, DefaultThumbnailTimeout); err != nil {
		return err
	}

	return nil
}

func positiveOrDefault(field string, v *int, def int) error {
	if *v == 0 {
		*v = def
		return nil
	}
	if *v < 0 {
		return &utils.ValidationError{Field: field, Message: fmt.Sprintf("must be positive, got %d", *v)}
	}
	return nil
}

// Provider returns the validated provider.
func (c *Config) Provider() Provider {
	return Provider(c.providerTag())
}

// LLMTuning returns the model and request settings for the selected provider
// without checking for a credential. Unknown providers fall back to openai.
func (c *Config) LLMTuning() LLMSettings {
	provider, err := ParseProvider(c.providerTag())
	if err != nil {
		provider = ProviderOpenAI
	}
	spec := provider.Spec()

	model := c.LLM.Model
	if model == "" {
		model = spec.DefaultModel
	}
	baseURL := c.LLM.BaseURL
	if baseURL == "" {
		baseURL = spec.BaseURL
	}

	return LLMSettings{
		Spec:        spec,
		Model:       model,
		APIKey:      c.LLM.APIKey,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Timeout:     time.Duration(c.LLM.TimeoutSeconds) * time.Second,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
}

// ResolveLLM returns the settings needed to build an LLM client. It fails
// with ErrMissingCredential before any network activity when the selected
// provider has no API key.
func (c *Config) ResolveLLM() (LLMSettings, error) {
	provider, err := ParseProvider(c.providerTag())
	if err != nil {
		return LLMSettings{}, err
	}
	if c.LLM.APIKey == "" {
		return LLMSettings{}, fmt.Errorf("%w: set %s for provider %s", ErrMissingCredential, provider.Spec().CredentialEnv, provider)
	}
	return c.LLMTuning(), nil
}
