package analyze

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ytkit/ytkit/internal/annotate"
	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/preprocessed"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/services/llm"
	"github.com/ytkit/ytkit/internal/utils"
)

// Module annotates the preprocessed sentences with an LLM.
type Module struct {
	cfg      *config.Config
	client   llm.Client
	progress io.Writer
}

// Params contains the parameters for the annotation stage
type Params struct {
	mod.ProjectParams
	BatchSize      int     `json:"batchSize"`      // sentences per request (default: 5)
	PromptTemplate string  `json:"promptTemplate"` // YAML or text template overriding the built-in prompt
	Language       string  `json:"language"`       // explanation language (default: Simplified Chinese)
	Model          string  `json:"model"`          // overrides the provider's default model
	Temperature    float64 `json:"temperature"`    // default: 0.3
	MaxTokens      int     `json:"maxTokens"`      // default: 4000
	TimeoutSeconds int     `json:"timeoutSeconds"` // per-request timeout (default: 60)
	NoProgress     bool    `json:"noProgress"`     // disable the progress bar
}

// New creates a new analyze module
func New(cfg *config.Config) mod.Module {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Module{cfg: cfg, progress: utils.Output()}
}

// NewWithClient creates an analyze module that uses the given client instead
// of building one from the configuration.
func NewWithClient(cfg *config.Config, client llm.Client) *Module {
	m := New(cfg).(*Module)
	m.client = client
	return m
}

// Name returns the module name
func (m *Module) Name() string {
	return project.StageAnalyze
}

// GetIO returns the module's input/output specification
func (m *Module) GetIO() mod.ModuleIO {
	return mod.ModuleIO{
		RequiredInputs: []mod.ModuleInput{
			{
				Name:        project.ArtifactPreprocessed,
				Description: "Timestamped sentence document",
				Patterns:    []string{".preprocessed.md"},
				Type:        string(mod.InputTypeFile),
			},
		},
		OptionalInputs: []mod.ModuleInput{
			{
				Name:        "promptTemplate",
				Description: "Prompt template overriding the built-in instructions",
				Patterns:    []string{".yaml", ".yml", ".txt"},
				Type:        string(mod.InputTypeFile),
			},
		},
		ProducedOutputs: []mod.ModuleOutput{
			{
				Name:        project.ArtifactAnalyzed,
				Description: "Annotation results as a JSON array",
				Patterns:    []string{".analyzed.json"},
				Type:        string(mod.OutputTypeFile),
			},
		},
	}
}

// Validate checks if the parameters are valid
func (m *Module) Validate(params map[string]interface{}) error {
	var p Params
	if err := mod.ParseParams(params, &p); err != nil {
		return err
	}
	if _, err := p.OpenProject(); err != nil {
		return err
	}
	if p.BatchSize < 0 {
		return &utils.ValidationError{Field: "batchSize", Message: fmt.Sprintf("must be positive, got %d", p.BatchSize)}
	}
	if p.TimeoutSeconds != 0 && (p.TimeoutSeconds < config.MinTimeoutSeconds || p.TimeoutSeconds > config.MaxTimeoutSeconds) {
		return &utils.ValidationError{
			Field:   "timeoutSeconds",
			Message: fmt.Sprintf("must be between %d and %d", config.MinTimeoutSeconds, config.MaxTimeoutSeconds),
		}
	}
	if p.PromptTemplate != "" {
		if err := utils.ValidateInputFile("promptTemplate", p.PromptTemplate); err != nil {
			return err
		}
	}
	return nil
}

// Execute annotates every sentence and writes the results. Nothing is
// written unless every batch succeeds.
func (m *Module) Execute(ctx context.Context, params map[string]interface{}) (mod.ModuleResult, error) {
	var p Params
	if err := mod.ParseParams(params, &p); err != nil {
		return mod.ModuleResult{}, err
	}

	proj, err := p.OpenProject()
	if err != nil {
		return mod.ModuleResult{}, err
	}

	output := proj.AnalyzedFile()
	outputs := map[string]string{project.ArtifactAnalyzed: output}

	// Checked before the client is built so a finished project needs no credential
	if !p.Force {
		done, err := mod.OutputsExist(output)
		if err != nil {
			return mod.ModuleResult{}, err
		}
		if done {
			utils.LogInfo("Skipping analyze: %s already exists", output)
			return mod.SkippedResult(proj, outputs), nil
		}
	}

	input := proj.PreprocessedFile()
	if err := mod.RequireInput(input, project.StagePreprocess); err != nil {
		return mod.ModuleResult{}, err
	}

	records, stats, err := preprocessed.ReadFile(input)
	if err != nil {
		return mod.ModuleResult{}, err
	}
	if stats.Skipped > 0 {
		utils.LogWarning("Skipped %d malformed line(s) in %s", stats.Skipped, input)
	}

	client, settings, err := m.getClient(ctx)
	if err != nil {
		return mod.ModuleResult{}, err
	}

	prompts, err := m.promptBuilder(p)
	if err != nil {
		return mod.ModuleResult{}, err
	}

	opts := m.options(p, settings)
	bar := m.newProgressBar(p, len(annotate.Batches(records, opts.BatchSize)))
	opts.OnBatch = func(r annotate.BatchReport) {
		utils.LogDebug("Batch %d/%d [%s-%s] %s", r.Index+1, r.Total, r.FirstID, r.LastID, r.State)
		if bar != nil && r.State == annotate.BatchParsed {
			_ = bar.Add(1)
		}
	}

	start := time.Now()
	results, err := annotate.NewOrchestrator(client, prompts, opts).Run(ctx, records)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return mod.ModuleResult{}, fmt.Errorf("annotation failed, nothing written: %w", err)
	}

	if err := annotate.WriteFile(output, results); err != nil {
		return mod.ModuleResult{}, err
	}

	utils.LogSuccess("Annotated %d sentences into %s", len(results), output)
	return mod.ModuleResult{
		Outputs: outputs,
		Metadata: map[string]interface{}{
			mod.MetaVideoID: proj.VideoID,
			"provider":      string(settings.Spec.Provider),
			"model":         opts.Model,
		},
		Statistics: map[string]interface{}{
			"sentences": len(records),
			"results":   len(results),
			"batchSize": opts.BatchSize,
			"duration":  time.Since(start).String(),
		},
		NextModules: []string{project.StageRender},
	}, nil
}

// getClient returns the injected client or builds one from the configuration
func (m *Module) getClient(ctx context.Context) (llm.Client, config.LLMSettings, error) {
	if m.client != nil {
		return m.client, m.cfg.LLMTuning(), nil
	}
	client, settings, err := llm.FromConfig(ctx, m.cfg)
	if err != nil {
		return nil, config.LLMSettings{}, err
	}
	m.client = client
	return client, settings, nil
}

func (m *Module) promptBuilder(p Params) (*annotate.PromptBuilder, error) {
	path := p.PromptTemplate
	if path == "" {
		path = m.cfg.Analyze.PromptTemplate
	}
	template, err := annotate.LoadTemplate(path)
	if err != nil {
		return nil, err
	}

	language := p.Language
	if language == "" {
		language = m.cfg.Analyze.ExplanationLanguage
	}
	return annotate.NewPromptBuilder(template, language), nil
}

func (m *Module) options(p Params, settings config.LLMSettings) annotate.Options {
	opts := annotate.Options{
		BatchSize:   p.BatchSize,
		Model:       p.Model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Timeout:     time.Duration(p.TimeoutSeconds) * time.Second,
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = m.cfg.Analyze.BatchSize
	}
	if opts.Model == "" {
		opts.Model = settings.Model
	}
	if opts.Temperature == 0 {
		opts.Temperature = settings.Temperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = settings.MaxTokens
	}
	if opts.Timeout == 0 {
		opts.Timeout = settings.Timeout
	}
	return opts
}

func (m *Module) newProgressBar(p Params, batches int) *progressbar.ProgressBar {
	if p.NoProgress || m.progress == nil || batches == 0 {
		return nil
	}
	return progressbar.NewOptions(batches,
		progressbar.OptionSetWriter(m.progress),
		progressbar.OptionSetDescription("Analyzing batches"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}
