package chapters

import (
	"context"
	"fmt"
	"time"

	"github.com/ytkit/ytkit/internal/caption"
	"github.com/ytkit/ytkit/internal/chapters"
	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/services/llm"
	"github.com/ytkit/ytkit/internal/utils"
)

// Module builds the chaptered transcript.
type Module struct {
	cfg    *config.Config
	client llm.Client
}

// Params contains the parameters for chaptering
type Params struct {
	mod.ProjectParams
	Offline        bool   `json:"offline"`        // fixed-size chapters, no LLM call
	Model          string `json:"model"`          // overrides the provider's default model
	TimeoutSeconds int    `json:"timeoutSeconds"` // request timeout (default: config)
}

// New creates a new chapters module
func New(cfg *config.Config) mod.Module {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Module{cfg: cfg}
}

// NewWithClient creates a chapters module backed by the given client
func NewWithClient(cfg *config.Config, client llm.Client) *Module {
	m := New(cfg).(*Module)
	m.client = client
	return m
}

// Name returns the module name
func (m *Module) Name() string {
	return project.StageChapters
}

// GetIO returns the module's input/output specification
func (m *Module) GetIO() mod.ModuleIO {
	return mod.ModuleIO{
		RequiredInputs: []mod.ModuleInput{
			{
				Name:        "subtitles",
				Description: "English WebVTT captions",
				Patterns:    []string{".en.vtt"},
				Type:        string(mod.InputTypeFile),
			},
		},
		ProducedOutputs: []mod.ModuleOutput{
			{
				Name:        project.ArtifactTranscripts,
				Description: "Chaptered Markdown transcript",
				Patterns:    []string{".transcripts.md"},
				Type:        string(mod.OutputTypeFile),
			},
			{
				Name:        project.ArtifactChapters,
				Description: "Chapters as JSON",
				Patterns:    []string{".chapters.json"},
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
	if p.TimeoutSeconds != 0 && (p.TimeoutSeconds < config.MinTimeoutSeconds || p.TimeoutSeconds > config.MaxTimeoutSeconds) {
		return &utils.ValidationError{
			Field:   "timeoutSeconds",
			Message: fmt.Sprintf("must be between %d and %d", config.MinTimeoutSeconds, config.MaxTimeoutSeconds),
		}
	}
	return nil
}

// Execute groups the captions into chapters and writes the transcript
func (m *Module) Execute(ctx context.Context, params map[string]interface{}) (mod.ModuleResult, error) {
	var p Params
	if err := mod.ParseParams(params, &p); err != nil {
		return mod.ModuleResult{}, err
	}

	proj, err := p.OpenProject()
	if err != nil {
		return mod.ModuleResult{}, err
	}

	outputs := map[string]string{
		project.ArtifactTranscripts: proj.TranscriptsFile(),
		project.ArtifactChapters:    proj.ChaptersFile(),
	}

	if !p.Force {
		done, err := mod.OutputsExist(proj.TranscriptsFile())
		if err != nil {
			return mod.ModuleResult{}, err
		}
		if done {
			utils.LogInfo("Skipping chapters: %s already exists", proj.TranscriptsFile())
			return mod.SkippedResult(proj, outputs), nil
		}
	}

	input := proj.EnglishSubtitleFile()
	if err := mod.RequireInput(input, project.StageDownload); err != nil {
		return mod.ModuleResult{}, err
	}

	parsed, err := caption.ParseFile(input)
	if err != nil {
		return mod.ModuleResult{}, fmt.Errorf("failed to parse captions: %w", err)
	}
	if parsed.Empty() {
		utils.LogWarning("No caption cues found in %s", input)
	}

	start := time.Now()
	var doc *chapters.Document
	if p.Offline {
		doc = chapters.Offline(parsed.Cues)
	} else {
		doc, err = m.generate(ctx, p, parsed.Cues)
		if err != nil {
			return mod.ModuleResult{}, err
		}
	}

	if err := utils.WriteTextFile(proj.TranscriptsFile(), chapters.Markdown(doc)); err != nil {
		return mod.ModuleResult{}, fmt.Errorf("failed to write transcript: %w", err)
	}
	if err := chapters.WriteJSON(proj.ChaptersFile(), doc); err != nil {
		return mod.ModuleResult{}, err
	}

	utils.LogSuccess("Wrote %d chapters to %s", len(doc.Chapters), proj.TranscriptsFile())
	return mod.ModuleResult{
		Outputs: outputs,
		Metadata: map[string]interface{}{
			mod.MetaVideoID: proj.VideoID,
			"offline":       p.Offline,
		},
		Statistics: map[string]interface{}{
			"cues":     len(parsed.Cues),
			"chapters": len(doc.Chapters),
			"duration": time.Since(start).String(),
		},
	}, nil
}

func (m *Module) generate(ctx context.Context, p Params, cues []caption.Cue) (*chapters.Document, error) {
	client, settings, err := m.getClient(ctx)
	if err != nil {
		return nil, err
	}

	gen := &chapters.Generator{
		Client:      client,
		Model:       p.Model,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
		Timeout:     settings.Timeout,
	}
	if gen.Model == "" {
		gen.Model = settings.Model
	}
	if p.TimeoutSeconds > 0 {
		gen.Timeout = time.Duration(p.TimeoutSeconds) * time.Second
	}

	doc, err := gen.Generate(ctx, cues)
	if err != nil {
		return nil, fmt.Errorf("chapter generation failed: %w", err)
	}
	return doc, nil
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
