package preprocess

import (
	"context"
	"fmt"
	"time"

	"github.com/ytkit/ytkit/internal/caption"
	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/preprocessed"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/utils"
)

// Module turns the English caption track into the preprocessed document.
type Module struct {
	cfg *config.Config
}

// Params contains the parameters for preprocessing
type Params struct {
	mod.ProjectParams
	Input       string `json:"input"`       // caption file (default: <id>.en.vtt)
	MaxSegments int    `json:"maxSegments"` // compaction budget (default: config)
	MinChars    int    `json:"minChars"`    // short-segment threshold in characters
	MinWords    int    `json:"minWords"`    // short-segment threshold in words
}

// New creates a new preprocess module
func New(cfg *config.Config) mod.Module {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Module{cfg: cfg}
}

// Name returns the module name
func (m *Module) Name() string {
	return project.StagePreprocess
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
				Name:        project.ArtifactPreprocessed,
				Description: "Timestamped sentence document",
				Patterns:    []string{".preprocessed.md"},
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
	if p.MaxSegments < 0 || p.MinChars < 0 || p.MinWords < 0 {
		return &utils.ValidationError{Field: "preprocess", Message: "thresholds must not be negative"}
	}
	if p.Input != "" {
		if err := utils.ValidateFileExtension(p.Input, []string{".vtt"}); err != nil {
			return err
		}
	}
	return nil
}

// Execute parses, segments and compacts the captions and writes the document
func (m *Module) Execute(ctx context.Context, params map[string]interface{}) (mod.ModuleResult, error) {
	var p Params
	if err := mod.ParseParams(params, &p); err != nil {
		return mod.ModuleResult{}, err
	}
	m.applyDefaults(&p)

	proj, err := p.OpenProject()
	if err != nil {
		return mod.ModuleResult{}, err
	}

	output := proj.PreprocessedFile()
	outputs := map[string]string{project.ArtifactPreprocessed: output}

	if !p.Force {
		done, err := mod.OutputsExist(output)
		if err != nil {
			return mod.ModuleResult{}, err
		}
		if done {
			utils.LogInfo("Skipping preprocess: %s already exists", output)
			return mod.SkippedResult(proj, outputs), nil
		}
	}

	input := p.Input
	if input == "" {
		input = proj.EnglishSubtitleFile()
	}
	if err := mod.RequireInput(input, project.StageDownload); err != nil {
		return mod.ModuleResult{}, err
	}
	if !utils.IsTextFile(input) {
		utils.LogWarning("Caption file %s contains binary bytes; control characters will be stripped", input)
	}
	if err := ctx.Err(); err != nil {
		return mod.ModuleResult{}, err
	}

	start := time.Now()
	parsed, err := caption.ParseFile(input)
	if err != nil {
		return mod.ModuleResult{}, fmt.Errorf("failed to parse captions: %w", err)
	}
	if parsed.Empty() {
		utils.LogWarning("No caption cues found in %s", input)
	}
	if parsed.TimestampFailures > 0 {
		utils.LogWarning("%d cue(s) had unreadable timestamps and start at 00:00", parsed.TimestampFailures)
	}

	segs := caption.NewSegmenter(p.MinChars, p.MinWords).Segment(parsed.Cues)
	compacted := caption.Compact(segs, p.MaxSegments)
	if len(compacted) < len(segs) {
		utils.LogVerbose("Compacted %d segments to %d (ratio %d)",
			len(segs), len(compacted), caption.CompactionRatio(len(segs), p.MaxSegments))
	}

	if err := preprocessed.WriteFile(output, compacted); err != nil {
		return mod.ModuleResult{}, err
	}

	utils.LogSuccess("Wrote %d sentences to %s", len(compacted), output)
	return mod.ModuleResult{
		Outputs: outputs,
		Metadata: map[string]interface{}{
			mod.MetaVideoID: proj.VideoID,
		},
		Statistics: map[string]interface{}{
			"cues":              len(parsed.Cues),
			"segments":          len(segs),
			"sentences":         len(compacted),
			"timestampFailures": parsed.TimestampFailures,
			"duration":          time.Since(start).String(),
		},
		NextModules: []string{project.StageAnalyze},
	}, nil
}

func (m *Module) applyDefaults(p *Params) {
	if p.MaxSegments == 0 {
		p.MaxSegments = m.cfg.Preprocess.MaxSegments
	}
	if p.MinChars == 0 {
		p.MinChars = m.cfg.Preprocess.MinChars
	}
	if p.MinWords == 0 {
		p.MinWords = m.cfg.Preprocess.MinWords
	}
}
