package render

import (
	"context"
	"fmt"

	"github.com/ytkit/ytkit/internal/annotate"
	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/preprocessed"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/study"
	"github.com/ytkit/ytkit/internal/utils"
)

// Module renders the study document from the sentences and their annotations.
type Module struct{}

// Params contains the parameters for rendering
type Params struct {
	mod.ProjectParams
	Title string `json:"title"` // document title (default: "Study Notes <id>")
	Docx  bool   `json:"docx"`  // also write <id>.study.docx
}

// New creates a new render module
func New() mod.Module {
	return &Module{}
}

// Name returns the module name
func (m *Module) Name() string {
	return project.StageRender
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
			{
				Name:        project.ArtifactAnalyzed,
				Description: "Annotation results",
				Patterns:    []string{".analyzed.json"},
				Type:        string(mod.InputTypeFile),
			},
		},
		ProducedOutputs: []mod.ModuleOutput{
			{
				Name:        project.ArtifactStudyMD,
				Description: "Markdown study document",
				Patterns:    []string{".study.md"},
				Type:        string(mod.OutputTypeFile),
			},
			{
				Name:        project.ArtifactStudyDocx,
				Description: "Word study document",
				Patterns:    []string{".study.docx"},
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
	_, err := p.OpenProject()
	return err
}

// Execute joins sentences with annotations and writes the study document
func (m *Module) Execute(ctx context.Context, params map[string]interface{}) (mod.ModuleResult, error) {
	var p Params
	if err := mod.ParseParams(params, &p); err != nil {
		return mod.ModuleResult{}, err
	}

	proj, err := p.OpenProject()
	if err != nil {
		return mod.ModuleResult{}, err
	}
	if p.Title == "" {
		p.Title = "Study Notes " + proj.VideoID
	}

	outputs := map[string]string{project.ArtifactStudyMD: proj.StudyFile()}
	targets := []string{proj.StudyFile()}
	if p.Docx {
		outputs[project.ArtifactStudyDocx] = proj.StudyDocxFile()
		targets = append(targets, proj.StudyDocxFile())
	}

	if !p.Force {
		done, err := mod.OutputsExist(targets...)
		if err != nil {
			return mod.ModuleResult{}, err
		}
		if done {
			utils.LogInfo("Skipping render: %s already exists", proj.StudyFile())
			return mod.SkippedResult(proj, outputs), nil
		}
	}

	if err := mod.RequireInput(proj.PreprocessedFile(), project.StagePreprocess); err != nil {
		return mod.ModuleResult{}, err
	}
	if err := mod.RequireInput(proj.AnalyzedFile(), project.StageAnalyze); err != nil {
		return mod.ModuleResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return mod.ModuleResult{}, err
	}

	records, _, err := preprocessed.ReadFile(proj.PreprocessedFile())
	if err != nil {
		return mod.ModuleResult{}, err
	}
	results, err := annotate.ReadFile(proj.AnalyzedFile())
	if err != nil {
		return mod.ModuleResult{}, err
	}

	entries, missing := study.Join(records, results)
	if missing > 0 {
		utils.LogWarning("%d of %d sentences have no annotation", missing, len(records))
	}

	if err := utils.WriteTextFile(proj.StudyFile(), study.Markdown(p.Title, entries)); err != nil {
		return mod.ModuleResult{}, fmt.Errorf("failed to write study document: %w", err)
	}
	if p.Docx {
		if err := study.WriteDocx(proj.StudyDocxFile(), p.Title, entries); err != nil {
			return mod.ModuleResult{}, err
		}
	}

	utils.LogSuccess("Wrote study document %s", proj.StudyFile())
	return mod.ModuleResult{
		Outputs: outputs,
		Metadata: map[string]interface{}{
			mod.MetaVideoID: proj.VideoID,
		},
		Statistics: map[string]interface{}{
			"sentences": len(records),
			"annotated": len(records) - missing,
			"missing":   missing,
		},
	}, nil
}
