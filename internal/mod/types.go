package mod

import (
	"errors"
	"fmt"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/utils"
)

// ErrMissingInput is returned when an upstream artifact is absent.
var ErrMissingInput = errors.New("missing input artifact")

// Metadata keys shared by modules.
const (
	MetaSkipped = "skipped"
	MetaVideoID = "videoId"
)

// ProjectParams are the parameters every stage accepts.
type ProjectParams struct {
	Project string `json:"project"` // project directory
	Force   bool   `json:"force"`   // regenerate outputs that already exist
}

// OpenProject validates and opens the project named by the params.
func (p ProjectParams) OpenProject() (*project.Project, error) {
	if err := utils.ValidateProjectDir(p.Project); err != nil {
		return nil, err
	}
	return project.Open(p.Project)
}

// RequireInput fails with ErrMissingInput when path does not exist. producer
// names the stage that creates it.
func RequireInput(path, producer string) error {
	exists, err := utils.FileExists(path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s (run %s first)", ErrMissingInput, path, producer)
	}
	return nil
}

// OutputsExist reports whether every path is already on disk.
func OutputsExist(paths ...string) (bool, error) {
	for _, path := range paths {
		exists, err := utils.FileExists(path)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

// SkippedResult is returned by a stage whose outputs are already present.
func SkippedResult(p *project.Project, outputs map[string]string) ModuleResult {
	return ModuleResult{
		Outputs: outputs,
		Metadata: map[string]interface{}{
			MetaSkipped: true,
			MetaVideoID: p.VideoID,
		},
	}
}
