package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RunInput holds the command-line inputs of a workflow run
type RunInput struct {
	WorkflowPath string
	ProjectDir   string
	URL          string
}

// NewRunInput creates and validates a workflow run input
func NewRunInput(workflowPath, projectDir, url string) (*RunInput, error) {
	input := &RunInput{
		WorkflowPath: workflowPath,
		ProjectDir:   projectDir,
		URL:          strings.TrimSpace(url),
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	return input, nil
}

// validate checks the workflow file and project directory
func (c *RunInput) validate() error {
	if c.WorkflowPath == "" {
		return fmt.Errorf("workflow path is required")
	}
	info, err := os.Stat(c.WorkflowPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("workflow file does not exist: %s", c.WorkflowPath)
	}
	if err != nil {
		return fmt.Errorf("failed to access workflow file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("workflow must be a file, not a directory: %s", c.WorkflowPath)
	}
	ext := strings.ToLower(filepath.Ext(c.WorkflowPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("workflow file must be YAML: %s", c.WorkflowPath)
	}

	// A URL run creates the project itself, so the directory may not exist yet
	if c.URL != "" {
		return nil
	}

	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	info, err = os.Stat(c.ProjectDir)
	if err != nil {
		return fmt.Errorf("project directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project must be a directory, not a file: %s", c.ProjectDir)
	}

	return nil
}
