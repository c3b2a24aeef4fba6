package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/modules"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/utils"
	"github.com/ytkit/ytkit/internal/workflow"
)

// forceFlag is shared by the stage commands
var forceFlag bool

// runSteps runs the given steps as a one-off workflow on dir
func runSteps(ctx context.Context, name, dir string, steps ...workflow.Step) error {
	registry, err := modules.NewRegistry(appConfig)
	if err != nil {
		return err
	}
	wf, err := workflow.New(name, dir, steps, registry)
	if err != nil {
		return err
	}
	_, err = wf.Execute(ctx)
	return err
}

// stageStep builds a step for module with the shared flags applied
func stageStep(module string, params map[string]interface{}) workflow.Step {
	if params == nil {
		params = map[string]interface{}{}
	}
	if forceFlag {
		params["force"] = true
	}
	return workflow.Step{Name: module, Module: module, Parameters: params}
}

// ensureProject creates the project for url under the configured prefix. An
// existing project is reused.
func ensureProject(url string) (*project.Project, error) {
	p, err := project.Create(appConfig.Prefix, url)
	switch {
	case errors.Is(err, project.ErrProjectExists):
		utils.LogInfo("Project already exists: %s", p.Dir)
		return p, nil
	case err != nil:
		return nil, err
	}
	utils.LogSuccess("Created project %s", p.Dir)
	return p, nil
}

// describeMissingInput adds a hint when a stage ran before its producer
func describeMissingInput(err error) error {
	if errors.Is(err, mod.ErrMissingInput) {
		return fmt.Errorf("%w\nrun `ytkit status` to see which artifacts exist", err)
	}
	return err
}
