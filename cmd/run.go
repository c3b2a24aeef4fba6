package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/modules"
	"github.com/ytkit/ytkit/internal/utils"
	"github.com/ytkit/ytkit/internal/workflow"
)

var (
	workflowFilePath string
	workflowURL      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pipeline defined in a YAML workflow",
	Long: `Execute the steps of a YAML workflow against one project. The project is
taken from --url (created if needed), then --dir when given, then the
workflow's project field. String parameters may use ${project} and ${id}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if cmd.Flags().Changed("dir") {
			dir = projectDir
		}
		input, err := config.NewRunInput(workflowFilePath, dir, workflowURL)
		if err != nil {
			return err
		}

		registry, err := modules.NewRegistry(appConfig)
		if err != nil {
			return err
		}
		wf, err := workflow.LoadFromFile(input.WorkflowPath, registry)
		if err != nil {
			return fmt.Errorf("failed to load workflow: %w", err)
		}

		switch {
		case input.URL != "":
			p, err := ensureProject(input.URL)
			if err != nil {
				return err
			}
			wf.SetProject(p.Dir)
		case dir != "":
			wf.SetProject(input.ProjectDir)
		}

		state, err := wf.Execute(cmd.Context())
		if state != nil {
			printRunSummary(state.Summary())
		}
		if err != nil {
			return describeMissingInput(err)
		}

		utils.LogSuccess("Workflow %s completed", wf.Name)
		return nil
	},
}

func printRunSummary(summary workflow.RunSummary) {
	rows := make([][]string, 0, len(summary.Steps))
	for _, step := range summary.Steps {
		rows = append(rows, []string{step.Name, step.Module, string(step.Status)})
	}
	utils.LogInfo("Run %s\n%s", summary.ID, utils.RenderTable([]string{"Step", "Module", "Status"}, rows, nil))
}

func init() {
	runCmd.Flags().StringVarP(&workflowFilePath, "workflow", "w", "", "Path to workflow YAML file (required)")
	runCmd.Flags().StringVarP(&workflowURL, "url", "u", "", "YouTube URL; creates the project under the configured prefix")
	_ = runCmd.MarkFlagRequired("workflow")
	rootCmd.AddCommand(runCmd)
}
