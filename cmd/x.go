package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/workflow"
)

var xStep string

var xCmd = &cobra.Command{
	Use:   "x",
	Short: "Preprocess and analyze in one go",
	Long:  `Run preprocess, analyze or both against the project in --dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var steps []workflow.Step
		switch xStep {
		case project.StagePreprocess:
			steps = []workflow.Step{preprocessStep()}
		case project.StageAnalyze:
			steps = []workflow.Step{analyzeStep()}
		case "both":
			steps = []workflow.Step{preprocessStep(), analyzeStep()}
		default:
			return fmt.Errorf("invalid --step %q: use preprocess, analyze or both", xStep)
		}
		return describeMissingInput(runSteps(cmd.Context(), "x", projectDir, steps...))
	},
}

func init() {
	xCmd.Flags().StringVarP(&xStep, "step", "s", "both", "Steps to run: preprocess, analyze or both")
	xCmd.Flags().IntVar(&preprocessMaxSegments, "max-segments", 0, "Maximum number of sentences (default: config)")
	addAnalyzeFlags(xCmd)
	xCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Regenerate outputs that already exist")
	rootCmd.AddCommand(xCmd)
}
