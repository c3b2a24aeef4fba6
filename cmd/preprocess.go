package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/workflow"
)

var (
	preprocessInput       string
	preprocessMaxSegments int
)

var preprocessCmd = &cobra.Command{
	Use:     "preprocess",
	Aliases: []string{"md"},
	Short:   "Condense English captions into timestamped sentences",
	Long: `Parse <id>.en.vtt, merge cues into sentences, compact them to the segment
budget and write <id>.preprocessed.md with one "MM:SS [NNN] sentence" line each.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return describeMissingInput(runSteps(cmd.Context(), project.StagePreprocess, projectDir, preprocessStep()))
	},
}

func preprocessStep() workflow.Step {
	return stageStep(project.StagePreprocess, map[string]interface{}{
		"input":       preprocessInput,
		"maxSegments": preprocessMaxSegments,
	})
}

func init() {
	preprocessCmd.Flags().StringVarP(&preprocessInput, "input", "i", "", "Caption file (default: <id>.en.vtt)")
	preprocessCmd.Flags().IntVar(&preprocessMaxSegments, "max-segments", 0, "Maximum number of sentences (default: config)")
	preprocessCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Regenerate outputs that already exist")
	rootCmd.AddCommand(preprocessCmd)
}
