package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/workflow"
)

var (
	analyzeBatchSize  int
	analyzePrompt     string
	analyzeLanguage   string
	analyzeModel      string
	analyzeTimeout    int
	analyzeNoProgress bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Annotate preprocessed sentences with an LLM",
	Long: `Send <id>.preprocessed.md to the configured LLM in batches and write the
explanations to <id>.analyzed.json. Any failed batch aborts the run and
nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return describeMissingInput(runSteps(cmd.Context(), project.StageAnalyze, projectDir, analyzeStep()))
	},
}

func analyzeStep() workflow.Step {
	return stageStep(project.StageAnalyze, map[string]interface{}{
		"batchSize":      analyzeBatchSize,
		"promptTemplate": analyzePrompt,
		"language":       analyzeLanguage,
		"model":          analyzeModel,
		"timeoutSeconds": analyzeTimeout,
		"noProgress":     analyzeNoProgress,
	})
}

// addAnalyzeFlags registers the annotation flags on cmd
func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&analyzeBatchSize, "batch-size", "b", 0, "Sentences per request (default: 5)")
	cmd.Flags().StringVar(&analyzePrompt, "prompt", "", "Prompt template file (YAML or text)")
	cmd.Flags().StringVar(&analyzeLanguage, "language", "", "Explanation language (default: Simplified Chinese)")
	cmd.Flags().StringVar(&analyzeModel, "model", "", "Model name (default: provider default)")
	cmd.Flags().IntVar(&analyzeTimeout, "timeout", 0, "Per-request timeout in seconds (default: 60)")
	cmd.Flags().BoolVar(&analyzeNoProgress, "no-progress", false, "Disable the progress bar")
}

func init() {
	addAnalyzeFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Regenerate outputs that already exist")
	rootCmd.AddCommand(analyzeCmd)
}
