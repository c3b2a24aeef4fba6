package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
)

var (
	chaptersOffline bool
	chaptersModel   string
	chaptersTimeout int
)

var chaptersCmd = &cobra.Command{
	Use:     "chapters",
	Aliases: []string{"transcripts"},
	Short:   "Write a chaptered transcript of the English captions",
	Long: `Ask the LLM to split <id>.en.vtt into titled chapters and write
<id>.transcripts.md plus <id>.chapters.json. With --offline a chapter is
started every 30 cues and no request is made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		step := stageStep(project.StageChapters, map[string]interface{}{
			"offline":        chaptersOffline,
			"model":          chaptersModel,
			"timeoutSeconds": chaptersTimeout,
		})
		return describeMissingInput(runSteps(cmd.Context(), project.StageChapters, projectDir, step))
	},
}

func init() {
	chaptersCmd.Flags().BoolVar(&chaptersOffline, "offline", false, "Fixed-size chapters without calling the LLM")
	chaptersCmd.Flags().StringVar(&chaptersModel, "model", "", "Model name (default: provider default)")
	chaptersCmd.Flags().IntVar(&chaptersTimeout, "timeout", 0, "Request timeout in seconds (default: config)")
	chaptersCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Regenerate outputs that already exist")
	rootCmd.AddCommand(chaptersCmd)
}
