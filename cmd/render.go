package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
)

var (
	renderTitle string
	renderDocx  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the annotated sentences as a study document",
	Long:  `Join <id>.preprocessed.md with <id>.analyzed.json and write <id>.study.md, and <id>.study.docx with --docx.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		step := stageStep(project.StageRender, map[string]interface{}{
			"title": renderTitle,
			"docx":  renderDocx,
		})
		return describeMissingInput(runSteps(cmd.Context(), project.StageRender, projectDir, step))
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderTitle, "title", "t", "", "Document title (default: \"Study Notes <id>\")")
	renderCmd.Flags().BoolVar(&renderDocx, "docx", false, "Also write a Word document")
	renderCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Regenerate outputs that already exist")
	rootCmd.AddCommand(renderCmd)
}
