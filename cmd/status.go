package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/utils"
	"github.com/ytkit/ytkit/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which artifacts exist in a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.Open(projectDir)
		if err != nil {
			return err
		}

		inventory, err := p.Inventory(appConfig.Download.Languages)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(inventory))
		for _, a := range inventory {
			if !a.Exists {
				rows = append(rows, []string{a.Name, "-", "", ""})
				continue
			}
			rows = append(rows, []string{a.Name, "✓", humanize.Bytes(uint64(a.Size)), humanize.Time(a.Modified)})
		}

		fmt.Fprintf(utils.Output(), "Project %s (%s)\n", utils.Highlight(p.VideoID), p.URL)
		fmt.Fprintln(utils.Output(), utils.RenderTable(
			[]string{"Artifact", "Exists", "Size", "Modified"},
			rows,
			[]utils.ColumnAlignment{utils.AlignLeft, utils.AlignLeft, utils.AlignRight, utils.AlignLeft},
		))

		summary, err := workflow.LoadWorkflowState(p.Path(workflow.StateFile))
		switch {
		case err == nil:
			fmt.Fprintf(utils.Output(), "Last run: %s %s (%s)\n", summary.Name, summary.Status, humanize.Time(summary.EndTime))
		case errors.Is(err, fs.ErrNotExist):
		default:
			utils.LogWarning("Failed to read last run: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
