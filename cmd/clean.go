package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/utils"
)

var (
	cleanStages []string
	cleanDryRun bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated artifacts so a stage runs again",
	Long: `Delete the files a stage produced. Stages skip work when their outputs
exist, so cleaning is how a stage is re-run without --force. "all" covers every
stage after download; downloads are only removed when named explicitly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.Open(projectDir)
		if err != nil {
			return err
		}

		stages, err := expandStages(cleanStages)
		if err != nil {
			return err
		}

		var toDelete []string
		for _, stage := range stages {
			for _, path := range p.StageArtifacts(stage) {
				exists, err := utils.FileExists(path)
				if err != nil {
					return err
				}
				if exists && !contains(toDelete, path) {
					toDelete = append(toDelete, path)
				}
			}
		}

		if len(toDelete) == 0 {
			utils.LogInfo("Nothing to clean.")
			return nil
		}

		utils.LogInfo("Found %d files to delete:", len(toDelete))
		for _, path := range toDelete {
			utils.LogInfo("- %s", path)
		}

		if cleanDryRun {
			utils.LogInfo("Dry run - no files were deleted.")
			return nil
		}

		unlock, err := p.Lock()
		if err != nil {
			return err
		}
		defer unlock()

		failed := 0
		for _, path := range toDelete {
			utils.LogVerbose("Deleting %s...", path)
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				utils.LogError("Error deleting %s: %v", path, err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("failed to delete %d of %d files", failed, len(toDelete))
		}

		utils.LogSuccess("Cleanup completed.")
		return nil
	},
}

// expandStages validates stage names; "all" means every stage but download
func expandStages(names []string) ([]string, error) {
	var stages []string
	for _, name := range names {
		if name == "all" {
			for _, stage := range project.Stages() {
				if stage != project.StageDownload && !contains(stages, stage) {
					stages = append(stages, stage)
				}
			}
			continue
		}
		if !contains(project.Stages(), name) {
			return nil, fmt.Errorf("unknown stage %q: use one of %v or all", name, project.Stages())
		}
		if !contains(stages, name) {
			stages = append(stages, name)
		}
	}
	return stages, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func init() {
	cleanCmd.Flags().StringSliceVarP(&cleanStages, "stage", "s", []string{"all"}, "Stages to clean: preprocess, analyze, chapters, render, download or all")
	cleanCmd.Flags().BoolVarP(&cleanDryRun, "dry-run", "n", false, "Show what would be deleted without actually deleting")
	rootCmd.AddCommand(cleanCmd)
}
