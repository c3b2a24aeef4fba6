package cmd

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/watcher"
	"github.com/ytkit/ytkit/internal/workflow"
)

var watchAnalyze bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Preprocess the English captions whenever they change",
	Long: `Watch the project directory and regenerate <id>.preprocessed.md each time
<id>.en.vtt is created or rewritten. With --analyze the annotations are
regenerated too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.Open(projectDir)
		if err != nil {
			return err
		}

		captions := filepath.Base(p.EnglishSubtitleFile())
		match := func(path string) bool { return filepath.Base(path) == captions }

		handler := func(ctx context.Context, path string) error {
			steps := []workflow.Step{
				{Name: project.StagePreprocess, Module: project.StagePreprocess, Parameters: map[string]interface{}{"force": true}},
			}
			if watchAnalyze {
				steps = append(steps, workflow.Step{
					Name: project.StageAnalyze, Module: project.StageAnalyze, Parameters: map[string]interface{}{"force": true},
				})
			}
			return runSteps(ctx, "watch", p.Dir, steps...)
		}

		w, err := watcher.New(p.Dir, match, handler, watcher.DefaultDebounce)
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		if err := w.Start(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchAnalyze, "analyze", false, "Also re-run analyze after preprocessing")
	rootCmd.AddCommand(watchCmd)
}
