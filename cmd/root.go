package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/utils"
)

var (
	// verbosityLevel is the command-line flag for setting the log level
	verbosityLevel string
	configPath     string
	projectDir     string

	// appConfig is loaded before any command runs
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ytkit",
	Short: "Turn YouTube captions into annotated study documents",
	Long: `ytkit downloads a YouTube video with its subtitles, condenses the English
captions into timestamped sentences and asks an LLM to explain each one.
Every stage writes its artifact into the project directory and is skipped
when that artifact already exists.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set the global log level based on the flag
		utils.SetLogLevel(utils.LogLevelFromString(verbosityLevel))

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Initialize global flags
	rootCmd.PersistentFlags().StringVarP(&verbosityLevel, "log-level", "l", "normal",
		"Set the logging verbosity level: quiet, normal, verbose, debug")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: ~/.ytkit/config.yaml or config.toml)")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".",
		"Project directory")
}
