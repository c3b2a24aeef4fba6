package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/utils"
	"github.com/ytkit/ytkit/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment setup",
	Long:  `Check that yt-dlp is installed, whether ffmpeg is available and that the configured LLM provider has an API key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.LogInfo("Validating environment...")

		if err := validator.ValidateExternalTools(); err != nil {
			return fmt.Errorf("external tools validation failed: %w", err)
		}
		utils.LogSuccess("External tools: OK")

		if err := validator.ValidateCredentials(appConfig); err != nil {
			return fmt.Errorf("credentials validation failed: %w", err)
		}
		utils.LogSuccess("Credentials: OK")

		utils.LogSuccess("Environment validation completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
