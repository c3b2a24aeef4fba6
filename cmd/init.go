package cmd

import (
	"github.com/spf13/cobra"
)

var initPrefix string

var initCmd = &cobra.Command{
	Use:   "init <url>",
	Short: "Create a project directory for a YouTube video",
	Long: `Create <prefix>/<video id>/ with a .youtube file holding the URL.
Running it again for the same video reuses the existing project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if initPrefix != "" {
			appConfig.Prefix = initPrefix
		}
		_, err := ensureProject(args[0])
		return err
	},
}

func init() {
	initCmd.Flags().StringVarP(&initPrefix, "prefix", "p", "", "Parent directory for projects (default: config prefix or current directory)")
	rootCmd.AddCommand(initCmd)
}
