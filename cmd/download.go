package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ytkit/ytkit/internal/project"
)

var (
	downloadLanguages   []string
	downloadFormat      string
	downloadNoVideo     bool
	downloadNoThumbnail bool
	downloadNoMerge     bool
)

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download the video, subtitles and cover image",
	Long: `Download <id>.mp4, one VTT file per subtitle language, cover.jpg and the
bilingual subtitle file. With a URL the project is created first; without one
the project in --dir is used. Files that already exist are not fetched again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := projectDir
		if len(args) == 1 {
			p, err := ensureProject(args[0])
			if err != nil {
				return err
			}
			dir = p.Dir
		}

		return runSteps(cmd.Context(), project.StageDownload, dir, stageStep(project.StageDownload, map[string]interface{}{
			"languages":   downloadLanguages,
			"format":      downloadFormat,
			"noVideo":     downloadNoVideo,
			"noThumbnail": downloadNoThumbnail,
			"noMerge":     downloadNoMerge,
		}))
	},
}

func init() {
	downloadCmd.Flags().StringSliceVar(&downloadLanguages, "lang", nil, "Subtitle languages (default: config, English is always included)")
	downloadCmd.Flags().StringVar(&downloadFormat, "format", "", "yt-dlp format selector")
	downloadCmd.Flags().BoolVar(&downloadNoVideo, "no-video", false, "Only fetch subtitles and the cover")
	downloadCmd.Flags().BoolVar(&downloadNoThumbnail, "no-thumbnail", false, "Do not fetch cover.jpg")
	downloadCmd.Flags().BoolVar(&downloadNoMerge, "no-merge", false, "Do not write the bilingual subtitle file")
	downloadCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Regenerate outputs that already exist")
	rootCmd.AddCommand(downloadCmd)
}
