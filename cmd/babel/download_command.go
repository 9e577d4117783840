package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"babel/internal/services/ytdlp"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download <youtube-url>",
		Short: "Download a YouTube episode as MP3 without queueing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if !ytdlp.IsYouTubeURL(url) {
				return fmt.Errorf("not a YouTube URL: %s", url)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := downloadEpisode(cmd, cfg, url)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
