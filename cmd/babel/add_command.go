package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"babel/internal/config"
	"babel/internal/queue"
	"babel/internal/services/ytdlp"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <audio-file-or-youtube-url>",
		Short: "Queue an episode for dubbing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := strings.TrimSpace(args[0])
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				item, err := queueEpisode(cmd, cfg, store, source, title)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued item %d: %s\n", item.ID, item.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Episode title (defaults to the filename)")
	return cmd
}

// queueEpisode resolves a local path or downloads a YouTube URL, then
// queues the episode.
func queueEpisode(cmd *cobra.Command, cfg *config.Config, store *queue.Store, source, title string) (*queue.Item, error) {
	if ytdlp.IsYouTubeURL(source) {
		downloaded, err := downloadEpisode(cmd, cfg, source)
		if err != nil {
			return nil, err
		}
		source = downloaded
	} else {
		resolved, err := filepath.Abs(source)
		if err != nil {
			return nil, fmt.Errorf("resolve source path: %w", err)
		}
		if _, err := os.Stat(resolved); err != nil {
			return nil, fmt.Errorf("source audio not found: %s", resolved)
		}
		source = resolved
	}

	item, err := store.NewEpisode(cmd.Context(), source, title)
	if err != nil {
		return nil, fmt.Errorf("queue episode: %w", err)
	}
	return item, nil
}

func downloadEpisode(cmd *cobra.Command, cfg *config.Config, url string) (string, error) {
	downloadDir := filepath.Join(cfg.Paths.WorkDir, "downloads")
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloading %s\n", url)
	service := ytdlp.NewService(cfg.YtDlpBinary())
	path, err := service.DownloadMP3(cmd.Context(), url, downloadDir)
	if err != nil {
		return "", fmt.Errorf("download episode: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s\n", filepath.Base(path))
	return path, nil
}
