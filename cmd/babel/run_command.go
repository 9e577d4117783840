package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"babel/internal/config"
	"babel/internal/queue"
	"babel/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var itemID int64

	var title string

	cmd := &cobra.Command{
		Use:   "run [audio-file-or-youtube-url]",
		Short: "Process queued episodes through the full pipeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, store *queue.Store, manager *workflow.Manager) error {
				if err := manager.Startup(cmd.Context()); err != nil {
					return err
				}
				if len(args) == 1 {
					item, err := queueEpisode(cmd, cfg, store, strings.TrimSpace(args[0]), title)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Queued item %d: %s\n", item.ID, item.Title)
					return manager.ProcessItem(cmd.Context(), item)
				}
				if itemID > 0 {
					item, err := store.GetByID(cmd.Context(), itemID)
					if err != nil {
						return err
					}
					if item == nil {
						return fmt.Errorf("item %d not found", itemID)
					}
					return manager.ProcessItem(cmd.Context(), item)
				}
				return manager.ProcessAll(cmd.Context())
			})
		},
	}

	cmd.Flags().Int64Var(&itemID, "item", 0, "Process a single queue item")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Episode title (defaults to the filename)")
	return cmd
}

func newStageCommands(ctx *commandContext) []*cobra.Command {
	specs := []struct {
		name  string
		short string
	}{
		{workflow.StageTranscribe, "Transcribe an episode with WhisperX"},
		{workflow.StageRefClips, "Select per-speaker reference clips"},
		{workflow.StageTranslate, "Translate the transcript to Chinese"},
		{workflow.StageSynthesize, "Synthesize Chinese speech with IndexTTS2"},
		{workflow.StageConcatenate, "Assemble the final dubbed episode"},
	}

	commands := make([]*cobra.Command, 0, len(specs))
	for _, spec := range specs {
		stageName := spec.name
		var itemID int64
		cmd := &cobra.Command{
			Use:   stageName,
			Short: spec.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				if itemID <= 0 {
					return fmt.Errorf("--item is required")
				}
				return ctx.withPipeline(func(cfg *config.Config, store *queue.Store, manager *workflow.Manager) error {
					item, err := store.GetByID(cmd.Context(), itemID)
					if err != nil {
						return err
					}
					if item == nil {
						return fmt.Errorf("item %d not found", itemID)
					}
					return manager.RunSingle(cmd.Context(), item, stageName)
				})
			},
		}
		cmd.Flags().Int64Var(&itemID, "item", 0, "Queue item to process")
		commands = append(commands, cmd)
	}
	return commands
}
