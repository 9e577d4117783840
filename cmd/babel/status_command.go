package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"babel/internal/config"
	"babel/internal/deps"
	"babel/internal/queue"
	"babel/internal/workflow"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue totals, stage readiness, and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, store *queue.Store, manager *workflow.Manager) error {
				out := cmd.OutOrStdout()

				summary, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Total", "Pending", "Processing", "Review", "Failed", "Completed"},
					[][]string{{
						fmt.Sprintf("%d", summary.Total),
						fmt.Sprintf("%d", summary.Pending),
						fmt.Sprintf("%d", summary.Processing),
						fmt.Sprintf("%d", summary.Review),
						fmt.Sprintf("%d", summary.Failed),
						fmt.Sprintf("%d", summary.Completed),
					}},
				))

				stageRows := make([][]string, 0)
				for _, health := range manager.Health(cmd.Context()) {
					state := "ready"
					if !health.Ready {
						state = "not ready"
					}
					stageRows = append(stageRows, []string{health.Name, state, health.Detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Stage", "State", "Detail"}, stageRows))

				toolRows := make([][]string, 0)
				for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
					state := "found"
					if !status.Available {
						state = "missing"
						if status.Optional {
							state = "missing (optional)"
						}
					}
					toolRows = append(toolRows, []string{status.Name, status.Command, state})
				}
				fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "State"}, toolRows))
				return nil
			})
		},
	}
}
