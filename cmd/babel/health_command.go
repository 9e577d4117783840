package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"babel/internal/config"
	"babel/internal/deps"
	"babel/internal/queue"
	"babel/internal/workflow"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check stage readiness and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, store *queue.Store, manager *workflow.Manager) error {
				out := cmd.OutOrStdout()
				unhealthy := 0

				stageRows := make([][]string, 0)
				for _, health := range manager.Health(cmd.Context()) {
					state := "ready"
					if !health.Ready {
						state = "not ready"
						unhealthy++
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
						} else {
							unhealthy++
						}
					}
					toolRows = append(toolRows, []string{status.Name, status.Command, state})
				}
				fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "State"}, toolRows))

				if unhealthy > 0 {
					return fmt.Errorf("%d check(s) failed", unhealthy)
				}
				fmt.Fprintln(out, "All checks passed")
				return nil
			})
		},
	}
}
