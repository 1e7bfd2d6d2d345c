package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/chip/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Transpile stale sources, then keep artifacts up to date as files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clean, _ := cmd.Flags().GetBool("clean")
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

			return c.app.Watch(cmd.Context(), app.WatchOptions{
				ConfigPath:  c.configPath,
				Clean:       clean,
				MetricsAddr: metricsAddr,
			})
		},
	}
	cmd.Flags().Bool("clean", false, "Clear the cache before the initial pass")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}
