package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/chip/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [repos...]",
		Short: "Transpile stale sources of the given or all active repos",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clean, _ := cmd.Flags().GetBool("clean")
			verbose, _ := cmd.Flags().GetBool("verbose")

			return c.app.Build(cmd.Context(), app.BuildOptions{
				ConfigPath: c.configPath,
				Repos:      args,
				Clean:      clean,
				Verbose:    verbose,
			})
		},
	}
	cmd.Flags().Bool("clean", false, "Clear the cache first and rebuild everything")
	cmd.Flags().BoolP("verbose", "v", false, "Also log files that are already up to date")
	return cmd
}
