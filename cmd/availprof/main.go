// Package main provides the entry point for the availprof CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schedkit/availprof/cmd/availprof/commands"
	"github.com/schedkit/availprof/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "availprof",
		Short: "Availability profile toolkit for scheduling simulators",
		Long: `Availprof replays reservation scenarios against an availability
timeline and reports free-capacity windows, rejections, and the final
timeline state.

Commands:
  replay    Replay a scenario file against a fresh profile
  inspect   Render a persisted timeline snapshot
  plot      Render a scenario's free-capacity chart to HTML`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewReplayCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "availprof %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
