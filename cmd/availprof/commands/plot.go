package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/schedkit/availprof/internal/config"
	"github.com/schedkit/availprof/internal/scenario"
)

// PlotCommand holds flags for the plot command.
type PlotCommand struct {
	configPath string
	outPath    string
	title      string
}

// NewPlotCommand creates the plot command, which replays a scenario and
// writes only its capacity chart.
func NewPlotCommand() *cobra.Command {
	pc := &PlotCommand{}

	cmd := &cobra.Command{
		Use:   "plot <scenario.yaml>",
		Short: "Render a scenario's free-capacity chart to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pc.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&pc.configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&pc.outPath, "out", "o", "capacity.html", "output HTML file")
	cmd.Flags().StringVar(&pc.title, "title", "", "chart title (defaults to the configured title)")

	return cmd
}

// run replays the scenario silently and renders the chart.
func (pc *PlotCommand) run(cmd *cobra.Command, scenarioPath string) error {
	cfg, err := config.LoadConfig(pc.configPath)
	if err != nil {
		return err
	}

	sc, err := scenario.Load(scenarioPath, cfg)
	if err != nil {
		return err
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	report, err := scenario.Run(context.Background(), sc, scenario.Deps{Logger: quiet})
	if err != nil {
		return err
	}

	title := cfg.Replay.ChartTitle
	if pc.title != "" {
		title = pc.title
	}

	err = scenario.WriteChartFile(pc.outPath, title, report)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pc.outPath)

	return nil
}
