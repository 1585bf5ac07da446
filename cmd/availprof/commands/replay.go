// Package commands implements CLI command handlers for availprof.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/schedkit/availprof/internal/config"
	"github.com/schedkit/availprof/internal/observability"
	"github.com/schedkit/availprof/internal/scenario"
	"github.com/schedkit/availprof/pkg/persist"
	"github.com/schedkit/availprof/pkg/version"
)

// snapshotDirPerm is the mode for created snapshot directories.
const snapshotDirPerm = 0o750

// ReplayCommand holds configuration and dependencies for the replay command.
type ReplayCommand struct {
	configPath   string
	chartPath    string
	saveSnapshot bool
	noTable      bool
	noColor      bool
	verbose      bool
	jsonLogs     bool
}

// NewReplayCommand creates the replay command.
func NewReplayCommand() *cobra.Command {
	rc := &ReplayCommand{}

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a scenario file against a fresh profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&rc.configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVar(&rc.chartPath, "chart", "", "write a capacity chart to this HTML file")
	cmd.Flags().BoolVar(&rc.saveSnapshot, "save-snapshot", false, "persist the final timeline snapshot")
	cmd.Flags().BoolVar(&rc.noTable, "no-table", false, "print only the summary line")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVarP(&rc.verbose, "verbose", "v", false, "verbose logging")
	cmd.Flags().BoolVar(&rc.jsonLogs, "json-logs", false, "JSON log output")

	return cmd
}

// run executes one replay end to end.
func (rc *ReplayCommand) run(cmd *cobra.Command, scenarioPath string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return err
	}

	providers, err := observability.Init(rc.observabilityConfig(cfg))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	if cfg.Observability.Enabled && cfg.Observability.MetricsAddr != "" {
		diag, diagErr := observability.NewDiagnosticsServer(cfg.Observability.MetricsAddr)
		if diagErr != nil {
			return diagErr
		}

		defer func() {
			closeErr := diag.Close()
			if closeErr != nil {
				providers.Logger.Warn("diagnostics shutdown failed", "error", closeErr)
			}
		}()
	}

	metrics, err := observability.NewProfileMetrics(providers.Meter, nil)
	if err != nil {
		return fmt.Errorf("create profile metrics: %w", err)
	}

	sc, err := scenario.Load(scenarioPath, cfg)
	if err != nil {
		return err
	}

	report, err := scenario.Run(ctx, sc, scenario.Deps{
		Logger:  providers.Logger,
		Metrics: metrics,
		Tracer:  providers.Tracer,
	})
	if err != nil {
		return err
	}

	scenario.Render(cmd.OutOrStdout(), report, scenario.RenderOptions{
		Table: cfg.Replay.Table && !rc.noTable,
		Color: cfg.Replay.Color && !rc.noColor,
	})

	err = rc.writeChart(cfg, report)
	if err != nil {
		return err
	}

	return rc.persistSnapshot(cfg, report)
}

// observabilityConfig maps the loaded configuration onto telemetry settings.
func (rc *ReplayCommand) observabilityConfig(cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceName = cfg.Observability.ServiceName
	obsCfg.ServiceVersion = version.Version
	obsCfg.LogJSON = rc.jsonLogs

	if rc.verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	if cfg.Observability.Enabled {
		obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	}

	return obsCfg
}

// writeChart renders the capacity chart when a path is configured. The
// --chart flag wins over the config file.
func (rc *ReplayCommand) writeChart(cfg *config.Config, report *scenario.Report) error {
	path := cfg.Replay.ChartPath
	if rc.chartPath != "" {
		path = rc.chartPath
	}

	if path == "" {
		return nil
	}

	return scenario.WriteChartFile(path, cfg.Replay.ChartTitle, report)
}

// persistSnapshot checkpoints the final timeline when asked to, either by
// the --save-snapshot flag or the config file.
func (rc *ReplayCommand) persistSnapshot(cfg *config.Config, report *scenario.Report) error {
	if !rc.saveSnapshot && !cfg.Snapshot.Enabled {
		return nil
	}

	codec, err := codecForFormat(cfg.Snapshot.Format)
	if err != nil {
		return err
	}

	err = os.MkdirAll(cfg.Snapshot.Dir, snapshotDirPerm)
	if err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	return persist.SaveSnapshot(cfg.Snapshot.Dir, cfg.Snapshot.Basename, codec, report.Snapshot)
}

// codecForFormat maps a configured format name onto a snapshot codec.
func codecForFormat(format string) (persist.Codec, error) {
	switch format {
	case config.FormatJSON:
		return persist.NewJSONCodec(), nil
	case config.FormatGob:
		return persist.NewGobCodec(), nil
	case config.FormatGobLZ4:
		return persist.NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSnapshotFormat, format)
	}
}
