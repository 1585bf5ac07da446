package config

// Default engine settings.
const (
	// DefaultEngineDomain is the capacity domain used when none is set.
	DefaultEngineDomain = DomainDiscrete

	// DefaultEngineTotalCapacity is the profile capacity used when none is set.
	DefaultEngineTotalCapacity = 1.0

	// DefaultEngineTolerance is the continuous comparison epsilon (0 picks
	// the engine's built-in default).
	DefaultEngineTolerance = 0.0

	// DefaultEngineHorizonStart is the earliest representable tick.
	DefaultEngineHorizonStart = int64(0)

	// DefaultEngineGranularity disables tick-grid snapping.
	DefaultEngineGranularity = int64(0)
)

// Default snapshot settings.
const (
	// DefaultSnapshotEnabled disables checkpointing unless asked for.
	DefaultSnapshotEnabled = false

	// DefaultSnapshotDir is the checkpoint directory.
	DefaultSnapshotDir = "snapshots"

	// DefaultSnapshotFormat is the checkpoint wire format.
	DefaultSnapshotFormat = FormatGobLZ4

	// DefaultSnapshotBasename is the checkpoint file basename.
	DefaultSnapshotBasename = "profile"
)

// Default replay output settings.
const (
	// DefaultReplayTable enables the summary table.
	DefaultReplayTable = true

	// DefaultReplayColor enables colored status markers.
	DefaultReplayColor = true

	// DefaultReplayChartPath disables chart rendering unless set.
	DefaultReplayChartPath = ""

	// DefaultReplayChartTitle is the capacity chart title.
	DefaultReplayChartTitle = "Free capacity over time"
)

// Default observability settings.
const (
	// DefaultObservabilityEnabled keeps telemetry off for plain CLI runs.
	DefaultObservabilityEnabled = false

	// DefaultObservabilityServiceName identifies this process in telemetry.
	DefaultObservabilityServiceName = "availprof"

	// DefaultObservabilityOTLPEndpoint is the OTLP collector address.
	DefaultObservabilityOTLPEndpoint = "localhost:4317"

	// DefaultObservabilityMetricsAddr is the Prometheus scrape address.
	DefaultObservabilityMetricsAddr = ":9464"
)
