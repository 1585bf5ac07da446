package config

import "errors"

// Config is the top-level configuration struct for availprof.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Engine        EngineConfig        `mapstructure:"engine"`
	Snapshot      SnapshotConfig      `mapstructure:"snapshot"`
	Replay        ReplayConfig        `mapstructure:"replay"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// EngineConfig holds the capacity-domain knobs of the timeline engine.
type EngineConfig struct {
	Domain        string  `mapstructure:"domain"`
	TotalCapacity float64 `mapstructure:"total_capacity"`
	Tolerance     float64 `mapstructure:"tolerance"`
	HorizonStart  int64   `mapstructure:"horizon_start"`
	Granularity   int64   `mapstructure:"granularity"`
}

// SnapshotConfig holds checkpoint settings for persisted timelines.
type SnapshotConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Dir      string `mapstructure:"dir"`
	Format   string `mapstructure:"format"`
	Basename string `mapstructure:"basename"`
}

// ReplayConfig holds scenario replay output settings.
type ReplayConfig struct {
	Table      bool   `mapstructure:"table"`
	Color      bool   `mapstructure:"color"`
	ChartPath  string `mapstructure:"chart_path"`
	ChartTitle string `mapstructure:"chart_title"`
}

// ObservabilityConfig holds metrics and tracing settings.
type ObservabilityConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
}

// Capacity domain names accepted by engine.domain.
const (
	DomainDiscrete   = "discrete"
	DomainContinuous = "continuous"
)

// Snapshot format names accepted by snapshot.format.
const (
	FormatJSON   = "json"
	FormatGob    = "gob"
	FormatGobLZ4 = "gob.lz4"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidDomain indicates an unknown capacity domain name.
	ErrInvalidDomain = errors.New("engine.domain must be \"discrete\" or \"continuous\"")
	// ErrInvalidTotalCapacity indicates a non-positive total capacity.
	ErrInvalidTotalCapacity = errors.New("engine.total_capacity must be positive")
	// ErrInvalidTolerance indicates a negative comparison tolerance.
	ErrInvalidTolerance = errors.New("engine.tolerance must be non-negative")
	// ErrInvalidGranularity indicates a negative tick granularity.
	ErrInvalidGranularity = errors.New("engine.granularity must be non-negative")
	// ErrInvalidSnapshotFormat indicates an unknown snapshot format name.
	ErrInvalidSnapshotFormat = errors.New("snapshot.format must be \"json\", \"gob\", or \"gob.lz4\"")
	// ErrInvalidSnapshotDir indicates snapshots are enabled without a directory.
	ErrInvalidSnapshotDir = errors.New("snapshot.dir must be set when snapshots are enabled")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	engineErr := c.validateEngine()
	if engineErr != nil {
		return engineErr
	}

	return c.validateSnapshot()
}

func (c *Config) validateEngine() error {
	if c.Engine.Domain != DomainDiscrete && c.Engine.Domain != DomainContinuous {
		return ErrInvalidDomain
	}

	if c.Engine.TotalCapacity <= 0 {
		return ErrInvalidTotalCapacity
	}

	if c.Engine.Tolerance < 0 {
		return ErrInvalidTolerance
	}

	if c.Engine.Granularity < 0 {
		return ErrInvalidGranularity
	}

	return nil
}

func (c *Config) validateSnapshot() error {
	switch c.Snapshot.Format {
	case FormatJSON, FormatGob, FormatGobLZ4:
	default:
		return ErrInvalidSnapshotFormat
	}

	if c.Snapshot.Enabled && c.Snapshot.Dir == "" {
		return ErrInvalidSnapshotDir
	}

	return nil
}
