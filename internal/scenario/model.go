// Package scenario loads, validates, and replays reservation scenarios
// against an availability profile. A scenario is a YAML document with an
// engine block and an ordered list of steps; replaying it produces a report
// of per-step outcomes plus the final timeline.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/schedkit/availprof/internal/config"
)

// Step operation names.
const (
	OpAllocate   = "allocate"
	OpRelease    = "release"
	OpCheck      = "check"
	OpFindWindow = "find_window"
	OpFreeAt     = "free_at"
	OpTrimBefore = "trim_before"
)

// Sentinel errors for scenario loading.
var (
	// ErrNoSteps indicates a scenario without any steps.
	ErrNoSteps = errors.New("scenario: no steps")
	// ErrUnknownOp indicates a step with an unrecognized operation name.
	ErrUnknownOp = errors.New("scenario: unknown operation")
)

// EngineSpec configures the profile a scenario runs against. Zero fields
// fall back to the loaded configuration.
type EngineSpec struct {
	Domain        string  `yaml:"domain"`
	TotalCapacity float64 `yaml:"total_capacity"`
	Tolerance     float64 `yaml:"tolerance"`
	HorizonStart  int64   `yaml:"horizon_start"`
	Granularity   int64   `yaml:"granularity"`
}

// Step is one replayed operation. Fields are interpreted per operation:
// allocate and release use start, end, amount, and id; check uses start,
// end, and required; find_window uses start, min_duration, and required;
// free_at and trim_before use at.
type Step struct {
	Op          string  `yaml:"op"`
	ID          string  `yaml:"id,omitempty"`
	Start       int64   `yaml:"start,omitempty"`
	End         int64   `yaml:"end,omitempty"`
	At          int64   `yaml:"at,omitempty"`
	Amount      float64 `yaml:"amount,omitempty"`
	Required    float64 `yaml:"required,omitempty"`
	MinDuration int64   `yaml:"min_duration,omitempty"`
}

// Scenario is a parsed scenario document.
type Scenario struct {
	Name   string     `yaml:"name"`
	Engine EngineSpec `yaml:"engine"`
	Steps  []Step     `yaml:"steps"`
}

// Load reads, schema-validates, and parses a scenario file, then fills
// engine defaults from cfg.
func Load(path string, cfg *config.Config) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	return Parse(raw, cfg)
}

// Parse validates and parses a raw scenario document.
func Parse(raw []byte, cfg *config.Config) (*Scenario, error) {
	err := validateDocument(raw)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var sc Scenario

	err = dec.Decode(&sc)
	if err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	sc.applyDefaults(cfg)

	err = sc.validate()
	if err != nil {
		return nil, err
	}

	return &sc, nil
}

// applyDefaults fills zero engine fields from the loaded configuration.
func (s *Scenario) applyDefaults(cfg *config.Config) {
	if cfg == nil {
		if s.Engine.Domain == "" {
			s.Engine.Domain = config.DefaultEngineDomain
		}

		return
	}

	if s.Engine.Domain == "" {
		s.Engine.Domain = cfg.Engine.Domain
	}

	if s.Engine.TotalCapacity == 0 {
		s.Engine.TotalCapacity = cfg.Engine.TotalCapacity
	}

	if s.Engine.Tolerance == 0 {
		s.Engine.Tolerance = cfg.Engine.Tolerance
	}

	if s.Engine.HorizonStart == 0 {
		s.Engine.HorizonStart = cfg.Engine.HorizonStart
	}

	if s.Engine.Granularity == 0 {
		s.Engine.Granularity = cfg.Engine.Granularity
	}
}

// validate checks constraints the JSON schema cannot express.
func (s *Scenario) validate() error {
	if len(s.Steps) == 0 {
		return ErrNoSteps
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpAllocate, OpRelease, OpCheck, OpFindWindow, OpFreeAt, OpTrimBefore:
		default:
			return fmt.Errorf("%w: step %d: %q", ErrUnknownOp, i, step.Op)
		}
	}

	return nil
}
