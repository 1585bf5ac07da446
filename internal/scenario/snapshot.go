package scenario

import (
	"errors"
	"fmt"

	"github.com/schedkit/availprof/internal/config"
	"github.com/schedkit/availprof/pkg/profile"
	"github.com/schedkit/availprof/pkg/span"
)

// ErrEmptySnapshot reports a snapshot document carrying no timeline state.
var ErrEmptySnapshot = errors.New("scenario: snapshot holds no timeline state")

// SnapshotDoc wraps a timeline snapshot with its capacity domain, so a
// checkpoint file is self-describing. Exactly one state field is set.
type SnapshotDoc struct {
	Domain     string                  `json:"domain"               yaml:"domain"`
	Discrete   *profile.State[int64]   `json:"discrete,omitempty"   yaml:"discrete,omitempty"`
	Continuous *profile.State[float64] `json:"continuous,omitempty" yaml:"continuous,omitempty"`
}

// newSnapshotDoc wraps a profile snapshot of either domain.
func newSnapshotDoc[V span.Value](domain string, st profile.State[V]) *SnapshotDoc {
	doc := &SnapshotDoc{Domain: domain}

	switch typed := any(st).(type) {
	case profile.State[int64]:
		doc.Discrete = &typed
	case profile.State[float64]:
		doc.Continuous = &typed
	}

	return doc
}

// ReportFromSnapshot rebuilds a timeline from a snapshot document,
// re-validating the profile invariants, and returns a timeline-only report
// for rendering. The name labels the report.
func ReportFromSnapshot(name string, doc *SnapshotDoc) (*Report, error) {
	switch {
	case doc.Discrete != nil:
		p, err := profile.NewDiscrete(doc.Discrete.Total)
		if err != nil {
			return nil, fmt.Errorf("rebuild profile: %w", err)
		}

		return reportFromState(name, config.DomainDiscrete, *doc.Discrete, p,
			func(v int64) float64 { return float64(v) })
	case doc.Continuous != nil:
		p, err := profile.NewContinuous(doc.Continuous.Total)
		if err != nil {
			return nil, fmt.Errorf("rebuild profile: %w", err)
		}

		return reportFromState(name, config.DomainContinuous, *doc.Continuous, p,
			func(v float64) float64 { return v })
	default:
		return nil, ErrEmptySnapshot
	}
}

// reportFromState restores one concrete domain and flattens its timeline.
func reportFromState[V span.Value](
	name, domain string,
	st profile.State[V],
	p *profile.Profile[V],
	toF func(V) float64,
) (*Report, error) {
	err := p.Restore(st)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}

	report := &Report{
		Scenario: name,
		Domain:   domain,
		Total:    toF(p.MaxCapacity()),
	}

	for e := range p.Entries() {
		report.Timeline = append(report.Timeline, TimelineRow{
			Start:        e.Slot().Start,
			End:          e.Slot().End,
			Free:         toF(e.Free()),
			Reservations: e.Reservations(),
		})
	}

	return report, nil
}
