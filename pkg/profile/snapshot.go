package profile

import (
	"fmt"

	"github.com/schedkit/availprof/pkg/span"
)

// EntryState is the serializable form of one timeline entry.
type EntryState[V span.Value] struct {
	Start        Tick     `json:"start"         yaml:"start"`
	End          Tick     `json:"end"           yaml:"end"`
	Free         V        `json:"free"          yaml:"free"`
	Reservations []string `json:"reservations,omitempty" yaml:"reservations,omitempty"`
}

// State is a detached, serializable snapshot of a whole profile. Two
// profiles with structurally equal states have identical timelines.
type State[V span.Value] struct {
	Total        V              `json:"total"         yaml:"total"`
	HorizonStart Tick           `json:"horizon_start" yaml:"horizon_start"`
	Entries      []EntryState[V] `json:"entries"      yaml:"entries"`
}

// Snapshot captures the current timeline. Reservation ids are sorted, so
// snapshots of equal timelines compare equal.
func (p *Profile[V]) Snapshot() State[V] {
	st := State[V]{
		Total:        p.total,
		HorizonStart: p.horizonStart,
		Entries:      make([]EntryState[V], 0, len(p.entries)),
	}

	for i := range p.entries {
		e := &p.entries[i]
		st.Entries = append(st.Entries, EntryState[V]{
			Start:        e.slot.Start,
			End:          e.slot.End,
			Free:         e.free,
			Reservations: e.Reservations(),
		})
	}

	return st
}

// Restore replaces the timeline with the snapshot's contents after
// validating the profile invariants: contiguous slots from the horizon
// start to HorizonEnd and capacity within [0, total]. On error the profile
// is unchanged.
func (p *Profile[V]) Restore(st State[V]) error {
	entries, err := p.entriesFromState(st)
	if err != nil {
		return err
	}

	p.total = st.Total
	p.horizonStart = st.HorizonStart
	p.entries = entries

	return nil
}

// entriesFromState validates and rebuilds the entry sequence.
func (p *Profile[V]) entriesFromState(st State[V]) ([]Entry[V], error) {
	var zero V
	if !p.ar.Less(zero, st.Total) {
		return nil, fmt.Errorf("%w: total %v must be positive", ErrInvalidCapacity, st.Total)
	}

	if len(st.Entries) == 0 {
		return nil, fmt.Errorf("%w: empty entry sequence", span.ErrInvalidRange)
	}

	entries := make([]Entry[V], 0, len(st.Entries))
	expectedStart := st.HorizonStart

	for _, es := range st.Entries {
		if es.Start != expectedStart || es.End <= es.Start {
			return nil, fmt.Errorf("%w: entry [%d, %d) breaks contiguity at %d",
				span.ErrInvalidRange, es.Start, es.End, expectedStart)
		}

		if p.ar.Less(es.Free, zero) || p.ar.Less(st.Total, es.Free) {
			return nil, fmt.Errorf("%w: free %v outside [0, %v]", ErrInvalidCapacity, es.Free, st.Total)
		}

		entry := Entry[V]{
			slot: TimeSlot{Start: es.Start, End: es.End},
			free: es.Free,
		}

		for _, id := range es.Reservations {
			if entry.reservations == nil {
				entry.reservations = make(map[string]struct{}, len(es.Reservations))
			}

			entry.reservations[id] = struct{}{}
		}

		entries = append(entries, entry)
		expectedStart = es.End
	}

	if entries[len(entries)-1].slot.End != HorizonEnd {
		return nil, fmt.Errorf("%w: last entry ends at %d, not the horizon end",
			span.ErrInvalidRange, entries[len(entries)-1].slot.End)
	}

	return entries, nil
}
