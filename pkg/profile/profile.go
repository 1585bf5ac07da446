// Package profile implements an availability timeline: a sorted, contiguous
// sequence of time slots with constant free capacity, used as bookkeeping by
// cluster and job scheduling simulators. The engine answers "is there enough
// capacity for a duration starting at or after T?" and records reservations
// over half-open intervals, splitting and re-merging entries so the timeline
// never contains gaps, overlaps, or negative capacity.
//
// The engine is generic over the capacity domain: discrete (whole units,
// exact comparison) or continuous (fractional amounts, tolerance-based
// comparison), selected by the span.Arithmetic supplied at construction.
//
// Profiles are plain single-threaded data structures with no internal
// locking. When shared between goroutines, every operation (read or write)
// must be guarded by one external mutex.
package profile

import (
	"fmt"
	"iter"
	"sort"

	"github.com/schedkit/availprof/pkg/span"
)

// Profile tracks the free capacity of a quantified resource over the
// half-open horizon [horizon start, HorizonEnd). Mutations are whole-call
// atomic: they either fully apply or fail without touching the timeline.
type Profile[V span.Value] struct {
	ar           span.Arithmetic[V]
	total        V
	horizonStart Tick
	entries      []Entry[V]
}

// Window is a time slot paired with the capacity guaranteed to be free
// throughout it.
type Window[V span.Value] struct {
	Slot     TimeSlot
	Capacity V
}

// newProfile builds a profile with the sentinel first entry spanning the
// whole horizon at full capacity.
func newProfile[V span.Value](ar span.Arithmetic[V], total V, horizonStart Tick) (*Profile[V], error) {
	var zero V
	if !ar.Less(zero, total) {
		return nil, fmt.Errorf("%w: total %v must be positive", ErrInvalidCapacity, total)
	}

	return &Profile[V]{
		ar:           ar,
		total:        total,
		horizonStart: horizonStart,
		entries: []Entry[V]{{
			slot: TimeSlot{Start: horizonStart, End: HorizonEnd},
			free: total,
		}},
	}, nil
}

// MaxCapacity returns the profile's total capacity.
func (p *Profile[V]) MaxCapacity() V {
	return p.total
}

// HorizonStart returns the earliest representable instant.
func (p *Profile[V]) HorizonStart() Tick {
	return p.horizonStart
}

// Len returns the number of timeline entries.
func (p *Profile[V]) Len() int {
	return len(p.entries)
}

// Entries returns a lazy, ordered, restartable view of the timeline.
// Yielded entries are detached copies; iterating again restarts from the
// head. The view must not be consumed across profile mutations.
func (p *Profile[V]) Entries() iter.Seq[Entry[V]] {
	return func(yield func(Entry[V]) bool) {
		for i := range p.entries {
			if !yield(p.entries[i].snapshot()) {
				return
			}
		}
	}
}

// FreeAt returns the capacity available at instant t.
func (p *Profile[V]) FreeAt(t Tick) (V, error) {
	var zero V
	if t < p.horizonStart {
		return zero, fmt.Errorf("%w: %d before horizon start %d", ErrOutOfRange, t, p.horizonStart)
	}

	return p.entries[p.keyByTime(t)].free, nil
}

// CheckAvailability returns the maximal contiguous windows within
// [start, end) where the free capacity is at least required throughout.
// Each window reports the minimum capacity guaranteed over its span.
// The walk is read-only.
func (p *Profile[V]) CheckAvailability(start, end Tick, required V) ([]Window[V], error) {
	err := p.validateQuery(start, end, required)
	if err != nil {
		return nil, err
	}

	// Qualifying sub-slots are accumulated in a discrete interval set over
	// time, which re-merges slots that touch across entry boundaries.
	windows := span.NewSet[int64](span.NewDiscrete())

	for i := p.keyByTime(start); i < len(p.entries) && p.entries[i].slot.Start < end; i++ {
		e := &p.entries[i]
		if p.ar.Less(e.free, required) {
			continue
		}

		cl := e.slot.clamp(start, end)
		if cl.Start >= cl.End {
			continue
		}

		_, insErr := windows.Insert(span.Range[int64]{Lower: cl.Start, Upper: cl.End})
		if insErr != nil {
			return nil, insErr
		}
	}

	ranges := windows.Ranges()
	if len(ranges) == 0 {
		return nil, nil
	}

	out := make([]Window[V], 0, len(ranges))
	for _, r := range ranges {
		out = append(out, Window[V]{
			Slot:     TimeSlot{Start: r.Lower, End: r.Upper},
			Capacity: p.minFree(r.Lower, r.Upper),
		})
	}

	return out, nil
}

// FindWindow returns the earliest window [s, s+minDuration) with s >= start
// whose free capacity is at least required throughout. The timeline is
// finitely represented and its final entry is unbounded, so the search is
// exact: failure (ErrNoAvailability) means capacity stays below required
// forever past the last qualifying run, not that a lookahead bound was hit.
func (p *Profile[V]) FindWindow(start Tick, minDuration Tick, required V) (TimeSlot, error) {
	err := p.validateQuery(start, start+1, required)
	if err != nil {
		return TimeSlot{}, err
	}

	if minDuration <= 0 {
		return TimeSlot{}, fmt.Errorf("%w: non-positive duration %d", span.ErrInvalidRange, minDuration)
	}

	var runStart Tick

	running := false

	for i := p.keyByTime(start); i < len(p.entries); i++ {
		e := &p.entries[i]
		if p.ar.Less(e.free, required) {
			running = false

			continue
		}

		if !running {
			runStart = max(start, e.slot.Start)
			running = true
		}

		if e.slot.End == HorizonEnd || e.slot.End-runStart >= minDuration {
			return TimeSlot{Start: runStart, End: runStart + minDuration}, nil
		}
	}

	return TimeSlot{}, fmt.Errorf("%w: no window of %d ticks with capacity %v at or after %d",
		ErrNoAvailability, minDuration, required, start)
}

// Allocate reserves amount over [start, end) under reservationID. The whole
// range is validated before any entry is altered: if any overlapped entry
// has less than amount free, ErrInsufficientCapacity is returned and the
// timeline is untouched. Boundary entries are split as needed, and the
// touched region is re-merged afterwards.
func (p *Profile[V]) Allocate(start, end Tick, amount V, reservationID string) error {
	err := p.validateMutation(start, end, amount, reservationID)
	if err != nil {
		return err
	}

	for i := p.keyByTime(start); i < len(p.entries) && p.entries[i].slot.Start < end; i++ {
		e := &p.entries[i]
		if p.ar.Less(e.free, amount) {
			return fmt.Errorf("%w: %v free in [%d, %d), need %v",
				ErrInsufficientCapacity, e.free, e.slot.Start, e.slot.End, amount)
		}

		if e.HasReservation(reservationID) {
			return fmt.Errorf("%w: %q already active in [%d, %d)",
				ErrDuplicateReservation, reservationID, e.slot.Start, e.slot.End)
		}
	}

	lo, hi, err := p.carve(start, end)
	if err != nil {
		return err
	}

	for i := lo; i <= hi; i++ {
		e := &p.entries[i]
		e.free = p.normalize(e.free - amount)

		if e.reservations == nil {
			e.reservations = make(map[string]struct{}, 1)
		}

		e.reservations[reservationID] = struct{}{}
	}

	p.coalesceAround(lo, hi)

	return nil
}

// Release returns amount over [start, end) and removes reservationID from
// the touched entries. The policy is strict: every overlapped entry must
// carry the id, otherwise ErrUnknownReservation is returned with no
// mutation. A release that would push an entry above the profile total
// fails the same way with ErrCapacityOverflow.
func (p *Profile[V]) Release(start, end Tick, amount V, reservationID string) error {
	err := p.validateMutation(start, end, amount, reservationID)
	if err != nil {
		return err
	}

	for i := p.keyByTime(start); i < len(p.entries) && p.entries[i].slot.Start < end; i++ {
		e := &p.entries[i]
		if !e.HasReservation(reservationID) {
			return fmt.Errorf("%w: %q not recorded in [%d, %d)",
				ErrUnknownReservation, reservationID, e.slot.Start, e.slot.End)
		}

		if p.ar.Less(p.total, p.normalize(e.free+amount)) {
			return fmt.Errorf("%w: %v free + %v released in [%d, %d) exceeds total %v",
				ErrCapacityOverflow, e.free, amount, e.slot.Start, e.slot.End, p.total)
		}
	}

	lo, hi, err := p.carve(start, end)
	if err != nil {
		return err
	}

	for i := lo; i <= hi; i++ {
		e := &p.entries[i]
		e.free = p.normalize(e.free + amount)

		delete(e.reservations, reservationID)

		if len(e.reservations) == 0 {
			e.reservations = nil
		}
	}

	p.coalesceAround(lo, hi)

	return nil
}

// TrimBefore drops entries that end at or before t, keeping the entry
// containing t as the new head. The head keeps its original start, so the
// horizon start only moves up to that boundary.
func (p *Profile[V]) TrimBefore(t Tick) {
	idx := p.keyByTime(t)
	if idx <= 0 {
		return
	}

	remaining := make([]Entry[V], len(p.entries)-idx)
	copy(remaining, p.entries[idx:])

	p.entries = remaining
	p.horizonStart = p.entries[0].slot.Start
}

// keyByTime returns the index of the entry whose slot contains t. Entries
// cover the horizon contiguously, so any t at or after the horizon start
// has a containing entry.
func (p *Profile[V]) keyByTime(t Tick) int {
	idx := sort.Search(len(p.entries), func(i int) bool {
		return p.entries[i].slot.Start > t
	}) - 1

	if idx < 0 {
		idx = 0
	}

	return idx
}

// minFree returns the minimum free capacity over [start, end).
func (p *Profile[V]) minFree(start, end Tick) V {
	idx := p.keyByTime(start)
	low := p.entries[idx].free

	for i := idx + 1; i < len(p.entries) && p.entries[i].slot.Start < end; i++ {
		if p.ar.Less(p.entries[i].free, low) {
			low = p.entries[i].free
		}
	}

	return low
}

// carve ensures entry boundaries exist at start and end and returns the
// index range of entries exactly covering [start, end).
func (p *Profile[V]) carve(start, end Tick) (int, int, error) {
	err := p.ensureBoundary(start)
	if err != nil {
		return 0, 0, err
	}

	err = p.ensureBoundary(end)
	if err != nil {
		return 0, 0, err
	}

	lo := p.keyByTime(start)

	hi := lo
	for hi+1 < len(p.entries) && p.entries[hi+1].slot.Start < end {
		hi++
	}

	return lo, hi, nil
}

// ensureBoundary splits the entry containing t so that some entry starts
// exactly at t. The horizon end needs no boundary.
func (p *Profile[V]) ensureBoundary(t Tick) error {
	if t == HorizonEnd {
		return nil
	}

	idx := p.keyByTime(t)
	if p.entries[idx].slot.Start == t {
		return nil
	}

	left, right, err := p.entries[idx].splitAt(t)
	if err != nil {
		return err
	}

	p.entries = append(p.entries, Entry[V]{})
	copy(p.entries[idx+2:], p.entries[idx+1:])
	p.entries[idx] = left
	p.entries[idx+1] = right

	return nil
}

// coalesceAround re-merges the touched region plus one neighbor on each
// side. Adjacent entries collapse when their capacity is equal under the
// domain arithmetic and they carry identical reservation sets; time is
// always contiguous, so only the capacity and reservation rules apply.
func (p *Profile[V]) coalesceAround(lo, hi int) {
	from := lo - 1
	if from < 0 {
		from = 0
	}

	to := hi + 1
	if to > len(p.entries)-1 {
		to = len(p.entries) - 1
	}

	p.coalesceRange(from, to)
}

// coalesceRange merges mergeable adjacent pairs within [from, to]. Running
// it again over an already-merged region is a no-op.
func (p *Profile[V]) coalesceRange(from, to int) {
	i := from

	for i < to && i+1 < len(p.entries) {
		cur := &p.entries[i]
		next := &p.entries[i+1]

		if p.ar.Eq(cur.free, next.free) && cur.sameReservations(next) {
			cur.slot.End = next.slot.End
			p.entries = append(p.entries[:i+1], p.entries[i+2:]...)
			to--

			continue
		}

		i++
	}
}

// normalize snaps a capacity value onto the exact 0 and total bounds when
// the domain considers it equal to them, preventing tolerance drift from
// accumulating over repeated allocate/release cycles.
func (p *Profile[V]) normalize(v V) V {
	var zero V
	if p.ar.Eq(v, zero) {
		return zero
	}

	if p.ar.Eq(v, p.total) {
		return p.total
	}

	return v
}

// validateQuery rejects malformed read-only requests.
func (p *Profile[V]) validateQuery(start, end Tick, required V) error {
	var zero V
	if p.ar.Less(required, zero) {
		return fmt.Errorf("%w: negative requirement %v", ErrInvalidCapacity, required)
	}

	return p.validateSpan(start, end)
}

// validateMutation rejects malformed allocate/release requests before any
// entry is inspected.
func (p *Profile[V]) validateMutation(start, end Tick, amount V, reservationID string) error {
	if reservationID == "" {
		return ErrEmptyReservationID
	}

	var zero V
	if !p.ar.Less(zero, amount) {
		return fmt.Errorf("%w: non-positive amount %v", ErrInvalidCapacity, amount)
	}

	return p.validateSpan(start, end)
}

// validateSpan checks the requested time interval against the horizon.
func (p *Profile[V]) validateSpan(start, end Tick) error {
	if start < p.horizonStart {
		return fmt.Errorf("%w: %d before horizon start %d", ErrOutOfRange, start, p.horizonStart)
	}

	if end <= start {
		return fmt.Errorf("%w: [%d, %d)", span.ErrInvalidRange, start, end)
	}

	return nil
}
