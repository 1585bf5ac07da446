package profile

import (
	"fmt"
	"sort"

	"github.com/schedkit/availprof/pkg/span"
)

// Entry is one contiguous time slot with constant free capacity and the
// set of reservations active during it. Entries exist only inside a
// profile's ordered sequence; mutations may split, merge, or replace them,
// so callers must not retain entries across profile mutations.
type Entry[V span.Value] struct {
	slot         TimeSlot
	free         V
	reservations map[string]struct{}
}

// Slot returns the entry's time slot.
func (e *Entry[V]) Slot() TimeSlot {
	return e.slot
}

// Free returns the capacity still available during the entry's slot.
func (e *Entry[V]) Free() V {
	return e.free
}

// Reservations returns the ids of the reservations active during the
// entry's slot, in sorted order.
func (e *Entry[V]) Reservations() []string {
	if len(e.reservations) == 0 {
		return nil
	}

	ids := make([]string, 0, len(e.reservations))
	for id := range e.reservations {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// HasReservation reports whether the reservation id is active during the
// entry's slot.
func (e *Entry[V]) HasReservation(id string) bool {
	_, ok := e.reservations[id]

	return ok
}

// splitAt partitions the entry at an instant strictly inside its slot,
// returning the two halves with the capacity and reservation set copied to
// both. The instant must not coincide with either boundary.
func (e *Entry[V]) splitAt(t Tick) (Entry[V], Entry[V], error) {
	if t <= e.slot.Start || t >= e.slot.End {
		return Entry[V]{}, Entry[V]{}, fmt.Errorf(
			"%w: split at %d outside (%d, %d)", ErrOutOfRange, t, e.slot.Start, e.slot.End)
	}

	left := Entry[V]{
		slot:         TimeSlot{Start: e.slot.Start, End: t},
		free:         e.free,
		reservations: cloneIDs(e.reservations),
	}
	right := Entry[V]{
		slot:         TimeSlot{Start: t, End: e.slot.End},
		free:         e.free,
		reservations: cloneIDs(e.reservations),
	}

	return left, right, nil
}

// snapshot returns a detached copy safe to hand to callers.
func (e *Entry[V]) snapshot() Entry[V] {
	return Entry[V]{
		slot:         e.slot,
		free:         e.free,
		reservations: cloneIDs(e.reservations),
	}
}

// sameReservations reports whether both entries carry exactly the same
// reservation ids.
func (e *Entry[V]) sameReservations(other *Entry[V]) bool {
	if len(e.reservations) != len(other.reservations) {
		return false
	}

	for id := range e.reservations {
		if _, ok := other.reservations[id]; !ok {
			return false
		}
	}

	return true
}

// cloneIDs copies a reservation id set. Nil stays nil until an id is added.
func cloneIDs(ids map[string]struct{}) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}

	out := make(map[string]struct{}, len(ids))
	for id := range ids {
		out[id] = struct{}{}
	}

	return out
}
