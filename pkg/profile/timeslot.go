package profile

import "math"

// Tick is a simulation time instant. Profiles cover the half-open horizon
// [horizon start, HorizonEnd).
type Tick = int64

// HorizonEnd is the sentinel end of the conceptually unbounded forward
// horizon. The last entry of every profile ends here.
const HorizonEnd Tick = math.MaxInt64

// TimeSlot is a half-open time interval [Start, End) during which the
// available capacity is constant.
type TimeSlot struct {
	Start Tick
	End   Tick
}

// Overlaps reports whether the two slots share at least one instant.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End && other.Start < s.End
}

// Contains reports whether t lies inside the half-open slot.
func (s TimeSlot) Contains(t Tick) bool {
	return s.Start <= t && t < s.End
}

// Duration returns End - Start. For the final unbounded slot the result is
// the distance to HorizonEnd.
func (s TimeSlot) Duration() Tick {
	return s.End - s.Start
}

// clamp returns the slot intersected with [start, end).
func (s TimeSlot) clamp(start, end Tick) TimeSlot {
	out := s

	if out.Start < start {
		out.Start = start
	}

	if out.End > end {
		out.End = end
	}

	return out
}
