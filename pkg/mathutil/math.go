// Package mathutil provides tick-grid helper functions for scheduling math.
package mathutil

// AlignFloor rounds t down to the nearest multiple of granularity. A
// non-positive granularity returns t unchanged. Negative ticks round
// toward negative infinity, not toward zero.
func AlignFloor(t, granularity int64) int64 {
	if granularity <= 0 {
		return t
	}

	r := t % granularity
	if r < 0 {
		r += granularity
	}

	return t - r
}

// AlignCeil rounds t up to the nearest multiple of granularity. A
// non-positive granularity returns t unchanged.
func AlignCeil(t, granularity int64) int64 {
	floor := AlignFloor(t, granularity)
	if floor == t {
		return t
	}

	return floor + granularity
}

// SnapSpan widens the half-open span [start, end) outward to the
// granularity grid, so the aligned span always covers the original.
func SnapSpan(start, end, granularity int64) (int64, int64) {
	return AlignFloor(start, granularity), AlignCeil(end, granularity)
}
