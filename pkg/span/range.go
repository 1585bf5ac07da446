package span

import "fmt"

// Range is a half-open interval [Lower, Upper) over a scalar domain.
// A range with Lower == Upper is empty; Lower > Upper is malformed.
type Range[V Value] struct {
	Lower V
	Upper V
}

// NewRange creates the range [lower, upper). It returns ErrInvalidRange
// when lower > upper under the domain's ordering.
func NewRange[V Value](ar Arithmetic[V], lower, upper V) (Range[V], error) {
	if ar.Less(upper, lower) {
		return Range[V]{}, fmt.Errorf("%w: lower %v > upper %v", ErrInvalidRange, lower, upper)
	}

	return Range[V]{Lower: lower, Upper: upper}, nil
}

// Inclusive creates a discrete range from its first and last contained
// units, so Inclusive(0, 3) covers units 0..3 and is stored as [0, 4).
func Inclusive(first, last int64) (Range[int64], error) {
	if last < first {
		return Range[int64]{}, fmt.Errorf("%w: first %d > last %d", ErrInvalidRange, first, last)
	}

	return Range[int64]{Lower: first, Upper: last + 1}, nil
}

// IsEmpty reports whether the range contains no values.
func (r Range[V]) IsEmpty(ar Arithmetic[V]) bool {
	return !ar.Less(r.Lower, r.Upper)
}

// Length returns Upper - Lower. For discrete ranges this is the number of
// contained units.
func (r Range[V]) Length() V {
	return r.Upper - r.Lower
}

// Contains reports whether v lies inside the half-open range.
func (r Range[V]) Contains(ar Arithmetic[V], v V) bool {
	return !ar.Less(v, r.Lower) && ar.Less(v, r.Upper)
}

// Intersects reports whether the two ranges share at least one value.
func (r Range[V]) Intersects(ar Arithmetic[V], other Range[V]) bool {
	return ar.Less(r.Lower, other.Upper) && ar.Less(other.Lower, r.Upper)
}

// AdjacentTo reports whether the ranges touch without overlapping, in
// either order, under the domain's adjacency rule.
func (r Range[V]) AdjacentTo(ar Arithmetic[V], other Range[V]) bool {
	return ar.Adjacent(r.Upper, other.Lower) || ar.Adjacent(other.Upper, r.Lower)
}

// Merge returns the union of two overlapping or adjacent ranges. The
// second return is false when the ranges neither overlap nor touch, in
// which case the union would not be a single range.
func (r Range[V]) Merge(ar Arithmetic[V], other Range[V]) (Range[V], bool) {
	if !r.Intersects(ar, other) && !r.AdjacentTo(ar, other) {
		return Range[V]{}, false
	}

	return r.hull(ar, other), true
}

// hull returns the smallest range covering both inputs.
func (r Range[V]) hull(ar Arithmetic[V], other Range[V]) Range[V] {
	out := r

	if ar.Less(other.Lower, out.Lower) {
		out.Lower = other.Lower
	}

	if ar.Less(out.Upper, other.Upper) {
		out.Upper = other.Upper
	}

	return out
}

// validateNonEmpty returns ErrInvalidRange when r is empty or malformed.
func (r Range[V]) validateNonEmpty(ar Arithmetic[V]) error {
	if r.IsEmpty(ar) {
		return fmt.Errorf("%w: [%v, %v)", ErrInvalidRange, r.Lower, r.Upper)
	}

	return nil
}
