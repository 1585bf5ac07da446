package span

import "sort"

// Set is an ordered collection of disjoint, non-adjacent ranges over one
// scalar domain, kept maximally merged: no two stored ranges overlap or
// touch. It can represent, for example, which node IDs of a cluster are in
// use, or the time windows where a capacity requirement holds.
type Set[V Value] struct {
	ar     Arithmetic[V]
	ranges []Range[V]
}

// NewSet creates an empty set using the given domain arithmetic.
func NewSet[V Value](ar Arithmetic[V]) *Set[V] {
	return &Set[V]{ar: ar}
}

// Len returns the number of stored disjoint ranges.
func (s *Set[V]) Len() int {
	return len(s.ranges)
}

// Quantity returns the total length covered by the set. For discrete
// domains this is the number of contained units.
func (s *Set[V]) Quantity() V {
	var total V
	for _, r := range s.ranges {
		total += r.Length()
	}

	return total
}

// Ranges returns a copy of the stored ranges in ascending order.
func (s *Set[V]) Ranges() []Range[V] {
	if len(s.ranges) == 0 {
		return nil
	}

	out := make([]Range[V], len(s.ranges))
	copy(out, s.ranges)

	return out
}

// ContainsRange reports whether r is fully covered by a single stored range.
func (s *Set[V]) ContainsRange(r Range[V]) bool {
	if r.IsEmpty(s.ar) {
		return false
	}

	idx := s.searchTouch(r.Lower)
	if idx >= len(s.ranges) {
		return false
	}

	cur := s.ranges[idx]

	return !s.ar.Less(r.Lower, cur.Lower) && !s.ar.Less(cur.Upper, r.Upper)
}

// Insert adds r to the set, merging it with any overlapping or adjacent
// stored ranges, and returns the resulting (possibly enlarged) range.
// Empty or malformed input is rejected with ErrInvalidRange.
func (s *Set[V]) Insert(r Range[V]) (Range[V], error) {
	err := r.validateNonEmpty(s.ar)
	if err != nil {
		return Range[V]{}, err
	}

	lo := s.searchTouch(r.Lower)

	merged := r
	hi := lo

	for hi < len(s.ranges) {
		cur := s.ranges[hi]

		grown, ok := merged.Merge(s.ar, cur)
		if !ok {
			break
		}

		merged = grown
		hi++
	}

	s.splice(lo, hi, merged)

	return merged, nil
}

// Remove subtracts r from the set. A stored range partially covered by r
// is trimmed; one fully straddling r is split into two. Empty or malformed
// input is rejected with ErrInvalidRange.
func (s *Set[V]) Remove(r Range[V]) error {
	err := r.validateNonEmpty(s.ar)
	if err != nil {
		return err
	}

	lo := sort.Search(len(s.ranges), func(i int) bool {
		return s.ar.Less(r.Lower, s.ranges[i].Upper)
	})

	var replacement []Range[V]

	hi := lo

	for hi < len(s.ranges) && s.ranges[hi].Intersects(s.ar, r) {
		cur := s.ranges[hi]

		if s.ar.Less(cur.Lower, r.Lower) {
			replacement = append(replacement, Range[V]{Lower: cur.Lower, Upper: r.Lower})
		}

		if s.ar.Less(r.Upper, cur.Upper) {
			replacement = append(replacement, Range[V]{Lower: r.Upper, Upper: cur.Upper})
		}

		hi++
	}

	if lo == hi {
		return nil
	}

	s.spliceAll(lo, hi, replacement)

	return nil
}

// searchTouch returns the index of the first stored range that could
// overlap or touch a range starting at lower, accounting for the domain's
// adjacency tolerance.
func (s *Set[V]) searchTouch(lower V) int {
	idx := sort.Search(len(s.ranges), func(i int) bool {
		return !s.ar.Less(s.ranges[i].Upper, lower)
	})

	// A tolerant domain may consider the previous range adjacent even
	// though its upper bound sorts strictly below lower.
	if idx > 0 && s.ar.Adjacent(s.ranges[idx-1].Upper, lower) {
		idx--
	}

	return idx
}

// splice replaces the stored ranges in [lo, hi) with a single range.
func (s *Set[V]) splice(lo, hi int, r Range[V]) {
	s.spliceAll(lo, hi, []Range[V]{r})
}

// spliceAll replaces the stored ranges in [lo, hi) with the replacement slice.
func (s *Set[V]) spliceAll(lo, hi int, replacement []Range[V]) {
	out := make([]Range[V], 0, len(s.ranges)-(hi-lo)+len(replacement))
	out = append(out, s.ranges[:lo]...)
	out = append(out, replacement...)
	out = append(out, s.ranges[hi:]...)
	s.ranges = out
}
