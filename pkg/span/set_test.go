package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// discreteSet builds a discrete set from half-open (lower, upper) pairs.
func discreteSet(t *testing.T, pairs ...[2]int64) *Set[int64] {
	t.Helper()

	s := NewSet[int64](NewDiscrete())
	for _, p := range pairs {
		_, err := s.Insert(Range[int64]{Lower: p[0], Upper: p[1]})
		require.NoError(t, err)
	}

	return s
}

// TestSet_InsertDisjoint verifies that non-touching ranges stay separate.
func TestSet_InsertDisjoint(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 5}, [2]int64{10, 15})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, int64(10), s.Quantity())
}

// TestSet_InsertMergesAdjacent verifies merge-on-insert for touching ranges.
func TestSet_InsertMergesAdjacent(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 10})

	merged, err := s.Insert(Range[int64]{Lower: 10, Upper: 20})
	require.NoError(t, err)

	assert.Equal(t, Range[int64]{Lower: 0, Upper: 20}, merged)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, int64(20), s.Quantity())
}

// TestSet_InsertBridgesGap verifies that one insert can swallow several
// stored ranges.
func TestSet_InsertBridgesGap(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 3}, [2]int64{5, 8}, [2]int64{12, 14})

	merged, err := s.Insert(Range[int64]{Lower: 2, Upper: 12})
	require.NoError(t, err)

	assert.Equal(t, Range[int64]{Lower: 0, Upper: 14}, merged)
	assert.Equal(t, 1, s.Len())
}

// TestSet_InsertOverlapReturnsEnlarged verifies the returned range covers
// the merged neighborhood, not just the input.
func TestSet_InsertOverlapReturnsEnlarged(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 10})

	merged, err := s.Insert(Range[int64]{Lower: 5, Upper: 7})
	require.NoError(t, err)
	assert.Equal(t, Range[int64]{Lower: 0, Upper: 10}, merged)
	assert.Equal(t, 1, s.Len())
}

// TestSet_InsertInvalid verifies rejection of empty and malformed input.
func TestSet_InsertInvalid(t *testing.T) {
	t.Parallel()

	s := NewSet[int64](NewDiscrete())

	_, err := s.Insert(Range[int64]{Lower: 5, Upper: 5})
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = s.Insert(Range[int64]{Lower: 5, Upper: 2})
	require.ErrorIs(t, err, ErrInvalidRange)
}

// TestSet_RemoveSplits verifies that removing the middle of a stored range
// splits it in two.
func TestSet_RemoveSplits(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 10})

	err := s.Remove(Range[int64]{Lower: 3, Upper: 7})
	require.NoError(t, err)

	assert.Equal(t, []Range[int64]{
		{Lower: 0, Upper: 3},
		{Lower: 7, Upper: 10},
	}, s.Ranges())
	assert.Equal(t, int64(6), s.Quantity())
}

// TestSet_RemoveTrims verifies partial removal at either edge.
func TestSet_RemoveTrims(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 10})

	require.NoError(t, s.Remove(Range[int64]{Lower: 0, Upper: 4}))
	require.NoError(t, s.Remove(Range[int64]{Lower: 8, Upper: 12}))

	assert.Equal(t, []Range[int64]{{Lower: 4, Upper: 8}}, s.Ranges())
}

// TestSet_RemoveWhole verifies removal spanning several stored ranges.
func TestSet_RemoveWhole(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 3}, [2]int64{5, 8})

	err := s.Remove(Range[int64]{Lower: 0, Upper: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Ranges())
}

// TestSet_RemoveMiss verifies that removing a non-covered range is a no-op.
func TestSet_RemoveMiss(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 3})

	err := s.Remove(Range[int64]{Lower: 5, Upper: 9})
	require.NoError(t, err)
	assert.Equal(t, []Range[int64]{{Lower: 0, Upper: 3}}, s.Ranges())
}

// TestSet_RemoveInvalid verifies rejection of empty and malformed input.
func TestSet_RemoveInvalid(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 3})

	require.ErrorIs(t, s.Remove(Range[int64]{Lower: 2, Upper: 2}), ErrInvalidRange)
	require.ErrorIs(t, s.Remove(Range[int64]{Lower: 4, Upper: 1}), ErrInvalidRange)
}

// TestSet_ContainsRange verifies full-coverage membership.
func TestSet_ContainsRange(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 10}, [2]int64{20, 30})

	assert.True(t, s.ContainsRange(Range[int64]{Lower: 5, Upper: 7}))
	assert.True(t, s.ContainsRange(Range[int64]{Lower: 0, Upper: 10}))
	assert.False(t, s.ContainsRange(Range[int64]{Lower: 5, Upper: 25}))
	assert.False(t, s.ContainsRange(Range[int64]{Lower: 12, Upper: 15}))
	assert.False(t, s.ContainsRange(Range[int64]{Lower: 5, Upper: 5}))
}

// TestSet_InsertRemoveRoundTrip mirrors the in-use/free bookkeeping cycle:
// marking units busy and freeing them again restores the original quantity.
func TestSet_InsertRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	s := discreteSet(t, [2]int64{0, 10})

	_, err := s.Insert(Range[int64]{Lower: 10, Upper: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(20), s.Quantity())

	require.NoError(t, s.Remove(Range[int64]{Lower: 10, Upper: 20}))
	assert.Equal(t, int64(10), s.Quantity())
	assert.Equal(t, []Range[int64]{{Lower: 0, Upper: 10}}, s.Ranges())
}

// TestSet_ContinuousQuantity verifies length accounting in the continuous
// domain.
func TestSet_ContinuousQuantity(t *testing.T) {
	t.Parallel()

	s := NewSet[float64](NewContinuous(testTolerance))

	_, err := s.Insert(Range[float64]{Lower: 0, Upper: 10})
	require.NoError(t, err)

	_, err = s.Insert(Range[float64]{Lower: 10, Upper: 20})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	assert.InEpsilon(t, 20.0, s.Quantity(), testTolerance)

	require.NoError(t, s.Remove(Range[float64]{Lower: 10, Upper: 20}))
	assert.InEpsilon(t, 10.0, s.Quantity(), testTolerance)
}

// TestSet_ContinuousToleranceMerge verifies that ranges separated by less
// than the tolerance still merge.
func TestSet_ContinuousToleranceMerge(t *testing.T) {
	t.Parallel()

	s := NewSet[float64](NewContinuous(testTolerance))

	_, err := s.Insert(Range[float64]{Lower: 0, Upper: 5})
	require.NoError(t, err)

	merged, err := s.Insert(Range[float64]{Lower: 5 + testTolerance/2, Upper: 8})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	assert.InEpsilon(t, 8.0, merged.Upper, testTolerance)
}
