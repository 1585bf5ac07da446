package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAlignFloor verifies rounding down onto the grid, including the
// toward-negative-infinity rule for negative ticks.
func TestAlignFloor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(10), AlignFloor(13, 5))
	assert.Equal(t, int64(15), AlignFloor(15, 5))
	assert.Equal(t, int64(0), AlignFloor(4, 5))
	assert.Equal(t, int64(-15), AlignFloor(-13, 5))
	assert.Equal(t, int64(13), AlignFloor(13, 0))
}

// TestAlignCeil verifies rounding up onto the grid.
func TestAlignCeil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(15), AlignCeil(13, 5))
	assert.Equal(t, int64(15), AlignCeil(15, 5))
	assert.Equal(t, int64(-10), AlignCeil(-13, 5))
	assert.Equal(t, int64(13), AlignCeil(13, -1))
}

// TestSnapSpan verifies that the aligned span covers the original.
func TestSnapSpan(t *testing.T) {
	t.Parallel()

	start, end := SnapSpan(13, 27, 10)
	assert.Equal(t, int64(10), start)
	assert.Equal(t, int64(30), end)

	start, end = SnapSpan(10, 30, 10)
	assert.Equal(t, int64(10), start)
	assert.Equal(t, int64(30), end)
}
