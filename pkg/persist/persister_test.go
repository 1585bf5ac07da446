package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedkit/availprof/pkg/profile"
)

func TestSaveLoadSnapshot_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	codec := NewJSONCodec()
	original := testSnapshot()

	require.NoError(t, SaveSnapshot(dir, "cluster", codec, original))

	_, err := os.Stat(filepath.Join(dir, "cluster.json"))
	require.NoError(t, err)

	var loaded profile.State[int64]

	require.NoError(t, LoadSnapshot(dir, "cluster", codec, &loaded))
	assert.Equal(t, original, loaded)
}

func TestLoadSnapshot_FileNotFound(t *testing.T) {
	t.Parallel()

	var loaded profile.State[int64]

	err := LoadSnapshot(t.TempDir(), "missing", NewJSONCodec(), &loaded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestSaveSnapshot_InvalidDirectory(t *testing.T) {
	t.Parallel()

	err := SaveSnapshot("/nonexistent/path/that/does/not/exist", "cluster",
		NewJSONCodec(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create")
}

// TestStore_RoundTripRestoresProfile checkpoints a live profile and rebuilds
// an identical one from disk, the way a simulator resumes a run.
func TestStore_RoundTripRestoresProfile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	p, err := profile.NewDiscrete(4)
	require.NoError(t, err)
	require.NoError(t, p.Allocate(0, 10, 3, "job-a"))
	require.NoError(t, p.Allocate(5, 15, 1, "job-b"))

	store := NewStore[profile.State[int64]]("checkpoint", NewLZ4Codec())

	err = store.Save(dir, func() *profile.State[int64] {
		st := p.Snapshot()

		return &st
	})
	require.NoError(t, err)

	resumed, err := profile.NewDiscrete(1)
	require.NoError(t, err)

	err = store.Load(dir, func(st *profile.State[int64]) error {
		return resumed.Restore(*st)
	})
	require.NoError(t, err)

	assert.Equal(t, p.Snapshot(), resumed.Snapshot())
}

// TestStore_LoadPropagatesRestoreError verifies that invariant violations
// found while restoring surface to the caller.
func TestStore_LoadPropagatesRestoreError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	broken := profile.State[int64]{
		Total:   4,
		Entries: []profile.EntryState[int64]{{Start: 0, End: 10, Free: 9}},
	}

	store := NewStore[profile.State[int64]]("checkpoint", NewGobCodec())

	require.NoError(t, SaveSnapshot(dir, "checkpoint", NewGobCodec(), broken))

	p, err := profile.NewDiscrete(4)
	require.NoError(t, err)

	err = store.Load(dir, func(st *profile.State[int64]) error {
		return p.Restore(*st)
	})
	require.ErrorIs(t, err, profile.ErrInvalidCapacity)
}
