package persist

import (
	"fmt"
	"os"
	"path/filepath"
)

// SaveSnapshot writes a snapshot to a file in the given directory. The
// filename is the basename plus the codec's extension.
func SaveSnapshot(dir, basename string, codec Codec, snapshot any) error {
	path := filepath.Join(dir, basename+codec.Extension())

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer file.Close()

	err = codec.Encode(file, snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads a snapshot from a file in the given directory. The
// snapshot parameter must be a pointer to the target struct.
func LoadSnapshot(dir, basename string, codec Codec, snapshot any) error {
	path := filepath.Join(dir, basename+codec.Extension())

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, snapshot)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	return nil
}

// Store handles snapshot I/O for one state type under a stable basename.
type Store[T any] struct {
	basename string
	codec    Codec
}

// NewStore creates a store with the given basename and codec.
func NewStore[T any](basename string, codec Codec) *Store[T] {
	return &Store[T]{
		basename: basename,
		codec:    codec,
	}
}

// Save captures a snapshot via build and writes it to the directory.
func (s *Store[T]) Save(dir string, build func() *T) error {
	return SaveSnapshot(dir, s.basename, s.codec, build())
}

// Load reads a snapshot from the directory and hands it to restore.
func (s *Store[T]) Load(dir string, restore func(*T) error) error {
	var snapshot T

	err := LoadSnapshot(dir, s.basename, s.codec, &snapshot)
	if err != nil {
		return err
	}

	return restore(&snapshot)
}
