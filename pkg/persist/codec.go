// Package persist stores and loads availability snapshots on disk. A Codec
// picks the wire format; the Store pairs a codec with a directory and a
// stable basename so simulators can checkpoint profiles between runs.
package persist

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// File extensions for the supported codecs.
const (
	jsonExtension = ".json"
	gobExtension  = ".gob"
	lz4Extension  = ".gob.lz4"
)

// Default indentation for pretty-printed JSON snapshots.
const defaultIndent = "  "

// ErrUnknownFormat reports a snapshot path whose extension matches no codec.
var ErrUnknownFormat = errors.New("persist: unknown snapshot format")

// Codec defines how a snapshot is serialized and deserialized.
type Codec interface {
	// Encode writes the snapshot to the writer.
	Encode(w io.Writer, snapshot any) error
	// Decode reads the snapshot from the reader.
	Decode(r io.Reader, snapshot any) error
	// Extension returns the file extension for this codec (e.g. ".json").
	Extension() string
}

// CodecForPath picks a codec from the path's extension. The compressed
// extension is checked first since it contains the plain gob one.
func CodecForPath(path string) (Codec, error) {
	name := filepath.Base(path)

	switch {
	case strings.HasSuffix(name, lz4Extension):
		return NewLZ4Codec(), nil
	case strings.HasSuffix(name, gobExtension):
		return NewGobCodec(), nil
	case strings.HasSuffix(name, jsonExtension):
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// JSONCodec implements Codec using JSON with optional indentation. The
// human-readable format of choice for inspecting timelines by hand.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, snapshot any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(snapshot)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, snapshot any) error {
	decoder := json.NewDecoder(r)

	err := decoder.Decode(snapshot)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// GobCodec implements Codec using gob encoding.
type GobCodec struct{}

// NewGobCodec creates a gob codec.
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// Encode implements Codec.Encode using gob encoding.
func (c *GobCodec) Encode(w io.Writer, snapshot any) error {
	encoder := gob.NewEncoder(w)

	err := encoder.Encode(snapshot)
	if err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using gob decoding.
func (c *GobCodec) Decode(r io.Reader, snapshot any) error {
	decoder := gob.NewDecoder(r)

	err := decoder.Decode(snapshot)
	if err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for gob files.
func (c *GobCodec) Extension() string {
	return gobExtension
}

// LZ4Codec implements Codec using gob inside an LZ4 frame. Long timelines
// with many similar entries compress well, so this is the format for
// checkpointing large fleets.
type LZ4Codec struct{}

// NewLZ4Codec creates an LZ4-compressed gob codec.
func NewLZ4Codec() *LZ4Codec {
	return &LZ4Codec{}
}

// Encode implements Codec.Encode using gob encoding inside an LZ4 frame.
func (c *LZ4Codec) Encode(w io.Writer, snapshot any) error {
	zw := lz4.NewWriter(w)

	err := gob.NewEncoder(zw).Encode(snapshot)
	if err != nil {
		zw.Close()

		return fmt.Errorf("lz4 gob encode: %w", err)
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 flush: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode for LZ4-framed gob data.
func (c *LZ4Codec) Decode(r io.Reader, snapshot any) error {
	err := gob.NewDecoder(lz4.NewReader(r)).Decode(snapshot)
	if err != nil {
		return fmt.Errorf("lz4 gob decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for compressed gob files.
func (c *LZ4Codec) Extension() string {
	return lz4Extension
}
