// Package statsio provides file persistence for stats.StatsRec and
// stitch.Stitched, on top of pkg/persist's codec abstraction: json, bson
// and gob ("bincode") encodings, each optionally lz4-compressed, plus a
// plain CSV table writer for stitch output.
package statsio

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jayvdb/jaeger-stats/pkg/persist"
)

// bsonExtension is the file extension used for BSON-encoded state.
const bsonExtension = ".bson"

// BSONCodec implements persist.Codec using BSON encoding.
type BSONCodec struct{}

// NewBSONCodec creates a BSON codec.
func NewBSONCodec() *BSONCodec {
	return &BSONCodec{}
}

// Encode implements persist.Codec.Encode using BSON encoding.
func (c *BSONCodec) Encode(w io.Writer, state any) error {
	data, err := bson.Marshal(state)
	if err != nil {
		return fmt.Errorf("bson encode: %w", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("bson encode: %w", err)
	}

	return nil
}

// Decode implements persist.Codec.Decode using BSON decoding.
func (c *BSONCodec) Decode(r io.Reader, state any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("bson decode: %w", err)
	}

	err = bson.Unmarshal(data, state)
	if err != nil {
		return fmt.Errorf("bson decode: %w", err)
	}

	return nil
}

// Extension implements persist.Codec.Extension for BSON files.
func (c *BSONCodec) Extension() string {
	return bsonExtension
}

// lz4Extension is appended to an inner codec's extension once compressed.
const lz4Extension = ".lz4"

// CompressedCodec wraps another Codec, lz4-streaming its encoded bytes.
type CompressedCodec struct {
	Inner persist.Codec
}

// NewCompressedCodec wraps inner with lz4 stream compression.
func NewCompressedCodec(inner persist.Codec) *CompressedCodec {
	return &CompressedCodec{Inner: inner}
}

// Encode implements persist.Codec.Encode, lz4-compressing the inner
// codec's output.
func (c *CompressedCodec) Encode(w io.Writer, state any) error {
	zw := lz4.NewWriter(w)

	err := c.Inner.Encode(zw, state)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 encode: %w", err)
	}

	return nil
}

// Decode implements persist.Codec.Decode, lz4-decompressing before
// handing the stream to the inner codec.
func (c *CompressedCodec) Decode(r io.Reader, state any) error {
	return c.Inner.Decode(lz4.NewReader(r), state)
}

// Extension implements persist.Codec.Extension, appending ".lz4" to the
// inner codec's extension.
func (c *CompressedCodec) Extension() string {
	return c.Inner.Extension() + lz4Extension
}

// CodecFor resolves the CLI-facing extension name ("json", "bson",
// "bincode", or any of those with a "_lz4" suffix, e.g. "json_lz4")
// to the Codec that implements it.
func CodecFor(name string) (persist.Codec, error) {
	base, compressed := splitCompressedName(name)

	var codec persist.Codec

	switch base {
	case "json":
		codec = persist.NewJSONCodec()
	case "bson":
		codec = NewBSONCodec()
	case "bincode", "gob":
		codec = persist.NewGobCodec()
	default:
		return nil, fmt.Errorf("statsio: unknown output extension %q", name)
	}

	if compressed {
		codec = NewCompressedCodec(codec)
	}

	return codec, nil
}

func splitCompressedName(name string) (base string, compressed bool) {
	const suffix = "_lz4"

	if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
		return name[:len(name)-len(suffix)], true
	}

	return name, false
}
