// Package pool provides sync.Pool-backed per-tile scratch buffers for
// encoding and decoding, so a full-image encode or decode need not
// allocate fresh buffers for every tile.
package pool

import (
	"sync"

	"github.com/deepteams/qoir/internal/opcode"
)

const ts = opcode.TileSize

// PrePad is the phantom-row byte length every literals buffer carries
// before its first real pixel (see internal/opcode).
const PrePad = opcode.PrePad

const (
	// encodeOpcodeCap is the worst-case size of one tile's opcode
	// stream: every pixel coded as RGBA8 (5 bytes), plus slack for the
	// trailing run flush.
	encodeOpcodeCap = 5*ts*ts + 64
	// decodeOpcodeCap holds an LZ4-decompressed opcode stream (never
	// larger than one tile's raw byte count, or LZ4 decode fails) plus
	// the 8 trailing bytes the opcode decoder's peek contract needs.
	decodeOpcodeCap = 4*ts*ts + 8
	// literalsCap is the pre-padding row plus a full tile's dense RGBA
	// pixels.
	literalsCap = PrePad + 4*ts*ts
)

func newLiterals() []byte {
	b := make([]byte, literalsCap)
	for i := 0; i < PrePad; i += 4 {
		b[i+3] = 0xFF
	}
	return b
}

// EncodeScratch holds the per-tile working buffers an encoder reuses
// across tiles: the swizzled dense RGBA literals (which double as the
// Literals tile format's wire bytes) and the opcode stream candidate.
// LZ4 candidates are written straight into the output buffer, so they
// need no scratch of their own.
type EncodeScratch struct {
	Literals []byte
	Opcodes  []byte
}

// NewEncodeScratch returns a fresh, pool-independent EncodeScratch for
// callers that hold one across many calls.
func NewEncodeScratch() *EncodeScratch {
	return &EncodeScratch{
		Literals: newLiterals(),
		Opcodes:  make([]byte, encodeOpcodeCap),
	}
}

// DecodeScratch holds the per-tile working buffers a decoder reuses
// across tiles: the reconstructed RGBA literals, and a buffer for an
// LZ4-decompressed opcode stream when the tile's format calls for it.
type DecodeScratch struct {
	Literals []byte
	Opcodes  []byte
}

// NewDecodeScratch returns a fresh, pool-independent DecodeScratch for
// callers that hold one across many calls.
func NewDecodeScratch() *DecodeScratch {
	return &DecodeScratch{
		Literals: newLiterals(),
		Opcodes:  make([]byte, decodeOpcodeCap),
	}
}

var (
	encodePool = sync.Pool{New: func() any { return NewEncodeScratch() }}
	decodePool = sync.Pool{New: func() any { return NewDecodeScratch() }}
)

// GetEncodeScratch returns an EncodeScratch from the pool. The caller
// must call PutEncodeScratch when done with it.
func GetEncodeScratch() *EncodeScratch {
	return encodePool.Get().(*EncodeScratch)
}

// PutEncodeScratch returns s to the pool for reuse.
func PutEncodeScratch(s *EncodeScratch) {
	encodePool.Put(s)
}

// GetDecodeScratch returns a DecodeScratch from the pool. The caller
// must call PutDecodeScratch when done with it.
func GetDecodeScratch() *DecodeScratch {
	return decodePool.Get().(*DecodeScratch)
}

// PutDecodeScratch returns s to the pool for reuse.
func PutDecodeScratch(s *DecodeScratch) {
	decodePool.Put(s)
}
