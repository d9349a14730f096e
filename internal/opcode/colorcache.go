// Package opcode implements the tile opcode codec: a predicted-residual
// instruction stream over one tile's pixels, with a 64-entry color
// cache and run-length coding.
//
// Both Encode and Decode operate on a "literals" buffer holding the
// tile's pixels as dense 4-byte RGBA (row stride 4*tw, no padding
// between rows), preceded by a pre-padding row of PrePad bytes of
// phantom (0,0,0,255) pixels. The pre-padding lets both codecs read
// "the pixel one row above" (offset -4*tw) and "the previous pixel"
// (offset -4) unconditionally, even for the tile's first row and first
// pixel.
package opcode

import (
	"errors"

	"github.com/deepteams/qoir/internal/rw"
)

// TileSize is the fixed tile edge length.
const TileSize = 128

// PrePad is the byte length of the phantom row preceding a tile's first
// real pixel in a literals buffer: one full tile row of 4-byte pixels.
const PrePad = 4 * TileSize

// ErrInvalidData is returned when an opcode stream ends before all tile
// pixels are produced, or a run overruns the tile.
var ErrInvalidData = errors.New("opcode: invalid data")

// ColorCache is the 64-entry most-recently-produced-pixel table used by
// the single-byte INDEX opcode. It is reset at the start of every tile.
type ColorCache struct {
	entries [64][4]byte
}

// NewColorCache returns a ColorCache reset to its initial state
// (channels zero, alpha 0xFF).
func NewColorCache() *ColorCache {
	c := &ColorCache{}
	c.Reset()
	return c
}

// Reset restores every entry to (0, 0, 0, 0xFF).
func (c *ColorCache) Reset() {
	for i := range c.entries {
		c.entries[i] = [4]byte{0, 0, 0, 0xFF}
	}
}

// hashPixel computes the color cache index for a 4-byte RGBA pixel:
// the top 6 bits of a Knuth multiplicative hash of the pixel loaded as
// a little-endian uint32.
func hashPixel(p []byte) int {
	return int((rw.PeekU32LE(p) * 2654435761) >> 26)
}
