// Package tiler partitions an image into TileSize x TileSize tiles,
// picks a per-tile wire format, and drives the opcode and lz4 codecs
// to produce (or consume) each tile's prefixed payload.
package tiler

import (
	"errors"

	"github.com/deepteams/qoir/internal/lz4"
	"github.com/deepteams/qoir/internal/opcode"
	"github.com/deepteams/qoir/internal/pool"
	"github.com/deepteams/qoir/internal/rw"
)

// TileSize is the fixed tile edge length.
const TileSize = opcode.TileSize

// Tile formats, stored in bits 24..30 of a tile's prefix.
const (
	FormatLiterals = iota
	FormatOpcodes
	FormatLZ4Literals
	FormatLZ4Opcodes
)

// PrefixSize is the byte length of the u32le prefix heading every tile:
// bits 0..23 payload length, bits 24..30 format, bit 31 reserved.
const PrefixSize = 4

// maxTilePayload is the largest payload length at which the reserved
// prefix bit may hold either value; beyond it the bit must be zero.
const maxTilePayload = 4 * TileSize * TileSize

// LZ4WorstCase is the LZ4 worst-case output size for one tile's raw
// pixels, the largest input either LZ4-backed tile format ever
// compresses. EncodeTile stages its LZ4 candidate directly in the
// output buffer, so callers must leave this much room past each tile's
// prefix. A chosen LZ4-Literals payload can itself exceed
// maxTilePayload, since it only has to be smaller than the opcode
// stream.
const LZ4WorstCase = maxTilePayload + maxTilePayload/255 + 16

var (
	// ErrInvalidData covers a malformed tile prefix or a tile payload
	// that fails to decode (truncated, or the embedded codec rejects
	// it).
	ErrInvalidData = errors.New("tiler: invalid data")
	// ErrUnsupportedFormat is returned when a tile prefix names a
	// format this decoder does not implement.
	ErrUnsupportedFormat = errors.New("tiler: unsupported tile format")
)

// EncodeTile encodes the tw x th pixel grid already swizzled into
// s.Literals (dense 4*tw-stride rows past the pre-padding), writing a
// 4-byte prefix followed by the chosen payload to dst. dst must have
// PrefixSize+LZ4WorstCase bytes of room. It returns the number of
// bytes written.
//
// Selection: if the opcode stream fails to beat the raw pixel bytes,
// the choice is between Literals and LZ4-Literals; otherwise between
// Opcodes and LZ4-Opcodes. Either way the LZ4 form wins only when
// strictly smaller than the opcode stream.
func EncodeTile(dst []byte, s *pool.EncodeScratch, tw, th int) int {
	rawLen := 4 * tw * th
	lits := s.Literals[pool.PrePad : pool.PrePad+rawLen]
	opLen := opcode.Encode(s.Opcodes, s.Literals, tw, th)

	if opLen >= rawLen {
		if n, err := lz4.Encode(dst[PrefixSize:PrefixSize+LZ4WorstCase], lits); err == nil && n < opLen {
			rw.PokeU32LE(dst, uint32(FormatLZ4Literals)<<24|uint32(n))
			return PrefixSize + n
		}
		copy(dst[PrefixSize:], lits)
		rw.PokeU32LE(dst, uint32(FormatLiterals)<<24|uint32(rawLen))
		return PrefixSize + rawLen
	}

	if n, err := lz4.Encode(dst[PrefixSize:PrefixSize+LZ4WorstCase], s.Opcodes[:opLen]); err == nil && n < opLen {
		rw.PokeU32LE(dst, uint32(FormatLZ4Opcodes)<<24|uint32(n))
		return PrefixSize + n
	}
	copy(dst[PrefixSize:], s.Opcodes[:opLen])
	rw.PokeU32LE(dst, uint32(FormatOpcodes)<<24|uint32(opLen))
	return PrefixSize + opLen
}

// ReadPrefix validates the tile prefix at the front of src without
// decoding the payload, returning the payload length. src must cover
// the rest of the pixel chunk's payload plus its 8 trailing slack
// bytes; a prefix whose payload (plus that slack) doesn't fit is
// invalid. The reserved bit 31 must be zero only when the payload
// exceeds one tile's raw pixel bytes.
func ReadPrefix(src []byte) (tileLen int, err error) {
	if len(src) < PrefixSize {
		return 0, ErrInvalidData
	}
	prefix := rw.PeekU32LE(src)
	tileLen = int(prefix & 0xFFFFFF)
	if len(src)-PrefixSize < tileLen+8 || (tileLen > maxTilePayload && prefix>>31 != 0) {
		return 0, ErrInvalidData
	}
	return tileLen, nil
}

// DecodeTile reads one tile's prefix and payload from the front of src
// and reconstructs its tw x th RGBA pixels. src must extend at least 8
// bytes past the tile's payload (the pixel chunk's trailing slack), per
// the opcode decoder's peek contract. It returns the number of bytes
// consumed (prefix plus payload) and the dense 4*tw-stride pixels —
// either a sub-slice of src (Literals) or of s.Literals.
func DecodeTile(src []byte, s *pool.DecodeScratch, tw, th int) (consumed int, lit []byte, err error) {
	tileLen, err := ReadPrefix(src)
	if err != nil {
		return 0, nil, err
	}
	rest := src[PrefixSize:]
	rawLen := 4 * tw * th

	// Dispatch on the prefix's whole top byte: a set reserved bit lands
	// in default, so a small payload with bit 31 set reads as an
	// unsupported format rather than silently aliasing formats 0..3.
	switch rw.PeekU32LE(src) >> 24 {
	case FormatLiterals:
		if tileLen != rawLen {
			return 0, nil, ErrInvalidData
		}
		lit = rest[:tileLen]
	case FormatOpcodes:
		if err := opcode.Decode(s.Literals, rest[:tileLen+8], tw, th); err != nil {
			return 0, nil, ErrInvalidData
		}
		lit = s.Literals[pool.PrePad : pool.PrePad+rawLen]
	case FormatLZ4Literals:
		n, err := lz4.Decode(s.Literals[pool.PrePad:], rest[:tileLen])
		if err != nil || n != rawLen {
			return 0, nil, ErrInvalidData
		}
		lit = s.Literals[pool.PrePad : pool.PrePad+rawLen]
	case FormatLZ4Opcodes:
		n, err := lz4.Decode(s.Opcodes[:maxTilePayload], rest[:tileLen])
		if err != nil {
			return 0, nil, ErrInvalidData
		}
		if err := opcode.Decode(s.Literals, s.Opcodes[:n+8], tw, th); err != nil {
			return 0, nil, ErrInvalidData
		}
		lit = s.Literals[pool.PrePad : pool.PrePad+rawLen]
	default:
		return 0, nil, ErrUnsupportedFormat
	}

	return PrefixSize + tileLen, lit, nil
}
