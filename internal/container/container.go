// Package container implements the outermost framing of a compressed
// image: a sequence of {4-byte tag, u64le payload length, payload}
// chunks, opening with a QOIR header chunk, holding exactly one QPIX
// pixel-data chunk, and closing with a QEND terminator. Unrecognized
// chunks between QOIR and QEND are skipped by length, not rejected —
// this lets a future encoder add metadata chunks that an older decoder
// built against this package can still step over.
package container

import (
	"errors"

	"github.com/deepteams/qoir/internal/rw"
)

// Chunk tags, the little-endian uint32 read from the 4 ASCII bytes
// "QOIR", "QPIX" and "QEND" respectively.
const (
	TagQOIR uint32 = 0x5249_4F51
	TagQPIX uint32 = 0x5849_5051
	TagQEND uint32 = 0x444E_4551
)

// ChunkHeaderSize is the fixed size, in bytes, of a chunk's tag and
// length fields, before its payload.
const ChunkHeaderSize = 4 + 8

// HeaderSize is the byte length of the QOIR header chunk this package
// writes: the chunk header plus its 8-byte payload of packed width,
// pixel format and height words.
const HeaderSize = ChunkHeaderSize + 8

// maxPayloadLen bounds a chunk's declared payload length; a length
// with the top bit set can only come from corrupt data.
const maxPayloadLen = 0x7FFF_FFFF_FFFF_FFFF

// Pixel formats persisted in the header's format nibble. The wider
// API-only format space (3-byte packings, RGBA byte order) never
// reaches the file; callers swizzle at the boundary.
const (
	FormatBGRX          uint8 = 0x01
	FormatBGRANonPremul uint8 = 0x02
	FormatBGRAPremul    uint8 = 0x03
)

var (
	ErrTruncated   = errors.New("container: truncated data")
	ErrInvalidData = errors.New("container: invalid data")
	ErrTooLarge    = errors.New("container: chunk too large")
)

// Header is the parsed contents of the QOIR header chunk: the image's
// pixel dimensions and its persisted pixel format.
type Header struct {
	Width  int
	Height int
	Format uint8
}

// WriteChunkHeader writes a chunk's tag and payload length (12 bytes)
// to the front of dst and returns the number of bytes written.
func WriteChunkHeader(dst []byte, tag uint32, payloadLen uint64) int {
	rw.PokeU32LE(dst, tag)
	rw.PokeU64LE(dst[4:], payloadLen)
	return ChunkHeaderSize
}

// ReadChunkHeader reads a chunk's tag and payload length from the
// front of src.
func ReadChunkHeader(src []byte) (tag uint32, payloadLen uint64, err error) {
	if len(src) < ChunkHeaderSize {
		return 0, 0, ErrTruncated
	}
	tag = rw.PeekU32LE(src)
	payloadLen = rw.PeekU64LE(src[4:])
	if payloadLen > maxPayloadLen {
		return 0, 0, ErrTooLarge
	}
	return tag, payloadLen, nil
}

// WriteHeader writes a complete QOIR header chunk to the front of dst
// and returns the number of bytes written. The 8-byte payload packs
// each dimension into 24 bits, the persisted pixel format into the
// width word's top byte, and leaves the height word's top byte zero
// (reserved).
func WriteHeader(dst []byte, h Header) int {
	WriteChunkHeader(dst, TagQOIR, 8)
	rw.PokeU32LE(dst[12:], uint32(h.Width)|uint32(h.Format)<<24)
	rw.PokeU32LE(dst[16:], uint32(h.Height))
	return HeaderSize
}

// ReadHeader reads a QOIR header chunk from the front of src. It
// returns the parsed Header and the number of bytes consumed: the
// chunk header plus the full declared payload, which may exceed the 8
// bytes this package understands (the excess is reserved and skipped).
// The reserved top bytes beyond the format nibble are tolerated
// nonzero.
func ReadHeader(src []byte) (Header, int, error) {
	if len(src) < HeaderSize {
		return Header{}, 0, ErrTruncated
	}
	tag, payloadLen, err := ReadChunkHeader(src)
	if err != nil {
		return Header{}, 0, err
	}
	if tag != TagQOIR || payloadLen < 8 {
		return Header{}, 0, ErrInvalidData
	}
	if payloadLen > uint64(len(src)-ChunkHeaderSize) {
		return Header{}, 0, ErrTruncated
	}

	word0 := rw.PeekU32LE(src[12:])
	word1 := rw.PeekU32LE(src[16:])
	h := Header{
		Width:  int(word0 & 0xFFFFFF),
		Height: int(word1 & 0xFFFFFF),
		Format: uint8(word0>>24) & 0x0F,
	}
	switch h.Format {
	case FormatBGRX, FormatBGRANonPremul, FormatBGRAPremul:
	default:
		return Header{}, 0, ErrInvalidData
	}
	return h, ChunkHeaderSize + int(payloadLen), nil
}

// WriteEnd writes a QEND terminator chunk (12 bytes, no payload) to
// the front of dst and returns the number of bytes written.
func WriteEnd(dst []byte) int {
	return WriteChunkHeader(dst, TagQEND, 0)
}
