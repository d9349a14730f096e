// Package rw provides unchecked little-endian byte peek/poke primitives.
//
// These are the innermost building block used throughout the codec: the
// LZ4 match finder, the tile opcode stream, and the container chunk
// headers all read and write unaligned little-endian integers. Bounds
// checking is the caller's responsibility — these functions trust the
// slice to already be long enough, matching a memcpy-style C fast path.
package rw

import "encoding/binary"

// PeekU32LE reads a little-endian uint32 from the first 4 bytes of b.
func PeekU32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// PeekU64LE reads a little-endian uint64 from the first 8 bytes of b.
func PeekU64LE(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// PokeU32LE writes v to the first 4 bytes of b as little-endian.
func PokeU32LE(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// PokeU64LE writes v to the first 8 bytes of b as little-endian.
func PokeU64LE(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}
