// Package lz4 implements a self-contained LZ4 block compressor and
// decompressor: tokens of a 4-bit literal-length nibble and a 4-bit
// match-length nibble, 0xFF length-extension bytes, a 16-bit
// little-endian back-reference offset, minimum match length 4, and no
// frame header or end marker — the block simply ends when the input is
// consumed. It is used both as a second-stage wrapper around an opcode
// stream and directly on raw pixel literals (see internal/tiler).
//
// The compressor is not required to be bit-identical to any other LZ4
// implementation; its output only has to be decodable by a conforming
// LZ4 block decoder, including this package's own Decode.
package lz4

import (
	"errors"

	"github.com/deepteams/qoir/internal/rw"
)

// Sentinel errors. The root package maps these to the stable
// "#qoir/lz4: ..." strings at the API boundary.
var (
	ErrDstTooShort = errors.New("lz4: dst is too short")
	ErrSrcTooLong  = errors.New("lz4: src is too long")
	ErrInvalidData = errors.New("lz4: invalid data")
)

const (
	minMatch        = 4
	maxOffset       = 0xFFFF
	hashLog         = 12
	hashTableSize   = 1 << hashLog
	hashMultiplier  = 2654435761
	mfLimit         = 11 // finalLiteralsLimit = len(src) - mfLimit
	skipTrigger     = 6  // probe stride grows by 1 every 1<<skipTrigger failed probes
	maxDecodeSrcLen = 0x00FF_FFFF
	maxEncodeSrcLen = 0x7E00_0000
)

// WorstCaseSize returns the largest number of bytes Encode can write for
// an n-byte input, or ErrSrcTooLong if n exceeds the bound this
// implementation supports.
func WorstCaseSize(n int) (int, error) {
	if n > maxEncodeSrcLen {
		return 0, ErrSrcTooLong
	}
	return n + (n / 255) + 16, nil
}

func hash4(v uint32) uint32 {
	return (v * hashMultiplier) >> (32 - hashLog)
}

func equal4(b []byte, i, j int) bool {
	return rw.PeekU32LE(b[i:]) == rw.PeekU32LE(b[j:])
}

// Encode compresses src into dst and returns the number of bytes
// written. dst must be at least WorstCaseSize(len(src)) bytes long,
// even if the realized compression would fit in less.
func Encode(dst, src []byte) (int, error) {
	worst, err := WorstCaseSize(len(src))
	if err != nil {
		return 0, err
	}
	if len(dst) < worst {
		return 0, ErrDstTooShort
	}

	n := len(src)
	var table [hashTableSize]int32
	for i := range table {
		table[i] = -1
	}

	finalLiteralsLimit := n - mfLimit
	matchLimit := n - 5 // a match never covers the last 5 bytes of the block
	anchor := 0
	op := 0

	for ip := anchor; ip < finalLiteralsLimit; {
		step := 1
		searchNb := 1 << skipTrigger
		candidate := ip
		matched := false
		matchPos := 0
		for candidate < finalLiteralsLimit {
			h := hash4(rw.PeekU32LE(src[candidate:]))
			ref := table[h]
			table[h] = int32(candidate)
			if ref >= 0 && int(ref) < candidate && candidate-int(ref) <= maxOffset && equal4(src, int(ref), candidate) {
				matchPos = int(ref)
				matched = true
				break
			}
			candidate += step
			step = searchNb >> skipTrigger
			searchNb++
		}
		if !matched {
			break
		}

		cp, mp := candidate, matchPos
		for cp > anchor && mp > 0 && src[cp-1] == src[mp-1] {
			cp--
			mp--
		}
		matchLen := minMatch
		a, b := mp+minMatch, cp+minMatch
		for b < matchLimit && src[a] == src[b] {
			a++
			b++
			matchLen++
		}
		op = emitSequence(dst, op, src[anchor:cp], cp-mp, matchLen)

		sp := b
		anchor = sp
		updateHashAt(&table, src, sp-2, finalLiteralsLimit)

		for sp < finalLiteralsLimit {
			h := hash4(rw.PeekU32LE(src[sp:]))
			ref := table[h]
			table[h] = int32(sp)
			if ref < 0 || sp-int(ref) > maxOffset || !equal4(src, int(ref), sp) {
				break
			}
			mp2, cp2 := int(ref), sp
			ml2 := minMatch
			a2, b2 := mp2+minMatch, cp2+minMatch
			for b2 < matchLimit && src[a2] == src[b2] {
				a2++
				b2++
				ml2++
			}
			op = emitSequence(dst, op, nil, cp2-mp2, ml2)
			sp = b2
			anchor = sp
			updateHashAt(&table, src, sp-2, finalLiteralsLimit)
		}

		ip = sp
	}

	op = emitFinalLiterals(dst, op, src[anchor:])
	return op, nil
}

func updateHashAt(table *[hashTableSize]int32, src []byte, pos, limit int) {
	if pos >= 0 && pos < limit {
		table[hash4(rw.PeekU32LE(src[pos:]))] = int32(pos)
	}
}

func emitLengthExt(dst []byte, op int, length int) int {
	for length >= 255 {
		dst[op] = 255
		op++
		length -= 255
	}
	dst[op] = byte(length)
	op++
	return op
}

func emitSequence(dst []byte, op int, lit []byte, offset, matchLen int) int {
	litLen := len(lit)
	mlCode := matchLen - minMatch

	tokenLit := litLen
	if tokenLit > 15 {
		tokenLit = 15
	}
	tokenML := mlCode
	if tokenML > 15 {
		tokenML = 15
	}
	dst[op] = byte(tokenLit<<4 | tokenML)
	op++
	if litLen >= 15 {
		op = emitLengthExt(dst, op, litLen-15)
	}
	op += copy(dst[op:], lit)

	dst[op] = byte(offset)
	dst[op+1] = byte(offset >> 8)
	op += 2

	if mlCode >= 15 {
		op = emitLengthExt(dst, op, mlCode-15)
	}
	return op
}

func emitFinalLiterals(dst []byte, op int, lit []byte) int {
	litLen := len(lit)
	tokenLit := litLen
	if tokenLit > 15 {
		tokenLit = 15
	}
	dst[op] = byte(tokenLit << 4)
	op++
	if litLen >= 15 {
		op = emitLengthExt(dst, op, litLen-15)
	}
	op += copy(dst[op:], lit)
	return op
}

// Decode decompresses src into dst and returns the number of bytes
// written.
func Decode(dst, src []byte) (int, error) {
	if len(src) > maxDecodeSrcLen {
		return 0, ErrSrcTooLong
	}

	n := len(src)
	ip, op := 0, 0
	for ip < n {
		token := src[ip]
		ip++

		litLen := int(token >> 4)
		if litLen == 15 {
			for {
				if ip >= n {
					return 0, ErrInvalidData
				}
				b := src[ip]
				ip++
				litLen += int(b)
				if b != 255 {
					break
				}
			}
		}
		if ip+litLen > n {
			return 0, ErrInvalidData
		}
		if op+litLen > len(dst) {
			return 0, ErrDstTooShort
		}
		copy(dst[op:op+litLen], src[ip:ip+litLen])
		ip += litLen
		op += litLen

		if ip >= n {
			break // final sequence: literals only, no match follows
		}
		if ip+2 > n {
			return 0, ErrInvalidData
		}
		offset := int(src[ip]) | int(src[ip+1])<<8
		ip += 2
		if offset == 0 || offset > op {
			return 0, ErrInvalidData
		}

		matchLen := int(token & 0x0F)
		if matchLen == 15 {
			for {
				if ip >= n {
					return 0, ErrInvalidData
				}
				b := src[ip]
				ip++
				matchLen += int(b)
				if b != 255 {
					break
				}
			}
		}
		matchLen += minMatch

		if op+matchLen > len(dst) {
			return 0, ErrDstTooShort
		}
		matchPos := op - offset
		for k := 0; k < matchLen; k++ {
			dst[op] = dst[matchPos]
			op++
			matchPos++
		}
	}
	return op, nil
}
