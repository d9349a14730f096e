package qoir

import (
	"github.com/deepteams/qoir/internal/container"
	"github.com/deepteams/qoir/internal/pool"
	"github.com/deepteams/qoir/internal/rw"
	"github.com/deepteams/qoir/internal/swizzle"
	"github.com/deepteams/qoir/internal/tiler"
)

// maxDimension is the largest width or height the 24-bit header fields
// can hold.
const maxDimension = 0xFFFFFF

const maxInt = int(^uint(0) >> 1)

// EncodeOptions configures Encode. The zero value uses the platform
// heap for the output buffer and a pooled scratch buffer for tile
// encoding.
type EncodeOptions struct {
	// Allocator, if non-nil, supplies the returned byte slice instead
	// of the platform heap.
	Allocator Allocator
	// Buffer, if non-nil, is the per-call tile scratch to use instead
	// of a pooled one.
	Buffer *EncodeBuffer
}

// Encode compresses src into a complete QOIR-framed byte stream: a
// QOIR header chunk, a single QPIX chunk holding every tile's payload
// in row-major order, and a QEND terminator.
//
// src must be tightly packed (Stride equal to width times bytes per
// pixel) and use the RGB or RGBANonPremul pixel format.
func Encode(src *PixelBuffer, opts *EncodeOptions) ([]byte, error) {
	if src == nil {
		return nil, errKind(KindInvalidArgument)
	}
	var o EncodeOptions
	if opts != nil {
		o = *opts
	}

	w, h := src.PixelConfig.Width, src.PixelConfig.Height
	if w < 0 || h < 0 {
		return nil, errKind(KindInvalidArgument)
	}
	if w > maxDimension || h > maxDimension {
		return nil, errKind(KindUnsupportedPixbufDimensions)
	}
	var channels int
	var persisted uint8
	switch src.PixelConfig.PixelFormat {
	case PixelFormatRGB:
		channels, persisted = 3, container.FormatBGRX
	case PixelFormatRGBANonPremul:
		channels, persisted = 4, container.FormatBGRANonPremul
	default:
		return nil, errKind(KindUnsupportedPixfmt)
	}
	if src.Stride != channels*w {
		return nil, errKind(KindUnsupportedPixbuf)
	}
	if len(src.Pixels) < src.Stride*h {
		return nil, errKind(KindInvalidArgument)
	}

	tilesX := ceilTiles(w)
	tilesY := ceilTiles(h)
	// A chosen LZ4 payload can run a little past the raw literal form
	// (it only has to beat the opcode stream, which may be larger), and
	// the in-progress tile's LZ4 candidate is staged in place, so every
	// tile slot gets the full LZ4 worst case.
	const tileWorstCase = tiler.PrefixSize + tiler.LZ4WorstCase
	worst := uint64(tilesX)*uint64(tilesY)*tileWorstCase + 44
	if worst > uint64(maxInt) {
		return nil, errKind(KindUnsupportedPixbufDimensions)
	}
	dst, aerr := allocate(o.Allocator, int(worst))
	if aerr != nil {
		return nil, aerr
	}

	container.WriteHeader(dst, container.Header{Width: w, Height: h, Format: persisted})
	container.WriteChunkHeader(dst[container.HeaderSize:], container.TagQPIX, 0)
	qpixStart := container.HeaderSize + container.ChunkHeaderSize
	n := qpixStart

	scratch := o.Buffer.scratch()
	if scratch == nil {
		s := pool.GetEncodeScratch()
		defer pool.PutEncodeScratch(s)
		scratch = s
	}

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			tw := min(tiler.TileSize, w-tx*tiler.TileSize)
			th := min(tiler.TileSize, h-ty*tiler.TileSize)
			srcOff := ty*tiler.TileSize*src.Stride + tx*tiler.TileSize*channels
			grid := scratch.Literals[pool.PrePad:]
			if channels == 4 {
				swizzle.Copy4(grid, src.Pixels[srcOff:], tw, th, 4*tw, src.Stride)
			} else {
				swizzle.RGBAFromRGB(grid, src.Pixels[srcOff:], tw, th, 4*tw, src.Stride)
			}
			n += tiler.EncodeTile(dst[n:], scratch, tw, th)
		}
	}

	rw.PokeU64LE(dst[container.HeaderSize+4:], uint64(n-qpixStart))
	n += container.WriteEnd(dst[n:])
	return dst[:n], nil
}

func (b *EncodeBuffer) scratch() *pool.EncodeScratch {
	if b == nil {
		return nil
	}
	return b.s
}

func ceilTiles(dim int) int {
	return (dim + tiler.TileSize - 1) / tiler.TileSize
}
