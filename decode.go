package qoir

import (
	"github.com/deepteams/qoir/internal/container"
	"github.com/deepteams/qoir/internal/pool"
	"github.com/deepteams/qoir/internal/swizzle"
	"github.com/deepteams/qoir/internal/tiler"
)

// DecodeOptions configures Decode. The zero value (or a nil
// *DecodeOptions) uses the platform heap for the returned PixelBuffer
// and produces RGBANonPremul pixels.
type DecodeOptions struct {
	// Allocator, if non-nil, supplies the returned PixelBuffer's pixel
	// slice instead of the platform heap.
	Allocator Allocator
	// Buffer, if non-nil, is the per-call tile scratch to use instead
	// of a pooled one.
	Buffer *DecodeBuffer
	// PixelFormat selects the output pixel format: RGB or
	// RGBANonPremul. Zero means RGBANonPremul.
	PixelFormat PixelFormat
	// FirstTileRow and LastTileRow, when not both zero, clip decoding
	// to the half-open range [FirstTileRow, LastTileRow) of 128-pixel
	// tile rows. The returned PixelBuffer covers only that horizontal
	// band. Tile decoding is stateless across tiles, so disjoint bands
	// of one bitstream may be decoded concurrently, each call with its
	// own Buffer (or none); the caller joins the bands.
	FirstTileRow int
	LastTileRow  int
}

// DecodeConfig returns the image's pixel configuration — dimensions
// and the pixel format persisted in the header — without decoding any
// pixels. data needs to hold only the QOIR header chunk.
func DecodeConfig(data []byte) (PixelConfig, error) {
	hdr, _, err := container.ReadHeader(data)
	if err != nil {
		return PixelConfig{}, &Error{Kind: KindInvalidData, Err: err}
	}
	return PixelConfig{
		PixelFormat: PixelFormat(hdr.Format),
		Width:       hdr.Width,
		Height:      hdr.Height,
	}, nil
}

// Decode parses a complete QOIR-framed byte stream and reconstructs
// its pixels. Chunks with unrecognized tags between the header and the
// terminator are skipped; a second QOIR tag, a second QPIX, or a
// missing QEND is invalid.
func Decode(data []byte, opts *DecodeOptions) (*PixelBuffer, error) {
	var o DecodeOptions
	if opts != nil {
		o = *opts
	}
	if len(data) < 44 {
		return nil, errKind(KindInvalidData)
	}
	hdr, consumed, err := container.ReadHeader(data)
	if err != nil {
		return nil, &Error{Kind: KindInvalidData, Err: err}
	}
	// The header must leave room for at least the QPIX and QEND chunk
	// headers (12 bytes each); the opcode decoder's 8-byte lookahead is
	// borrowed from within those, not reserved on top.
	if consumed > len(data)-24 {
		return nil, errKind(KindInvalidData)
	}

	dstFmt := o.PixelFormat
	if dstFmt == PixelFormatInvalid {
		dstFmt = PixelFormatRGBANonPremul
	}
	dstBpp := dstFmt.BytesPerPixel()
	w, h := hdr.Width, hdr.Height
	tilesY := ceilTiles(h)

	y0, y1 := 0, tilesY
	if o.FirstTileRow != 0 || o.LastTileRow != 0 {
		y0, y1 = o.FirstTileRow, o.LastTileRow
		if y0 < 0 || y0 >= y1 || y1 > tilesY {
			return nil, errKind(KindInvalidArgument)
		}
	}
	outHeight := h
	if y1 < tilesY || y0 > 0 {
		outHeight = min(h, y1*tiler.TileSize) - y0*tiler.TileSize
	}

	outStride := w * dstBpp
	pixLen := int64(outStride) * int64(outHeight)
	if pixLen > int64(maxInt) {
		return nil, errKind(KindUnsupportedPixbufDimensions)
	}

	var pixels []byte
	fail := func(e *Error) (*PixelBuffer, error) {
		release(o.Allocator, pixels)
		return nil, e
	}

	seenQPIX := false
	sp := consumed
	for {
		if len(data)-sp < container.ChunkHeaderSize {
			return fail(errKind(KindInvalidData))
		}
		tag, payloadLen, cerr := container.ReadChunkHeader(data[sp:])
		if cerr != nil {
			return fail(&Error{Kind: KindInvalidData, Err: cerr})
		}
		sp += container.ChunkHeaderSize
		sn := len(data) - sp

		if tag == container.TagQOIR {
			return fail(errKind(KindInvalidData))
		}
		if tag == container.TagQEND {
			if payloadLen != 0 || sn != 0 {
				return fail(errKind(KindInvalidData))
			}
			break
		}
		// Any other chunk must still be followed by at least the QEND
		// chunk.
		if uint64(sn) < payloadLen || sn-int(payloadLen) < container.ChunkHeaderSize {
			return fail(errKind(KindInvalidData))
		}

		if tag == container.TagQPIX {
			if seenQPIX {
				return fail(errKind(KindInvalidData))
			}
			seenQPIX = true

			if pixLen > 0 {
				if dstFmt != PixelFormatRGB && dstFmt != PixelFormatRGBANonPremul {
					return fail(errKind(KindUnsupportedPixfmt))
				}
				var aerr *Error
				pixels, aerr = allocate(o.Allocator, int(pixLen))
				if aerr != nil {
					return nil, aerr
				}
				scratch := o.Buffer.scratch()
				if scratch == nil {
					s := pool.GetDecodeScratch()
					scratch = s
					defer pool.PutDecodeScratch(s)
				}
				// The slice handed down runs 8 bytes past the QPIX
				// payload, into the next chunk's header, satisfying the
				// opcode decoder's peek contract without copying.
				qerr := decodeQPIX(pixels, outStride, dstFmt, w, h, y0, y1, scratch, data[sp:sp+int(payloadLen)+8])
				if qerr != nil {
					return fail(qerr)
				}
			} else if payloadLen != 0 {
				return fail(errKind(KindInvalidData))
			}
		}

		sp += int(payloadLen)
	}

	if !seenQPIX {
		return fail(errKind(KindInvalidData))
	}

	return &PixelBuffer{
		Pixels: pixels,
		Stride: outStride,
		PixelConfig: PixelConfig{
			PixelFormat: dstFmt,
			Width:       w,
			Height:      outHeight,
		},
	}, nil
}

// decodeQPIX walks every tile of the pixel chunk in row-major order,
// decoding and swizzling out the ones inside the [y0, y1) tile-row
// band and stepping over the rest by their prefix lengths. src extends
// 8 bytes past the chunk payload; exactly those 8 bytes must remain
// once all tiles are consumed.
func decodeQPIX(dst []byte, dstStride int, dstFmt PixelFormat, w, h, y0, y1 int, s *pool.DecodeScratch, src []byte) *Error {
	tilesX := ceilTiles(w)
	tilesY := ceilTiles(h)
	dstBpp := dstFmt.BytesPerPixel()
	pos := 0
	for ty := 0; ty < tilesY; ty++ {
		inBand := ty >= y0 && ty < y1
		for tx := 0; tx < tilesX; tx++ {
			if !inBand {
				tileLen, err := tiler.ReadPrefix(src[pos:])
				if err != nil {
					return mapTilerErr(err)
				}
				pos += tiler.PrefixSize + tileLen
				continue
			}
			tw := min(tiler.TileSize, w-tx*tiler.TileSize)
			th := min(tiler.TileSize, h-ty*tiler.TileSize)
			consumed, lit, err := tiler.DecodeTile(src[pos:], s, tw, th)
			if err != nil {
				return mapTilerErr(err)
			}
			pos += consumed

			dstOff := (ty-y0)*tiler.TileSize*dstStride + tx*tiler.TileSize*dstBpp
			if dstFmt == PixelFormatRGBANonPremul {
				swizzle.Copy4(dst[dstOff:], lit, tw, th, dstStride, 4*tw)
			} else {
				swizzle.RGBFromRGBA(dst[dstOff:], lit, tw, th, dstStride, 4*tw)
			}
		}
	}
	if len(src)-pos != 8 {
		return errKind(KindInvalidData)
	}
	return nil
}

func (b *DecodeBuffer) scratch() *pool.DecodeScratch {
	if b == nil {
		return nil
	}
	return b.s
}
