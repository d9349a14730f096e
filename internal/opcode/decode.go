package opcode

// Decode reconstructs a tw x th RGBA pixel grid into dst (laid out like
// Encode's lit buffer: PrePad phantom bytes, then dense 4*tw-stride
// rows) from the opcode stream in src. src must hold the stream plus at
// least 8 readable trailing bytes — the decoder peeks whole opcodes
// without per-field bounds checks, so callers pass the stream length
// plus 8 with real backing bytes (a following chunk header, or a
// scratch buffer's slack), never a tight slice.
//
// Decode returns ErrInvalidData if src is shorter than the 8-byte
// slack, if the stream runs out before every tile pixel is produced,
// or if a run overruns the tile.
func Decode(dst, src []byte, tw, th int) error {
	if len(src) < 8 {
		return ErrInvalidData
	}
	cache := NewColorCache()
	rowStride := 4 * tw
	end := PrePad + 4*tw*th
	streamLen := len(src) - 8
	pos := 0
	off := PrePad

	emit := func(p [4]byte) {
		cache.entries[hashPixel(p[:])] = p
		dst[off] = p[0]
		dst[off+1] = p[1]
		dst[off+2] = p[2]
		dst[off+3] = p[3]
		off += 4
	}
	predict := func() [4]byte {
		left := dst[off-4 : off]
		above := dst[off-rowStride : off-rowStride+4]
		return [4]byte{
			byte((int(left[0]) + int(above[0]) + 1) >> 1),
			byte((int(left[1]) + int(above[1]) + 1) >> 1),
			byte((int(left[2]) + int(above[2]) + 1) >> 1),
			byte((int(left[3]) + int(above[3]) + 1) >> 1),
		}
	}
	runFill := func(n int) error {
		if off+4*n > end {
			return ErrInvalidData
		}
		p0, p1, p2, p3 := dst[off-4], dst[off-3], dst[off-2], dst[off-1]
		for ; n > 0; n-- {
			dst[off] = p0
			dst[off+1] = p1
			dst[off+2] = p2
			dst[off+3] = p3
			off += 4
		}
		return nil
	}

	for off < end {
		if pos >= streamLen {
			return ErrInvalidData
		}
		tag := src[pos]

		// The exact-byte opcodes all share the xxxxx111 bit pattern with
		// RUNS, so they must be dispatched first.
		switch tag {
		case tagRUNL:
			n := int(src[pos+1]) + 1
			pos += 2
			if err := runFill(n); err != nil {
				return err
			}
			continue
		case tagRGB8:
			pr := predict()
			emit([4]byte{pr[0] + src[pos+1], pr[1] + src[pos+2], pr[2] + src[pos+3], pr[3]})
			pos += 4
			continue
		case tagRGBA2:
			b := src[pos+1]
			pr := predict()
			emit([4]byte{
				pr[0] + (b & 0x3) - 2,
				pr[1] + (b>>2)&0x3 - 2,
				pr[2] + (b>>4)&0x3 - 2,
				pr[3] + (b>>6)&0x3 - 2,
			})
			pos += 2
			continue
		case tagRGBA4:
			b1, b2 := src[pos+1], src[pos+2]
			pr := predict()
			emit([4]byte{
				pr[0] + (b1 & 0xF) - 8,
				pr[1] + b1>>4 - 8,
				pr[2] + (b2 & 0xF) - 8,
				pr[3] + b2>>4 - 8,
			})
			pos += 3
			continue
		case tagRGBA8:
			pr := predict()
			emit([4]byte{pr[0] + src[pos+1], pr[1] + src[pos+2], pr[2] + src[pos+3], pr[3] + src[pos+4]})
			pos += 5
			continue
		case tagA8:
			pr := predict()
			emit([4]byte{pr[0], pr[1], pr[2], pr[3] + src[pos+1]})
			pos += 2
			continue
		}

		switch tag & 0x3 {
		case 0: // INDEX
			emit(cache.entries[tag>>2])
			pos++
		case 1: // RGB2
			pr := predict()
			emit([4]byte{
				pr[0] + (tag>>2)&0x3 - 2,
				pr[1] + (tag>>4)&0x3 - 2,
				pr[2] + (tag>>6)&0x3 - 2,
				pr[3],
			})
			pos++
		case 2: // LUMA
			b1 := src[pos+1]
			dg := (tag>>2)&0x3F - 32
			pr := predict()
			emit([4]byte{pr[0] + dg + (b1 & 0xF) - 8, pr[1] + dg, pr[2] + dg + b1>>4 - 8, pr[3]})
			pos += 2
		default: // tag&0x3 == 3: RGB7 (bit 2 clear) or RUNS (bit 2 set)
			if tag&0x4 == 0 {
				v := uint32(tag) | uint32(src[pos+1])<<8 | uint32(src[pos+2])<<16
				pr := predict()
				emit([4]byte{
					pr[0] + byte((v>>3)&0x7F) - 0x40,
					pr[1] + byte((v>>10)&0x7F) - 0x40,
					pr[2] + byte((v>>17)&0x7F) - 0x40,
					pr[3],
				})
				pos += 3
			} else {
				n := int(tag>>3) + 1
				pos++
				if err := runFill(n); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
