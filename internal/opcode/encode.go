package opcode

// Encode turns the tw x th RGBA pixel grid in lit (dense 4*tw-stride
// rows past the PrePad phantom row, per the package doc comment) into
// an opcode stream written to dst. dst must be at least
// (5*TileSize*TileSize)+64 bytes long, the worst case of every pixel
// taking the widest opcode plus a trailing run flush. Encode returns
// the number of bytes written.
func Encode(dst, lit []byte, tw, th int) int {
	cache := NewColorCache()
	rowStride := 4 * tw
	total := 4 * tw * th
	op := 0
	runLen := 0

	flushRun := func() {
		if runLen == 0 {
			return
		}
		if runLen <= 26 {
			dst[op] = byte(0x07 | ((runLen - 1) << 3))
			op++
		} else {
			dst[op] = tagRUNL
			dst[op+1] = byte(runLen - 1)
			op += 2
		}
		runLen = 0
	}

	for off := PrePad; off < PrePad+total; off += 4 {
		p := lit[off : off+4 : off+4]

		// The previous pixel in scan order. For the very first pixel
		// this reads the pre-padding row's (0,0,0,255); at the start of
		// a later row it reads the previous row's last pixel.
		left := lit[off-4 : off]
		if p[0] == left[0] && p[1] == left[1] && p[2] == left[2] && p[3] == left[3] {
			runLen++
			if runLen == 256 {
				flushRun()
			}
			continue
		}
		flushRun()

		h := hashPixel(p)
		if c := &cache.entries[h]; c[0] == p[0] && c[1] == p[1] && c[2] == p[2] && c[3] == p[3] {
			dst[op] = byte(h << 2)
			op++
			continue
		}
		cache.entries[h] = [4]byte{p[0], p[1], p[2], p[3]}

		above := lit[off-rowStride : off-rowStride+4]
		dr := p[0] - byte((int(left[0])+int(above[0])+1)>>1)
		dg := p[1] - byte((int(left[1])+int(above[1])+1)>>1)
		db := p[2] - byte((int(left[2])+int(above[2])+1)>>1)
		da := p[3] - byte((int(left[3])+int(above[3])+1)>>1)
		op = emitPixel(dst, op, dr, dg, db, da)
	}
	flushRun()
	return op
}

// emitPixel writes the smallest opcode whose biased fields cover the
// per-channel residual (dr, dg, db, da).
func emitPixel(dst []byte, op int, dr, dg, db, da byte) int {
	if da == 0 {
		cr, cg, cb := classOf[dr], classOf[dg], classOf[db]
		if cr <= 2 && cg <= 2 && cb <= 2 {
			dst[op] = 0x01 | (dr+2)<<2 | (dg+2)<<4 | (db+2)<<6
			return op + 1
		}
		drmg := dr - dg
		dbmg := db - dg
		if cg <= 32 && classOf[drmg] <= 8 && classOf[dbmg] <= 8 {
			dst[op] = 0x02 | (dg+32)<<2
			dst[op+1] = (drmg + 8) | (dbmg+8)<<4
			return op + 2
		}
		if cr <= 64 && cg <= 64 && cb <= 64 {
			v := uint32(0x03) | uint32(dr+0x40)<<3 | uint32(dg+0x40)<<10 | uint32(db+0x40)<<17
			dst[op] = byte(v)
			dst[op+1] = byte(v >> 8)
			dst[op+2] = byte(v >> 16)
			return op + 3
		}
		dst[op] = tagRGB8
		dst[op+1] = dr
		dst[op+2] = dg
		dst[op+3] = db
		return op + 4
	}

	if dr == 0 && dg == 0 && db == 0 {
		dst[op] = tagA8
		dst[op+1] = da
		return op + 2
	}
	cr, cg, cb, ca := classOf[dr], classOf[dg], classOf[db], classOf[da]
	if cr <= 2 && cg <= 2 && cb <= 2 && ca <= 2 {
		dst[op] = tagRGBA2
		dst[op+1] = (dr + 2) | (dg+2)<<2 | (db+2)<<4 | (da+2)<<6
		return op + 2
	}
	if cr <= 8 && cg <= 8 && cb <= 8 && ca <= 8 {
		dst[op] = tagRGBA4
		dst[op+1] = (dr + 8) | (dg+8)<<4
		dst[op+2] = (db + 8) | (da+8)<<4
		return op + 3
	}
	dst[op] = tagRGBA8
	dst[op+1] = dr
	dst[op+2] = dg
	dst[op+3] = db
	dst[op+4] = da
	return op + 5
}
