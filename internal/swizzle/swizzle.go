// Package swizzle converts rectangular pixel regions between packings.
//
// The opcode codec (internal/opcode) only ever operates on dense 4-byte
// RGBA pixels. Swizzlers reconcile that internal layout with the two
// packings honored at the API boundary (spec.md: RGB and
// RGBA_NONPREMUL). Each function copies h independent rows of w pixels;
// src and dst must not overlap.
package swizzle

// Copy4 copies a w x h region of 4-byte-per-pixel data from src to dst,
// reconciling independent strides.
func Copy4(dst, src []byte, w, h, dstStride, srcStride int) {
	rowLen := 4 * w
	for y := 0; y < h; y++ {
		d := dst[y*dstStride:]
		s := src[y*srcStride:]
		copy(d[:rowLen], s[:rowLen])
	}
}

// RGBFromRGBA drops the 4th (alpha) byte of every pixel, converting a
// 4-byte-per-pixel region into a 3-byte-per-pixel one.
func RGBFromRGBA(dst, src []byte, w, h, dstStride, srcStride int) {
	for y := 0; y < h; y++ {
		d := dst[y*dstStride:]
		s := src[y*srcStride:]
		di, si := 0, 0
		for x := 0; x < w; x++ {
			d[di+0] = s[si+0]
			d[di+1] = s[si+1]
			d[di+2] = s[si+2]
			di += 3
			si += 4
		}
	}
}

// RGBAFromRGB inserts alpha = 0xFF as the 4th byte of every pixel,
// converting a 3-byte-per-pixel region into a 4-byte-per-pixel one.
func RGBAFromRGB(dst, src []byte, w, h, dstStride, srcStride int) {
	for y := 0; y < h; y++ {
		d := dst[y*dstStride:]
		s := src[y*srcStride:]
		di, si := 0, 0
		for x := 0; x < w; x++ {
			d[di+0] = s[si+0]
			d[di+1] = s[si+1]
			d[di+2] = s[si+2]
			d[di+3] = 0xFF
			di += 4
			si += 3
		}
	}
}
