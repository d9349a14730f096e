package qoir

import "github.com/deepteams/qoir/internal/pool"

// PixelFormat combines an alpha-transparency choice, a color model and
// pixel byte order into one tag.
//
// Values below 0x10 are representable by the file format itself, using
// the same bit pattern. Values at or above 0x10 exist only at the API
// boundary: the 0x10 bit means 3 (not 4) bytes per fully opaque pixel,
// and the 0x20 bit means RGBA (not BGRA) byte order.
type PixelFormat uint32

const (
	PixelFormatInvalid       PixelFormat = 0x00
	PixelFormatBGRX          PixelFormat = 0x01
	PixelFormatBGRANonPremul PixelFormat = 0x02
	PixelFormatBGRAPremul    PixelFormat = 0x03
	PixelFormatBGR           PixelFormat = 0x11
	PixelFormatRGBX          PixelFormat = 0x21
	PixelFormatRGBANonPremul PixelFormat = 0x22
	PixelFormatRGBAPremul    PixelFormat = 0x23
	PixelFormatRGB           PixelFormat = 0x31
)

// BytesPerPixel returns the pixel stride the format implies: 3 for the
// alpha-less 3-byte packings, otherwise 4.
func (f PixelFormat) BytesPerPixel() int {
	if f&0x10 != 0 {
		return 3
	}
	return 4
}

// PixelConfig describes an image's dimensions and pixel format,
// independent of any particular buffer holding its pixels.
type PixelConfig struct {
	PixelFormat PixelFormat
	Width       int
	Height      int
}

// PixelBuffer holds a rectangular grid of pixels: each of the Height
// rows starts Stride bytes after the previous one and holds
// Width*BytesPerPixel pixel bytes.
type PixelBuffer struct {
	Pixels      []byte
	Stride      int
	PixelConfig PixelConfig
}

// Allocator lets a caller control where Encode's and Decode's output
// buffers come from — a fixed arena, a sync.Pool, or anything else —
// instead of always reaching for the platform heap. Allocate returns
// nil when it cannot supply n bytes, which surfaces as
// KindOutOfMemory.
type Allocator interface {
	Allocate(n int) []byte
	Release(buf []byte)
}

func allocate(a Allocator, n int) ([]byte, *Error) {
	if a == nil {
		return make([]byte, n), nil
	}
	buf := a.Allocate(n)
	if buf == nil || len(buf) < n {
		return nil, errKind(KindOutOfMemory)
	}
	return buf[:n], nil
}

func release(a Allocator, buf []byte) {
	if a != nil && buf != nil {
		a.Release(buf)
	}
}

// EncodeBuffer is a reusable per-call scratch buffer for Encode. A nil
// *EncodeBuffer makes Encode borrow one from an internal pool instead;
// supplying one avoids even that coordination, but a single
// EncodeBuffer must never be shared by concurrent calls.
type EncodeBuffer struct {
	s *pool.EncodeScratch
}

// NewEncodeBuffer returns a scratch buffer sized for one tile's
// encoding work.
func NewEncodeBuffer() *EncodeBuffer {
	return &EncodeBuffer{s: pool.NewEncodeScratch()}
}

// DecodeBuffer is a reusable per-call scratch buffer for Decode, with
// the same sharing rules as EncodeBuffer.
type DecodeBuffer struct {
	s *pool.DecodeScratch
}

// NewDecodeBuffer returns a scratch buffer sized for one tile's
// decoding work.
func NewDecodeBuffer() *DecodeBuffer {
	return &DecodeBuffer{s: pool.NewDecodeScratch()}
}
