package qoir

import (
	"errors"

	"github.com/deepteams/qoir/internal/lz4"
	"github.com/deepteams/qoir/internal/tiler"
)

// Kind classifies every error this package returns. The associated
// message strings are stable: callers may match on either the Kind or
// the exact string.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindInvalidData
	KindOutOfMemory
	KindUnsupportedPixbuf
	KindUnsupportedPixbufDimensions
	KindUnsupportedPixfmt
	KindUnsupportedTileFormat
	KindLZ4DstIsTooShort
	KindLZ4InvalidData
	KindLZ4SrcIsTooLong
)

// String returns the Kind's stable message.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "#qoir: invalid argument"
	case KindInvalidData:
		return "#qoir: invalid data"
	case KindOutOfMemory:
		return "#qoir: out of memory"
	case KindUnsupportedPixbuf:
		return "#qoir: unsupported pixbuf"
	case KindUnsupportedPixbufDimensions:
		return "#qoir: unsupported pixbuf dimensions"
	case KindUnsupportedPixfmt:
		return "#qoir: unsupported pixfmt"
	case KindUnsupportedTileFormat:
		return "#qoir: unsupported tile format"
	case KindLZ4DstIsTooShort:
		return "#qoir/lz4: dst is too short"
	case KindLZ4InvalidData:
		return "#qoir/lz4: invalid data"
	case KindLZ4SrcIsTooLong:
		return "#qoir/lz4: src is too long"
	}
	return "#qoir: unknown error"
}

// Error is the concrete error type returned by every entry point. Its
// message is exactly the Kind's stable string; Unwrap exposes the
// lower-level cause, when one exists, for errors.Is chains against the
// internal sentinels.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Kind.String() }

func (e *Error) Unwrap() error { return e.Err }

func errKind(k Kind) *Error { return &Error{Kind: k} }

// mapTilerErr translates an internal/tiler sentinel into the Kind a
// caller of this package can switch on.
func mapTilerErr(err error) *Error {
	kind := KindInvalidData
	if errors.Is(err, tiler.ErrUnsupportedFormat) {
		kind = KindUnsupportedTileFormat
	}
	return &Error{Kind: kind, Err: err}
}

// mapLZ4Err translates an internal/lz4 sentinel into its Kind.
func mapLZ4Err(err error) *Error {
	kind := KindLZ4InvalidData
	switch {
	case errors.Is(err, lz4.ErrDstTooShort):
		kind = KindLZ4DstIsTooShort
	case errors.Is(err, lz4.ErrSrcTooLong):
		kind = KindLZ4SrcIsTooLong
	}
	return &Error{Kind: kind, Err: err}
}
