package qoir

import "github.com/deepteams/qoir/internal/lz4"

// The LZ4 block codec is exposed stand-alone: it is a general-purpose
// byte compressor, not limited to image payloads. The block format has
// no frame header and no end marker — a block ends when its bytes are
// consumed.

// LZ4BlockWorstCaseDstLen returns the maximum number of bytes
// LZ4BlockEncode can write for srcLen input bytes, or
// KindLZ4SrcIsTooLong if srcLen exceeds the supported bound
// (0x7E000000).
func LZ4BlockWorstCaseDstLen(srcLen int) (int, error) {
	n, err := lz4.WorstCaseSize(srcLen)
	if err != nil {
		return 0, mapLZ4Err(err)
	}
	return n, nil
}

// LZ4BlockEncode compresses src into dst and returns the number of
// bytes written. dst must be at least LZ4BlockWorstCaseDstLen(len(src))
// bytes long — the call fails with KindLZ4DstIsTooShort even when the
// realized compression would have fit in less.
func LZ4BlockEncode(dst, src []byte) (int, error) {
	n, err := lz4.Encode(dst, src)
	if err != nil {
		return 0, mapLZ4Err(err)
	}
	return n, nil
}

// LZ4BlockDecode decompresses src into dst and returns the number of
// bytes written. It fails with KindLZ4DstIsTooShort if dst cannot hold
// the full output, KindLZ4SrcIsTooLong if len(src) exceeds 0x00FFFFFF,
// and KindLZ4InvalidData on a malformed block.
func LZ4BlockDecode(dst, src []byte) (int, error) {
	n, err := lz4.Decode(dst, src)
	if err != nil {
		return 0, mapLZ4Err(err)
	}
	return n, nil
}
