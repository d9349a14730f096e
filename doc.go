// Package qoir implements a tile-based lossless image codec.
//
// An image is partitioned into 128x128 pixel tiles in row-major order.
// Each tile is independently coded as raw literals, a QOI-style opcode
// stream built on a 64-entry color cache and a left/above pixel
// predictor, or an LZ4-compressed form of either. If the opcode stream
// is not smaller than the raw literals, the choice is Literals or
// LZ4-Literals, otherwise Opcodes or LZ4-Opcodes; in both cases the LZ4
// form is taken only when it is strictly smaller than the opcode
// stream. The result is wrapped in a small chunked container: a QOIR
// header chunk naming the image's dimensions and pixel format, a
// single QPIX chunk holding every tile's payload back to back, and a
// QEND terminator.
//
// Encode and Decode are the two entry points; PixelBuffer describes an
// image's pixels in memory on either side of the call. DecodeConfig
// reads just the header. The stand-alone LZ4 block compressor used for
// tile payloads is also exposed, via LZ4BlockEncode and LZ4BlockDecode.
//
// Encode and Decode are safe to call concurrently as long as every
// call has its own scratch (supply distinct EncodeBuffer/DecodeBuffer
// values, or none). Decoding may additionally be split across disjoint
// horizontal bands of tile rows — see DecodeOptions.FirstTileRow.
package qoir
