// Command qoirconv converts between QOIR and PNG images.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/deepteams/qoir"
)

func main() {
	lossiness := flag.Int("lossiness", 0, "accepted for compatibility; this codec is always lossless")
	dither := flag.Bool("dither", false, "accepted for compatibility; this codec is always lossless")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: qoirconv [--lossiness=0..7] [--dither] <src> <dst>")
		flag.PrintDefaults()
	}
	flag.Parse()
	_, _ = *lossiness, *dither

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "qoirconv: %v\n", err)
		os.Exit(1)
	}
}

func run(srcPath, dstPath string) error {
	src, err := readAll(srcPath)
	if err != nil {
		return err
	}
	if len(src) == 0 {
		return errors.New("empty input")
	}

	switch src[0] {
	case 'Q':
		return qoirToPNG(src, dstPath)
	case 0x89:
		return pngToQOIR(src, dstPath)
	default:
		return fmt.Errorf("unrecognized input format (first byte 0x%02x)", src[0])
	}
}

func qoirToPNG(src []byte, dstPath string) error {
	buf, err := qoir.Decode(src, &qoir.DecodeOptions{PixelFormat: qoir.PixelFormatRGBANonPremul})
	if err != nil {
		return err
	}

	img := image.NewNRGBA(image.Rect(0, 0, buf.PixelConfig.Width, buf.PixelConfig.Height))
	if buf.Stride == img.Stride {
		copy(img.Pix, buf.Pixels)
	} else {
		for y := 0; y < buf.PixelConfig.Height; y++ {
			copy(img.Pix[y*img.Stride:], buf.Pixels[y*buf.Stride:(y+1)*buf.Stride])
		}
	}

	w, err := create(dstPath)
	if err != nil {
		return err
	}
	defer w.Close()
	return png.Encode(w, img)
}

func pngToQOIR(src []byte, dstPath string) error {
	img, err := png.Decode(bytes.NewReader(src))
	if err != nil {
		return err
	}

	b := img.Bounds()
	nrgba := image.NewNRGBA(b)
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	pb := qoir.PixelBuffer{
		Pixels: nrgba.Pix,
		Stride: nrgba.Stride,
		PixelConfig: qoir.PixelConfig{
			PixelFormat: qoir.PixelFormatRGBANonPremul,
			Width:       b.Dx(),
			Height:      b.Dy(),
		},
	}

	data, err := qoir.Encode(&pb, nil)
	if err != nil {
		return err
	}
	return writeAll(dstPath, data)
}

func readAll(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeAll(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
