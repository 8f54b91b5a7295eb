// Package ppm implements the plain PPM (P6) sink format: encode is
// required as a save target (spec §6); decode is supplemented from
// original_source/ppm.rs, which reads P6 as well as writing it.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

// Encode writes dyn as a binary PPM (P6) with maxval 255. PPM has no
// alpha or grey sub-format of its own, so non-RGB8 images are converted
// to RGB8 first: grey is replicated into R, G and B, and alpha is dropped.
func Encode(w io.Writer, dyn *rimage.DynamicImage) error {
	width, height := dyn.Dimensions()
	rgb := dyn
	if dyn.Kind != rimage.DynRGB8 {
		rgb = toRGB(dyn)
	}

	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	_, err := w.Write(rgb.RawPixels())
	return err
}

func toRGB(dyn *rimage.DynamicImage) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	out := rimage.NewRGBImage(w, h)
	switch dyn.Kind {
	case rimage.DynLuma8:
		for i, p := range dyn.Luma.Pixels {
			out.Pixels[i] = pixel.RGB{R: p.Y, G: p.Y, B: p.Y}
		}
	case rimage.DynLumaA8:
		for i, p := range dyn.LumaA.Pixels {
			out.Pixels[i] = pixel.RGB{R: p.Y, G: p.Y, B: p.Y}
		}
	default: // DynRGBA8
		for i, p := range dyn.RGBA.Pixels {
			out.Pixels[i] = pixel.RGB{R: p.R, G: p.G, B: p.B}
		}
	}
	return rimage.FromRGB(out)
}

// Decode reads a binary PPM (P6) stream into an RGB8 DynamicImage.
func Decode(r io.Reader) (*rimage.DynamicImage, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil {
		return nil, err
	}
	if magic != "P6" {
		return nil, core.New(core.FormatError, "missing P6 magic")
	}
	width, err := readIntToken(br)
	if err != nil {
		return nil, err
	}
	height, err := readIntToken(br)
	if err != nil {
		return nil, err
	}
	maxval, err := readIntToken(br)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, core.New(core.DimensionError, "zero width or height")
	}
	if maxval != 255 {
		return nil, core.New(core.UnsupportedColorError, "only maxval 255 is supported")
	}

	raw := make([]byte, width*height*3)
	if _, err := io.ReadFull(br, raw); err != nil {
		return nil, core.Wrap(core.NotEnoughData, "reading ppm pixel data", err)
	}
	return rimage.FromBytes(raw, width, height, pixel.ColorType{Kind: pixel.RGBKind, Depth: 8})
}

// readToken skips whitespace and '#' comment lines, then reads one
// whitespace-delimited token, per the PPM "plain header" grammar.
func readToken(br *bufio.Reader) (string, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", core.Wrap(core.NotEnoughData, "reading ppm header", err)
		}
		if b == '#' {
			if _, err := br.ReadString('\n'); err != nil {
				return "", core.Wrap(core.NotEnoughData, "reading ppm comment", err)
			}
			continue
		}
		if isSpace(b) {
			continue
		}
		var tok []byte
		tok = append(tok, b)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return string(tok), nil
			}
			if isSpace(b) {
				break
			}
			tok = append(tok, b)
		}
		return string(tok), nil
	}
}

func readIntToken(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, core.Wrap(core.FormatError, "parsing ppm header integer", err)
	}
	return n, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
