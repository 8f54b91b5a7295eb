package ppm

import (
	"bytes"
	"testing"

	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	im := rimage.NewRGBImage(2, 2)
	im.Set(0, 0, pixel.RGB{R: 1, G: 2, B: 3})
	im.Set(1, 0, pixel.RGB{R: 4, G: 5, B: 6})
	im.Set(0, 1, pixel.RGB{R: 7, G: 8, B: 9})
	im.Set(1, 1, pixel.RGB{R: 10, G: 11, B: 12})
	dyn := rimage.FromRGB(im)

	var buf bytes.Buffer
	if err := Encode(&buf, dyn); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	w, h := got.Dimensions()
	if w != 2 || h != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", w, h)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got.RGB.At(x, y) != im.At(x, y) {
				t.Errorf("pixel (%d,%d) = %+v, want %+v", x, y, got.RGB.At(x, y), im.At(x, y))
			}
		}
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("P5\n1 1\n255\n\x00")))
	if err == nil {
		t.Fatal("expected error for non-P6 magic")
	}
}

func TestDecodeSkipsCommentLine(t *testing.T) {
	data := []byte("P6\n# a comment\n1 1\n255\n\x01\x02\x03")
	got, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.RGB.At(0, 0) != (pixel.RGB{R: 1, G: 2, B: 3}) {
		t.Fatalf("pixel = %+v", got.RGB.At(0, 0))
	}
}
