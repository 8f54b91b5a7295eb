package raster

import (
	"bytes"
	"testing"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

func TestFormatFromExtRecognizesKnownExtensions(t *testing.T) {
	cases := map[string]Format{
		"photo.JPG":  JPEG,
		"photo.jpeg": JPEG,
		"icon.png":   PNG,
		"anim.gif":   GIF,
		"pic.webp":   WEBP,
	}
	for path, want := range cases {
		got, err := formatFromExt(path)
		if err != nil {
			t.Fatalf("formatFromExt(%q): %v", path, err)
		}
		if got != want {
			t.Errorf("formatFromExt(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFormatFromExtRejectsUnknown(t *testing.T) {
	_, err := formatFromExt("document.txt")
	if err == nil {
		t.Fatal("expected error for unrecognized extension")
	}
	ie, ok := err.(*core.ImageError)
	if !ok || ie.Kind != core.UnsupportedError {
		t.Fatalf("got %v, want UnsupportedError", err)
	}
}

func TestSaveGIFIsUnsupported(t *testing.T) {
	im := rimage.NewRGBImage(1, 1)
	im.Set(0, 0, pixel.RGB{R: 1, G: 2, B: 3})
	dyn := rimage.FromRGB(im)

	var buf bytes.Buffer
	err := Save(&buf, dyn, GIF)
	if err == nil {
		t.Fatal("expected UnsupportedError saving GIF")
	}
	ie, ok := err.(*core.ImageError)
	if !ok || ie.Kind != core.UnsupportedError {
		t.Fatalf("got %v, want UnsupportedError", err)
	}
}

func TestSavePPMThenLoadRoundTrips(t *testing.T) {
	im := rimage.NewRGBImage(2, 1)
	im.Set(0, 0, pixel.RGB{R: 10, G: 20, B: 30})
	im.Set(1, 0, pixel.RGB{R: 40, G: 50, B: 60})
	dyn := rimage.FromRGB(im)

	var buf bytes.Buffer
	if err := Save(&buf, dyn, PPM); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(&buf, PPM)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, h := got.Dimensions()
	if w != 2 || h != 1 {
		t.Fatalf("dims = %dx%d, want 2x1", w, h)
	}
	if got.RGB.At(0, 0) != (pixel.RGB{R: 10, G: 20, B: 30}) {
		t.Fatalf("pixel (0,0) = %+v", got.RGB.At(0, 0))
	}
	if got.RGB.At(1, 0) != (pixel.RGB{R: 40, G: 50, B: 60}) {
		t.Fatalf("pixel (1,0) = %+v", got.RGB.At(1, 0))
	}
}
