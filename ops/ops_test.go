package ops

import (
	"testing"

	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

func sampleRGB() *rimage.DynamicImage {
	im := rimage.NewRGBImage(2, 2)
	im.Set(0, 0, pixel.RGB{R: 1, G: 2, B: 3})
	im.Set(1, 0, pixel.RGB{R: 4, G: 5, B: 6})
	im.Set(0, 1, pixel.RGB{R: 7, G: 8, B: 9})
	im.Set(1, 1, pixel.RGB{R: 10, G: 11, B: 12})
	return rimage.FromRGB(im)
}

func TestRotate90FourTimesIsIdentity(t *testing.T) {
	orig := sampleRGB()
	got := orig
	for i := 0; i < 4; i++ {
		got = Rotate90(got)
	}
	w, h := got.Dimensions()
	ow, oh := orig.Dimensions()
	if w != ow || h != oh {
		t.Fatalf("dimensions changed: got %dx%d, want %dx%d", w, h, ow, oh)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if got.RGB.At(x, y) != orig.RGB.At(x, y) {
				t.Fatalf("pixel (%d,%d) mismatch after 4x rotate90", x, y)
			}
		}
	}
}

func TestRotate180TwiceIsIdentity(t *testing.T) {
	orig := sampleRGB()
	got := Rotate180(Rotate180(orig))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got.RGB.At(x, y) != orig.RGB.At(x, y) {
				t.Fatalf("pixel (%d,%d) mismatch after 2x rotate180", x, y)
			}
		}
	}
}

func TestFlipHorizontalTwiceIsIdentity(t *testing.T) {
	orig := sampleRGB()
	got := FlipHorizontal(FlipHorizontal(orig))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got.RGB.At(x, y) != orig.RGB.At(x, y) {
				t.Fatalf("pixel (%d,%d) mismatch after 2x flip_horizontal", x, y)
			}
		}
	}
}

func TestFlipVerticalTwiceIsIdentity(t *testing.T) {
	orig := sampleRGB()
	got := FlipVertical(FlipVertical(orig))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got.RGB.At(x, y) != orig.RGB.At(x, y) {
				t.Fatalf("pixel (%d,%d) mismatch after 2x flip_vertical", x, y)
			}
		}
	}
}

func TestInvertTwiceIsIdentity(t *testing.T) {
	dyn := sampleRGB()
	before := append([]pixel.RGB(nil), dyn.RGB.Pixels...)
	Invert(dyn)
	Invert(dyn)
	for i, p := range dyn.RGB.Pixels {
		if p != before[i] {
			t.Fatalf("pixel %d mismatch after 2x invert", i)
		}
	}
}

func TestGrayscaleProducesLumaImage(t *testing.T) {
	dyn := sampleRGB()
	gray := Grayscale(dyn)
	if gray.Kind != rimage.DynLuma8 {
		t.Fatalf("Grayscale kind = %v, want DynLuma8", gray.Kind)
	}
	w, h := gray.Dimensions()
	if w != 2 || h != 2 {
		t.Fatalf("Grayscale dims = %dx%d, want 2x2", w, h)
	}
}

func TestBrightenClampsToByteRange(t *testing.T) {
	dyn := sampleRGB()
	bright := Brighten(dyn, 1000)
	for _, p := range bright.RGB.Pixels {
		if p.R != 255 || p.G != 255 || p.B != 255 {
			t.Fatalf("Brighten(1000) did not clamp: got %+v", p)
		}
	}
}

func TestResizeNearestNeighborPreservesCorner(t *testing.T) {
	dyn := sampleRGB()
	resized := Resize(dyn, 4, 4)
	if resized.RGB.At(0, 0) != dyn.RGB.At(0, 0) {
		t.Fatalf("Resize corner pixel changed: got %+v, want %+v", resized.RGB.At(0, 0), dyn.RGB.At(0, 0))
	}
}

func TestBlurRadiusZeroIsClone(t *testing.T) {
	dyn := sampleRGB()
	blurred := Blur(dyn, 0)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if blurred.RGB.At(x, y) != dyn.RGB.At(x, y) {
				t.Fatalf("Blur(0) changed pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestFilter3x3IdentityKernel(t *testing.T) {
	dyn := sampleRGB()
	identity := [9]float64{0, 0, 0, 0, 1, 0, 0, 0, 0}
	out := Filter3x3(dyn, identity)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if out.RGB.At(x, y) != dyn.RGB.At(x, y) {
				t.Fatalf("identity kernel changed pixel (%d,%d)", x, y)
			}
		}
	}
}
