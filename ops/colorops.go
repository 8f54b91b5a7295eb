package ops

import (
	"math"

	"github.com/deepteams/raster/rimage"
)

// Invert negates every channel of dyn in place, leaving alpha untouched,
// mirroring colorops.rs's in-place invert.
func Invert(dyn *rimage.DynamicImage) {
	switch dyn.Kind {
	case rimage.DynLuma8:
		for i := range dyn.Luma.Pixels {
			dyn.Luma.Pixels[i].Invert()
		}
	case rimage.DynLumaA8:
		for i := range dyn.LumaA.Pixels {
			dyn.LumaA.Pixels[i].Invert()
		}
	case rimage.DynRGB8:
		for i := range dyn.RGB.Pixels {
			dyn.RGB.Pixels[i].Invert()
		}
	default:
		for i := range dyn.RGBA.Pixels {
			dyn.RGBA.Pixels[i].Invert()
		}
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// contrastFactor returns the squared percent scaling colorops.rs
// derives from a contrast amount in [-100, 100].
func contrastFactor(amount float32) float64 {
	return math.Pow((100.0+float64(amount))/100.0, 2)
}

// Contrast returns a new image with each channel scaled around the
// midpoint by amount, per colorops.rs's contrast().
func Contrast(dyn *rimage.DynamicImage, amount float32) *rimage.DynamicImage {
	percent := contrastFactor(amount)
	f := func(b uint8) uint8 {
		c := float64(b)
		d := (c/255.0-0.5)*percent + 0.5
		return clampByte(d * 255.0)
	}
	return mapChannels(dyn, f)
}

// Brighten returns a new image with delta added to each channel,
// clamped to the valid byte range, per colorops.rs's brighten().
func Brighten(dyn *rimage.DynamicImage, delta int) *rimage.DynamicImage {
	f := func(b uint8) uint8 {
		v := int(b) + delta
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return mapChannels(dyn, f)
}

// Grayscale converts dyn to a LumaImage using the shared Rec.601-ish
// coefficients, per colorops.rs's grayscale().
func Grayscale(dyn *rimage.DynamicImage) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	out := rimage.NewLumaImage(w, h)
	switch dyn.Kind {
	case rimage.DynLuma8:
		copy(out.Pixels, dyn.Luma.Pixels)
	case rimage.DynLumaA8:
		for i, p := range dyn.LumaA.Pixels {
			out.Pixels[i] = p.ToLuma()
		}
	case rimage.DynRGB8:
		for i, p := range dyn.RGB.Pixels {
			out.Pixels[i] = p.ToLuma()
		}
	default:
		for i, p := range dyn.RGBA.Pixels {
			out.Pixels[i] = p.ToLuma()
		}
	}
	return rimage.FromLuma(out)
}

// mapChannels applies f to every non-alpha channel of every pixel,
// dispatching across the DynamicImage variant.
func mapChannels(dyn *rimage.DynamicImage, f func(uint8) uint8) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	switch dyn.Kind {
	case rimage.DynLuma8:
		out := rimage.NewLumaImage(w, h)
		for i, p := range dyn.Luma.Pixels {
			out.Pixels[i] = p.MapLuma(f)
		}
		return rimage.FromLuma(out)
	case rimage.DynLumaA8:
		out := rimage.NewLumaAImage(w, h)
		for i, p := range dyn.LumaA.Pixels {
			out.Pixels[i] = p.MapLumaA(f)
		}
		return rimage.FromLumaA(out)
	case rimage.DynRGB8:
		out := rimage.NewRGBImage(w, h)
		for i, p := range dyn.RGB.Pixels {
			out.Pixels[i] = p.MapRGB(f)
		}
		return rimage.FromRGB(out)
	default:
		out := rimage.NewRGBAImage(w, h)
		for i, p := range dyn.RGBA.Pixels {
			out.Pixels[i] = p.MapRGBA(f)
		}
		return rimage.FromRGBA(out)
	}
}
