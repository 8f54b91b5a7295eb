// Package ops implements the pixel operations layered on top of
// rimage.DynamicImage: affine transforms (rotate/flip by multiples of
// 90 degrees), color operations (invert/contrast/brighten/grayscale),
// and resampling (resize/blur/unsharpen/3x3 convolution). Per spec §1
// these are specified only at the signature level; their numerics
// follow original_source/imaging/affine.rs and colorops.rs, carried
// over into the pixel-variant dispatch pattern the rest of this module
// uses (one case per rimage.DynamicKind).
package ops

import "github.com/deepteams/raster/rimage"

// FlipHorizontal mirrors the image left-to-right.
func FlipHorizontal(dyn *rimage.DynamicImage) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	return remap(dyn, w, h, func(x, y int) (int, int) { return w - 1 - x, y })
}

// FlipVertical mirrors the image top-to-bottom.
func FlipVertical(dyn *rimage.DynamicImage) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	return remap(dyn, w, h, func(x, y int) (int, int) { return x, h - 1 - y })
}

// Rotate90 rotates the image 90 degrees clockwise, swapping dimensions.
func Rotate90(dyn *rimage.DynamicImage) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	out := newLike(dyn, h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copyPixel(dyn, x, y, out, h-1-y, x)
		}
	}
	return out
}

// Rotate180 rotates the image 180 degrees.
func Rotate180(dyn *rimage.DynamicImage) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	return remap(dyn, w, h, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y })
}

// Rotate270 rotates the image 270 degrees clockwise (90 counterclockwise).
func Rotate270(dyn *rimage.DynamicImage) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	out := newLike(dyn, h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copyPixel(dyn, x, y, out, y, w-1-x)
		}
	}
	return out
}

// remap allocates an outW x outH output image of the same variant as dyn
// and copies each source pixel (x,y) to xform(x,y), matching affine.rs's
// per-coordinate put_pixel loop.
func remap(dyn *rimage.DynamicImage, outW, outH int, xform func(x, y int) (int, int)) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	out := newLike(dyn, outW, outH)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := xform(x, y)
			copyPixel(dyn, x, y, out, dx, dy)
		}
	}
	return out
}

// newLike allocates a zero-filled DynamicImage of the same variant as
// src, sized w x h.
func newLike(src *rimage.DynamicImage, w, h int) *rimage.DynamicImage {
	switch src.Kind {
	case rimage.DynLuma8:
		return rimage.FromLuma(rimage.NewLumaImage(w, h))
	case rimage.DynLumaA8:
		return rimage.FromLumaA(rimage.NewLumaAImage(w, h))
	case rimage.DynRGB8:
		return rimage.FromRGB(rimage.NewRGBImage(w, h))
	default:
		return rimage.FromRGBA(rimage.NewRGBAImage(w, h))
	}
}

// copyPixel copies the pixel at (sx,sy) in src to (dx,dy) in dst; both
// must share the same DynamicKind.
func copyPixel(src *rimage.DynamicImage, sx, sy int, dst *rimage.DynamicImage, dx, dy int) {
	switch src.Kind {
	case rimage.DynLuma8:
		dst.Luma.Set(dx, dy, src.Luma.At(sx, sy))
	case rimage.DynLumaA8:
		dst.LumaA.Set(dx, dy, src.LumaA.At(sx, sy))
	case rimage.DynRGB8:
		dst.RGB.Set(dx, dy, src.RGB.At(sx, sy))
	default:
		dst.RGBA.Set(dx, dy, src.RGBA.At(sx, sy))
	}
}
