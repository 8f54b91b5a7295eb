package ops

import (
	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

// Resize scales dyn to width x height using nearest-neighbor sampling,
// grounded on the simple ratio-based resizeImage found across the
// retrieval pack's image-processing tools.
func Resize(dyn *rimage.DynamicImage, width, height int) *rimage.DynamicImage {
	srcW, srcH := dyn.Dimensions()
	out := newLike(dyn, width, height)
	xRatio := float64(srcW) / float64(width)
	yRatio := float64(srcH) / float64(height)

	for y := 0; y < height; y++ {
		sy := int(float64(y) * yRatio)
		if sy >= srcH {
			sy = srcH - 1
		}
		for x := 0; x < width; x++ {
			sx := int(float64(x) * xRatio)
			if sx >= srcW {
				sx = srcW - 1
			}
			copyPixel(dyn, sx, sy, out, x, y)
		}
	}
	return out
}

// Blur applies a (2*radius+1) square box blur, used directly as Blur
// and as the low-pass stage of Unsharpen.
func Blur(dyn *rimage.DynamicImage, radius int) *rimage.DynamicImage {
	if radius <= 0 {
		return dyn.Clone()
	}
	w, h := dyn.Dimensions()
	out := newLike(dyn, w, h)
	n := dyn.Color().Channels()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			count := 0
			for dy := -radius; dy <= radius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					for c, v := range channelsAt(dyn, nx, ny) {
						sum[c] += int(v)
					}
					count++
				}
			}
			var avg [4]uint8
			for c := 0; c < n; c++ {
				avg[c] = uint8(sum[c] / count)
			}
			setChannels(out, x, y, avg)
		}
	}
	return out
}

// Unsharpen sharpens dyn by boosting the difference between it and a
// blurred copy of itself, the standard unsharp-mask formula:
// out = original + amount*(original - blurred).
func Unsharpen(dyn *rimage.DynamicImage, radius int, amount float64) *rimage.DynamicImage {
	blurred := Blur(dyn, radius)
	w, h := dyn.Dimensions()
	out := newLike(dyn, w, h)
	n := dyn.Color().Channels()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			orig := channelsAt(dyn, x, y)
			low := channelsAt(blurred, x, y)
			var v [4]uint8
			for c := 0; c < n; c++ {
				d := float64(orig[c]) + amount*(float64(orig[c])-float64(low[c]))
				v[c] = clampByte(d)
			}
			setChannels(out, x, y, v)
		}
	}
	return out
}

// Filter3x3 convolves dyn with a 3x3 kernel, clamping each output
// channel to the valid byte range. Out-of-bounds samples are clamped
// to the nearest edge pixel.
func Filter3x3(dyn *rimage.DynamicImage, kernel [9]float64) *rimage.DynamicImage {
	w, h := dyn.Dimensions()
	out := newLike(dyn, w, h)
	n := dyn.Color().Channels()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]float64
			k := 0
			for dy := -1; dy <= 1; dy++ {
				ny := clampCoord(y+dy, h)
				for dx := -1; dx <= 1; dx++ {
					nx := clampCoord(x+dx, w)
					ch := channelsAt(dyn, nx, ny)
					for c := 0; c < n; c++ {
						acc[c] += float64(ch[c]) * kernel[k]
					}
					k++
				}
			}
			var v [4]uint8
			for c := 0; c < n; c++ {
				v[c] = clampByte(acc[c])
			}
			setChannels(out, x, y, v)
		}
	}
	return out
}

func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}

// channelsAt returns the pixel at (x,y) as a fixed-size channel array,
// zero-padded past the image's actual channel count.
func channelsAt(dyn *rimage.DynamicImage, x, y int) [4]uint8 {
	var out [4]uint8
	switch dyn.Kind {
	case rimage.DynLuma8:
		copy(out[:], dyn.Luma.At(x, y).Channels())
	case rimage.DynLumaA8:
		copy(out[:], dyn.LumaA.At(x, y).Channels())
	case rimage.DynRGB8:
		copy(out[:], dyn.RGB.At(x, y).Channels())
	default:
		copy(out[:], dyn.RGBA.At(x, y).Channels())
	}
	return out
}

func setChannels(dyn *rimage.DynamicImage, x, y int, v [4]uint8) {
	switch dyn.Kind {
	case rimage.DynLuma8:
		dyn.Luma.Set(x, y, pixel.Luma{Y: v[0]})
	case rimage.DynLumaA8:
		dyn.LumaA.Set(x, y, pixel.LumaA{Y: v[0], A: v[1]})
	case rimage.DynRGB8:
		dyn.RGB.Set(x, y, pixel.RGB{R: v[0], G: v[1], B: v[2]})
	default:
		dyn.RGBA.Set(x, y, pixel.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]})
	}
}
