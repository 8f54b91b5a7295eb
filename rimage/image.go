// Package rimage implements the uniform in-memory image container: an
// owned pixel buffer parameterized by pixel type, a non-owning
// sub-image view, and a dynamic image variant used at API boundaries.
package rimage

import (
	"fmt"

	"github.com/deepteams/raster/pixel"
)

// ErrUnsupportedColor is returned when marshaling raw bytes into typed
// pixels for a color depth this container does not model (spec §4.H).
var ErrUnsupportedColor = fmt.Errorf("rimage: unsupported color depth")

// LumaImage, LumaAImage, RGBImage and RGBAImage are owned pixel buffers.
// Invariant: len(Pixels) == Width*Height (spec §3).
type LumaImage struct {
	Pixels        []pixel.Luma
	Width, Height int
}

type LumaAImage struct {
	Pixels        []pixel.LumaA
	Width, Height int
}

type RGBImage struct {
	Pixels        []pixel.RGB
	Width, Height int
}

type RGBAImage struct {
	Pixels        []pixel.RGBA
	Width, Height int
}

// NewLumaImage allocates a w*h image filled with the zero pixel.
func NewLumaImage(w, h int) *LumaImage { return &LumaImage{make([]pixel.Luma, w*h), w, h} }
func NewLumaAImage(w, h int) *LumaAImage {
	return &LumaAImage{make([]pixel.LumaA, w*h), w, h}
}
func NewRGBImage(w, h int) *RGBImage { return &RGBImage{make([]pixel.RGB, w*h), w, h} }
func NewRGBAImage(w, h int) *RGBAImage {
	return &RGBAImage{make([]pixel.RGBA, w*h), w, h}
}

// index converts (x,y) to a flat offset with no row padding.
func index(width, x, y int) int { return y*width + x }

func (im *LumaImage) At(x, y int) pixel.Luma   { return im.Pixels[index(im.Width, x, y)] }
func (im *LumaAImage) At(x, y int) pixel.LumaA { return im.Pixels[index(im.Width, x, y)] }
func (im *RGBImage) At(x, y int) pixel.RGB     { return im.Pixels[index(im.Width, x, y)] }
func (im *RGBAImage) At(x, y int) pixel.RGBA   { return im.Pixels[index(im.Width, x, y)] }

func (im *LumaImage) Set(x, y int, p pixel.Luma)   { im.Pixels[index(im.Width, x, y)] = p }
func (im *LumaAImage) Set(x, y int, p pixel.LumaA) { im.Pixels[index(im.Width, x, y)] = p }
func (im *RGBImage) Set(x, y int, p pixel.RGB)     { im.Pixels[index(im.Width, x, y)] = p }
func (im *RGBAImage) Set(x, y int, p pixel.RGBA)   { im.Pixels[index(im.Width, x, y)] = p }

func (im *LumaImage) Dimensions() (int, int)  { return im.Width, im.Height }
func (im *LumaAImage) Dimensions() (int, int) { return im.Width, im.Height }
func (im *RGBImage) Dimensions() (int, int)   { return im.Width, im.Height }
func (im *RGBAImage) Dimensions() (int, int)  { return im.Width, im.Height }

// NewRGBImageFromPixel returns a w*h image filled with a single pixel,
// per spec §4.H's "construct-from-single-pixel" operation.
func NewRGBImageFromPixel(w, h int, p pixel.RGB) *RGBImage {
	im := NewRGBImage(w, h)
	for i := range im.Pixels {
		im.Pixels[i] = p
	}
	return im
}
