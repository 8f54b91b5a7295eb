package rimage

import "github.com/deepteams/raster/pixel"

// SubImage is a non-owning window into a parent DynamicImage, dispatched
// across all four pixel variants the same way ops/affine.go and
// ops/colorops.go dispatch their per-pixel operations (one case per
// DynamicKind). Window-local coordinates passed to its channels and
// setChannels accessors are translated into the parent's coordinate
// space. Invariant: the window fits entirely inside the parent (spec
// §3, §4.H).
type SubImage struct {
	Parent           *DynamicImage
	XOff, YOff, W, H int
}

// NewSubImage validates that the requested window fits inside parent and
// returns a view over it, regardless of parent's pixel variant.
func NewSubImage(parent *DynamicImage, xoff, yoff, w, h int) (*SubImage, error) {
	pw, ph := parent.Dimensions()
	if xoff < 0 || yoff < 0 || w < 0 || h < 0 || xoff+w > pw || yoff+h > ph {
		return nil, ErrDimension{Op: "sub_image", W: w, H: h}
	}
	return &SubImage{parent, xoff, yoff, w, h}, nil
}

func (s *SubImage) Dimensions() (int, int) { return s.W, s.H }

// channels returns the pixel at (x,y) (in window-local coordinates) as
// up to 4 samples in the parent's natural channel order, zero-padded for
// variants with fewer channels.
func (s *SubImage) channels(x, y int) [4]uint8 {
	px, py := x+s.XOff, y+s.YOff
	switch s.Parent.Kind {
	case DynLuma8:
		p := s.Parent.Luma.At(px, py)
		return [4]uint8{p.Y, 0, 0, 0}
	case DynLumaA8:
		p := s.Parent.LumaA.At(px, py)
		return [4]uint8{p.Y, p.A, 0, 0}
	case DynRGB8:
		p := s.Parent.RGB.At(px, py)
		return [4]uint8{p.R, p.G, p.B, 0}
	default:
		p := s.Parent.RGBA.At(px, py)
		return [4]uint8{p.R, p.G, p.B, p.A}
	}
}

// setChannels writes v back to the parent at (x,y) (window-local),
// reading only as many entries of v as the parent's variant has
// channels.
func (s *SubImage) setChannels(x, y int, v [4]uint8) {
	px, py := x+s.XOff, y+s.YOff
	switch s.Parent.Kind {
	case DynLuma8:
		s.Parent.Luma.Set(px, py, pixel.Luma{Y: v[0]})
	case DynLumaA8:
		s.Parent.LumaA.Set(px, py, pixel.LumaA{Y: v[0], A: v[1]})
	case DynRGB8:
		s.Parent.RGB.Set(px, py, pixel.RGB{R: v[0], G: v[1], B: v[2]})
	default:
		s.Parent.RGBA.Set(px, py, pixel.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]})
	}
}

// ToImage promotes the view to an owned DynamicImage of the same variant
// as its parent, by copying its pixels.
func (s *SubImage) ToImage() *DynamicImage {
	out := newDynLike(s.Parent, s.W, s.H)
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			setDynChannels(out, x, y, s.channels(x, y))
		}
	}
	return out
}

// newDynLike allocates a zero-filled DynamicImage of the same variant as
// src, sized w x h.
func newDynLike(src *DynamicImage, w, h int) *DynamicImage {
	switch src.Kind {
	case DynLuma8:
		return FromLuma(NewLumaImage(w, h))
	case DynLumaA8:
		return FromLumaA(NewLumaAImage(w, h))
	case DynRGB8:
		return FromRGB(NewRGBImage(w, h))
	default:
		return FromRGBA(NewRGBAImage(w, h))
	}
}

// setDynChannels writes v to dyn at (x,y), reading only as many entries
// of v as dyn's variant has channels.
func setDynChannels(dyn *DynamicImage, x, y int, v [4]uint8) {
	switch dyn.Kind {
	case DynLuma8:
		dyn.Luma.Set(x, y, pixel.Luma{Y: v[0]})
	case DynLumaA8:
		dyn.LumaA.Set(x, y, pixel.LumaA{Y: v[0], A: v[1]})
	case DynRGB8:
		dyn.RGB.Set(x, y, pixel.RGB{R: v[0], G: v[1], B: v[2]})
	default:
		dyn.RGBA.Set(x, y, pixel.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]})
	}
}

// RGBSubImage is a non-owning window into a parent RGBImage, kept
// alongside the generic SubImage above for callers that already hold a
// concrete *RGBImage rather than a *DynamicImage.
type RGBSubImage struct {
	Parent           *RGBImage
	XOff, YOff, W, H int
}

// NewRGBSubImage validates that the requested window fits inside parent
// and returns a view over it.
func NewRGBSubImage(parent *RGBImage, xoff, yoff, w, h int) (*RGBSubImage, error) {
	if xoff < 0 || yoff < 0 || w < 0 || h < 0 || xoff+w > parent.Width || yoff+h > parent.Height {
		return nil, ErrDimension{Op: "sub_image", W: w, H: h}
	}
	return &RGBSubImage{parent, xoff, yoff, w, h}, nil
}

func (s *RGBSubImage) Dimensions() (int, int) { return s.W, s.H }

func (s *RGBSubImage) At(x, y int) pixel.RGB {
	return s.Parent.At(x+s.XOff, y+s.YOff)
}

func (s *RGBSubImage) Set(x, y int, p pixel.RGB) {
	s.Parent.Set(x+s.XOff, y+s.YOff, p)
}

// ToImage promotes the view to an owned image by copying its pixels.
func (s *RGBSubImage) ToImage() *RGBImage {
	out := NewRGBImage(s.W, s.H)
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			out.Set(x, y, s.At(x, y))
		}
	}
	return out
}

// ErrDimension reports an out-of-bounds window or crop request (spec §6
// DimensionError).
type ErrDimension struct {
	Op   string
	W, H int
}

func (e ErrDimension) Error() string {
	return "rimage: " + e.Op + ": dimensions out of bounds"
}
