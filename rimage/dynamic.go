package rimage

import "github.com/deepteams/raster/pixel"

// DynamicKind tags which concrete owned-image type a DynamicImage holds.
type DynamicKind uint8

const (
	DynLuma8 DynamicKind = iota
	DynLumaA8
	DynRGB8
	DynRGBA8
)

// DynamicImage is a tagged union over the four 8-bit owned-image types
// (spec §3, §4.H). Exactly one of the pointer fields is non-nil,
// selected by Kind.
type DynamicImage struct {
	Kind  DynamicKind
	Luma  *LumaImage
	LumaA *LumaAImage
	RGB   *RGBImage
	RGBA  *RGBAImage
}

func FromLuma(im *LumaImage) *DynamicImage   { return &DynamicImage{Kind: DynLuma8, Luma: im} }
func FromLumaA(im *LumaAImage) *DynamicImage { return &DynamicImage{Kind: DynLumaA8, LumaA: im} }
func FromRGB(im *RGBImage) *DynamicImage     { return &DynamicImage{Kind: DynRGB8, RGB: im} }
func FromRGBA(im *RGBAImage) *DynamicImage   { return &DynamicImage{Kind: DynRGBA8, RGBA: im} }

// Dimensions returns the image's width and height regardless of variant.
func (d *DynamicImage) Dimensions() (int, int) {
	switch d.Kind {
	case DynLuma8:
		return d.Luma.Dimensions()
	case DynLumaA8:
		return d.LumaA.Dimensions()
	case DynRGB8:
		return d.RGB.Dimensions()
	default:
		return d.RGBA.Dimensions()
	}
}

// Color reports the DynamicImage's color type tag.
func (d *DynamicImage) Color() pixel.ColorType {
	switch d.Kind {
	case DynLuma8:
		return pixel.ColorType{Kind: pixel.Grey, Depth: 8}
	case DynLumaA8:
		return pixel.ColorType{Kind: pixel.GreyA, Depth: 8}
	case DynRGB8:
		return pixel.ColorType{Kind: pixel.RGBKind, Depth: 8}
	default:
		return pixel.ColorType{Kind: pixel.RGBAKind, Depth: 8}
	}
}

// RawPixels returns the image's pixels as byte-interleaved samples in
// natural channel order (spec §4.H).
func (d *DynamicImage) RawPixels() []byte {
	switch d.Kind {
	case DynLuma8:
		out := make([]byte, len(d.Luma.Pixels))
		for i, p := range d.Luma.Pixels {
			out[i] = p.Y
		}
		return out
	case DynLumaA8:
		out := make([]byte, len(d.LumaA.Pixels)*2)
		for i, p := range d.LumaA.Pixels {
			out[i*2], out[i*2+1] = p.Y, p.A
		}
		return out
	case DynRGB8:
		out := make([]byte, len(d.RGB.Pixels)*3)
		for i, p := range d.RGB.Pixels {
			out[i*3], out[i*3+1], out[i*3+2] = p.R, p.G, p.B
		}
		return out
	default:
		out := make([]byte, len(d.RGBA.Pixels)*4)
		for i, p := range d.RGBA.Pixels {
			out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = p.R, p.G, p.B, p.A
		}
		return out
	}
}

// Clone deep-copies the pixel buffer so concurrent save operations never
// observe a mutation of the source (spec §5: "this requires that save
// not mutate the source").
func (d *DynamicImage) Clone() *DynamicImage {
	switch d.Kind {
	case DynLuma8:
		px := append([]pixel.Luma(nil), d.Luma.Pixels...)
		return FromLuma(&LumaImage{px, d.Luma.Width, d.Luma.Height})
	case DynLumaA8:
		px := append([]pixel.LumaA(nil), d.LumaA.Pixels...)
		return FromLumaA(&LumaAImage{px, d.LumaA.Width, d.LumaA.Height})
	case DynRGB8:
		px := append([]pixel.RGB(nil), d.RGB.Pixels...)
		return FromRGB(&RGBImage{px, d.RGB.Width, d.RGB.Height})
	default:
		px := append([]pixel.RGBA(nil), d.RGBA.Pixels...)
		return FromRGBA(&RGBAImage{px, d.RGBA.Width, d.RGBA.Height})
	}
}

// FromBytes chunks raw, byte-interleaved pixel data by the channel count
// implied by ct and constructs the matching owned-image variant. Only
// 8-bit depths are supported by this container (spec §4.H:
// "Unsupported depths yield UnsupportedColor").
func FromBytes(raw []byte, width, height int, ct pixel.ColorType) (*DynamicImage, error) {
	if ct.Depth != 8 {
		return nil, ErrUnsupportedColor
	}
	n := width * height
	switch ct.Kind {
	case pixel.Grey:
		if len(raw) < n {
			return nil, ErrUnsupportedColor
		}
		px := make([]pixel.Luma, n)
		for i := 0; i < n; i++ {
			px[i] = pixel.Luma{Y: raw[i]}
		}
		return FromLuma(&LumaImage{px, width, height}), nil
	case pixel.GreyA:
		if len(raw) < n*2 {
			return nil, ErrUnsupportedColor
		}
		px := make([]pixel.LumaA, n)
		for i := 0; i < n; i++ {
			px[i] = pixel.LumaA{Y: raw[i*2], A: raw[i*2+1]}
		}
		return FromLumaA(&LumaAImage{px, width, height}), nil
	case pixel.RGBKind, pixel.Palette:
		if len(raw) < n*3 {
			return nil, ErrUnsupportedColor
		}
		px := make([]pixel.RGB, n)
		for i := 0; i < n; i++ {
			px[i] = pixel.RGB{R: raw[i*3], G: raw[i*3+1], B: raw[i*3+2]}
		}
		return FromRGB(&RGBImage{px, width, height}), nil
	case pixel.RGBAKind:
		if len(raw) < n*4 {
			return nil, ErrUnsupportedColor
		}
		px := make([]pixel.RGBA, n)
		for i := 0; i < n; i++ {
			px[i] = pixel.RGBA{R: raw[i*4], G: raw[i*4+1], B: raw[i*4+2], A: raw[i*4+3]}
		}
		return FromRGBA(&RGBAImage{px, width, height}), nil
	default:
		return nil, ErrUnsupportedColor
	}
}
