// Package pixel defines the color-type tag and the typed pixel variants
// (Luma, LumaA, RGB, RGBA) that format codecs decode into and the image
// container (package rimage) stores.
package pixel

import "fmt"

// ColorType tags a color model with its sample bit depth, mirroring the
// original's colortype.rs enum.
type ColorType struct {
	Kind  Kind
	Depth uint8 // bits per sample: 1, 2, 4, 8, or 16
}

// Kind enumerates the color models a codec can produce.
type Kind uint8

const (
	Grey Kind = iota
	RGBKind
	Palette
	GreyA
	RGBAKind
)

// numChannels maps a Kind to its channel count.
var numChannels = [...]uint8{Grey: 1, RGBKind: 3, Palette: 3, GreyA: 2, RGBAKind: 4}

// Channels returns the number of channels for the color type's kind.
// Palette images report 3 (RGB) since they are always expanded to RGB8
// before being handed to a caller (spec §9: "palette images decode to
// RGB8 after expansion, regardless of the stored bit depth per index").
func (c ColorType) Channels() int {
	return int(numChannels[c.Kind])
}

// BitsPerPixel returns Depth * Channels().
func (c ColorType) BitsPerPixel() int {
	return int(c.Depth) * c.Channels()
}

func (c ColorType) String() string {
	names := [...]string{Grey: "Grey", RGBKind: "RGB", Palette: "Palette", GreyA: "GreyA", RGBAKind: "RGBA"}
	return fmt.Sprintf("%s(%d)", names[c.Kind], c.Depth)
}
