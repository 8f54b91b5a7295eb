// Package png implements a decoder and encoder for the PNG container
// format: chunk framing, IHDR/PLTE/IDAT assembly, the five scanline
// filters, palette expansion, and encoding with per-row filter
// selection (spec §4.C).
//
// Grounded on the teacher corpus's layered-reader idiom (an outer
// decompressor owning an inner chunk reader owning the raw source
// reader, as webp's container.Parser owns a RIFF reader) and on
// original_source/png.rs for the exact state machine and filter math.
package png

import (
	"image"
	"image/color"
	"io"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/pixel"
)

func init() {
	image.RegisterFormat("png", "\x89PNG\r\n\x1a\n", decodeStd, decodeConfigStd)
}

// pngSignature is the 8-byte magic every PNG stream begins with.
var pngSignature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// state is the PNG decoder's state machine (spec §4.C).
type state int

const (
	stateStart state = iota
	stateHaveSignature
	stateHaveIHDR
	stateHavePLTE
	stateHaveFirstIDAT
	stateHaveLastIDAT
	stateHaveIEND
)

// Decoder implements core.Decoder for PNG streams.
type Decoder struct {
	r     io.Reader
	state state

	width, height int
	bitDepth      int
	colourType    int
	interlace     int

	bpp     int // bytes per pixel (post color-expansion rounding)
	rowLen  int // bytes per reconstructed row, pre-palette-expansion
	palette []pixel.RGB
	hasPLTE bool

	curType          string
	firstIDATLen     int
	haveFirstIDATLen bool

	rows    [][]byte // fully reconstructed, unfiltered, palette-expanded rows
	nextRow int
	decoded bool
}

// colourTypeKind maps a PNG IHDR colour_type byte to a pixel.Kind, or
// ok=false if the byte is not one of the four the container recognizes.
func colourTypeKind(ct int) (pixel.Kind, bool) {
	switch ct {
	case 0:
		return pixel.Grey, true
	case 2:
		return pixel.RGBKind, true
	case 3:
		return pixel.Palette, true
	case 4:
		return pixel.GreyA, true
	case 6:
		return pixel.RGBAKind, true
	default:
		return 0, false
	}
}

// allowedDepths lists the bit depths the PNG spec allows for a given
// colour_type.
func allowedDepths(ct, depth int) bool {
	switch ct {
	case 0: // grey
		return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case 2, 4, 6: // rgb, greyA, rgba
		return depth == 8 || depth == 16
	case 3: // palette
		return depth == 1 || depth == 2 || depth == 4 || depth == 8
	default:
		return false
	}
}

// NewDecoder reads the signature and IHDR (and PLTE, if present) ahead
// of the caller asking for dimensions/colortype, mirroring the way
// other codecs in this module front-load header parsing.
func NewDecoder(r io.Reader) (*Decoder, error) {
	d := &Decoder{r: r, state: stateStart}
	if err := d.readSignature(); err != nil {
		return nil, err
	}
	if err := d.readHeaderChunks(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder) readSignature() error {
	var sig [8]byte
	if _, err := io.ReadFull(d.r, sig[:]); err != nil {
		return core.Wrap(core.NotEnoughData, "reading png signature", err)
	}
	if sig != pngSignature {
		return core.New(core.FormatError, "bad png signature")
	}
	d.state = stateHaveSignature
	return nil
}

// Dimensions returns (width, height).
func (d *Decoder) Dimensions() (int, int) { return d.width, d.height }

// ColorType reports the expanded color type: palette images report
// RGB(8) since they are expanded during decode (spec §9).
func (d *Decoder) ColorType() pixel.ColorType {
	if d.colourType == 3 {
		return pixel.ColorType{Kind: pixel.RGBKind, Depth: 8}
	}
	kind, _ := colourTypeKind(d.colourType)
	return pixel.ColorType{Kind: kind, Depth: uint8(d.bitDepth)}
}

// RowLen returns bytes per fully decoded (post palette-expansion) row.
func (d *Decoder) RowLen() int {
	return d.ColorType().Channels() * d.width
}

// ReadScanline fills buf with one fully decoded row and returns its
// index. It decodes the whole image on first use (PNG's filters are
// causally chained row-to-row, so partial decode buys nothing here).
func (d *Decoder) ReadScanline(buf []byte) (int, error) {
	if !d.decoded {
		if err := d.decodeAll(); err != nil {
			return 0, err
		}
	}
	if d.nextRow >= d.height {
		return 0, core.New(core.ImageEnd, "no more scanlines")
	}
	row := d.rows[d.nextRow]
	copy(buf, row)
	idx := d.nextRow
	d.nextRow++
	return idx, nil
}

// ReadImage decodes the full image and returns it as one contiguous
// byte buffer (spec §6: read_image).
func (d *Decoder) ReadImage() ([]byte, error) {
	if !d.decoded {
		if err := d.decodeAll(); err != nil {
			return nil, err
		}
	}
	out := make([]byte, 0, d.RowLen()*d.height)
	for _, row := range d.rows {
		out = append(out, row...)
	}
	return out, nil
}

// LoadRect is the default, scanline-driven implementation (spec §6).
func (d *Decoder) LoadRect(x, y, w, h int) ([]byte, error) {
	return core.DefaultLoadRect(d, x, y, w, h)
}

func decodeStd(r io.Reader) (image.Image, error) {
	dec, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}
	raw, err := dec.ReadImage()
	if err != nil {
		return nil, err
	}
	return toStdImage(dec, raw)
}

func decodeConfigStd(r io.Reader) (image.Config, error) {
	dec, err := NewDecoder(r)
	if err != nil {
		return image.Config{}, err
	}
	w, h := dec.Dimensions()
	return image.Config{ColorModel: stdColorModel(dec.ColorType()), Width: w, Height: h}, nil
}

func stdColorModel(ct pixel.ColorType) color.Model {
	switch ct.Kind {
	case pixel.Grey:
		return color.GrayModel
	case pixel.GreyA:
		return color.GrayModel
	case pixel.RGBAKind:
		return color.NRGBAModel
	default:
		return color.RGBAModel
	}
}
