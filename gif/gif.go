// Package gif implements a GIF87a/89a decoder: logical screen
// compositing, global/local palettes, and LZW-compressed image data
// (spec §4.E). Animation playback is out of scope; the high-level
// surface exposes the first frame, with NextFrame available for
// callers that want to walk the remaining frames themselves.
package gif

import (
	"bufio"
	"image"
	"image/color"
	"io"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/pixel"
)

func init() {
	image.RegisterFormat("gif", "GIF8", decodeStd, decodeConfigStd)
}

const (
	blockImageDescriptor = 0x2C
	blockExtension       = 0x21
	blockTrailer         = 0x3B

	extGraphicControl = 0xF9
	extApplication     = 0xFF
)

// Frame is one decoded image-descriptor region, composited onto the
// logical screen canvas (spec §4.E "Observable outputs per frame").
type Frame struct {
	Canvas      []byte // RGB8, screenWidth*screenHeight*3
	Delay       int    // centiseconds, from the preceding Graphic Control extension
	Transparent int    // palette index, -1 if none
	Disposal    int
}

// Decoder implements core.Decoder for the first frame of a GIF stream.
type Decoder struct {
	r *bufio.Reader

	screenWidth, screenHeight int
	globalPalette             []pixel.RGB
	hasGlobal                 bool

	pendingDelay       int
	pendingTransparent int
	pendingDisposal    int
	haveGCE            bool

	frames  []*Frame
	atEOF   bool
	decoded bool

	nextRow int
}

// NewDecoder parses the header, logical screen descriptor, and global
// palette, then decodes the first image descriptor it finds so that
// Dimensions/ColorType can answer immediately.
func NewDecoder(r io.Reader) (*Decoder, error) {
	d := &Decoder{r: bufio.NewReader(r)}
	if err := d.readHeader(); err != nil {
		return nil, err
	}
	if err := d.readLogicalScreenDescriptor(); err != nil {
		return nil, err
	}
	if _, err := d.NextFrame(); err != nil {
		return nil, err
	}
	return d, nil
}

// Dimensions returns the logical screen's width and height.
func (d *Decoder) Dimensions() (int, int) { return d.screenWidth, d.screenHeight }

// ColorType is always RGB(8): GIF's indexed palette is expanded on
// decode (spec §4.E).
func (d *Decoder) ColorType() pixel.ColorType {
	return pixel.ColorType{Kind: pixel.RGBKind, Depth: 8}
}

// RowLen returns bytes per decoded row.
func (d *Decoder) RowLen() int { return d.screenWidth * 3 }

// ReadScanline fills buf with one row of the first frame's canvas.
func (d *Decoder) ReadScanline(buf []byte) (int, error) {
	if len(d.frames) == 0 {
		return 0, core.New(core.FormatError, "no image descriptor found")
	}
	if d.nextRow >= d.screenHeight {
		return 0, core.New(core.ImageEnd, "no more scanlines")
	}
	rowLen := d.RowLen()
	canvas := d.frames[0].Canvas
	copy(buf, canvas[d.nextRow*rowLen:(d.nextRow+1)*rowLen])
	idx := d.nextRow
	d.nextRow++
	return idx, nil
}

// ReadImage returns the full first-frame canvas in one call.
func (d *Decoder) ReadImage() ([]byte, error) {
	if len(d.frames) == 0 {
		return nil, core.New(core.FormatError, "no image descriptor found")
	}
	out := make([]byte, len(d.frames[0].Canvas))
	copy(out, d.frames[0].Canvas)
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
	return image.Config{ColorModel: color.RGBAModel, Width: w, Height: h}, nil
}
