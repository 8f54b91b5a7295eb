// Package jpeg implements a baseline (sequential, 8-bit, Huffman-coded)
// JPEG decoder and a mirror-path encoder (spec §4.D).
//
// Grounded on the teacher corpus's layered-decoder idiom and on
// dlecorfec-progjpeg's decoder shape (a single decoder struct advancing
// through marker segments, per-component state, restart handling) —
// trimmed to baseline-only per spec §1's Non-goals (no progressive,
// no arithmetic coding).
package jpeg

import (
	"bufio"
	"image"
	"io"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/pixel"
)

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", decodeStd, decodeConfigStd)
}

// JPEG marker bytes (T.81 Annex B).
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOF0 = 0xC0
	markerSOF2 = 0xC2
	markerDHT  = 0xC4
	markerDQT  = 0xDB
	markerDRI  = 0xDD
	markerSOS  = 0xDA
	markerRST0 = 0xD0
	markerRST7 = 0xD7
	markerDNL  = 0xDC
)

// component holds per-component state, parsed from SOF0 and SOS
// (spec §4.D).
type component struct {
	id                 int
	hSamp, vSamp       int
	quantTable         int
	dcTable, acTable   int
	dcPredictor        int
}

// Decoder implements core.Decoder for baseline JPEG streams.
type Decoder struct {
	r   *bufio.Reader
	buf []byte // full remaining bytes, used once SOS begins the entropy scan

	width, height int
	components    []component
	hMax, vMax    int
	restartInterval int

	quantTables [4]*[64]int32
	dcTables    [2]*huffmanTable
	acTables    [2]*huffmanTable

	// yPlane/cbPlane/crPlane hold 8-bit samples at full Y resolution
	// (chroma pre-upsampled to 4:4:4) once decode has run.
	yPlane, cbPlane, crPlane []byte
	grey                     bool
	decoded                  bool

	rows    [][]byte
	nextRow int
}

// NewDecoder parses markers up through the SOS header (buffering the
// entropy-coded bytes that follow) so that Dimensions/ColorType can
// answer immediately; the entropy-coded scan itself is decoded
// lazily on first read, as the PNG decoder does.
func NewDecoder(r io.Reader) (*Decoder, error) {
	d := &Decoder{r: bufio.NewReader(r)}
	if err := d.parseHeader(); err != nil {
		return nil, err
	}
	return d, nil
}

// Dimensions returns (width, height).
func (d *Decoder) Dimensions() (int, int) { return d.width, d.height }

// ColorType reports Grey(8) for a single-component scan, RGB(8) otherwise.
func (d *Decoder) ColorType() pixel.ColorType {
	if d.grey {
		return pixel.ColorType{Kind: pixel.Grey, Depth: 8}
	}
	return pixel.ColorType{Kind: pixel.RGBKind, Depth: 8}
}

// RowLen returns bytes per decoded row.
func (d *Decoder) RowLen() int {
	return d.ColorType().Channels() * d.width
}

// ReadScanline fills buf with one row of the decoder's native color
// type and returns its index.
func (d *Decoder) ReadScanline(buf []byte) (int, error) {
	if !d.decoded {
		if err := d.decodeScan(); err != nil {
			return 0, err
		}
	}
	if d.nextRow >= d.height {
		return 0, core.New(core.ImageEnd, "no more scanlines")
	}
	copy(buf, d.rows[d.nextRow])
	idx := d.nextRow
	d.nextRow++
	return idx, nil
}

// ReadImage decodes the full image in one call.
func (d *Decoder) ReadImage() ([]byte, error) {
	if !d.decoded {
		if err := d.decodeScan(); err != nil {
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
	return image.Config{ColorModel: stdColorModel(dec.grey), Width: w, Height: h}, nil
}
