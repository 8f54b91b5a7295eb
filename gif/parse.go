package gif

import (
	"io"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/internal/bitio"
	"github.com/deepteams/raster/pixel"
)

func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, core.Wrap(core.NotEnoughData, "reading gif byte", err)
	}
	return b, nil
}

func (d *Decoder) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, core.Wrap(core.NotEnoughData, "reading gif bytes", err)
	}
	return buf, nil
}

func (d *Decoder) readUint16LE() (int, error) {
	b, err := d.readN(2)
	if err != nil {
		return 0, err
	}
	return int(b[0]) | int(b[1])<<8, nil
}

func (d *Decoder) readHeader() error {
	sig, err := d.readN(6)
	if err != nil {
		return err
	}
	if string(sig[0:3]) != "GIF" {
		return core.New(core.FormatError, "missing GIF signature")
	}
	version := string(sig[3:6])
	if version != "87a" && version != "89a" {
		return core.New(core.FormatError, "unrecognized GIF version "+version)
	}
	return nil
}

func (d *Decoder) readLogicalScreenDescriptor() error {
	w, err := d.readUint16LE()
	if err != nil {
		return err
	}
	h, err := d.readUint16LE()
	if err != nil {
		return err
	}
	if w == 0 || h == 0 {
		return core.New(core.DimensionError, "zero width or height")
	}
	packed, err := d.readByte()
	if err != nil {
		return err
	}
	if _, err := d.readByte(); err != nil { // background color index
		return err
	}
	if _, err := d.readByte(); err != nil { // pixel aspect ratio
		return err
	}

	d.screenWidth, d.screenHeight = w, h
	d.hasGlobal = packed&0x80 != 0
	if d.hasGlobal {
		size := 2 << uint(packed&0x07)
		pal, err := d.readPalette(size)
		if err != nil {
			return err
		}
		d.globalPalette = pal
	}
	return nil
}

func (d *Decoder) readPalette(n int) ([]pixel.RGB, error) {
	raw, err := d.readN(n * 3)
	if err != nil {
		return nil, err
	}
	pal := make([]pixel.RGB, n)
	for i := range pal {
		pal[i] = pixel.RGB{R: raw[i*3], G: raw[i*3+1], B: raw[i*3+2]}
	}
	return pal, nil
}

// NextFrame advances past the current position and returns the next
// decoded Frame; at the trailer it returns nil with an ImageEnd error.
// Only the first call is used by
// the high-level Decoder surface; exposed so a caller can walk the
// rest of an animated stream manually (spec's animation Non-goal only
// excludes automatic playback, not manual access).
func (d *Decoder) NextFrame() (*Frame, error) {
	for {
		if d.atEOF {
			return nil, core.New(core.ImageEnd, "no more frames")
		}
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case blockImageDescriptor:
			f, err := d.readImageDescriptor()
			if err != nil {
				return nil, err
			}
			d.frames = append(d.frames, f)
			d.haveGCE = false
			return f, nil
		case blockExtension:
			if err := d.readExtension(); err != nil {
				return nil, err
			}
		case blockTrailer:
			d.atEOF = true
			return nil, core.New(core.ImageEnd, "no more frames")
		default:
			return nil, core.New(core.FormatError, "unrecognized gif block introducer")
		}
	}
}

func (d *Decoder) readExtension() error {
	label, err := d.readByte()
	if err != nil {
		return err
	}
	switch label {
	case extGraphicControl:
		return d.readGraphicControl()
	default:
		return d.skipSubBlocks()
	}
}

func (d *Decoder) readGraphicControl() error {
	size, err := d.readByte()
	if err != nil {
		return err
	}
	if size != 4 {
		return core.New(core.FormatError, "invalid graphic control size")
	}
	packed, err := d.readByte()
	if err != nil {
		return err
	}
	delay, err := d.readUint16LE()
	if err != nil {
		return err
	}
	transparentIdx, err := d.readByte()
	if err != nil {
		return err
	}
	if _, err := d.readByte(); err != nil { // block terminator
		return err
	}

	d.pendingDelay = delay
	d.pendingDisposal = int(packed>>2) & 0x07
	if packed&0x01 != 0 {
		d.pendingTransparent = int(transparentIdx)
	} else {
		d.pendingTransparent = -1
	}
	d.haveGCE = true
	return nil
}

// skipSubBlocks discards length-prefixed sub-blocks up to the
// terminating zero-length block, used for Application extensions and
// any extension this decoder doesn't otherwise interpret.
func (d *Decoder) skipSubBlocks() error {
	for {
		n, err := d.readByte()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := d.readN(int(n)); err != nil {
			return err
		}
	}
}

// readSubBlocks concatenates length-prefixed sub-blocks into one buffer,
// per spec §4.E's LZW data framing.
func (d *Decoder) readSubBlocks() ([]byte, error) {
	var out []byte
	for {
		n, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
		chunk, err := d.readN(int(n))
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}

func (d *Decoder) readImageDescriptor() (*Frame, error) {
	left, err := d.readUint16LE()
	if err != nil {
		return nil, err
	}
	top, err := d.readUint16LE()
	if err != nil {
		return nil, err
	}
	width, err := d.readUint16LE()
	if err != nil {
		return nil, err
	}
	height, err := d.readUint16LE()
	if err != nil {
		return nil, err
	}
	packed, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if packed&0x40 != 0 {
		return nil, core.New(core.UnsupportedError, "interlaced GIF images are not supported")
	}

	palette := d.globalPalette
	if packed&0x80 != 0 {
		size := 2 << uint(packed&0x07)
		local, err := d.readPalette(size)
		if err != nil {
			return nil, err
		}
		palette = local
	}
	if palette == nil {
		return nil, core.New(core.FormatError, "no color table available")
	}

	minCodeSize, err := d.readByte()
	if err != nil {
		return nil, err
	}
	indexData, err := d.readSubBlocks()
	if err != nil {
		return nil, err
	}
	lzw := bitio.NewLZWReader(indexData, int(minCodeSize))
	indices, err := lzw.Decode()
	if err != nil {
		return nil, core.Wrap(core.FormatError, "decoding gif LZW data", err)
	}

	transparent := -1
	delay := 0
	disposal := 0
	if d.haveGCE {
		transparent = d.pendingTransparent
		delay = d.pendingDelay
		disposal = d.pendingDisposal
	}

	canvas := make([]byte, d.screenWidth*d.screenHeight*3)
	stride := d.screenWidth * 3
	n := width * height
	if n > len(indices) {
		n = len(indices)
	}
	for i := 0; i < n; i++ {
		idx := int(indices[i])
		if idx == transparent {
			continue
		}
		if idx >= len(palette) {
			continue
		}
		x := left + i%width
		y := top + i/width
		if x >= d.screenWidth || y >= d.screenHeight {
			continue
		}
		p := palette[idx]
		off := y*stride + x*3
		canvas[off], canvas[off+1], canvas[off+2] = p.R, p.G, p.B
	}

	return &Frame{
		Canvas:      canvas,
		Delay:       delay,
		Transparent: transparent,
		Disposal:    disposal,
	}, nil
}
