package core

import "github.com/deepteams/raster/pixel"

// Decoder is the uniform contract every format codec in this module
// implements (spec §6). LoadRect has a default implementation,
// DefaultLoadRect, in terms of ReadScanline.
type Decoder interface {
	Dimensions() (width, height int)
	ColorType() pixel.ColorType
	RowLen() int
	ReadScanline(buf []byte) (row int, err error)
	ReadImage() ([]byte, error)
}

// DefaultLoadRect implements spec §6's load_rect in terms of a decoder's
// ReadScanline, clamping to the image's dimensions and failing with
// DimensionError when the requested rectangle does not fit.
func DefaultLoadRect(d Decoder, x, y, w, h int) ([]byte, error) {
	width, height := d.Dimensions()
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > width || y+h > height {
		return nil, New(DimensionError, "load_rect out of bounds")
	}

	rowLen := d.RowLen()
	full := make([]byte, rowLen*height)
	for row := 0; row < height; row++ {
		if _, err := d.ReadScanline(full[row*rowLen : (row+1)*rowLen]); err != nil {
			return nil, err
		}
	}

	bytesPerPixel := rowLen / width
	out := make([]byte, w*h*bytesPerPixel)
	for row := 0; row < h; row++ {
		srcOff := (y+row)*rowLen + x*bytesPerPixel
		dstOff := row * w * bytesPerPixel
		copy(out[dstOff:dstOff+w*bytesPerPixel], full[srcOff:srcOff+w*bytesPerPixel])
	}
	return out, nil
}
