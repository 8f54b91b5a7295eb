package jpeg

import (
	"image"
	"image/color"

	"github.com/deepteams/raster/rimage"
)

// stdColorModel returns the image/color.Model matching this decoder's
// native color type, used by decodeConfigStd.
func stdColorModel(grey bool) color.Model {
	if grey {
		return color.GrayModel
	}
	return color.RGBAModel
}

// toStdImage marshals a decoded JPEG byte buffer into a standard
// image.Image, the same integration point the teacher uses for WebP.
func toStdImage(d *Decoder, raw []byte) (image.Image, error) {
	if d.grey {
		im := image.NewGray(image.Rect(0, 0, d.width, d.height))
		copy(im.Pix, raw)
		return im, nil
	}

	dyn, err := rimage.FromBytes(raw, d.width, d.height, d.ColorType())
	if err != nil {
		return nil, err
	}
	im := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	for i, p := range dyn.RGB.Pixels {
		im.Pix[i*4], im.Pix[i*4+1], im.Pix[i*4+2], im.Pix[i*4+3] = p.R, p.G, p.B, 255
	}
	return im, nil
}
