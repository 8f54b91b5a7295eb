package png

import (
	"image"

	"github.com/deepteams/raster/rimage"
)

// toStdImage marshals a decoded PNG byte buffer into a standard
// image.Image so this package can register itself with image.Decode,
// the same integration point the teacher uses for WebP.
func toStdImage(d *Decoder, raw []byte) (image.Image, error) {
	dyn, err := rimage.FromBytes(raw, d.width, d.height, d.ColorType())
	if err != nil {
		return nil, err
	}

	switch dyn.Kind {
	case rimage.DynLuma8:
		im := image.NewGray(image.Rect(0, 0, d.width, d.height))
		for i, p := range dyn.Luma.Pixels {
			im.Pix[i] = p.Y
		}
		return im, nil
	case rimage.DynLumaA8:
		im := image.NewNRGBA(image.Rect(0, 0, d.width, d.height))
		for i, p := range dyn.LumaA.Pixels {
			im.Pix[i*4], im.Pix[i*4+1], im.Pix[i*4+2], im.Pix[i*4+3] = p.Y, p.Y, p.Y, p.A
		}
		return im, nil
	case rimage.DynRGB8:
		im := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
		for i, p := range dyn.RGB.Pixels {
			im.Pix[i*4], im.Pix[i*4+1], im.Pix[i*4+2], im.Pix[i*4+3] = p.R, p.G, p.B, 255
		}
		return im, nil
	default:
		im := image.NewNRGBA(image.Rect(0, 0, d.width, d.height))
		for i, p := range dyn.RGBA.Pixels {
			im.Pix[i*4], im.Pix[i*4+1], im.Pix[i*4+2], im.Pix[i*4+3] = p.R, p.G, p.B, p.A
		}
		return im, nil
	}
}
