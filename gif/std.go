package gif

import "image"

// toStdImage marshals the first decoded frame into a standard
// image.Image, the same integration point the teacher uses for WebP.
func toStdImage(d *Decoder, raw []byte) (image.Image, error) {
	im := image.NewRGBA(image.Rect(0, 0, d.screenWidth, d.screenHeight))
	for i := 0; i < d.screenWidth*d.screenHeight; i++ {
		im.Pix[i*4], im.Pix[i*4+1], im.Pix[i*4+2], im.Pix[i*4+3] =
			raw[i*3], raw[i*3+1], raw[i*3+2], 255
	}
	return im, nil
}
