package vp8

import (
	"image"
	"image/color"
	"io"
)

func init() {
	// The frame tag's first 3 bytes vary (version/partition-size bits),
	// so the keyframe start code at offset 3 is matched with '?' wildcards
	// standing in for the tag bytes.
	image.RegisterFormat("vp8", "???\x9d\x01\x2a", decodeStd, decodeConfigStd)
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
	w, h := dec.Dimensions()
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		im.Pix[i*4], im.Pix[i*4+1], im.Pix[i*4+2], im.Pix[i*4+3] =
			raw[i*3], raw[i*3+1], raw[i*3+2], 255
	}
	return im, nil
}

func decodeConfigStd(r io.Reader) (image.Config, error) {
	dec, err := NewDecoder(r)
	if err != nil {
		return image.Config{}, err
	}
	w, h := dec.Dimensions()
	return image.Config{ColorModel: color.RGBAModel, Width: w, Height: h}, nil
}
