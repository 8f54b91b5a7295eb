package pixel

// RGBToYCbCr converts an 8-bit RGB triple to YCbCr using the JPEG/JFIF
// formulas (spec §4.D). Rounded to nearest and clamped to [0,255].
func RGBToYCbCr(r, g, b uint8) (y, cb, cr uint8) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	y = clampByte(0.299*rf + 0.587*gf + 0.114*bf)
	cb = clampByte(128 - 0.168736*rf - 0.331264*gf + 0.5*bf)
	cr = clampByte(128 + 0.5*rf - 0.418688*gf - 0.081312*bf)
	return
}

// YCbCrToRGB is the JPEG/JFIF inverse transform (spec §4.D):
//
//	R = Y + 1.402*(Cr-128)
//	G = Y - 0.34414*(Cb-128) - 0.71414*(Cr-128)
//	B = Y + 1.772*(Cb-128)
func YCbCrToRGB(y, cb, cr uint8) (r, g, b uint8) {
	yf := float64(y)
	cbf := float64(cb) - 128
	crf := float64(cr) - 128
	r = clampByte(yf + 1.402*crf)
	g = clampByte(yf - 0.34414*cbf - 0.71414*crf)
	b = clampByte(yf + 1.772*cbf)
	return
}
