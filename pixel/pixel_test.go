package pixel

import "testing"

func TestRGBAInvertTwiceIsIdentity(t *testing.T) {
	p := RGBA{R: 10, G: 200, B: 30, A: 128}
	orig := p
	p.Invert()
	p.Invert()
	if p != orig {
		t.Errorf("double invert = %+v, want %+v", p, orig)
	}
}

func TestInvertPreservesAlpha(t *testing.T) {
	p := RGBA{R: 10, G: 20, B: 30, A: 77}
	p.Invert()
	if p.A != 77 {
		t.Errorf("alpha changed by Invert: got %d, want 77", p.A)
	}
}

func TestYCbCrRoundTrip(t *testing.T) {
	for r := 0; r <= 255; r += 17 {
		for g := 0; g <= 255; g += 17 {
			for b := 0; b <= 255; b += 17 {
				y, cb, cr := RGBToYCbCr(uint8(r), uint8(g), uint8(b))
				r2, g2, b2 := YCbCrToRGB(y, cb, cr)
				if absDiff(int(r2), r) > 2 || absDiff(int(g2), g) > 2 || absDiff(int(b2), b) > 2 {
					t.Errorf("roundtrip(%d,%d,%d) = (%d,%d,%d), drift > 2", r, g, b, r2, g2, b2)
				}
			}
		}
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
