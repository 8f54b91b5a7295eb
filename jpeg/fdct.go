package jpeg

import "math"

// fdct8x8 computes the reference 2-D forward DCT-II of an 8x8 block of
// level-shifted samples (spec §4.D encode path), mirroring idct8x8's
// direct Sigma-of-cosines structure run in the opposite direction.
func fdct8x8(samples *[64]int32) [64]float64 {
	var out [64]float64
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			sum := 0.0
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					sum += float64(samples[y*8+x]) * idctCoeff[u][x] * idctCoeff[v][y]
				}
			}
			out[v*8+u] = cCoeff(u) * cCoeff(v) * sum / 4
		}
	}
	return out
}

func roundToInt32(v float64) int32 {
	return int32(math.Round(v))
}
