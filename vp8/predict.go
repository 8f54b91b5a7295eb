package vp8

// clip255 clamps an int to the 8-bit range (spec §4.F TM_PRED).
func clip255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// predictBlock fills an n x n destination block using one of the four
// whole-block intra modes (spec §4.F), given the border samples:
// above[0:n] is the row above, left[0:n] is the column to the left,
// corner is the pixel at (-1,-1). haveAbove/haveLeft report whether
// those neighbors exist (edge of frame).
func predictBlock(dst []uint8, stride, n int, mode int, above, left []uint8, corner uint8, haveAbove, haveLeft bool) {
	switch mode {
	case VPred:
		for y := 0; y < n; y++ {
			copy(dst[y*stride:y*stride+n], above[:n])
		}
	case HPred:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				dst[y*stride+x] = left[y]
			}
		}
	case TMPred:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				dst[y*stride+x] = clip255(int(left[y]) + int(above[x]) - int(corner))
			}
		}
	default: // DCPred
		sum, count := 0, 0
		if haveAbove {
			for x := 0; x < n; x++ {
				sum += int(above[x])
			}
			count += n
		}
		if haveLeft {
			for y := 0; y < n; y++ {
				sum += int(left[y])
			}
			count += n
		}
		var dc uint8
		if count == 0 {
			dc = 128
		} else {
			shift := 1
			for 1<<shift < count {
				shift++
			}
			dc = uint8((sum + count/2) >> uint(shift))
		}
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				dst[y*stride+x] = dc
			}
		}
	}
}

func avg2(a, b uint8) uint8 { return uint8((int(a) + int(b) + 1) >> 1) }
func avg3(a, b, c uint8) uint8 {
	return uint8((int(a) + 2*int(b) + int(c) + 2) >> 2)
}

// predict4x4 fills a 4x4 luma sub-block using one of the ten B_* modes
// (spec §4.F). e is the 13-sample edge vector: e[0]=corner(P),
// e[1:5]=above(A0..A3), e[5:9]=above-right(A4..A7), e[9:13]=left(L0..L3)
// top-to-bottom.
func predict4x4(dst []uint8, stride int, mode int, e [13]uint8) {
	p := e[0]
	a := e[1:9] // A0..A7 (includes above-right)
	l := e[9:13]

	set := func(x, y int, v uint8) { dst[y*stride+x] = v }

	switch mode {
	case BDCPred:
		sum := 0
		for i := 0; i < 4; i++ {
			sum += int(a[i]) + int(l[i])
		}
		dc := uint8((sum + 4) >> 3)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				set(x, y, dc)
			}
		}
	case BTMPred:
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				set(x, y, clip255(int(l[y])+int(a[x])-int(p)))
			}
		}
	case BVEPred:
		v := [4]uint8{
			avg3(p, a[0], a[1]),
			avg3(a[0], a[1], a[2]),
			avg3(a[1], a[2], a[3]),
			avg3(a[2], a[3], a[4]),
		}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				set(x, y, v[x])
			}
		}
	case BHEPred:
		h := [4]uint8{
			avg3(p, l[0], l[1]),
			avg3(l[0], l[1], l[2]),
			avg3(l[1], l[2], l[3]),
			avg3(l[2], l[3], l[3]),
		}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				set(x, y, h[y])
			}
		}
	case BLDPred:
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				i := x + y
				var v uint8
				if i == 6 {
					v = avg3(a[6], a[7], a[7])
				} else {
					v = avg3(a[i], a[i+1], a[i+2])
				}
				set(x, y, v)
			}
		}
	case BRDPred:
		edge := [9]uint8{l[3], l[2], l[1], l[0], p, a[0], a[1], a[2], a[3]}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				i := x - y + 4
				set(x, y, avg3(edge[i-1], edge[i], edge[i+1]))
			}
		}
	case BVRPred:
		edge := [9]uint8{l[3], l[2], l[1], l[0], p, a[0], a[1], a[2], a[3]}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				i := 2*x - y + 4
				if i%2 == 0 && i >= 2 {
					set(x, y, avg2(edge[i/2], edge[i/2+1]))
				} else if i >= 3 {
					set(x, y, avg3(edge[(i-1)/2], edge[(i+1)/2], edge[(i+3)/2]))
				} else {
					set(x, y, avg3(l[1], l[0], p))
				}
			}
		}
	case BVLPred:
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				i := x + y/2
				if y%2 == 0 {
					set(x, y, avg2(a[i], a[i+1]))
				} else {
					set(x, y, avg3(a[i], a[i+1], a[i+2]))
				}
			}
		}
	case BHDPred:
		edge := [9]uint8{l[3], l[2], l[1], l[0], p, a[0], a[1], a[2], a[3]}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				i := 2*y - x + 4
				if i%2 == 0 && i >= 2 {
					set(x, y, avg2(edge[i/2], edge[i/2+1]))
				} else if i >= 3 {
					set(x, y, avg3(edge[(i-1)/2], edge[(i+1)/2], edge[(i+3)/2]))
				} else {
					set(x, y, avg3(l[0], p, a[0]))
				}
			}
		}
	case BHUPred:
		h := [8]uint8{l[0], l[1], l[2], l[3], l[3], l[3], l[3], l[3]}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				i := 2*y + x
				switch {
				case i >= 6:
					set(x, y, l[3])
				case i%2 == 0:
					set(x, y, avg2(h[i/2], h[i/2+1]))
				default:
					set(x, y, avg3(h[(i-1)/2], h[(i+1)/2], h[(i+3)/2]))
				}
			}
		}
	}
}
