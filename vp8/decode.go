package vp8

import (
	"io"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/pixel"
)

// plane is a padded intra-prediction working buffer: logical pixel
// (x,y) lives at physical (x+1,y+1), so that the border row (y=-1,
// filled with 127) and border column (x=-1, filled with 129) are
// ordinary in-bounds reads, matching spec §4.F's "A=127 if no
// macroblock above, L=129 if no macroblock left" rule without special
// casing every edge access.
type plane struct {
	pix   []uint8
	width int // physical width = logical width + 1
}

func newPlane(logicalW, logicalH int) *plane {
	w := logicalW + 1
	h := logicalH + 1
	p := &plane{pix: make([]uint8, w*h), width: w}
	for x := -1; x < logicalW; x++ {
		p.set(x, -1, 127)
	}
	for y := 0; y < logicalH; y++ {
		p.set(-1, y, 129)
	}
	p.set(-1, -1, 127)
	return p
}

func (p *plane) idx(x, y int) int { return (y+1)*p.width + (x + 1) }
func (p *plane) get(x, y int) uint8 {
	return p.pix[p.idx(x, y)]
}
func (p *plane) set(x, y int, v uint8) {
	p.pix[p.idx(x, y)] = v
}

// Decoder implements core.Decoder for a VP8 intra keyframe. ReadImage
// returns the raw intra-prediction fill (no residual added, no loop
// filter applied, per spec §1 Non-goals), upsampled from 4:2:0 and
// converted to RGB for a complete displayable image.
type Decoder struct {
	hdr *Header

	mbWidth, mbHeight int
	yPlane, uPlane, vPlane *plane

	rows    [][]byte
	decoded bool
	nextRow int

	// aboveModes[4*mbWidth] caches the B_* mode of the sub-blocks
	// immediately above the one currently being decoded, per spec §4.F's
	// "top_macroblocks[mbx].bpred[12+x]" context, and is kept updated as
	// decodeMacroblocks walks the frame in raster order. The matching
	// left context ("left_macroblock.bpred[y]") is a 4-entry array local
	// to decodeMacroblocks, reset at each macroblock row; the leftModes
	// field is neither read nor written.
	aboveModes []int
	leftModes  [4]int
}

// NewDecoder parses the frame tag and keyframe header and runs the
// per-macroblock intra-prediction pass immediately, since (unlike the
// other format decoders) there is no separate entropy-coded data to
// defer: the first partition (the header, then the per-macroblock
// modes) is the only data this decoder reads, and it is consumed here.
func NewDecoder(r io.Reader) (*Decoder, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, core.Wrap(core.NotEnoughData, "reading vp8 stream", err)
	}
	hdr, bd, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	d := &Decoder{hdr: hdr}
	d.mbWidth = (hdr.Width + 15) / 16
	d.mbHeight = (hdr.Height + 15) / 16
	d.yPlane = newPlane(d.mbWidth*16, d.mbHeight*16)
	d.uPlane = newPlane(d.mbWidth*8, d.mbHeight*8)
	d.vPlane = newPlane(d.mbWidth*8, d.mbHeight*8)

	d.aboveModes = make([]int, d.mbWidth*4)
	for i := range d.aboveModes {
		d.aboveModes[i] = BDCPred
	}

	d.decodeMacroblocks(bd)
	d.assembleRows()
	return d, nil
}

func (d *Decoder) Dimensions() (int, int) { return d.hdr.Width, d.hdr.Height }

func (d *Decoder) ColorType() pixel.ColorType {
	return pixel.ColorType{Kind: pixel.RGBKind, Depth: 8}
}

func (d *Decoder) RowLen() int { return d.hdr.Width * 3 }

func (d *Decoder) ReadScanline(buf []byte) (int, error) {
	if d.nextRow >= d.hdr.Height {
		return 0, core.New(core.ImageEnd, "no more scanlines")
	}
	copy(buf, d.rows[d.nextRow])
	idx := d.nextRow
	d.nextRow++
	return idx, nil
}

func (d *Decoder) ReadImage() ([]byte, error) {
	out := make([]byte, 0, d.RowLen()*d.hdr.Height)
	for _, row := range d.rows {
		out = append(out, row...)
	}
	return out, nil
}

func (d *Decoder) LoadRect(x, y, w, h int) ([]byte, error) {
	return core.DefaultLoadRect(d, x, y, w, h)
}

// decodeMacroblocks walks the per-macroblock loop in spec §4.F: mode
// trees first, then intra prediction fill, in raster order.
func (d *Decoder) decodeMacroblocks(bd *BoolDecoder) {
	segmentTree := []int8{2, 4, -0, -1, -2, -3}

	for my := 0; my < d.mbHeight; my++ {
		var leftModes [4]int
		for i := range leftModes {
			leftModes[i] = BDCPred
		}

		for mx := 0; mx < d.mbWidth; mx++ {
			if d.hdr.Segment.enabled && d.hdr.Segment.updateMap {
				bd.ReadWithTree(segmentTree, d.hdr.Segment.treeProbs[:])
			}
			if d.hdr.NoSkipCoeff {
				bd.ReadBool(d.hdr.SkipProb)
			}

			yMode := bd.ReadWithTree(keyframeYModeTree, keyframeYModeProb)
			if yMode == BPred {
				d.decodeBPredMacroblock(bd, mx, my, &leftModes)
			} else {
				d.predictWholeBlock(d.yPlane, mx*16, my*16, 16, yMode)

				// Non-B_PRED macroblocks still feed the B_PRED context
				// caches: every sub-block takes the whole-block mode's
				// B_* equivalent, per spec.md's "For non-B_PRED Y modes,
				// set the 4 bottom sub-block contexts to the
				// corresponding B_* mode ... and the 4 left contexts
				// similarly."
				equiv := yModeToBModeEquiv(yMode)
				for i := 0; i < 4; i++ {
					d.aboveModes[mx*4+i] = equiv
					leftModes[i] = equiv
				}
			}

			uvMode := bd.ReadWithTree(keyframeUVModeTree, keyframeUVModeProb)
			d.predictWholeBlock(d.uPlane, mx*8, my*8, 8, uvMode)
			d.predictWholeBlock(d.vPlane, mx*8, my*8, 8, uvMode)
		}
	}
}

// yModeToBModeEquiv maps a whole-macroblock Y mode to the 4x4 B_* mode
// used to seed neighboring B_PRED macroblocks' context caches (spec.md's
// DC_PRED->B_DC_PRED, V_PRED->B_VE_PRED, H_PRED->B_HE_PRED,
// TM_PRED->B_TM_PRED).
func yModeToBModeEquiv(yMode int) int {
	switch yMode {
	case VPred:
		return BVEPred
	case HPred:
		return BHEPred
	case TMPred:
		return BTMPred
	default:
		return BDCPred
	}
}

func (d *Decoder) predictWholeBlock(p *plane, bx, by, n, mode int) {
	above := make([]uint8, n)
	left := make([]uint8, n)
	for i := 0; i < n; i++ {
		above[i] = p.get(bx+i, by-1)
		left[i] = p.get(bx-1, by+i)
	}
	corner := p.get(bx-1, by-1)

	dst := make([]uint8, n*n)
	predictBlock(dst, n, n, mode, above, left, corner, by > 0, bx > 0)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p.set(bx+x, by+y, dst[y*n+x])
		}
	}
}

func (d *Decoder) decodeBPredMacroblock(bd *BoolDecoder, mx, my int, leftModes *[4]int) {
	p := d.yPlane
	var localModes [4][4]int
	for sy := 0; sy < 4; sy++ {
		for sx := 0; sx < 4; sx++ {
			var top, left int
			if sy == 0 {
				top = d.aboveModes[mx*4+sx]
			} else {
				top = localModes[sy-1][sx]
			}
			if sx == 0 {
				left = leftModes[sy]
			} else {
				left = localModes[sy][sx-1]
			}
			mode := bd.ReadWithTree(keyframeBPredModeTree, bModeContextProb(top, left))
			localModes[sy][sx] = mode

			bx := mx*16 + sx*4
			by := my*16 + sy*4

			var e [13]uint8
			e[0] = p.get(bx-1, by-1)
			for i := 0; i < 4; i++ {
				e[1+i] = p.get(bx+i, by-1)
			}
			switch {
			case sx == 3 && sy > 0:
				for i := 0; i < 4; i++ {
					e[5+i] = e[4] // replicate A3: no reconstructed MB to the right yet
				}
			case sx == 3 && sy == 0 && mx == d.mbWidth-1:
				for i := 0; i < 4; i++ {
					e[5+i] = 127
				}
			default:
				for i := 0; i < 4; i++ {
					e[5+i] = p.get(bx+4+i, by-1)
				}
			}
			for i := 0; i < 4; i++ {
				e[9+i] = p.get(bx-1, by+i)
			}

			dst := make([]uint8, 16)
			predict4x4(dst, 4, mode, e)
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					p.set(bx+x, by+y, dst[y*4+x])
				}
			}
		}
	}

	// Update top/left caches: the bottom row of sub-block modes feeds
	// the macroblock below's "above" context, the right column feeds
	// the next macroblock's "left" context.
	for sx := 0; sx < 4; sx++ {
		d.aboveModes[mx*4+sx] = localModes[3][sx]
	}
	for sy := 0; sy < 4; sy++ {
		leftModes[sy] = localModes[sy][3]
	}
}

// assembleRows crops the padded planes to the real frame size, upsamples
// chroma 2x nearest-neighbor, and converts Y/U/V to RGB (spec §4.D's
// YCbCr formulas, reused here since VP8 keyframes use the same 4:2:0
// layout as JPEG's chroma-subsampled scans).
func (d *Decoder) assembleRows() {
	w, h := d.hdr.Width, d.hdr.Height
	rows := make([][]byte, h)
	for y := 0; y < h; y++ {
		row := make([]byte, w*3)
		for x := 0; x < w; x++ {
			yv := d.yPlane.get(x, y)
			uv := d.uPlane.get(x/2, y/2)
			vv := d.vPlane.get(x/2, y/2)
			r, g, b := pixel.YCbCrToRGB(yv, uv, vv)
			row[x*3], row[x*3+1], row[x*3+2] = r, g, b
		}
		rows[y] = row
	}
	d.rows = rows
	d.decoded = true
}
