package jpeg

import (
	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/internal/bitio"
	"github.com/deepteams/raster/pixel"
)

// decodeScan runs the full entropy-coded scan: Huffman decode + dequant
// + IDCT + level-shift + chroma upsample + YCbCr->RGB (spec §4.D).
func (d *Decoder) decodeScan() error {
	br := bitio.NewJPEGBitReader(d.buf)

	mcuW, mcuH, mcusX, mcusY := d.mcuGrid()
	planeW, planeH := mcusX*mcuW, mcusY*mcuH

	d.yPlane = make([]byte, planeW*planeH)
	if !d.grey {
		d.cbPlane = make([]byte, planeW*planeH)
		d.crPlane = make([]byte, planeW*planeH)
	}

	mcuCount := 0
	restartsSeen := 0
	for my := 0; my < mcusY; my++ {
		for mx := 0; mx < mcusX; mx++ {
			if err := d.decodeMCU(br, mx, my, planeW); err != nil {
				return err
			}
			mcuCount++

			if d.restartInterval > 0 && mcuCount%d.restartInterval == 0 && mcuCount < mcusX*mcusY {
				if err := d.handleRestart(br, restartsSeen); err != nil {
					return err
				}
				restartsSeen++
				for i := range d.components {
					d.components[i].dcPredictor = 0
				}
			}
		}
	}

	return d.assembleRows(planeW)
}

// mcuGrid returns the pixel width/height of one MCU and the number of
// MCUs needed to cover the image, per spec §4.D's subsampling rules.
func (d *Decoder) mcuGrid() (mcuW, mcuH, mcusX, mcusY int) {
	mcuW = 8 * d.hMax
	mcuH = 8 * d.vMax
	mcusX = (d.width + mcuW - 1) / mcuW
	mcusY = (d.height + mcuH - 1) / mcuH
	return
}

// handleRestart verifies and consumes the expected RSTn marker, in
// sequence RST0..RST7 cyclically (spec §4.D). Restart markers are
// always byte-aligned (JPEG's entropy encoder only stuffs filler bits
// within the last byte before a restart), so the bit reader's byte
// position sits either at the marker's leading 0xFF or, when its
// lookahead has already reached the marker (PeekMarker is set), one
// byte past it.
func (d *Decoder) handleRestart(br *bitio.JPEGBitReader, restartsSeen int) error {
	pos := br.BytePos()
	if br.PeekMarker() != 0 {
		pos--
	}
	if pos+1 >= len(d.buf) || d.buf[pos] != 0xFF {
		return core.New(core.FormatError, "missing restart marker")
	}
	marker := d.buf[pos+1]
	expected := byte(markerRST0 + restartsSeen%8)
	if marker != expected {
		return core.New(core.FormatError, "restart marker mismatch")
	}
	br.Reset(pos + 2)
	return nil
}

// decodeMCU decodes and reconstructs one MCU, writing samples directly
// into d.yPlane/d.cbPlane/d.crPlane at the MCU's pixel offset.
func (d *Decoder) decodeMCU(br *bitio.JPEGBitReader, mx, my, planeW int) error {
	if d.grey {
		c := &d.components[0]
		block, err := d.decodeBlock(br, c)
		if err != nil {
			return err
		}
		samples := idct8x8(block)
		writeBlock(d.yPlane, planeW, mx*8, my*8, &samples)
		return nil
	}

	yComp := &d.components[0]
	cbComp := &d.components[1]
	crComp := &d.components[2]

	for v := 0; v < yComp.vSamp; v++ {
		for h := 0; h < yComp.hSamp; h++ {
			block, err := d.decodeBlock(br, yComp)
			if err != nil {
				return err
			}
			samples := idct8x8(block)
			ox := mx*8*yComp.hSamp + h*8
			oy := my*8*yComp.vSamp + v*8
			writeBlock(d.yPlane, planeW, ox, oy, &samples)
		}
	}

	cbBlock, err := d.decodeBlock(br, cbComp)
	if err != nil {
		return err
	}
	cbSamples := idct8x8(cbBlock)

	crBlock, err := d.decodeBlock(br, crComp)
	if err != nil {
		return err
	}
	crSamples := idct8x8(crBlock)

	// Nearest-neighbor upsample chroma across the luma MCU footprint
	// (spec §4.D: 4:2:0/4:2:2 upsampling).
	upW := yComp.hSamp
	upH := yComp.vSamp
	baseX := mx * 8 * yComp.hSamp
	baseY := my * 8 * yComp.vSamp
	for y := 0; y < 8*upH; y++ {
		sy := y / upH
		for x := 0; x < 8*upW; x++ {
			sx := x / upW
			cb := cbSamples[sy*8+sx]
			cr := crSamples[sy*8+sx]
			idx := (baseY+y)*planeW + (baseX + x)
			d.cbPlane[idx] = cb
			d.crPlane[idx] = cr
		}
	}
	return nil
}

func writeBlock(plane []byte, planeW, ox, oy int, samples *[64]uint8) {
	for y := 0; y < 8; y++ {
		copy(plane[(oy+y)*planeW+ox:(oy+y)*planeW+ox+8], samples[y*8:y*8+8])
	}
}

// decodeBlock decodes one 8x8 block's DC+AC coefficients, dequantizes,
// and un-zigzags them (spec §4.D).
func (d *Decoder) decodeBlock(br *bitio.JPEGBitReader, c *component) (*[64]int32, error) {
	dcTable := d.dcTables[c.dcTable]
	acTable := d.acTables[c.acTable]
	quant := d.quantTables[c.quantTable]

	var coeffs [64]int32

	// DC.
	t := dcTable.decode(br)
	diffBits := br.Receive(uint(t))
	diff := bitio.Extend(diffBits, uint(t))
	c.dcPredictor += int(diff)
	coeffs[0] = int32(c.dcPredictor) * quant[0]

	// AC.
	k := 1
	for k < 64 {
		rs := acTable.decode(br)
		r := int(rs >> 4)
		s := rs & 0x0F
		if s == 0 {
			if r == 15 {
				k += 16 // ZRL
				continue
			}
			break // EOB
		}
		k += r
		if k >= 64 {
			break
		}
		bits := br.Receive(uint(s))
		v := bitio.Extend(bits, uint(s))
		coeffs[zigzag[k]] = int32(v) * quant[k]
		k++
	}

	return &coeffs, nil
}

// assembleRows converts the decoded Y/Cb/Cr planes into the decoder's
// native row format: Grey8 for single-component images, RGB8 otherwise.
func (d *Decoder) assembleRows(planeW int) error {
	rows := make([][]byte, d.height)
	if d.grey {
		for y := 0; y < d.height; y++ {
			row := make([]byte, d.width)
			copy(row, d.yPlane[y*planeW:y*planeW+d.width])
			rows[y] = row
		}
		d.rows = rows
		d.decoded = true
		return nil
	}

	for y := 0; y < d.height; y++ {
		row := make([]byte, d.width*3)
		for x := 0; x < d.width; x++ {
			idx := y*planeW + x
			r, g, b := pixel.YCbCrToRGB(d.yPlane[idx], d.cbPlane[idx], d.crPlane[idx])
			row[x*3], row[x*3+1], row[x*3+2] = r, g, b
		}
		rows[y] = row
	}
	d.rows = rows
	d.decoded = true
	return nil
}
