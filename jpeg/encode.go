package jpeg

import (
	"encoding/binary"
	"io"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/internal/bitio"
	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

// DefaultQuality is used when callers don't care (spec §4.D: quality is
// implementation-defined, 1..100, IJG scale).
const DefaultQuality = 75

var (
	encDCLuma   = buildEncodeHuffmanTable(stdDCLuminanceCounts, stdDCLuminanceValues)
	encACLuma   = buildEncodeHuffmanTable(stdACLuminanceCounts, stdACLuminanceValues)
	encDCChroma = buildEncodeHuffmanTable(stdDCChrominanceCounts, stdDCChrominanceValues)
	encACChroma = buildEncodeHuffmanTable(stdACChrominanceCounts, stdACChrominanceValues)
)

// Encode writes dyn as a baseline JPEG (spec §4.D). Grey images are
// encoded single-component; everything else is converted to YCbCr and
// encoded 4:4:4 (no chroma subsampling, one 8x8 block per component per
// MCU — simpler than the decoder's general subsampled MCU grid, and a
// strict subset of what the decoder above can read back).
func Encode(w io.Writer, dyn *rimage.DynamicImage, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}
	width, height := dyn.Dimensions()
	if width <= 0 || height <= 0 {
		return core.New(core.DimensionError, "empty image")
	}

	grey := dyn.Color().Kind == pixel.Grey
	lumaQuant := scaleQuantTable(&stdLuminanceQuantTable, quality)
	chromaQuant := scaleQuantTable(&stdChrominanceQuantTable, quality)

	if _, err := w.Write([]byte{0xFF, markerSOI}); err != nil {
		return err
	}
	if err := writeDQT(w, 0, &lumaQuant); err != nil {
		return err
	}
	if !grey {
		if err := writeDQT(w, 1, &chromaQuant); err != nil {
			return err
		}
	}
	if err := writeSOF0(w, width, height, grey); err != nil {
		return err
	}
	if err := writeDHT(w, 0, 0, stdDCLuminanceCounts, stdDCLuminanceValues); err != nil {
		return err
	}
	if err := writeDHT(w, 1, 0, stdACLuminanceCounts, stdACLuminanceValues); err != nil {
		return err
	}
	if !grey {
		if err := writeDHT(w, 0, 1, stdDCChrominanceCounts, stdDCChrominanceValues); err != nil {
			return err
		}
		if err := writeDHT(w, 1, 1, stdACChrominanceCounts, stdACChrominanceValues); err != nil {
			return err
		}
	}
	if err := writeSOSHeader(w, grey); err != nil {
		return err
	}

	entropy := encodeScan(dyn, width, height, grey, &lumaQuant, &chromaQuant)
	if _, err := w.Write(entropy); err != nil {
		return err
	}

	_, err := w.Write([]byte{0xFF, markerEOI})
	return err
}

func writeMarker(w io.Writer, marker byte, payload []byte) error {
	var hdr [4]byte
	hdr[0], hdr[1] = 0xFF, marker
	binary.BigEndian.PutUint16(hdr[2:4], uint16(len(payload)+2))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func writeDQT(w io.Writer, id int, table *[64]int32) error {
	payload := make([]byte, 1+64)
	payload[0] = byte(id)
	// DQT stores the table in zigzag order; table is in natural order.
	for i := range table {
		payload[1+i] = byte(table[zigzag[i]])
	}
	return writeMarker(w, markerDQT, payload)
}

func writeSOF0(w io.Writer, width, height int, grey bool) error {
	nComp := 3
	if grey {
		nComp = 1
	}
	payload := make([]byte, 6+nComp*3)
	payload[0] = 8 // sample precision
	binary.BigEndian.PutUint16(payload[1:3], uint16(height))
	binary.BigEndian.PutUint16(payload[3:5], uint16(width))
	payload[5] = byte(nComp)
	if grey {
		payload[6], payload[7], payload[8] = 1, 0x11, 0
	} else {
		payload[6], payload[7], payload[8] = 1, 0x11, 0
		payload[9], payload[10], payload[11] = 2, 0x11, 1
		payload[12], payload[13], payload[14] = 3, 0x11, 1
	}
	return writeMarker(w, markerSOF0, payload)
}

func writeDHT(w io.Writer, class, id int, counts [16]byte, values []byte) error {
	payload := make([]byte, 1+16+len(values))
	payload[0] = byte(class<<4 | id)
	copy(payload[1:17], counts[:])
	copy(payload[17:], values)
	return writeMarker(w, markerDHT, payload)
}

func writeSOSHeader(w io.Writer, grey bool) error {
	nComp := 3
	if grey {
		nComp = 1
	}
	payload := make([]byte, 1+nComp*2+3)
	payload[0] = byte(nComp)
	if grey {
		payload[1], payload[2] = 1, 0x00
	} else {
		payload[1], payload[2] = 1, 0x00
		payload[3], payload[4] = 2, 0x11
		payload[5], payload[6] = 3, 0x11
	}
	n := 1 + nComp*2
	payload[n], payload[n+1], payload[n+2] = 0, 63, 0
	return writeMarker(w, markerSOS, payload)
}

// encodeScan runs FDCT + quantize + zigzag + Huffman over every 8x8
// block, padding the image out to a multiple of 8 per dimension by
// replicating the edge pixel (spec §4.D encode path).
func encodeScan(dyn *rimage.DynamicImage, width, height int, grey bool, lumaQuant, chromaQuant *[64]int32) []byte {
	bw := bitio.NewJPEGBitWriter()
	padW, padH := (width+7)/8*8, (height+7)/8*8

	if grey {
		plane := extractPlane(padW, padH, func(x, y int) byte {
			return sampleGrey(dyn, width, height, x, y)
		})
		dcPred := 0
		for by := 0; by < padH; by += 8 {
			for bx := 0; bx < padW; bx += 8 {
				block := extractBlock(plane, padW, bx, by)
				encodeBlock(bw, block, lumaQuant, encDCLuma, encACLuma, &dcPred)
			}
		}
		return bw.Close()
	}

	yPlane := extractPlane(padW, padH, func(x, y int) byte {
		r, g, b := sampleRGB(dyn, width, height, x, y)
		yv, _, _ := pixel.RGBToYCbCr(r, g, b)
		return yv
	})
	cbPlane := extractPlane(padW, padH, func(x, y int) byte {
		r, g, b := sampleRGB(dyn, width, height, x, y)
		_, cb, _ := pixel.RGBToYCbCr(r, g, b)
		return cb
	})
	crPlane := extractPlane(padW, padH, func(x, y int) byte {
		r, g, b := sampleRGB(dyn, width, height, x, y)
		_, _, cr := pixel.RGBToYCbCr(r, g, b)
		return cr
	})

	dcY, dcCb, dcCr := 0, 0, 0
	for by := 0; by < padH; by += 8 {
		for bx := 0; bx < padW; bx += 8 {
			encodeBlock(bw, extractBlock(yPlane, padW, bx, by), lumaQuant, encDCLuma, encACLuma, &dcY)
			encodeBlock(bw, extractBlock(cbPlane, padW, bx, by), chromaQuant, encDCChroma, encACChroma, &dcCb)
			encodeBlock(bw, extractBlock(crPlane, padW, bx, by), chromaQuant, encDCChroma, encACChroma, &dcCr)
		}
	}
	return bw.Close()
}

func sampleGrey(dyn *rimage.DynamicImage, width, height, x, y int) byte {
	if x >= width {
		x = width - 1
	}
	if y >= height {
		y = height - 1
	}
	return dyn.Luma.Pixels[y*width+x].Y
}

func sampleRGB(dyn *rimage.DynamicImage, width, height, x, y int) (byte, byte, byte) {
	if x >= width {
		x = width - 1
	}
	if y >= height {
		y = height - 1
	}
	switch dyn.Kind {
	case rimage.DynRGB8:
		p := dyn.RGB.Pixels[y*width+x]
		return p.R, p.G, p.B
	case rimage.DynRGBA8:
		p := dyn.RGBA.Pixels[y*width+x]
		return p.R, p.G, p.B
	case rimage.DynLumaA8:
		p := dyn.LumaA.Pixels[y*width+x]
		return p.Y, p.Y, p.Y
	default:
		p := dyn.Luma.Pixels[y*width+x]
		return p.Y, p.Y, p.Y
	}
}

func extractPlane(padW, padH int, sample func(x, y int) byte) []byte {
	plane := make([]byte, padW*padH)
	for y := 0; y < padH; y++ {
		for x := 0; x < padW; x++ {
			plane[y*padW+x] = sample(x, y)
		}
	}
	return plane
}

func extractBlock(plane []byte, planeW, bx, by int) *[64]int32 {
	var block [64]int32
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			block[y*8+x] = int32(plane[(by+y)*planeW+bx+x]) - 128
		}
	}
	return &block
}

// encodeBlock runs FDCT, quantizes, zigzags, and Huffman-encodes one
// block's DC (against dcPred, updated in place) and AC coefficients.
func encodeBlock(bw *bitio.JPEGBitWriter, block *[64]int32, quant *[64]int32, dcTable, acTable *encodeHuffmanTable, dcPred *int) {
	coeffs := fdct8x8(block)

	var zz [64]int32
	for i := 0; i < 64; i++ {
		zz[i] = roundToInt32(coeffs[zigzag[i]] / float64(quant[zigzag[i]]))
	}

	diff := int(zz[0]) - *dcPred
	*dcPred = int(zz[0])
	writeMagnitude(bw, dcTable, diff)

	run := 0
	for k := 1; k < 64; k++ {
		if zz[k] == 0 {
			run++
			continue
		}
		for run >= 16 {
			writeHuffSymbol(bw, acTable, 0xF0) // ZRL
			run -= 16
		}
		s := int(magnitudeBits(int(zz[k])))
		writeHuffSymbol(bw, acTable, byte(run<<4|s))
		writeBits(bw, int(zz[k]), s)
		run = 0
	}
	if run > 0 {
		writeHuffSymbol(bw, acTable, 0x00) // EOB
	}
}

func magnitudeBits(v int) byte {
	if v < 0 {
		v = -v
	}
	n := byte(0)
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// writeBits emits a magnitude-coded value's n-bit representation per
// T.81 F.12: non-negative values as-is, negative values one's-complemented.
func writeBits(bw *bitio.JPEGBitWriter, v, n int) {
	if n == 0 {
		return
	}
	if v < 0 {
		v = v - 1
	}
	bw.WriteBits(uint32(v)&((1<<uint(n))-1), uint(n))
}

func writeMagnitude(bw *bitio.JPEGBitWriter, dcTable *encodeHuffmanTable, diff int) {
	s := magnitudeBits(diff)
	writeHuffSymbol(bw, dcTable, s)
	writeBits(bw, diff, int(s))
}

func writeHuffSymbol(bw *bitio.JPEGBitWriter, table *encodeHuffmanTable, sym byte) {
	bw.WriteBits(uint32(table.codes[sym]), uint(table.length[sym]))
}
