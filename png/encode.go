package png

import (
	"encoding/binary"
	"io"

	"github.com/deepteams/raster/internal/bitio"
	"github.com/deepteams/raster/internal/deflate"
	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

// idatChunkCap bounds how large a single emitted IDAT chunk is; large
// images are split across several (spec §4.C: "one or more IDAT
// chunks").
const idatChunkCap = 1 << 20

// Encode writes dyn as a PNG stream to w: signature, IHDR, one or more
// IDAT chunks, IEND. Each row's filter is chosen to minimize the sum of
// signed-byte absolute values of the filtered row (spec §4.C).
func Encode(w io.Writer, dyn *rimage.DynamicImage) error {
	width, height := dyn.Dimensions()
	ct := dyn.Color()

	if _, err := w.Write(pngSignature[:]); err != nil {
		return err
	}
	if err := writeIHDR(w, width, height, ct); err != nil {
		return err
	}

	raw := dyn.RawPixels()
	bpp := ct.Channels() // 8-bit depth only
	rowLen := bpp * width

	filtered := make([]byte, 0, (rowLen+1)*height)
	prev := make([]byte, rowLen)
	for y := 0; y < height; y++ {
		cur := raw[y*rowLen : (y+1)*rowLen]
		ftype, row := chooseFilter(cur, prev, bpp)
		filtered = append(filtered, ftype)
		filtered = append(filtered, row...)
		prev = cur
	}

	compressed := deflate.DeflateZlib(filtered)
	for off := 0; off < len(compressed); off += idatChunkCap {
		end := off + idatChunkCap
		if end > len(compressed) {
			end = len(compressed)
		}
		if err := writeChunk(w, "IDAT", compressed[off:end]); err != nil {
			return err
		}
	}

	return writeChunk(w, "IEND", nil)
}

func writeIHDR(w io.Writer, width, height int, ct pixel.ColorType) error {
	var payload [13]byte
	binary.BigEndian.PutUint32(payload[0:4], uint32(width))
	binary.BigEndian.PutUint32(payload[4:8], uint32(height))
	payload[8] = 8 // this encoder only emits 8-bit depth
	payload[9] = byte(pngColourType(ct.Kind))
	payload[10] = 0
	payload[11] = 0
	payload[12] = 0
	return writeChunk(w, "IHDR", payload[:])
}

func pngColourType(k pixel.Kind) int {
	switch k {
	case pixel.Grey:
		return 0
	case pixel.RGBKind:
		return 2
	case pixel.GreyA:
		return 4
	case pixel.RGBAKind:
		return 6
	default:
		return 2
	}
}

func writeChunk(w io.Writer, typ string, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, typ); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	c := bitio.NewCRC32()
	c.Update([]byte(typ))
	c.Update(payload)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], c.Sum())
	_, err := w.Write(crcBuf[:])
	return err
}

// chooseFilter tries all five PNG filters against cur (given the
// previous reconstructed row prev) and returns the one whose filtered
// bytes, read as signed values, have the smallest sum of absolute
// values (spec §4.C).
func chooseFilter(cur, prev []byte, bpp int) (byte, []byte) {
	candidates := [5][]byte{
		applyFilter(0, cur, prev, bpp),
		applyFilter(1, cur, prev, bpp),
		applyFilter(2, cur, prev, bpp),
		applyFilter(3, cur, prev, bpp),
		applyFilter(4, cur, prev, bpp),
	}
	best := byte(0)
	bestScore := filterScore(candidates[0])
	for f := byte(1); f < 5; f++ {
		if s := filterScore(candidates[f]); s < bestScore {
			bestScore = s
			best = f
		}
	}
	return best, candidates[best]
}

func filterScore(row []byte) int {
	sum := 0
	for _, b := range row {
		v := int(int8(b))
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum
}

func applyFilter(ftype byte, cur, prev []byte, bpp int) []byte {
	out := make([]byte, len(cur))
	switch ftype {
	case 0:
		copy(out, cur)
	case 1:
		for i := range cur {
			var left byte
			if i >= bpp {
				left = cur[i-bpp]
			}
			out[i] = cur[i] - left
		}
	case 2:
		for i := range cur {
			out[i] = cur[i] - prev[i]
		}
	case 3:
		for i := range cur {
			var left byte
			if i >= bpp {
				left = cur[i-bpp]
			}
			out[i] = cur[i] - byte((int(left)+int(prev[i]))/2)
		}
	case 4:
		for i := range cur {
			var a, c byte
			if i >= bpp {
				a = cur[i-bpp]
				c = prev[i-bpp]
			}
			out[i] = cur[i] - paeth(a, prev[i], c)
		}
	}
	return out
}
