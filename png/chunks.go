package png

import (
	"encoding/binary"
	"io"

	"github.com/deepteams/raster/core"
	"github.com/deepteams/raster/internal/bitio"
	"github.com/deepteams/raster/internal/deflate"
	"github.com/deepteams/raster/pixel"
)

// idatReader concatenates the payload of every consecutive IDAT chunk
// into one contiguous byte stream for the zlib decompressor, advancing
// through the chunk framing as it goes. This is the "decompressor owns
// the chunk reader" layering spec §9 calls for: InflateZlib (the outer
// decompressor) reads from idatReader (the inner chunk reader), which
// reads from d.r (the raw source reader).
type idatReader struct {
	d       *Decoder
	pending []byte // unread bytes of the current IDAT chunk's payload
}

func (ir *idatReader) Read(p []byte) (int, error) {
	for len(ir.pending) == 0 {
		if ir.d.state == stateHaveIEND {
			return 0, io.EOF
		}
		length, typ, err := ir.d.readChunkHeader()
		if err != nil {
			return 0, err
		}
		if typ == "IDAT" {
			ir.d.state = stateHaveFirstIDAT
			payload, err := ir.d.readChunkPayload(length)
			if err != nil {
				return 0, err
			}
			ir.pending = payload
			continue
		}

		// Any chunk after the IDAT run began ends it. handleChunk reads
		// it and checks its CRC; ancillary chunks, out of scope per
		// spec §1, are then discarded.
		if ir.d.state == stateHaveFirstIDAT {
			ir.d.state = stateHaveLastIDAT
		}
		if err := ir.d.handleChunk(typ, length); err != nil {
			return 0, err
		}
		if typ == "IEND" {
			return 0, io.EOF
		}
	}
	n := copy(p, ir.pending)
	ir.pending = ir.pending[n:]
	return n, nil
}

// readChunkHeader reads the 4-byte length and 4-byte type of the next
// chunk, without consuming its payload or CRC.
func (d *Decoder) readChunkHeader() (int, string, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(d.r, hdr[:]); err != nil {
		return 0, "", core.Wrap(core.NotEnoughData, "reading chunk header", err)
	}
	length := int(binary.BigEndian.Uint32(hdr[0:4]))
	typ := string(hdr[4:8])
	d.curType = typ
	return length, typ, nil
}

// readChunkPayload reads length bytes of payload plus the trailing
// 4-byte CRC and verifies it against the type+payload.
func (d *Decoder) readChunkPayload(length int) ([]byte, error) {
	payload := make([]byte, length)
	if _, err := io.ReadFull(d.r, payload); err != nil {
		return nil, core.Wrap(core.NotEnoughData, "reading chunk payload", err)
	}
	var crcBuf [4]byte
	if _, err := io.ReadFull(d.r, crcBuf[:]); err != nil {
		return nil, core.Wrap(core.NotEnoughData, "reading chunk crc", err)
	}
	want := binary.BigEndian.Uint32(crcBuf[:])

	c := bitio.NewCRC32()
	c.Update([]byte(d.curType))
	c.Update(payload)
	if c.Sum() != want {
		return nil, core.New(core.FormatError, "chunk crc mismatch")
	}
	return payload, nil
}

// handleChunk consumes a chunk's payload+CRC and, for the types this
// decoder understands, records its contents. Chunks outside
// IHDR/PLTE/IDAT/IEND are skipped once read (spec §1 Non-goals:
// ancillary chunks are out of scope).
func (d *Decoder) handleChunk(typ string, length int) error {
	switch typ {
	case "IEND":
		payload, err := d.readChunkPayload(length)
		if err != nil {
			return err
		}
		if len(payload) != 0 {
			return core.New(core.FormatError, "non-empty IEND")
		}
		d.state = stateHaveIEND
		return nil
	case "PLTE":
		return d.readPLTE(length)
	default:
		if _, err := d.readChunkPayload(length); err != nil {
			return err
		}
		return nil
	}
}

func (d *Decoder) readPLTE(length int) error {
	payload, err := d.readChunkPayload(length)
	if err != nil {
		return err
	}
	if length%3 != 0 {
		return core.New(core.FormatError, "PLTE length not a multiple of 3")
	}
	n := length / 3
	if n > 256 || n > 1<<uint(d.bitDepth) {
		return core.New(core.FormatError, "PLTE too many entries")
	}
	d.palette = make([]pixel.RGB, n)
	for i := 0; i < n; i++ {
		d.palette[i] = pixel.RGB{R: payload[i*3], G: payload[i*3+1], B: payload[i*3+2]}
	}
	d.hasPLTE = true
	d.state = stateHavePLTE
	return nil
}

// readHeaderChunks reads IHDR and any PLTE/ancillary chunks up to (but
// not including) the first IDAT, leaving the reader positioned at the
// first IDAT chunk's header for decodeAll/idatReader to pick up.
func (d *Decoder) readHeaderChunks() error {
	length, typ, err := d.readChunkHeader()
	if err != nil {
		return err
	}
	if typ != "IHDR" {
		return core.New(core.FormatError, "expected IHDR as first chunk")
	}
	if err := d.readIHDR(length); err != nil {
		return err
	}

	for {
		length, typ, err := d.readChunkHeader()
		if err != nil {
			return err
		}
		if typ == "IDAT" {
			d.firstIDATLen = length
			d.haveFirstIDATLen = true
			return nil
		}
		if err := d.handleChunk(typ, length); err != nil {
			return err
		}
	}
}

func (d *Decoder) readIHDR(length int) error {
	if length != 13 {
		return core.New(core.FormatError, "bad IHDR length")
	}
	payload, err := d.readChunkPayload(length)
	if err != nil {
		return err
	}
	d.width = int(binary.BigEndian.Uint32(payload[0:4]))
	d.height = int(binary.BigEndian.Uint32(payload[4:8]))
	d.bitDepth = int(payload[8])
	d.colourType = int(payload[9])
	compression := payload[10]
	filter := payload[11]
	d.interlace = int(payload[12])

	if d.width == 0 || d.height == 0 {
		return core.New(core.DimensionError, "zero width or height")
	}
	if compression != 0 || filter != 0 {
		return core.New(core.FormatError, "unknown compression or filter method")
	}
	if d.interlace != 0 {
		return core.New(core.UnsupportedError, "interlaced PNG is not supported")
	}
	if _, ok := colourTypeKind(d.colourType); !ok {
		return core.New(core.FormatError, "unknown colour type")
	}
	if !allowedDepths(d.colourType, d.bitDepth) {
		return core.New(core.FormatError, "invalid colour type / bit depth combination")
	}

	kind, _ := colourTypeKind(d.colourType)
	chCount := pixel.ColorType{Kind: kind, Depth: uint8(d.bitDepth)}.Channels()
	d.rowLen = (chCount*d.bitDepth + 7) / 8 * d.width
	d.bpp = (chCount*d.bitDepth + 7) / 8
	if d.bpp == 0 {
		d.bpp = 1
	}

	d.state = stateHaveIHDR
	return nil
}

// decodeAll decompresses the whole IDAT stream, reverses the per-row
// filters, expands palette indices, and caches the result in d.rows.
func (d *Decoder) decodeAll() error {
	if d.colourType == 3 && !d.hasPLTE {
		return core.New(core.FormatError, "palette colour type without PLTE")
	}

	ir := &idatReader{d: d}
	if d.haveFirstIDATLen {
		d.state = stateHaveFirstIDAT
		payload, err := d.readChunkPayload(d.firstIDATLen)
		if err != nil {
			return err
		}
		ir.pending = payload
		d.haveFirstIDATLen = false
	}

	raw, err := deflate.InflateZlib(ir)
	if err != nil {
		return core.Wrap(core.FormatError, "inflating IDAT stream", err)
	}
	// Drain any chunks the zlib stream didn't need to touch (e.g. IEND,
	// if InflateZlib's final block landed before idatReader had to pull
	// another chunk header).
	for d.state != stateHaveIEND {
		length, typ, err := d.readChunkHeader()
		if err != nil {
			return err
		}
		if d.state == stateHaveFirstIDAT {
			d.state = stateHaveLastIDAT
		}
		if err := d.handleChunk(typ, length); err != nil {
			return err
		}
	}

	if len(raw) < (d.rowLen+1)*d.height {
		return core.New(core.NotEnoughData, "decompressed data shorter than expected")
	}

	rows := make([][]byte, d.height)
	prev := make([]byte, d.rowLen)
	off := 0
	for y := 0; y < d.height; y++ {
		filterType := raw[off]
		off++
		cur := make([]byte, d.rowLen)
		copy(cur, raw[off:off+d.rowLen])
		off += d.rowLen
		if err := unfilter(filterType, cur, prev, d.bpp); err != nil {
			return err
		}
		rows[y] = d.expandRow(cur)
		prev = cur
	}
	d.rows = rows
	d.decoded = true
	return nil
}

// expandRow widens a palette-indexed row to RGB8 triples, or returns the
// row unchanged for non-palette color types.
func (d *Decoder) expandRow(row []byte) []byte {
	if d.colourType != 3 {
		return row
	}
	indices := unpackIndices(row, d.bitDepth, d.width)
	out := make([]byte, d.width*3)
	for i, idx := range indices {
		c := d.palette[idx]
		out[i*3], out[i*3+1], out[i*3+2] = c.R, c.G, c.B
	}
	return out
}

// unpackIndices expands a bit-packed row of palette indices (1/2/4/8
// bits per index) into one byte per pixel.
func unpackIndices(row []byte, bitDepth, width int) []byte {
	out := make([]byte, width)
	if bitDepth == 8 {
		copy(out, row)
		return out
	}
	bitPos := 0
	for i := 0; i < width; i++ {
		byteIdx := bitPos / 8
		shift := 8 - bitDepth - (bitPos % 8)
		mask := byte((1 << uint(bitDepth)) - 1)
		out[i] = (row[byteIdx] >> uint(shift)) & mask
		bitPos += bitDepth
	}
	return out
}

// unfilter reverses one of the five PNG scanline filters in place
// (spec §4.C). All arithmetic is mod 256, which byte addition in Go
// already performs via wraparound.
func unfilter(filterType byte, cur, prev []byte, bpp int) error {
	switch filterType {
	case 0: // None
	case 1: // Sub
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case 2: // Up
		for i := range cur {
			cur[i] += prev[i]
		}
	case 3: // Average
		for i := range cur {
			var left byte
			if i >= bpp {
				left = cur[i-bpp]
			}
			cur[i] += byte((int(left) + int(prev[i])) / 2)
		}
	case 4: // Paeth
		for i := range cur {
			var a, c byte
			if i >= bpp {
				a = cur[i-bpp]
				c = prev[i-bpp]
			}
			cur[i] += paeth(a, prev[i], c)
		}
	default:
		return core.New(core.FormatError, "unknown filter type")
	}
	return nil
}

// paeth is PNG filter type 4's predictor (spec §4.C).
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
