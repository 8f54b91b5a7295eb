package deflate

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/deepteams/raster/internal/bitio"
)

// ErrZlibHeader is returned when the two-byte zlib header fails its
// checksum or names an unsupported compression method.
var ErrZlibHeader = errors.New("deflate: invalid zlib header")

// ErrZlibDictionary is returned when the FDICT bit is set; a preset
// dictionary is not supported.
var ErrZlibDictionary = errors.New("deflate: preset dictionaries are not supported")

// ErrAdlerMismatch is returned when the trailing Adler-32 does not match
// the decompressed payload.
var ErrAdlerMismatch = errors.New("deflate: adler-32 checksum mismatch")

// InflateZlib decompresses a zlib-wrapped DEFLATE stream (RFC 1950):
// a 2-byte header, the DEFLATE payload, and a big-endian Adler-32
// trailer over the decompressed bytes.
func InflateZlib(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)

	cmf, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("deflate: reading zlib header: %w", err)
	}
	flg, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("deflate: reading zlib header: %w", err)
	}
	if (uint16(cmf)*256+uint16(flg))%31 != 0 {
		return nil, ErrZlibHeader
	}
	if cmf&0x0F != 8 {
		return nil, ErrZlibHeader
	}
	if flg&0x20 != 0 {
		return nil, ErrZlibDictionary
	}

	out, err := Inflate(br)
	if err != nil {
		return nil, err
	}

	var trailer [4]byte
	if _, err := io.ReadFull(br, trailer[:]); err != nil {
		return nil, fmt.Errorf("deflate: reading adler-32 trailer: %w", err)
	}
	want := binary.BigEndian.Uint32(trailer[:])

	a := bitio.NewAdler32()
	a.Update(out)
	if a.Sum() != want {
		return nil, ErrAdlerMismatch
	}
	return out, nil
}

// DeflateStored compresses src as a sequence of DEFLATE stored
// (uncompressed) blocks, each up to 65535 bytes. It is simple rather
// than space-efficient; the PNG encoder (§4.C) calls this via
// DeflateZlib, trading compression ratio for decoder simplicity.
func DeflateStored(src []byte) []byte {
	var out []byte
	if len(src) == 0 {
		return []byte{0x01, 0x00, 0x00, 0xFF, 0xFF}
	}
	for off := 0; off < len(src); {
		n := len(src) - off
		if n > 65535 {
			n = 65535
		}
		final := byte(0)
		if off+n >= len(src) {
			final = 1
		}
		out = append(out, final)
		var lenBuf [4]byte
		binary.LittleEndian.PutUint16(lenBuf[0:2], uint16(n))
		binary.LittleEndian.PutUint16(lenBuf[2:4], ^uint16(n))
		out = append(out, lenBuf[:]...)
		out = append(out, src[off:off+n]...)
		off += n
	}
	return out
}

// DeflateZlib wraps src in a zlib stream using stored DEFLATE blocks.
// PNG's encoder (§4.C) trades compression ratio for decoder simplicity:
// nothing is compressed, so the output is slightly larger than src, and
// the encoder's per-row filter choice does not shrink it either.
func DeflateZlib(src []byte) []byte {
	out := make([]byte, 0, len(src)+16)
	out = append(out, 0x78, 0x01) // CMF=8 (deflate, 32K window), FLG chosen so header%31==0
	out = append(out, DeflateStored(src)...)

	a := bitio.NewAdler32()
	a.Update(src)
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], a.Sum())
	return append(out, trailer[:]...)
}
