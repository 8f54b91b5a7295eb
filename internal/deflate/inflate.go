// Package deflate implements RFC 1951 DEFLATE decompression and the RFC
// 1950 zlib container used by PNG's IDAT stream.
package deflate

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/deepteams/raster/internal/bitio"
)

// ErrUnknownBlockType is returned for a BTYPE value of 3 (reserved).
var ErrUnknownBlockType = errors.New("deflate: unknown block type")

// ErrDistanceTooFar is returned when an LZ77 back-reference points
// before the start of the output produced so far.
var ErrDistanceTooFar = errors.New("deflate: distance too far back")

// bitReader adapts bitio.DeflateBitReader with a readBit helper suited
// to bit-at-a-time Huffman decode.
type bitReader struct {
	*bitio.DeflateBitReader
}

func (b *bitReader) readBit() (int, error) {
	v, err := b.ReadBits(1)
	return int(v), err
}

// lengthBase and lengthExtra give, for length symbols 257..285, the base
// length and number of extra bits (RFC 1951 §3.2.5).
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}
var lengthExtra = [29]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtra give, for distance symbols 0..29, the base
// distance and number of extra bits.
var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145,
	8193, 12289, 16385, 24577,
}
var distExtra = [30]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// clCodeOrder is the permutation in which HCLEN code-length code
// lengths are stored (RFC 1951 §3.2.7).
var clCodeOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// Inflate decompresses a raw DEFLATE stream (no zlib framing) read from r.
func Inflate(r io.Reader) ([]byte, error) {
	br := &bitReader{bitio.NewDeflateBitReader(bufio.NewReader(r))}
	var out []byte

	for {
		final, err := br.readBit()
		if err != nil {
			return nil, fmt.Errorf("deflate: reading block header: %w", err)
		}
		btypeBits, err := br.ReadBits(2)
		if err != nil {
			return nil, fmt.Errorf("deflate: reading block type: %w", err)
		}
		btype := int(btypeBits)

		switch btype {
		case 0:
			out, err = inflateStored(br, out)
		case 1:
			lits, _ := newHuffmanTable(fixedLiteralLengths())
			dists, _ := newHuffmanTable(fixedDistanceLengths())
			out, err = inflateHuffman(br, lits, dists, out)
		case 2:
			var lits, dists *huffmanTable
			lits, dists, err = readDynamicTables(br)
			if err == nil {
				out, err = inflateHuffman(br, lits, dists, out)
			}
		default:
			err = ErrUnknownBlockType
		}
		if err != nil {
			return nil, err
		}
		if final != 0 {
			return out, nil
		}
	}
}

func inflateStored(br *bitReader, out []byte) ([]byte, error) {
	br.AlignToByte()
	lenLo, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	lenHi, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	nlenLo, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	nlenHi, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	length := int(lenLo) | int(lenHi)<<8
	nlen := int(nlenLo) | int(nlenHi)<<8
	if length != nlen^0xFFFF {
		return nil, fmt.Errorf("deflate: stored block LEN/NLEN mismatch")
	}
	for i := 0; i < length; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func readDynamicTables(br *bitReader) (lits, dists *huffmanTable, err error) {
	hlitBits, err := br.ReadBits(5)
	if err != nil {
		return nil, nil, err
	}
	hdistBits, err := br.ReadBits(5)
	if err != nil {
		return nil, nil, err
	}
	hclenBits, err := br.ReadBits(4)
	if err != nil {
		return nil, nil, err
	}
	hlit := int(hlitBits) + 257
	hdist := int(hdistBits) + 1
	hclen := int(hclenBits) + 4

	var clLengths [19]int
	for i := 0; i < hclen; i++ {
		v, err := br.ReadBits(3)
		if err != nil {
			return nil, nil, err
		}
		clLengths[clCodeOrder[i]] = int(v)
	}
	clTable, err := newHuffmanTable(clLengths[:])
	if err != nil {
		return nil, nil, err
	}

	allLengths := make([]int, hlit+hdist)
	for i := 0; i < len(allLengths); {
		sym, err := clTable.decode(br)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym < 16:
			allLengths[i] = sym
			i++
		case sym == 16:
			if i == 0 {
				return nil, nil, ErrBadHuffman
			}
			n, err := br.ReadBits(2)
			if err != nil {
				return nil, nil, err
			}
			prev := allLengths[i-1]
			for c := 0; c < int(n)+3; c++ {
				allLengths[i] = prev
				i++
			}
		case sym == 17:
			n, err := br.ReadBits(3)
			if err != nil {
				return nil, nil, err
			}
			for c := 0; c < int(n)+3; c++ {
				allLengths[i] = 0
				i++
			}
		case sym == 18:
			n, err := br.ReadBits(7)
			if err != nil {
				return nil, nil, err
			}
			for c := 0; c < int(n)+11; c++ {
				allLengths[i] = 0
				i++
			}
		default:
			return nil, nil, ErrBadHuffman
		}
	}

	lits, err = newHuffmanTable(allLengths[:hlit])
	if err != nil {
		return nil, nil, err
	}
	dists, err = newHuffmanTable(allLengths[hlit:])
	if err != nil {
		return nil, nil, err
	}
	return lits, dists, nil
}

func inflateHuffman(br *bitReader, lits, dists *huffmanTable, out []byte) ([]byte, error) {
	for {
		sym, err := lits.decode(br)
		if err != nil {
			return nil, fmt.Errorf("deflate: decoding literal/length symbol: %w", err)
		}
		switch {
		case sym < 256:
			out = append(out, byte(sym))
		case sym == 256:
			return out, nil
		case sym <= 285:
			idx := sym - 257
			if idx >= len(lengthBase) {
				return nil, ErrBadHuffman
			}
			extra, err := br.ReadBits(uint(lengthExtra[idx]))
			if err != nil {
				return nil, err
			}
			length := lengthBase[idx] + int(extra)

			dsym, err := dists.decode(br)
			if err != nil {
				return nil, fmt.Errorf("deflate: decoding distance symbol: %w", err)
			}
			if dsym >= len(distBase) {
				return nil, ErrBadHuffman
			}
			dextra, err := br.ReadBits(uint(distExtra[dsym]))
			if err != nil {
				return nil, err
			}
			distance := distBase[dsym] + int(dextra)
			if distance > len(out) {
				return nil, ErrDistanceTooFar
			}

			start := len(out) - distance
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}
		default:
			return nil, ErrBadHuffman
		}
	}
}
