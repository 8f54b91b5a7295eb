package jpeg

import "github.com/deepteams/raster/internal/bitio"

// huffmanTable is a baseline JPEG Huffman decode table built per T.81
// Annex C: mincode/maxcode/valptr keyed by code length, plus a 256-entry
// fast-path LUT for codes of length <= 8 (spec §4.D).
type huffmanTable struct {
	mincode [17]int32
	maxcode [17]int32 // -1 means "no code of this length"
	valptr  [17]int32
	values  []byte

	// lut[b] for an 8-bit lookahead b gives (symbol, length) when a code
	// of length <= 8 matches; length 17 is the "no match" sentinel.
	lutSymbol [256]byte
	lutLength [256]byte
}

const noLUTMatch = 17

// buildHuffmanTable builds canonical Huffman codes from the 16
// per-length symbol counts and the concatenated symbol list, per
// T.81 Annex C.
func buildHuffmanTable(counts [16]byte, symbols []byte) *huffmanTable {
	h := &huffmanTable{values: symbols}
	for i := range h.lutLength {
		h.lutLength[i] = noLUTMatch
	}

	var huffsize []int
	for l := 1; l <= 16; l++ {
		for i := 0; i < int(counts[l-1]); i++ {
			huffsize = append(huffsize, l)
		}
	}

	huffcode := make([]int32, len(huffsize))
	code := int32(0)
	si := 0
	if len(huffsize) > 0 {
		si = huffsize[0]
	}
	for i := 0; i < len(huffsize); {
		for i < len(huffsize) && huffsize[i] == si {
			huffcode[i] = code
			code++
			i++
		}
		code <<= 1
		si++
	}

	p := 0
	for l := 1; l <= 16; l++ {
		if counts[l-1] == 0 {
			h.maxcode[l] = -1
			continue
		}
		h.valptr[l] = int32(p)
		h.mincode[l] = huffcode[p]
		p += int(counts[l-1])
		h.maxcode[l] = huffcode[p-1]

		if l <= 8 {
			for i := h.valptr[l]; i < int32(p); i++ {
				codeLen := l
				codeVal := huffcode[i]
				prefix := codeVal << uint(8-codeLen)
				count := 1 << uint(8-codeLen)
				for b := 0; b < count; b++ {
					idx := int(prefix) | b
					h.lutSymbol[idx] = symbols[i]
					h.lutLength[idx] = byte(codeLen)
				}
			}
		}
	}
	return h
}

// decode reads one Huffman symbol from br.
func (h *huffmanTable) decode(br *bitio.JPEGBitReader) byte {
	peek := br.PeekBits(8)
	if l := h.lutLength[peek]; l != noLUTMatch {
		br.Skip(uint(l))
		return h.lutSymbol[peek]
	}

	// Slow path: codes longer than 8 bits. Re-walk from length 1 using
	// mincode/maxcode per T.81 Annex F.2.2.3, consuming one bit at a time.
	code := int32(0)
	for l := 1; l <= 16; l++ {
		bit := br.Receive(1)
		code = code<<1 | int32(bit)
		if h.maxcode[l] >= 0 && code <= h.maxcode[l] && code >= h.mincode[l] {
			idx := h.valptr[l] + (code - h.mincode[l])
			return h.values[idx]
		}
	}
	return 0
}
