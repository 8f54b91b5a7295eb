package bitio

import (
	"bytes"
	"testing"
)

func TestCRC32_EmptyIEND(t *testing.T) {
	c := NewCRC32()
	c.Update([]byte("IEND"))
	if got, want := c.Sum(), uint32(0xAE426082); got != want {
		t.Errorf("CRC32(IEND) = 0x%08X, want 0x%08X", got, want)
	}
}

func TestAdler32_Empty(t *testing.T) {
	a := NewAdler32()
	if got := a.Sum(); got != 1 {
		t.Errorf("Adler32(empty) = %d, want 1", got)
	}
}

func TestDeflateBitReader_ReadBits(t *testing.T) {
	// 0xA5 = 1010_0101, LSB-first: first 4 bits = 0101, next 4 = 1010.
	r := bytes.NewReader([]byte{0xA5})
	br := NewDeflateBitReader(r)

	v, err := br.ReadBits(4)
	if err != nil || v != 0x5 {
		t.Fatalf("ReadBits(4) = %v, %v; want 0x5, nil", v, err)
	}
	v, err = br.ReadBits(4)
	if err != nil || v != 0xA {
		t.Fatalf("ReadBits(4) = %v, %v; want 0xA, nil", v, err)
	}
}

func TestJPEGBitReader_ByteStuffing(t *testing.T) {
	// 0xFF 0x00 is data byte 0xFF followed by a stuffing zero.
	br := NewJPEGBitReader([]byte{0xFF, 0x00, 0x12})
	if got := br.Receive(8); got != 0xFF {
		t.Fatalf("Receive(8) = 0x%X, want 0xFF", got)
	}
	if got := br.Receive(8); got != 0x12 {
		t.Fatalf("Receive(8) = 0x%X, want 0x12", got)
	}
}

func TestJPEGBitReader_MarkerTerminates(t *testing.T) {
	br := NewJPEGBitReader([]byte{0xFF, 0xD9})
	br.Receive(1)
	if br.PeekMarker() != 0xD9 {
		t.Fatalf("PeekMarker() = 0x%X, want 0xD9", br.PeekMarker())
	}
}

func TestExtend(t *testing.T) {
	cases := []struct {
		v, n uint
		want int32
	}{
		{0, 1, -1},
		{1, 1, 1},
		{0, 3, -7},
		{7, 3, 7},
		{3, 3, -4},
	}
	for _, c := range cases {
		if got := Extend(uint32(c.v), c.n); got != c.want {
			t.Errorf("Extend(%d,%d) = %d, want %d", c.v, c.n, got, c.want)
		}
	}
}

func TestLZWReader_ClearLiteralsEnd(t *testing.T) {
	// minCodeSize=2: clear=4, end=5, code width starts at 3 bits.
	// Stream: clear(4), a=1, b=2, end(5), packed LSB-first at 3 bits/code.
	const minCodeSize = 2
	codes := []int{4, 1, 2, 5}
	var acc uint32
	var nbits uint
	var data []byte
	width := uint(minCodeSize + 1)
	for _, c := range codes {
		acc |= uint32(c) << nbits
		nbits += width
		for nbits >= 8 {
			data = append(data, byte(acc&0xFF))
			acc >>= 8
			nbits -= 8
		}
	}
	if nbits > 0 {
		data = append(data, byte(acc&0xFF))
	}

	r := NewLZWReader(data, minCodeSize)
	out, err := r.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, []byte{1, 2}) {
		t.Fatalf("Decode() = %v, want [1 2]", out)
	}
}
