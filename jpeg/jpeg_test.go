package jpeg

import (
	"bytes"
	"testing"

	"github.com/deepteams/raster/internal/bitio"
	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

func TestZigzagIsBijection(t *testing.T) {
	seen := make(map[int]bool, 64)
	for _, v := range zigzag {
		if v < 0 || v > 63 {
			t.Fatalf("zigzag entry out of range: %d", v)
		}
		if seen[v] {
			t.Fatalf("zigzag entry %d repeated", v)
		}
		seen[v] = true
	}
	if len(seen) != 64 {
		t.Fatalf("zigzag covers %d indices, want 64", len(seen))
	}
}

func Test8x8GreyDCOnlyRoundTrip(t *testing.T) {
	im := rimage.NewLumaImage(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			im.Set(x, y, pixel.Luma{Y: 128})
		}
	}
	dyn := rimage.FromLuma(im)

	var buf bytes.Buffer
	if err := Encode(&buf, dyn, DefaultQuality); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	w, h := dec.Dimensions()
	if w != 8 || h != 8 {
		t.Fatalf("dimensions = (%d,%d), want (8,8)", w, h)
	}
	if dec.ColorType() != (pixel.ColorType{Kind: pixel.Grey, Depth: 8}) {
		t.Fatalf("colortype = %v, want Grey(8)", dec.ColorType())
	}

	raw, err := dec.ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	for i, v := range raw {
		if v != 128 {
			t.Fatalf("pixel %d = %d, want 128", i, v)
		}
	}
}

func TestHuffmanLUTRoundTrip(t *testing.T) {
	enc := buildEncodeHuffmanTable(stdDCLuminanceCounts, stdDCLuminanceValues)
	dec := buildHuffmanTable(stdDCLuminanceCounts, stdDCLuminanceValues)

	bw := bitio.NewJPEGBitWriter()
	for _, sym := range stdDCLuminanceValues {
		bw.WriteBits(uint32(enc.codes[sym]), uint(enc.length[sym]))
	}
	br := bitio.NewJPEGBitReader(bw.Close())

	for _, want := range stdDCLuminanceValues {
		got := dec.decode(br)
		if got != want {
			t.Fatalf("decode() = %d, want %d", got, want)
		}
	}
}

func TestExtendSignExtension(t *testing.T) {
	cases := []struct {
		v    uint32
		n    uint
		want int32
	}{
		{0, 0, 0},
		{1, 1, 1},
		{0, 1, -1},
		{3, 2, 3},
		{0, 2, -3},
	}
	for _, c := range cases {
		if got := bitio.Extend(c.v, c.n); got != c.want {
			t.Errorf("Extend(%d,%d) = %d, want %d", c.v, c.n, got, c.want)
		}
	}
}
