package png

import (
	"bytes"
	"testing"

	"github.com/deepteams/raster/pixel"
	"github.com/deepteams/raster/rimage"
)

func TestPaethIdentities(t *testing.T) {
	if got := paeth(5, 5, 5); got != 5 {
		t.Errorf("paeth(5,5,5) = %d, want 5", got)
	}
	if got := paeth(0, 0, 0); got != 0 {
		t.Errorf("paeth(0,0,0) = %d, want 0", got)
	}
}

func Test1x1RedPNGRoundTrip(t *testing.T) {
	im := rimage.NewRGBImageFromPixel(1, 1, pixel.RGB{R: 0xFF, G: 0x00, B: 0x00})
	dyn := rimage.FromRGB(im)

	var buf bytes.Buffer
	if err := Encode(&buf, dyn); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec, err := NewDecoder(&buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	w, h := dec.Dimensions()
	if w != 1 || h != 1 {
		t.Fatalf("dimensions = (%d,%d), want (1,1)", w, h)
	}
	if dec.ColorType() != (pixel.ColorType{Kind: pixel.RGBKind, Depth: 8}) {
		t.Fatalf("colortype = %v, want RGB(8)", dec.ColorType())
	}
	raw, err := dec.ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	want := []byte{0xFF, 0x00, 0x00}
	if !bytes.Equal(raw, want) {
		t.Fatalf("ReadImage() = %v, want %v", raw, want)
	}
}

func TestDecodeThenReencodeIsStable(t *testing.T) {
	im := rimage.NewRGBImage(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			im.Set(x, y, pixel.RGB{R: byte(x * 10), G: byte(y * 20), B: byte(x + y)})
		}
	}
	dyn := rimage.FromRGB(im)

	var buf1 bytes.Buffer
	if err := Encode(&buf1, dyn); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec1, err := NewDecoder(bytes.NewReader(buf1.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	raw1, err := dec1.ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}

	dyn2, err := rimage.FromBytes(raw1, 4, 3, pixel.ColorType{Kind: pixel.RGBKind, Depth: 8})
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	var buf2 bytes.Buffer
	if err := Encode(&buf2, dyn2); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec2, err := NewDecoder(bytes.NewReader(buf2.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	raw2, err := dec2.ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}

	if !bytes.Equal(raw1, raw2) {
		t.Fatalf("round-trip pixel bytes differ: %v != %v", raw1, raw2)
	}
}

func TestInterlacedPNGIsUnsupported(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(pngSignature[:])
	if err := writeIHDRRaw(&buf, 1, 1, 0, 0, 0, 1); err != nil {
		t.Fatalf("writeIHDRRaw: %v", err)
	}

	_, err := NewDecoder(&buf)
	if err == nil {
		t.Fatal("expected an error for interlace != 0")
	}
}

// writeIHDRRaw writes a raw IHDR chunk with an explicit interlace byte,
// for exercising rejection paths the normal encoder never produces.
func writeIHDRRaw(w *bytes.Buffer, width, height uint32, colourType, bitDepth, filter, interlace byte) error {
	payload := make([]byte, 13)
	payload[0], payload[1], payload[2], payload[3] = byte(width>>24), byte(width>>16), byte(width>>8), byte(width)
	payload[4], payload[5], payload[6], payload[7] = byte(height>>24), byte(height>>16), byte(height>>8), byte(height)
	payload[8] = bitDepth
	payload[9] = colourType
	payload[10] = 0
	payload[11] = filter
	payload[12] = interlace
	return writeChunk(w, "IHDR", payload)
}
