package gif

import (
	"bytes"
	"testing"

	"github.com/deepteams/raster/pixel"
)

// minimalGIF builds the Scenario G1 stream by hand: a GIF89a with a 1x1
// logical screen, global palette [black, white], a single image
// descriptor at (0,0,1,1), LZW minimum code size 2, and one pixel at
// palette index 1 (white). The LZW payload is clear(4), literal(1),
// end(5) packed LSB-first at code width 3.
func minimalGIF() []byte {
	var buf bytes.Buffer
	buf.WriteString("GIF89a")
	buf.Write([]byte{0x01, 0x00, 0x01, 0x00}) // screen width/height = 1,1
	buf.WriteByte(0x80)                       // global table present, 2 entries
	buf.WriteByte(0x00)                       // background index
	buf.WriteByte(0x00)                       // aspect ratio
	buf.Write([]byte{0x00, 0x00, 0x00})       // palette[0] = black
	buf.Write([]byte{0xFF, 0xFF, 0xFF})       // palette[1] = white

	buf.WriteByte(blockImageDescriptor)
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00})
	buf.WriteByte(0x02) // LZW minimum code size
	buf.WriteByte(0x02) // sub-block length
	buf.Write([]byte{0x4C, 0x01})
	buf.WriteByte(0x00) // sub-block terminator

	buf.WriteByte(blockTrailer)
	return buf.Bytes()
}

func TestMinimalGIFDecodesToWhitePixel(t *testing.T) {
	dec, err := NewDecoder(bytes.NewReader(minimalGIF()))
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
	want := []byte{0xFF, 0xFF, 0xFF}
	if !bytes.Equal(raw, want) {
		t.Fatalf("ReadImage() = %v, want %v", raw, want)
	}
}

func TestUnrecognizedVersionIsRejected(t *testing.T) {
	data := minimalGIF()
	data = append([]byte{}, data...)
	copy(data[0:6], "GIF86a")
	_, err := NewDecoder(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for an unrecognized GIF version")
	}
}

func TestInterlacedImageDescriptorIsUnsupported(t *testing.T) {
	data := minimalGIF()
	// The image descriptor's packed byte is the 9th byte after the
	// 0x2C introducer (after left, top, width, height); flip its
	// interlace bit (0x40).
	idx := bytes.IndexByte(data, blockImageDescriptor)
	data[idx+9] |= 0x40
	_, err := NewDecoder(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for an interlaced image descriptor")
	}
}
