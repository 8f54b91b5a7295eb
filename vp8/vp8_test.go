package vp8

import "testing"

// TestBoolDecoderZerosDecodeToZero exercises Scenario V1: reading eight
// successive bools at probability 128 from an all-zero buffer always
// yields 0, since the value register never exceeds bigSplit.
func TestBoolDecoderZerosDecodeToZero(t *testing.T) {
	bd := NewBoolDecoder(make([]byte, 8))
	for i := 0; i < 8; i++ {
		if got := bd.ReadBool(128); got != 0 {
			t.Fatalf("read %d: ReadBool(128) = %d, want 0", i, got)
		}
	}
}

func TestBoolDecoderReadLiteral(t *testing.T) {
	bd := NewBoolDecoder(make([]byte, 8))
	if got := bd.ReadLiteral(8); got != 0 {
		t.Fatalf("ReadLiteral(8) = %d, want 0 on all-zero input", got)
	}
}

func TestReadWithTreeStaysInBounds(t *testing.T) {
	bd := NewBoolDecoder(make([]byte, 16))
	mode := bd.ReadWithTree(keyframeYModeTree, keyframeYModeProb)
	if mode < DCPred || mode > BPred {
		t.Fatalf("ReadWithTree(keyframeYModeTree) = %d, out of range", mode)
	}
	mode2 := bd.ReadWithTree(keyframeUVModeTree, keyframeUVModeProb)
	if mode2 < DCPred || mode2 > TMPred {
		t.Fatalf("ReadWithTree(keyframeUVModeTree) = %d, out of range", mode2)
	}
}

func TestPredictBlockVPred(t *testing.T) {
	above := []uint8{10, 20, 30, 40}
	left := []uint8{1, 2, 3, 4}
	dst := make([]uint8, 16)
	predictBlock(dst, 4, 4, VPred, above, left, 0, true, true)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if dst[y*4+x] != above[x] {
				t.Fatalf("V_PRED dst[%d][%d] = %d, want %d", y, x, dst[y*4+x], above[x])
			}
		}
	}
}

func TestPredictBlockHPred(t *testing.T) {
	above := []uint8{10, 20, 30, 40}
	left := []uint8{1, 2, 3, 4}
	dst := make([]uint8, 16)
	predictBlock(dst, 4, 4, HPred, above, left, 0, true, true)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if dst[y*4+x] != left[y] {
				t.Fatalf("H_PRED dst[%d][%d] = %d, want %d", y, x, dst[y*4+x], left[y])
			}
		}
	}
}

func TestPredictBlockDCPredNoNeighbors(t *testing.T) {
	dst := make([]uint8, 16)
	predictBlock(dst, 4, 4, DCPred, nil, nil, 0, false, false)
	for i, v := range dst {
		if v != 128 {
			t.Fatalf("DC_PRED[%d] = %d, want 128 with no neighbors", i, v)
		}
	}
}

func TestPredictBlockTMPredClips(t *testing.T) {
	above := []uint8{255, 255}
	left := []uint8{255, 255}
	dst := make([]uint8, 4)
	predictBlock(dst, 2, 2, TMPred, above, left, 0, true, true)
	for i, v := range dst {
		if v != 255 {
			t.Fatalf("TM_PRED[%d] = %d, want clipped to 255", i, v)
		}
	}
}

func TestAvg2Avg3(t *testing.T) {
	if got := avg2(10, 20); got != 15 {
		t.Errorf("avg2(10,20) = %d, want 15", got)
	}
	if got := avg3(10, 20, 30); got != 20 {
		t.Errorf("avg3(10,20,30) = %d, want 20", got)
	}
}

func TestPredict4x4BDCPred(t *testing.T) {
	var e [13]uint8
	for i := 1; i < 9; i++ {
		e[i] = 100
	}
	for i := 9; i < 13; i++ {
		e[i] = 100
	}
	dst := make([]uint8, 16)
	predict4x4(dst, 4, BDCPred, e)
	for i, v := range dst {
		if v != 100 {
			t.Fatalf("B_DC_PRED[%d] = %d, want 100", i, v)
		}
	}
}

func TestParseFrameTagKeyframe(t *testing.T) {
	// bit0=0 (keyframe), version bits=0, show_frame=1, first-partition
	// size packed into the remaining bits.
	tag, err := parseFrameTag([]byte{0x10, 0x00, 0x00})
	if err != nil {
		t.Fatalf("parseFrameTag: %v", err)
	}
	if !tag.KeyFrame {
		t.Fatal("expected KeyFrame=true")
	}
	if !tag.ShowFrame {
		t.Fatal("expected ShowFrame=true")
	}
}
