package vp8

import (
	"github.com/deepteams/raster/core"
)

// FrameTag is the 3-byte bitfield preceding every VP8 frame (spec §4.F).
type FrameTag struct {
	KeyFrame        bool
	Version         int
	ShowFrame       bool
	FirstPartSize   int
}

func parseFrameTag(buf []byte) (FrameTag, error) {
	if len(buf) < 3 {
		return FrameTag{}, core.New(core.NotEnoughData, "truncated vp8 frame tag")
	}
	raw := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
	return FrameTag{
		KeyFrame:      raw&1 == 0,
		Version:       int((raw >> 1) & 0x07),
		ShowFrame:     (raw>>4)&1 != 0,
		FirstPartSize: int(raw >> 5),
	}, nil
}

// segmentHeader holds the per-segment feature state (spec §4.F).
type segmentHeader struct {
	enabled       bool
	updateMap     bool
	absoluteDelta bool
	quantizer     [4]int
	loopFilter    [4]int
	treeProbs     [3]uint8
}

// loopFilterHeader is parsed for bitstream-position correctness; this
// module never applies the loop filter (spec §1 Non-goals).
type loopFilterHeader struct {
	simple     bool
	level      int
	sharpness  int
}

// quantHeader holds the six quantizer indices (spec §4.F).
type quantHeader struct {
	yacAbs                     int
	ydcDelta, y2dcDelta        int
	y2acDelta                  int
	uvdcDelta, uvacDelta       int
}

// Header is the fully parsed keyframe header, in spec §4.F's decode
// order, up to (but not including) the per-macroblock loop.
type Header struct {
	Tag            FrameTag
	Width, Height  int
	ColorSpace     int
	ClampingType   int
	Segment        segmentHeader
	LoopFilter     loopFilterHeader
	Quant          quantHeader
	Partitions     int
	RefreshEntropy bool
	NoSkipCoeff    bool
	SkipProb       uint8
	CoeffProbs     [4][8][3][11]uint8
}

// parseHeader parses the frame tag, keyframe start code, dimensions,
// and the compressed first-partition header (spec §4.F "Header decode
// order"), leaving bd positioned at the first per-macroblock mode.
func parseHeader(buf []byte) (*Header, *BoolDecoder, error) {
	tag, err := parseFrameTag(buf)
	if err != nil {
		return nil, nil, err
	}
	if !tag.KeyFrame {
		return nil, nil, core.New(core.UnsupportedError, "VP8 inter frames are not supported")
	}
	if len(buf) < 10 {
		return nil, nil, core.New(core.NotEnoughData, "truncated vp8 keyframe")
	}
	if buf[3] != 0x9D || buf[4] != 0x01 || buf[5] != 0x2A {
		return nil, nil, core.New(core.FormatError, "missing vp8 keyframe start code")
	}
	widthField := uint16(buf[6]) | uint16(buf[7])<<8
	heightField := uint16(buf[8]) | uint16(buf[9])<<8

	h := &Header{
		Tag:    tag,
		Width:  int(widthField & 0x3FFF),
		Height: int(heightField & 0x3FFF),
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, nil, core.New(core.DimensionError, "zero width or height")
	}

	bd := NewBoolDecoder(buf[10:])

	h.ColorSpace = bd.ReadLiteral(1)
	h.ClampingType = bd.ReadLiteral(1)

	if err := h.parseSegmentHeader(bd); err != nil {
		return nil, nil, err
	}
	h.parseLoopFilterHeader(bd)

	log2Partitions := bd.ReadLiteral(2)
	h.Partitions = 1 << log2Partitions

	h.parseQuantHeader(bd)

	h.RefreshEntropy = bd.ReadFlag()
	h.CoeffProbs = coeffProbs
	parseTokenProbUpdates(bd, &h.CoeffProbs)

	h.NoSkipCoeff = bd.ReadFlag()
	if h.NoSkipCoeff {
		h.SkipProb = uint8(bd.ReadLiteral(8))
	}

	return h, bd, nil
}

func (h *Header) parseSegmentHeader(bd *BoolDecoder) error {
	h.Segment.enabled = bd.ReadFlag()
	if !h.Segment.enabled {
		return nil
	}
	h.Segment.updateMap = bd.ReadFlag()
	updateFeatureData := bd.ReadFlag()
	if updateFeatureData {
		h.Segment.absoluteDelta = bd.ReadFlag()
		for i := 0; i < 4; i++ {
			if bd.ReadFlag() {
				h.Segment.quantizer[i] = bd.ReadMagnitudeAndSign(7)
			}
		}
		for i := 0; i < 4; i++ {
			if bd.ReadFlag() {
				h.Segment.loopFilter[i] = bd.ReadMagnitudeAndSign(6)
			}
		}
	}
	if h.Segment.updateMap {
		for i := 0; i < 3; i++ {
			if bd.ReadFlag() {
				h.Segment.treeProbs[i] = uint8(bd.ReadLiteral(8))
			} else {
				h.Segment.treeProbs[i] = 255
			}
		}
	}
	return nil
}

func (h *Header) parseLoopFilterHeader(bd *BoolDecoder) {
	h.LoopFilter.simple = bd.ReadFlag()
	h.LoopFilter.level = bd.ReadLiteral(6)
	h.LoopFilter.sharpness = bd.ReadLiteral(3)
	deltaEnabled := bd.ReadFlag()
	if deltaEnabled {
		if bd.ReadFlag() { // delta update
			for i := 0; i < 4; i++ {
				if bd.ReadFlag() {
					bd.ReadMagnitudeAndSign(6)
				}
			}
			for i := 0; i < 4; i++ {
				if bd.ReadFlag() {
					bd.ReadMagnitudeAndSign(6)
				}
			}
		}
	}
}

func (h *Header) parseQuantHeader(bd *BoolDecoder) {
	h.Quant.yacAbs = bd.ReadLiteral(7)
	readDelta := func() int {
		if bd.ReadFlag() {
			return bd.ReadMagnitudeAndSign(4)
		}
		return 0
	}
	h.Quant.ydcDelta = readDelta()
	h.Quant.y2dcDelta = readDelta()
	h.Quant.y2acDelta = readDelta()
	h.Quant.uvdcDelta = readDelta()
	h.Quant.uvacDelta = readDelta()
}

// parseTokenProbUpdates consumes the 4x8x3x11 coefficient-probability
// update flags, gated per cell by coeffUpdateProbs as spec.md §4.F
// requires ("token-probability updates (4x8x3x11 cells, each updated if
// a per-cell flag says so)"), applying any accompanying 8-bit literal to
// probs in place. probs starts as a copy of the default coeffProbs table
// and ends up holding the frame's actual coefficient probabilities; this
// module never decodes residual tokens itself (spec §1 Non-goals), but
// must still read these flags at their true probabilities or every bit
// read afterward desyncs from the encoder's bitstream position.
func parseTokenProbUpdates(bd *BoolDecoder, probs *[4][8][3][11]uint8) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 8; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 11; l++ {
					if bd.ReadBool(coeffUpdateProbs[i][j][k][l]) != 0 {
						probs[i][j][k][l] = uint8(bd.ReadLiteral(8))
					}
				}
			}
		}
	}
}
