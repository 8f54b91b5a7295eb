package vp8

// Whole-macroblock (16x16 luma / 8x8 chroma) intra prediction modes
// (spec §4.F).
const (
	DCPred = iota
	VPred
	HPred
	TMPred
	BPred // luma only: run one of the 4x4 modes below per sub-block
)

// 4x4 luma sub-block intra prediction modes (spec §4.F).
const (
	BDCPred = iota
	BTMPred
	BVEPred
	BHEPred
	BLDPred
	BRDPred
	BVRPred
	BVLPred
	BHDPred
	BHUPred
)

// keyframeYModeTree walks to one of {BPred, DCPred, VPred, HPred, TMPred}.
// Tree shape and default keyframe probabilities per spec §4.F's
// read_with_tree algorithm, ported verbatim from the reference
// implementation's KEYFRAME_YMODE_TREE/KEYFRAME_YMODE_PROBS.
var keyframeYModeTree = []int8{
	-BPred, 2,
	4, 6,
	-DCPred, -VPred,
	-HPred, -TMPred,
}

var keyframeYModeProb = []uint8{145, 156, 163, 128}

// keyframeUVModeTree walks to one of {DCPred, VPred, HPred, TMPred}.
var keyframeUVModeTree = []int8{
	-DCPred, 2,
	-VPred, 4,
	-HPred, -TMPred,
}

var keyframeUVModeProb = []uint8{142, 114, 183}

// keyframeBPredModeTree walks to one of the ten 4x4 B_* modes.
var keyframeBPredModeTree = []int8{
	-BDCPred, 2,
	-BTMPred, 4,
	-BVEPred, 6,
	8, 12,
	-BHEPred, 10,
	-BRDPred, -BVRPred,
	-BLDPred, 14,
	-BVLPred, 16,
	-BHDPred, -BHUPred,
}

// bModeContextProb returns the 9-entry probability vector
// keyframeBPredModeContextProbs keys by the mode of the sub-block
// above and the sub-block to the left, per spec.md's "read a 4x4 mode
// from KEYFRAME_BPRED_MODE_TREE using the context probs[top][left]".
func bModeContextProb(above, left int) []uint8 {
	return keyframeBPredModeContextProbs[above][left][:]
}
