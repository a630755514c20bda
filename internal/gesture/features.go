package gesture

import (
	"math"

	"github.com/ayusman/saturn/internal/detector"
)

// Extraction thresholds.
const (
	// fingerReach is how much farther than its middle joint a fingertip
	// must be from the wrist to count as extended.
	fingerReach = 1.08
	// thumbReach is the thumb tip / thumb base distance ratio above which
	// the thumb counts as extended.
	thumbReach = 1.05

	opennessLow  = 0.9
	opennessSpan = 0.95

	palmEpsilon = 1e-5
)

// Features is the per-frame feature vector. Extract fills the raw fields;
// Calibration.Apply fills Openness and Pinch.
type Features struct {
	IndexExtended  bool `json:"index_extended"`
	MiddleExtended bool `json:"middle_extended"`
	RingExtended   bool `json:"ring_extended"`
	PinkyExtended  bool `json:"pinky_extended"`
	ThumbExtended  bool `json:"thumb_extended"`

	OpennessRaw float64 `json:"openness_raw"`
	PinchRaw    float64 `json:"pinch_raw"`

	Openness float64 `json:"openness"`
	Pinch    float64 `json:"pinch"`

	PointerX float64 `json:"pointer_x"`
	PointerY float64 `json:"pointer_y"`
	PalmX    float64 `json:"palm_x"`
	PalmY    float64 `json:"palm_y"`
}

// Extract derives the raw features of one hand frame.
// The frame must hold detector.NumLandmarks points.
func Extract(h *detector.HandLandmarks) Features {
	p := &h.Points
	fromWrist := h.Reach
	extended := func(tip, pip detector.Landmark) bool {
		return fromWrist(tip) > fromWrist(pip)*fingerReach
	}

	palm := fromWrist(detector.MiddleMCP) + palmEpsilon
	reach := fromWrist(detector.IndexTip) + fromWrist(detector.MiddleTip) +
		fromWrist(detector.RingTip) + fromWrist(detector.PinkyTip)

	return Features{
		IndexExtended:  extended(detector.IndexTip, detector.IndexPIP),
		MiddleExtended: extended(detector.MiddleTip, detector.MiddlePIP),
		RingExtended:   extended(detector.RingTip, detector.RingPIP),
		PinkyExtended:  extended(detector.PinkyTip, detector.PinkyPIP),
		ThumbExtended:  fromWrist(detector.ThumbTip)/(fromWrist(detector.ThumbMCP)+palmEpsilon) > thumbReach,

		OpennessRaw: clamp01((reach/(4*palm) - opennessLow) / opennessSpan),
		PinchRaw:    detector.Distance(p[detector.ThumbTip], p[detector.IndexTip]) / palm,

		PointerX: p[detector.IndexTip].X,
		PointerY: p[detector.IndexTip].Y,
		PalmX:    p[detector.MiddleMCP].X,
		PalmY:    p[detector.MiddleMCP].Y,
	}
}

// Finite reports whether every raw scalar is a finite number.
func (f Features) Finite() bool {
	for _, v := range [...]float64{f.OpennessRaw, f.PinchRaw, f.PointerX, f.PointerY, f.PalmX, f.PalmY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FingersExtended counts the extended non-thumb fingers.
func (f Features) FingersExtended() int {
	n := 0
	for _, e := range []bool{f.IndexExtended, f.MiddleExtended, f.RingExtended, f.PinkyExtended} {
		if e {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
