package detector

import "gocv.io/x/gocv"

// Detector finds hands in camera frames.
//
// Detect never takes ownership of frame. An empty result with a nil error
// means no hand was visible.
type Detector interface {
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)
	Close() error
}

// Config tunes a Detector. Confidences are in [0,1].
type Config struct {
	// MaxHands caps how many hands the model tracks. Only the first is
	// ever consumed downstream.
	MaxHands        int
	MinConfidence   float64
	MinTrackingConf float64

	// ScriptPath overrides the MediaPipe service script lookup.
	ScriptPath string
}

// DefaultConfig tracks a single hand with the thresholds the gesture rules
// were tuned against.
func DefaultConfig() Config {
	return Config{MaxHands: 1, MinConfidence: 0.64, MinTrackingConf: 0.6}
}

// Func adapts a plain function to Detector. Close is a no-op.
type Func func(frame *gocv.Mat) ([]HandLandmarks, error)

func (f Func) Detect(frame *gocv.Mat) ([]HandLandmarks, error) { return f(frame) }

func (f Func) Close() error { return nil }

// First returns a copy of the first hand, or nil for an empty result.
func First(hands []HandLandmarks) *HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	h := hands[0]
	return &h
}
