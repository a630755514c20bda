package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Pose describes a synthetic right hand by which digits are extended.
type Pose struct {
	Thumb  bool
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool
	// Pinch places the thumb tip against the index fingertip.
	Pinch bool
}

// Synthetic hand geometry. The wrist sits low in the image and the knuckles
// 0.2 above it, so the palm size is 0.2. Extended fingertips reach well past
// their middle joints; curled fingertips fold back below the knuckles.
var (
	poseWrist    = Point3D{X: 0.50, Y: 0.90}
	poseKnuckleX = [4]float64{0.56, 0.50, 0.44, 0.38}
)

const (
	poseKnuckleY = 0.70
)

// PoseLandmarks builds a HandLandmarks for the given pose.
func PoseLandmarks(p Pose) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	lm.Points[Wrist] = poseWrist

	fingers := [4]struct {
		mcp      Landmark
		extended bool
	}{
		{IndexMCP, p.Index},
		{MiddleMCP, p.Middle},
		{RingMCP, p.Ring},
		{PinkyMCP, p.Pinky},
	}
	for i, f := range fingers {
		x := poseKnuckleX[i]
		lm.Points[f.mcp] = Point3D{X: x, Y: poseKnuckleY}
		if f.extended {
			lm.Points[f.mcp+1] = Point3D{X: x, Y: 0.62}
			lm.Points[f.mcp+2] = Point3D{X: x, Y: 0.57}
			lm.Points[f.mcp+3] = Point3D{X: x, Y: 0.52}
		} else {
			lm.Points[f.mcp+1] = Point3D{X: x, Y: 0.64, Z: -0.03}
			lm.Points[f.mcp+2] = Point3D{X: x, Y: 0.68, Z: -0.04}
			lm.Points[f.mcp+3] = Point3D{X: x, Y: 0.74, Z: -0.02}
		}
	}

	lm.Points[ThumbCMC] = Point3D{X: 0.57, Y: 0.86}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.82}
	switch {
	case p.Pinch:
		tip := lm.Points[IndexTip]
		lm.Points[ThumbTip] = Point3D{X: tip.X + 0.02, Y: tip.Y + 0.02, Z: tip.Z}
		lm.Points[ThumbIP] = Point3D{X: 0.62, Y: (0.82 + tip.Y) / 2}
	case p.Thumb:
		lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.77}
		lm.Points[ThumbTip] = Point3D{X: 0.74, Y: 0.72}
	default:
		lm.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.76, Z: -0.02}
		lm.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.78, Z: -0.03}
	}

	return lm
}

// Shifted returns a copy of the hand translated in the image plane.
func (h HandLandmarks) Shifted(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}

// OpenPalmLandmarks returns an open hand with all five digits extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true})
}

// FistLandmarks returns a closed fist.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{})
}

// PointLandmarks returns a hand pointing with the index finger.
func PointLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Index: true})
}

// VictoryLandmarks returns a V sign.
func VictoryLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Index: true, Middle: true})
}

// TridentLandmarks returns index, middle and ring extended.
func TridentLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Index: true, Middle: true, Ring: true})
}

// RockLandmarks returns index and pinky extended.
func RockLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Index: true, Pinky: true})
}

// LShapeLandmarks returns thumb and index extended at a right angle.
func LShapeLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Thumb: true, Index: true})
}

// PinchLandmarks returns the thumb tip touching the extended index fingertip.
func PinchLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Index: true, Pinch: true})
}

// OKLandmarks returns a thumb-index ring with the other three fingers extended.
func OKLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Index: true, Middle: true, Ring: true, Pinky: true, Pinch: true})
}
