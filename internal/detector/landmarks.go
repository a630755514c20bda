// Package detector provides hand landmark types and the detectors that produce them.
package detector

import "math"

// NumLandmarks is the number of points in one hand frame.
const NumLandmarks = 21

// Landmark indexes a point of a hand frame in MediaPipe hand landmarker
// order: wrist, then four joints per digit from thumb to pinky, base first.
type Landmark int

const (
	Wrist Landmark = iota
	ThumbCMC
	ThumbMCP
	ThumbIP
	ThumbTip
	IndexMCP
	IndexPIP
	IndexDIP
	IndexTip
	MiddleMCP
	MiddlePIP
	MiddleDIP
	MiddleTip
	RingMCP
	RingPIP
	RingDIP
	RingTip
	PinkyMCP
	PinkyPIP
	PinkyDIP
	PinkyTip
)

var landmarkNames = [NumLandmarks]string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_mcp", "index_pip", "index_dip", "index_tip",
	"middle_mcp", "middle_pip", "middle_dip", "middle_tip",
	"ring_mcp", "ring_pip", "ring_dip", "ring_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

func (l Landmark) String() string {
	if l < 0 || int(l) >= NumLandmarks {
		return "landmark(?)"
	}
	return landmarkNames[l]
}

// Point3D is a landmark position. X and Y are normalized to the image,
// Z is relative depth with the wrist near zero.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand. It is read-only once handed to the
// control loop.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"`
	Score      float64               `json:"score"`
}

func (h *HandLandmarks) At(l Landmark) Point3D {
	return h.Points[l]
}

// Reach is the distance of l from the wrist.
func (h *HandLandmarks) Reach(l Landmark) float64 {
	return Distance(h.Points[l], h.Points[Wrist])
}

// PalmCenter is the middle finger knuckle, used as the palm position.
func (h *HandLandmarks) PalmCenter() Point3D {
	return h.Points[MiddleMCP]
}

func Distance(a, b Point3D) float64 {
	return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y) + (a.Z-b.Z)*(a.Z-b.Z))
}
