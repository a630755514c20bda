// Package gesture turns hand landmark frames into stable discrete gestures.
//
// A frame flows through Extract (raw features), Calibration.Apply (adaptive
// normalization), Classify (ordered rule list) and Stabilizer.Observe
// (hysteresis). Every stage is deterministic given its inputs and state.
package gesture

// Label is one discrete gesture.
type Label string

const (
	None    Label = "none"
	Open    Label = "open"
	Pinch   Label = "pinch"
	Fist    Label = "fist"
	Point   Label = "point"
	LShape  Label = "lshape"
	Victory Label = "victory"
	Trident Label = "trident"
	OK      Label = "ok"
	Rock    Label = "rock"
)

// Labels lists every gesture label.
var Labels = []Label{None, Open, Pinch, Fist, Point, LShape, Victory, Trident, OK, Rock}

var displayNames = map[Label]string{
	None:    "None",
	Open:    "Open",
	Pinch:   "Pinch",
	Fist:    "Fist",
	Point:   "Point",
	LShape:  "L",
	Victory: "Victory",
	Trident: "Trident",
	OK:      "OK",
	Rock:    "Rock",
}

// Display returns the status text for a label.
func (l Label) Display() string {
	if name, ok := displayNames[l]; ok {
		return name
	}
	return displayNames[None]
}

// Valid reports whether l is a known label.
func (l Label) Valid() bool {
	_, ok := displayNames[l]
	return ok
}
