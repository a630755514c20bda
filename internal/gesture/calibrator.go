package gesture

import "math"

// Calibration constants.
const (
	// calibrationDrift is the fraction by which both bounds lean toward every
	// new observation, so the window recenters over tens of seconds.
	calibrationDrift = 0.0025
	// minRange floors the observed range before padding is applied.
	minRange = 0.08
	// minSpan floors the padded interval used as the divisor.
	minSpan = 0.06
)

// Padding applied to the openness and pinch windows.
var (
	OpennessPads = Pads{Low: 0.20, High: 0.12}
	PinchPads    = Pads{Low: 0.18, High: 0.14}
)

// Pads trims the usable interior of a calibration window, as fractions of its range.
type Pads struct {
	Low  float64
	High float64
}

// Bounds is an adaptive min/max pair. The zero value is not unset; use
// UnsetBounds.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// UnsetBounds returns the sentinel (+Inf, -Inf) pair.
func UnsetBounds() Bounds {
	return Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
}

// IsSet reports whether the bounds have seen an observation.
func (b Bounds) IsSet() bool {
	return !math.IsInf(b.Min, 0) && !math.IsInf(b.Max, 0)
}

// Normalize maps raw into [0,1] against b, returning the updated bounds.
// Degenerate input collapses onto the floors rather than dividing by zero.
func Normalize(raw float64, b Bounds, pads Pads) (float64, Bounds) {
	if !b.IsSet() {
		b = Bounds{Min: raw, Max: raw}
	}

	b.Min = math.Min(b.Min, raw)
	b.Max = math.Max(b.Max, raw)

	b.Min += (raw - b.Min) * calibrationDrift
	b.Max += (raw - b.Max) * calibrationDrift

	rng := math.Max(minRange, b.Max-b.Min)
	low := b.Min + rng*pads.Low
	high := b.Max - rng*pads.High

	return clamp01((raw - low) / math.Max(minSpan, high-low)), b
}

// Calibration is the per-session normalization state for openness and pinch.
type Calibration struct {
	Openness Bounds `json:"openness"`
	Pinch    Bounds `json:"pinch"`
}

// NewCalibration returns an unset calibration.
func NewCalibration() Calibration {
	return Calibration{Openness: UnsetBounds(), Pinch: UnsetBounds()}
}

// Reset returns both windows to the unset sentinel.
func (c *Calibration) Reset() {
	*c = NewCalibration()
}

// IsSet reports whether either window has been observed.
func (c *Calibration) IsSet() bool {
	return c.Openness.IsSet() || c.Pinch.IsSet()
}

// Apply fills the normalized fields of f, updating the windows.
func (c *Calibration) Apply(f Features) Features {
	f.Openness, c.Openness = Normalize(f.OpennessRaw, c.Openness, OpennessPads)
	f.Pinch, c.Pinch = Normalize(f.PinchRaw, c.Pinch, PinchPads)
	return f
}
