// Package scene turns stable gestures into smoothly animated scene parameters.
//
// Targets are written by the gesture mapper or the idle autopilot, adjusted
// by timed overrides and low-pass filtered into the smoothed values a
// renderer reads once per display frame. Controller ties the stages together
// and owns all of their state.
package scene

import "math"

// Params is the set of animated scene scalars.
type Params struct {
	Scale      float64 `json:"scale"`
	Spread     float64 `json:"spread"`
	RotationX  float64 `json:"rotation_x"`
	SpinBoost  float64 `json:"spin_boost"`
	Warp       float64 `json:"warp"`
	Brightness float64 `json:"brightness"`
}

// RestParams returns the values the scene starts from.
func RestParams() Params {
	return Params{
		Scale:      1.0,
		Spread:     0.04,
		RotationX:  0.4,
		SpinBoost:  0,
		Warp:       1.0,
		Brightness: 0.58,
	}
}

// Targets are the values the smoother is pulling toward, plus a description
// of what the active controller is doing.
type Targets struct {
	Params
	Action string `json:"action"`
}

// Action descriptions shown on the status display.
const (
	ActionWaiting   = "Waiting for gesture"
	ActionAutopilot = "Autopilot"
	ActionFreeHand  = "Free hand"
	ActionOpen      = "Open: zoom out and spread"
	ActionPinch     = "Pinch: shrink"
	ActionFist      = "Fist: chaos"
	ActionPoint     = "Point: tilt"
	ActionLShape    = "L: spin the rings"
	ActionCinematic = "V: cinematic camera"
	ActionManual    = "V: manual camera"
	ActionTrident   = "Trident: hyper jump"
	ActionOK        = "OK: steady orbit"
	ActionRock      = "Rock: ring spin boost"
)

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func smoothstep(a, b, x float64) float64 {
	t := clamp((x-a)/(b-a), 0, 1)
	return t * t * (3 - 2*t)
}

// blend moves current toward target by the fraction k.
func blend(current, target, k float64) float64 {
	return current + (target-current)*k
}
