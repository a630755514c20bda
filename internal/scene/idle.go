package scene

import "math"

const (
	// idleRate is how fast the autopilot phase advances, per second.
	idleRate = 0.95
	// MaxStep caps the time integrated by a single render tick, in seconds.
	MaxStep = 0.05
)

// Idle drives the autopilot while no hand is tracked.
type Idle struct {
	Phase float64 `json:"phase"`
}

// Step advances the phase by dt seconds and overwrites every target with
// the slow breathing motion.
func (i *Idle) Step(dt float64, t *Targets) {
	i.Phase += dt * idleRate
	a := i.Phase

	t.Scale = 0.9 + math.Sin(a)*0.2
	t.Spread = 0.05 + math.Sin(a*0.9)*0.03
	t.SpinBoost = 0
	t.RotationX = 0.3 + math.Sin(a*0.33)*0.18
	t.Warp = 1.0
	t.Brightness = 0.5 + math.Sin(a*0.4)*0.08
	t.Action = ActionAutopilot
}
