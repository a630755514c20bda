package scene

import (
	"math"
	"time"

	"github.com/ayusman/saturn/internal/gesture"
)

const (
	// DefaultHyperDuration is how long a trident keeps the hyper boost alive.
	DefaultHyperDuration = 2500 * time.Millisecond

	hyperWarp  = 2.05
	hyperKick  = 0.34
	kickDecay  = 0.91
	chaosStart = 1.95
	chaosFull  = 2.45
)

// Overrides holds the state set by gesture-entered effects: a toggled
// cinematic camera, a timed hyper boost and a decaying chaos kick.
type Overrides struct {
	Cinematic  bool      `json:"cinematic"`
	HyperUntil time.Time `json:"hyper_until"`
	ChaosKick  float64   `json:"chaos_kick"`
}

// Enter runs the one-shot effect of a newly stable gesture.
func (o *Overrides) Enter(g gesture.Label, now time.Time, hyper time.Duration) {
	switch g {
	case gesture.Victory:
		o.Cinematic = !o.Cinematic
	case gesture.Trident:
		o.HyperUntil = now.Add(hyper)
	case gesture.Fist:
		o.ChaosKick = 1.0
	}
}

// Hyper reports whether the hyper boost is active at now.
func (o *Overrides) Hyper(now time.Time) bool {
	return now.Before(o.HyperUntil)
}

// Apply raises the warp target and the chaos kick while hyper is active.
func (o *Overrides) Apply(now time.Time, t *Targets) {
	if !o.Hyper(now) {
		return
	}
	t.Warp = math.Max(t.Warp, hyperWarp)
	o.ChaosKick = math.Max(o.ChaosKick, hyperKick)
}

// Decay shrinks the chaos kick; it is called once per render tick.
func (o *Overrides) Decay() {
	o.ChaosKick *= kickDecay
}

// ChaosTarget combines the kick with a ramp on large smoothed scales.
func ChaosTarget(scale, kick float64) float64 {
	return clamp(smoothstep(chaosStart, chaosFull, scale)+kick, 0, 1)
}
