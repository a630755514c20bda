package scene

// Gains are the per-channel blend factors applied once per render tick.
// They are not scaled by elapsed time, so settling speed follows the
// display refresh rate.
type Gains struct {
	Scale      float64 `yaml:"scale"`
	Spread     float64 `yaml:"spread"`
	RotationX  float64 `yaml:"rotation_x"`
	SpinBoost  float64 `yaml:"spin_boost"`
	Warp       float64 `yaml:"warp"`
	Brightness float64 `yaml:"brightness"`
	Chaos      float64 `yaml:"chaos"`
}

// DefaultGains returns the stock blend factors.
func DefaultGains() Gains {
	return Gains{
		Scale:      0.11,
		Spread:     0.12,
		RotationX:  0.10,
		SpinBoost:  0.12,
		Warp:       0.08,
		Brightness: 0.11,
		Chaos:      0.16,
	}
}

// Smoothed is the renderer-facing state: current parameter values and
// chaos energy.
type Smoothed struct {
	Params
	Chaos float64 `json:"chaos"`
}

// Step blends the six parameters toward target.
func (s *Smoothed) Step(target Params, g Gains) {
	s.Scale = blend(s.Scale, target.Scale, g.Scale)
	s.Spread = blend(s.Spread, target.Spread, g.Spread)
	s.SpinBoost = blend(s.SpinBoost, target.SpinBoost, g.SpinBoost)
	s.RotationX = blend(s.RotationX, target.RotationX, g.RotationX)
	s.Warp = blend(s.Warp, target.Warp, g.Warp)
	s.Brightness = blend(s.Brightness, target.Brightness, g.Brightness)
}

// StepChaos blends chaos energy toward target.
func (s *Smoothed) StepChaos(target float64, g Gains) {
	s.Chaos = blend(s.Chaos, target, g.Chaos)
}
