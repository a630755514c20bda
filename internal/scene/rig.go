package scene

import "math"

// Vec2 is a position in normalized image space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a position in scene space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rig eases the scene camera toward a target framed by scale, the palm
// position and the cinematic orbit.
type Rig struct {
	Position Vec3 `json:"position"`
}

// NewRig returns a rig at its resting position.
func NewRig() Rig {
	return Rig{Position: Vec3{Z: 100}}
}

// Step moves the camera one tick toward its target. palm is nil when no
// hand is tracked.
func (r *Rig) Step(elapsed float64, cinematic bool, palm *Vec2, scale float64) {
	target := Vec3{Z: lerp(110, 56, smoothstep(0.2, 2.5, scale))}

	switch {
	case cinematic:
		c := elapsed * 0.17
		target.X = math.Sin(c) * 18
		target.Y = math.Sin(c*0.63) * 8
		target.Z += math.Cos(c) * 4
	case palm != nil:
		target.X = lerp(7, -7, palm.X)
		target.Y = lerp(8, -5, palm.Y)
	}

	r.Position.X = blend(r.Position.X, target.X, 0.06)
	r.Position.Y = blend(r.Position.Y, target.Y, 0.06)
	r.Position.Z = blend(r.Position.Z, target.Z, 0.07)
}

// Lighting are renderer hints derived from brightness and chaos.
type Lighting struct {
	Exposure       float64 `json:"exposure"`
	Key            float64 `json:"key"`
	Fill           float64 `json:"fill"`
	BloomThreshold float64 `json:"bloom_threshold"`
	BloomRadius    float64 `json:"bloom_radius"`
	BloomStrength  float64 `json:"bloom_strength"`
}

// LightingFor derives the lighting hints for the smoothed state.
func LightingFor(brightness, chaos float64) Lighting {
	return Lighting{
		Exposure:       clamp(0.34+brightness*0.56, 0.28, 1.05),
		Key:            lerp(0.8, 1.9, brightness),
		Fill:           lerp(0.14, 0.42, brightness),
		BloomThreshold: lerp(0.92, 0.8, brightness),
		BloomRadius:    lerp(0.5, 0.72, brightness),
		BloomStrength:  clamp(0.08+brightness*0.34+chaos*0.18, 0.08, 0.62),
	}
}

// ringSpin is the ring rotation rate in radians per second.
func ringSpin(chaos, spinBoost float64) float64 {
	return 0.03 + 0.1*chaos + spinBoost*0.22
}
