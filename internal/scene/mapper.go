package scene

import "github.com/ayusman/saturn/internal/gesture"

// Map applies the stable gesture to the targets. Each gesture writes only
// the channels it owns and leaves the rest as the previous controller left
// them; point and lshape clamp scale and spread into a range instead of
// setting them. None changes no targets.
//
// While a fist is held the chaos kick is kept at full strength.
func Map(g gesture.Label, f gesture.Features, t *Targets, o *Overrides) {
	switch g {
	case gesture.Open:
		t.Scale = lerp(1.05, 2.38, f.Openness)
		t.Spread = lerp(0.04, 1.05, f.Openness)
		t.SpinBoost = 0
		t.RotationX = lerp(-0.3, 0.65, 1-f.PalmY)
		t.Warp = lerp(1.0, 1.2, f.Openness)
		t.Brightness = lerp(0.54, 0.92, f.Openness)
		t.Action = ActionOpen

	case gesture.Pinch:
		p := f.Pinch
		t.Scale = lerp(0.58, 2.18, p)
		t.Spread = lerp(0.02, 0.78, p)
		t.SpinBoost = 0
		t.RotationX = lerp(-0.2, 0.6, 1-f.PalmY)
		t.Warp = lerp(1.18, 0.92, p)
		t.Brightness = lerp(0.86, 0.34, p)
		t.Action = ActionPinch

	case gesture.Fist:
		o.ChaosKick = 1.0
		t.Scale = 1.95
		t.Spread = 1.18
		t.SpinBoost = 0.25
		t.Warp = 1.35
		t.Brightness = 0.86
		t.Action = ActionFist

	case gesture.Point:
		t.RotationX = lerp(-0.62, 0.9, 1-f.PointerY)
		t.SpinBoost = 0
		t.Scale = clamp(t.Scale, 0.55, 1.8)
		t.Spread = clamp(t.Spread, 0.03, 0.42)
		t.Warp = 1.0
		t.Action = ActionPoint

	case gesture.LShape:
		t.Scale = clamp(t.Scale, 0.8, 2.0)
		t.Spread = clamp(t.Spread, 0.05, 0.7)
		t.SpinBoost = lerp(1.2, -1.2, f.PalmX)
		t.RotationX = lerp(-0.2, 0.6, 1-f.PalmY)
		t.Warp = 1.08
		t.Action = ActionLShape

	case gesture.Victory:
		t.SpinBoost = 0
		if o.Cinematic {
			t.Action = ActionCinematic
		} else {
			t.Action = ActionManual
		}

	case gesture.Trident:
		t.Warp = 2.0
		t.Spread = 0.52
		t.SpinBoost = 0.8
		t.Brightness = 0.9
		t.Action = ActionTrident

	case gesture.OK:
		t.Scale = 1.0
		t.Spread = 0.03
		t.SpinBoost = 0
		t.Warp = 0.95
		t.Brightness = 0.62
		t.Action = ActionOK

	case gesture.Rock:
		t.Scale = 1.45
		t.Spread = 0.32
		t.SpinBoost = 1.1
		t.Warp = 1.58
		t.Brightness = 0.74
		t.Action = ActionRock

	default:
		t.Action = ActionFreeHand
	}
}
