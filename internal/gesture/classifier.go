package gesture

// Rule pairs a predicate with the label it produces.
type Rule struct {
	Label Label
	Match func(Features) bool
}

// Rules is the ordered classification chain. Predicates overlap, so the
// first match wins and the order must be kept as is.
var Rules = []Rule{
	{OK, func(f Features) bool {
		return f.Pinch < 0.45 && f.MiddleExtended && f.RingExtended && f.PinkyExtended
	}},
	{Pinch, func(f Features) bool {
		return f.Pinch < 0.58 && (f.ThumbExtended || f.IndexExtended)
	}},
	{LShape, func(f Features) bool {
		return f.ThumbExtended && f.IndexExtended && !f.MiddleExtended && !f.RingExtended && !f.PinkyExtended
	}},
	{Open, func(f Features) bool {
		return f.ThumbExtended && f.IndexExtended && f.MiddleExtended && f.RingExtended && f.PinkyExtended && f.Openness > 0.72
	}},
	{Victory, func(f Features) bool {
		return f.IndexExtended && f.MiddleExtended && !f.RingExtended && !f.PinkyExtended
	}},
	{Rock, func(f Features) bool {
		return f.IndexExtended && !f.MiddleExtended && !f.RingExtended && f.PinkyExtended
	}},
	{Point, func(f Features) bool {
		return f.IndexExtended && !f.MiddleExtended && !f.RingExtended && !f.PinkyExtended
	}},
	{Trident, func(f Features) bool {
		return f.IndexExtended && f.MiddleExtended && f.RingExtended && !f.PinkyExtended
	}},
	{Fist, func(f Features) bool {
		return f.FingersExtended() == 0 && f.Openness < 0.34
	}},
}

// Classify returns the label of the first matching rule, or None.
func Classify(f Features) Label {
	for _, r := range Rules {
		if r.Match(f) {
			return r.Label
		}
	}
	return None
}
