package gesture

// HoldFrames is the number of consecutive identical classifications needed
// before a gesture becomes stable.
const HoldFrames = 3

// Stabilizer debounces classifier output. Stable changes at most once per
// Observe call, and only after HoldFrames matching observations.
type Stabilizer struct {
	Candidate Label `json:"candidate"`
	Frames    int   `json:"frames"`
	Stable    Label `json:"stable"`

	// OnEnter is called once for every promotion, with the new stable label.
	OnEnter func(Label) `json:"-"`
}

// NewStabilizer returns a stabilizer at rest on None.
func NewStabilizer() *Stabilizer {
	return &Stabilizer{Candidate: None, Stable: None}
}

// Observe feeds one classification and returns the stable label and whether
// it was promoted by this observation.
func (s *Stabilizer) Observe(l Label) (Label, bool) {
	if l == s.Candidate {
		s.Frames++
	} else {
		s.Candidate = l
		s.Frames = 1
	}

	if s.Frames < HoldFrames || s.Candidate == s.Stable {
		return s.Stable, false
	}

	s.Stable = s.Candidate
	if s.OnEnter != nil {
		s.OnEnter(s.Stable)
	}
	return s.Stable, true
}

// Reset drops any candidate and returns to None without firing OnEnter.
func (s *Stabilizer) Reset() {
	s.Candidate = None
	s.Frames = 0
	s.Stable = None
}
