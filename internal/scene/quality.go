package scene

import (
	"fmt"
	"time"
)

// Tier is a render resolution tier.
type Tier int

const (
	TierFull Tier = iota
	TierReduced
)

func (t Tier) String() string {
	if t == TierReduced {
		return "reduced"
	}
	return "full"
}

// MarshalText renders the tier name in JSON.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "full":
		*t = TierFull
	case "reduced":
		*t = TierReduced
	default:
		return fmt.Errorf("unknown tier %q", b)
	}
	return nil
}

// Quality measures frame rate over rolling windows and ratchets the render
// scale down once when it falls below the floor. The tier never goes back up.
type Quality struct {
	Floor        float64
	Window       time.Duration
	FullScale    float64
	ReducedScale float64

	Tier        Tier
	Frames      int
	WindowStart time.Time
	FPS         float64
}

// NewQuality returns a quality controller at the full tier.
func NewQuality(cfg Config) *Quality {
	return &Quality{
		Floor:        cfg.FPSFloor,
		Window:       cfg.FPSWindow,
		FullScale:    cfg.FullScale,
		ReducedScale: cfg.ReducedScale,
		Tier:         TierFull,
	}
}

// Observe counts one rendered frame. It reports whether a window closed
// and whether this measurement lowered the tier.
func (q *Quality) Observe(now time.Time) (measured, reduced bool) {
	if q.WindowStart.IsZero() {
		q.WindowStart = now
	}
	q.Frames++

	elapsed := now.Sub(q.WindowStart)
	if elapsed <= q.Window {
		return false, false
	}

	q.FPS = float64(q.Frames) / elapsed.Seconds()
	q.Frames = 0
	q.WindowStart = now

	if q.FPS < q.Floor && q.Tier == TierFull && q.FullScale > q.ReducedScale {
		q.Tier = TierReduced
		return true, true
	}
	return true, false
}

// Scale returns the render scale for the current tier.
func (q *Quality) Scale() float64 {
	if q.Tier == TierReduced {
		return q.ReducedScale
	}
	return q.FullScale
}
