package scene

import (
	"time"

	"github.com/ayusman/saturn/internal/detector"
	"github.com/ayusman/saturn/internal/gesture"
)

// Mode is the high-level state shown on the status display.
type Mode string

const (
	ModeStarting  Mode = "Starting"
	ModeLive      Mode = "Live"
	ModeAuto      Mode = "Auto"
	ModeCinematic Mode = "Cinematic"
	ModeManual    Mode = "Manual"
)

// Config holds tuning for the controller.
type Config struct {
	IdleAfter     time.Duration
	HyperDuration time.Duration
	FPSFloor      float64
	FPSWindow     time.Duration
	FullScale     float64
	ReducedScale  float64
	Gains         Gains
}

// DefaultConfig returns the stock controller tuning.
func DefaultConfig() Config {
	return Config{
		IdleAfter:     1400 * time.Millisecond,
		HyperDuration: DefaultHyperDuration,
		FPSFloor:      26,
		FPSWindow:     600 * time.Millisecond,
		FullScale:     2.0,
		ReducedScale:  1.0,
		Gains:         DefaultGains(),
	}
}

// EventKind classifies controller events.
type EventKind string

const (
	EventGestureEntered EventKind = "gesture_entered"
	EventModeChanged    EventKind = "mode_changed"
	EventQualityReduced EventKind = "quality_reduced"
)

// Event is emitted synchronously from Detect and Tick.
type Event struct {
	Kind    EventKind     `json:"kind"`
	Gesture gesture.Label `json:"gesture,omitempty"`
	Mode    Mode          `json:"mode,omitempty"`
	FPS     float64       `json:"fps,omitempty"`
	At      time.Time     `json:"at"`
}

// Status is the text-level view of the controller.
type Status struct {
	Gesture     string        `json:"gesture"`
	Label       gesture.Label `json:"label"`
	Raw         gesture.Label `json:"raw"`
	Action      string        `json:"action"`
	Mode        Mode          `json:"mode"`
	Tier        Tier          `json:"tier"`
	RenderScale float64       `json:"render_scale"`
	FPS         float64       `json:"fps"`
	HandPresent bool          `json:"hand_present"`
	Cinematic   bool          `json:"cinematic"`
	Hyper       bool          `json:"hyper"`
}

// Frame is everything a renderer needs for one display frame.
type Frame struct {
	At          time.Time `json:"at"`
	Elapsed     float64   `json:"elapsed"`
	ShaderTime  float64   `json:"shader_time"`
	Params      Params    `json:"params"`
	Chaos       float64   `json:"chaos"`
	ChaosKick   float64   `json:"chaos_kick"`
	Camera      Vec3      `json:"camera"`
	RingAngle   float64   `json:"ring_angle"`
	Lighting    Lighting  `json:"lighting"`
	RenderScale float64   `json:"render_scale"`
	HandPresent bool      `json:"hand_present"`
	Palm        *Vec2     `json:"palm,omitempty"`
	Pointer     *Vec2     `json:"pointer,omitempty"`
}

// Controller owns the full pipeline state. It is not safe for concurrent
// use; a single goroutine must deliver detections and ticks in order.
type Controller struct {
	cfg Config

	Calibration gesture.Calibration
	Stabilizer  *gesture.Stabilizer
	Targets     Targets
	Overrides   Overrides
	Idle        Idle
	Smoothed    Smoothed
	Quality     *Quality
	Rig         Rig

	// OnEvent, when set, receives gesture, mode and quality events.
	OnEvent func(Event)

	mode        Mode
	raw         gesture.Label
	features    gesture.Features
	handPresent bool
	handSeenAt  time.Time
	detectAt    time.Time
	start       time.Time
	lastTick    time.Time
	ringAngle   float64
}

// NewController returns a controller at rest with idle behavior pending.
func NewController(cfg Config) *Controller {
	c := &Controller{
		cfg:         cfg,
		Calibration: gesture.NewCalibration(),
		Stabilizer:  gesture.NewStabilizer(),
		Targets:     Targets{Params: RestParams(), Action: ActionWaiting},
		Smoothed:    Smoothed{Params: RestParams()},
		Quality:     NewQuality(cfg),
		Rig:         NewRig(),
		mode:        ModeStarting,
	}
	c.Stabilizer.OnEnter = c.entered
	return c
}

func (c *Controller) entered(l gesture.Label) {
	c.Overrides.Enter(l, c.detectAt, c.cfg.HyperDuration)
	c.emit(Event{Kind: EventGestureEntered, Gesture: l, At: c.detectAt})
}

func (c *Controller) emit(e Event) {
	if c.OnEvent != nil {
		c.OnEvent(e)
	}
}

// SetLive marks the input source as started. It only affects the mode
// shown before the first render tick.
func (c *Controller) SetLive() {
	if c.mode == ModeStarting {
		c.mode = ModeLive
	}
}

// Detect processes one detection result. A nil hand means the detector saw
// nothing, which makes the controller idle on the next tick. A hand whose
// features do not come out finite is treated the same way.
func (c *Controller) Detect(hand *detector.HandLandmarks, now time.Time) {
	if hand == nil {
		c.handPresent = false
		return
	}
	raw := gesture.Extract(hand)
	if !raw.Finite() {
		c.handPresent = false
		return
	}
	c.handPresent = true
	c.handSeenAt = now
	c.detectAt = now

	f := c.Calibration.Apply(raw)
	c.features = f
	c.raw = gesture.Classify(f)
	stable, _ := c.Stabilizer.Observe(c.raw)
	Map(stable, f, &c.Targets, &c.Overrides)
}

// IsIdle reports whether the autopilot drives the targets at now.
func (c *Controller) IsIdle(now time.Time) bool {
	return !c.handPresent || c.handSeenAt.IsZero() || now.Sub(c.handSeenAt) > c.cfg.IdleAfter
}

// Tick advances one render frame and returns the resulting frame.
func (c *Controller) Tick(now time.Time) Frame {
	var dt float64
	if !c.lastTick.IsZero() {
		dt = min(now.Sub(c.lastTick).Seconds(), MaxStep)
		dt = max(dt, 0)
	}
	if c.start.IsZero() {
		c.start = now
	}
	c.lastTick = now
	elapsed := now.Sub(c.start).Seconds()

	idle := c.IsIdle(now)
	if idle {
		c.Idle.Step(dt, &c.Targets)
		c.Stabilizer.Reset()
		c.Calibration.Reset()
		c.raw = gesture.None
	}
	c.setMode(c.modeFor(idle), now)

	c.Overrides.Apply(now, &c.Targets)
	c.Smoothed.Step(c.Targets.Params, c.cfg.Gains)
	c.Overrides.Decay()
	c.Smoothed.StepChaos(ChaosTarget(c.Smoothed.Scale, c.Overrides.ChaosKick), c.cfg.Gains)

	var palm, pointer *Vec2
	if !idle {
		palm = &Vec2{X: c.features.PalmX, Y: c.features.PalmY}
		pointer = &Vec2{X: c.features.PointerX, Y: c.features.PointerY}
	}
	c.Rig.Step(elapsed, c.Overrides.Cinematic, palm, c.Smoothed.Scale)
	c.ringAngle += dt * ringSpin(c.Smoothed.Chaos, c.Smoothed.SpinBoost)

	if _, reduced := c.Quality.Observe(now); reduced {
		c.emit(Event{Kind: EventQualityReduced, FPS: c.Quality.FPS, At: now})
	}

	return Frame{
		At:          now,
		Elapsed:     elapsed,
		ShaderTime:  elapsed * c.Smoothed.Warp,
		Params:      c.Smoothed.Params,
		Chaos:       c.Smoothed.Chaos,
		ChaosKick:   c.Overrides.ChaosKick,
		Camera:      c.Rig.Position,
		RingAngle:   c.ringAngle,
		Lighting:    LightingFor(c.Smoothed.Brightness, c.Smoothed.Chaos),
		RenderScale: c.Quality.Scale(),
		HandPresent: !idle,
		Palm:        palm,
		Pointer:     pointer,
	}
}

func (c *Controller) modeFor(idle bool) Mode {
	switch {
	case idle:
		return ModeAuto
	case c.Overrides.Cinematic:
		return ModeCinematic
	default:
		return ModeManual
	}
}

func (c *Controller) setMode(m Mode, now time.Time) {
	if c.mode == m {
		return
	}
	c.mode = m
	c.emit(Event{Kind: EventModeChanged, Mode: m, At: now})
}

// Status returns the current text-level state.
func (c *Controller) Status() Status {
	return Status{
		Gesture:     c.Stabilizer.Stable.Display(),
		Label:       c.Stabilizer.Stable,
		Raw:         c.raw,
		Action:      c.Targets.Action,
		Mode:        c.mode,
		Tier:        c.Quality.Tier,
		RenderScale: c.Quality.Scale(),
		FPS:         c.Quality.FPS,
		HandPresent: !c.IsIdle(c.lastTick),
		Cinematic:   c.Overrides.Cinematic,
		Hyper:       c.Overrides.Hyper(c.lastTick),
	}
}

// Features returns the normalized features of the last detected hand.
func (c *Controller) Features() gesture.Features {
	return c.features
}
