// Package app runs the saturn control loop.
//
// One goroutine owns the scene controller. Detections from the camera
// goroutine or from Submit arrive on a channel, render ticks come from a
// ticker, and each is processed to completion before the next. After every
// turn the loop publishes immutable Frame and Status snapshots that any
// goroutine may read. Gesture, mode and quality events are handed to a
// recorder goroutine that writes session history and starts hooks.
package app

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ayusman/saturn/internal/capture"
	"github.com/ayusman/saturn/internal/detector"
	"github.com/ayusman/saturn/internal/plugin"
	"github.com/ayusman/saturn/internal/scene"
	"github.com/ayusman/saturn/internal/store"
)

// ErrRunning is returned by Run when the app is already running.
var ErrRunning = errors.New("app already running")

// Source names where detections come from.
type Source string

const (
	SourceCamera    Source = "camera"
	SourceLandmarks Source = "landmarks"
)

const (
	detectionBuffer = 8
	eventBuffer     = 64
)

// Config holds the collaborators and tuning of an App.
type Config struct {
	Scene        scene.Config
	TickInterval time.Duration

	// Camera and Detector are optional; without them detections only
	// arrive through Submit.
	Camera   capture.Camera
	Detector detector.Detector
	// Preview keeps the latest camera frame as JPEG for Preview.
	Preview bool

	// Store and Hooks are optional.
	Store *store.Store
	Hooks *plugin.Dispatcher

	Logger *slog.Logger
}

// Status is the controller status plus app-level state.
type Status struct {
	scene.Status
	Enabled bool   `json:"enabled"`
	Running bool   `json:"running"`
	Session string `json:"session,omitempty"`
	Source  Source `json:"source"`
	Error   string `json:"error,omitempty"`
}

// App is the gesture control application.
type App struct {
	cfg Config
	log *slog.Logger

	detections chan detection

	enabled atomic.Bool
	running atomic.Bool
	dropped atomic.Int64

	session atomic.Pointer[string]
	camErr  atomic.Pointer[string]
	frame   atomic.Pointer[scene.Frame]
	status  atomic.Pointer[scene.Status]
	preview atomic.Pointer[[]byte]
}

type detection struct {
	hand *detector.HandLandmarks
	at   time.Time
}

// New creates an App. Zero tuning values fall back to the defaults.
func New(cfg Config) *App {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second / 60
	}
	if cfg.Scene == (scene.Config{}) {
		cfg.Scene = scene.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	a := &App{
		cfg:        cfg,
		log:        cfg.Logger.With("component", "app"),
		detections: make(chan detection, detectionBuffer),
	}
	a.enabled.Store(true)

	st := scene.NewController(cfg.Scene).Status()
	a.status.Store(&st)
	a.frame.Store(&scene.Frame{})
	return a
}

// SetEnabled pauses or resumes gesture control. While paused every
// detection is treated as "no hand" and the scene runs on autopilot.
func (a *App) SetEnabled(enabled bool) {
	if a.enabled.Swap(enabled) == enabled {
		return
	}
	a.log.Info("gesture control toggled", "enabled", enabled)
	if !enabled {
		a.offer(detection{at: time.Now()})
	}
}

// IsEnabled returns whether gesture control is enabled.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// Submit delivers one detection result, for example from a browser-side
// detector. Only the first hand is used. It reports false when the
// detection was dropped because the loop is not keeping up.
func (a *App) Submit(hands []detector.HandLandmarks) bool {
	return a.offer(detection{hand: detector.First(hands), at: time.Now()})
}

func (a *App) offer(d detection) bool {
	if !a.IsEnabled() {
		d.hand = nil
	}
	select {
	case a.detections <- d:
		return true
	default:
		a.dropped.Add(1)
		return false
	}
}

// Dropped returns the number of detections dropped so far.
func (a *App) Dropped() int64 {
	return a.dropped.Load()
}

// Frame returns the most recent render frame.
func (a *App) Frame() scene.Frame {
	return *a.frame.Load()
}

// Status returns the most recent status snapshot.
func (a *App) Status() Status {
	st := Status{
		Status:  *a.status.Load(),
		Enabled: a.IsEnabled(),
		Running: a.running.Load(),
		Source:  a.source(),
	}
	if s := a.session.Load(); s != nil {
		st.Session = *s
	}
	if e := a.camErr.Load(); e != nil {
		st.Error = *e
	}
	return st
}

// SessionID returns the current session ID, or "" before Run.
func (a *App) SessionID() string {
	if s := a.session.Load(); s != nil {
		return *s
	}
	return ""
}

// Preview returns the latest camera frame as JPEG, or nil.
func (a *App) Preview() []byte {
	if b := a.preview.Load(); b != nil {
		return *b
	}
	return nil
}

// HasCamera reports whether the app was configured with a camera.
func (a *App) HasCamera() bool {
	return a.cfg.Camera != nil
}

func (a *App) source() Source {
	if a.cfg.Camera != nil {
		return SourceCamera
	}
	return SourceLandmarks
}

func (a *App) setCameraError(err error) {
	if err == nil {
		a.camErr.Store(nil)
		return
	}
	msg := err.Error()
	a.camErr.Store(&msg)
}
