package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/saturn/internal/detector"
	"github.com/ayusman/saturn/internal/scene"
	"github.com/ayusman/saturn/internal/store"
)

// Event is a controller event enriched with the state it left behind.
type Event struct {
	scene.Event
	Action  string
	Targets scene.Params
}

// Run starts the control loop and, if configured, the camera loop and the
// recorder. It blocks until ctx is cancelled or a loop fails. A camera that
// cannot be opened is reported in Status and does not stop the app.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer a.running.Store(false)

	a.startSession()
	defer a.endSession()

	g, ctx := errgroup.WithContext(ctx)
	events := make(chan Event, eventBuffer)

	g.Go(func() error {
		a.record(ctx, events)
		return nil
	})

	if cam := a.cfg.Camera; cam != nil {
		if err := cam.Open(); err != nil {
			a.log.Error("camera unavailable, waiting for landmark input", "error", err)
			a.setCameraError(fmt.Errorf("camera unavailable: %w", err))
		} else {
			a.setCameraError(nil)
			g.Go(func() error {
				defer a.closeCamera()
				return a.capture(ctx)
			})
		}
	}

	g.Go(func() error {
		defer close(events)
		return a.control(ctx, events)
	})

	err := g.Wait()
	if a.cfg.Hooks != nil {
		a.cfg.Hooks.Wait()
	}
	if a.cfg.Detector != nil {
		if cerr := a.cfg.Detector.Close(); cerr != nil {
			a.log.Warn("error closing detector", "error", cerr)
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// control is the single consumer that owns the scene controller.
func (a *App) control(ctx context.Context, events chan<- Event) error {
	c := scene.NewController(a.cfg.Scene)

	var pending []scene.Event
	c.OnEvent = func(e scene.Event) {
		pending = append(pending, e)
	}
	flush := func() {
		if len(pending) == 0 {
			return
		}
		st := c.Status()
		for _, e := range pending {
			if e.Mode == "" {
				e.Mode = st.Mode
			}
			ev := Event{Event: e, Action: st.Action, Targets: c.Targets.Params}
			select {
			case events <- ev:
			default:
				a.log.Warn("event dropped, recorder busy", "kind", e.Kind)
			}
		}
		pending = pending[:0]
	}
	publish := func() {
		st := c.Status()
		a.status.Store(&st)
	}

	c.SetLive()
	publish()

	ticker := time.NewTicker(a.cfg.TickInterval)
	defer ticker.Stop()

	a.log.Info("control loop started", "tick", a.cfg.TickInterval, "source", a.source())
	for {
		select {
		case <-ctx.Done():
			a.log.Info("control loop stopping")
			return nil

		case d := <-a.detections:
			c.Detect(d.hand, d.at)
			flush()
			publish()

		case now := <-ticker.C:
			f := c.Tick(now)
			a.frame.Store(&f)
			flush()
			publish()
		}
	}
}

// capture reads camera frames, runs hand detection and forwards the first
// hand. Read and detection errors are logged and forwarded as "no hand".
func (a *App) capture(ctx context.Context) error {
	cam := a.cfg.Camera
	interval := time.Second / time.Duration(max(cam.FPS(), 1))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.log.Info("camera loop started", "fps", cam.FPS())
	var failures int
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			failures++
			if failures == 1 || failures%100 == 0 {
				a.log.Warn("error reading frame", "error", err, "failures", failures)
			}
			a.offer(detection{at: time.Now()})
			continue
		}
		failures = 0

		if a.cfg.Preview {
			a.storePreview(frame)
		}

		if !a.IsEnabled() || a.cfg.Detector == nil {
			frame.Close()
			a.offer(detection{at: time.Now()})
			continue
		}

		hands, err := a.cfg.Detector.Detect(frame)
		frame.Close()
		if err != nil {
			a.log.Warn("error detecting hands", "error", err)
			hands = nil
		}
		a.offer(detection{hand: detector.First(hands), at: time.Now()})
	}
}

func (a *App) storePreview(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		a.log.Debug("preview encode failed", "error", err)
		return
	}
	b := append([]byte(nil), buf.GetBytes()...)
	buf.Close()
	a.preview.Store(&b)
}

func (a *App) closeCamera() {
	if err := a.cfg.Camera.Close(); err != nil {
		a.log.Warn("error closing camera", "error", err)
	}
}

func (a *App) startSession() {
	sess := &store.Session{ID: uuid.NewString(), Source: string(a.source()), StartedAt: time.Now()}
	a.session.Store(&sess.ID)

	if a.cfg.Store == nil {
		return
	}
	if err := a.cfg.Store.Sessions().Create(sess); err != nil {
		a.log.Error("failed to record session", "error", err)
		return
	}
	a.log.Info("session started", "session", sess.ID)
}

func (a *App) endSession() {
	if a.cfg.Store == nil {
		return
	}
	id := a.SessionID()
	if err := a.cfg.Store.Sessions().End(id, time.Now()); err != nil {
		a.log.Error("failed to close session", "session", id, "error", err)
	}
}
