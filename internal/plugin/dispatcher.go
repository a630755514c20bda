package plugin

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher runs subscribed hooks in the background so that callers never
// wait on an external process. At most limit hooks run at once; requests
// arriving while all slots are busy are dropped and logged.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	log      *slog.Logger
	slots    chan struct{}
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher running at most limit hooks concurrently.
func NewDispatcher(m *Manager, e *Executor, limit int, log *slog.Logger) *Dispatcher {
	if limit <= 0 {
		limit = 4
	}
	return &Dispatcher{
		manager:  m,
		executor: e,
		log:      log,
		slots:    make(chan struct{}, limit),
	}
}

// Dispatch starts every hook subscribed to req.Gesture and returns the
// number started.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) int {
	started := 0
	for _, p := range d.manager.ForGesture(req.Gesture) {
		select {
		case d.slots <- struct{}{}:
		default:
			d.log.Warn("hook dropped, all slots busy", "plugin", p.Manifest.Name, "gesture", req.Gesture)
			continue
		}

		r := req
		r.Config = p.Manifest.Config
		d.wg.Add(1)
		started++
		go func(p *Plugin) {
			defer d.wg.Done()
			defer func() { <-d.slots }()
			d.run(ctx, p, &r)
		}(p)
	}
	return started
}

func (d *Dispatcher) run(ctx context.Context, p *Plugin, req *Request) {
	resp, err := d.executor.Execute(ctx, p, req)
	if err != nil {
		d.log.Error("hook failed", "plugin", p.Manifest.Name, "gesture", req.Gesture, "error", err)
		return
	}
	if !resp.Success {
		d.log.Warn("hook reported failure", "plugin", p.Manifest.Name, "gesture", req.Gesture, "error", resp.Error)
		return
	}
	d.log.Debug("hook ran", "plugin", p.Manifest.Name, "gesture", req.Gesture)
}

// Wait blocks until every started hook has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
