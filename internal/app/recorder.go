package app

import (
	"context"
	"encoding/json"

	"github.com/ayusman/saturn/internal/plugin"
	"github.com/ayusman/saturn/internal/scene"
	"github.com/ayusman/saturn/internal/store"
)

// record consumes controller events until events is closed. It logs each
// event, writes it to the store and dispatches gesture hooks.
func (a *App) record(ctx context.Context, events <-chan Event) {
	for ev := range events {
		switch ev.Kind {
		case scene.EventGestureEntered:
			a.log.Info("gesture entered", "gesture", ev.Gesture, "action", ev.Action, "mode", ev.Mode)
			a.recordGesture(ev)
			a.dispatch(ctx, ev)

		case scene.EventModeChanged:
			a.log.Info("mode changed", "mode", ev.Mode)

		case scene.EventQualityReduced:
			a.log.Warn("render quality reduced", "fps", ev.FPS)
			a.recordQuality(ev)
		}
	}
}

func (a *App) recordGesture(ev Event) {
	if a.cfg.Store == nil {
		return
	}
	err := a.cfg.Store.Events().AddGesture(&store.GestureEvent{
		SessionID: a.SessionID(),
		Gesture:   string(ev.Gesture),
		Action:    ev.Action,
		Mode:      string(ev.Mode),
		At:        ev.At,
	})
	if err != nil {
		a.log.Error("failed to record gesture", "gesture", ev.Gesture, "error", err)
	}
}

func (a *App) recordQuality(ev Event) {
	if a.cfg.Store == nil {
		return
	}
	err := a.cfg.Store.Events().AddQuality(&store.QualityEvent{
		SessionID: a.SessionID(),
		Tier:      scene.TierReduced.String(),
		FPS:       ev.FPS,
		At:        ev.At,
	})
	if err != nil {
		a.log.Error("failed to record quality change", "error", err)
	}
}

func (a *App) dispatch(ctx context.Context, ev Event) {
	if a.cfg.Hooks == nil {
		return
	}
	params, err := json.Marshal(ev.Targets)
	if err != nil {
		a.log.Warn("failed to encode params", "error", err)
	}
	a.cfg.Hooks.Dispatch(ctx, plugin.Request{
		Action:  plugin.ActionGestureEntered,
		Gesture: string(ev.Gesture),
		Session: a.SessionID(),
		Mode:    string(ev.Mode),
		At:      ev.At,
		Params:  params,
	})
}
