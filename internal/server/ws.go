package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/saturn/internal/app"
	"github.com/ayusman/saturn/internal/detector"
	"github.com/ayusman/saturn/internal/scene"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 64 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateMessage is one message of the state feed.
type StateMessage struct {
	Frame  scene.Frame `json:"frame"`
	Status app.Status  `json:"status"`
}

// StateHandler streams render frames and status to websocket clients.
type StateHandler struct {
	app      Controller
	interval time.Duration
	log      *slog.Logger
}

// NewStateHandler creates a StateHandler sending hz messages per second.
func NewStateHandler(c Controller, hz int, log *slog.Logger) *StateHandler {
	return &StateHandler{app: c, interval: time.Second / time.Duration(max(hz, 1)), log: log}
}

// ServeHTTP upgrades the connection and writes state until the client goes
// away.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	// Clients never send anything we need, but reading is required to
	// notice close frames.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last time.Time
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		frame := h.app.Frame()
		if !frame.At.IsZero() && frame.At.Equal(last) {
			continue
		}
		last = frame.At

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(StateMessage{Frame: frame, Status: h.app.Status()}); err != nil {
			h.log.Debug("state client gone", "error", err)
			return
		}
	}
}

// LandmarksHandler accepts detection results from a browser-side detector.
type LandmarksHandler struct {
	app Controller
	log *slog.Logger
}

// NewLandmarksHandler creates a LandmarksHandler feeding c.
func NewLandmarksHandler(c Controller, log *slog.Logger) *LandmarksHandler {
	return &LandmarksHandler{app: c, log: log}
}

type landmarksReply struct {
	Error string `json:"error,omitempty"`
}

// ServeHTTP reads {"hands":[...]} messages and submits them. Malformed
// messages are answered with an error and the connection stays open.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	h.log.Info("landmark client connected", "remote", r.RemoteAddr)
	defer h.log.Info("landmark client disconnected", "remote", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		hands, err := detector.DecodeHands(data)
		if err != nil {
			h.log.Debug("bad landmark message", "error", err)
			reply, _ := json.Marshal(landmarksReply{Error: err.Error()})
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
				return
			}
			continue
		}
		h.app.Submit(hands)
	}
}
