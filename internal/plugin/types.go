// Package plugin runs external hook programs when gestures are entered.
//
// Each hook lives in its own directory under the plugin directory with a
// plugin.json manifest naming the executable and the gestures it wants.
// The executable receives one JSON Request on stdin and answers with one
// JSON Response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
	"time"
)

// ActionGestureEntered is the request action sent when a gesture becomes stable.
const ActionGestureEntered = "gesture_entered"

// AnyGesture subscribes a hook to every gesture.
const AnyGesture = "*"

// Manifest describes a hook's metadata and subscriptions.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Gestures    []string        `json:"gestures"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Subscribes reports whether the hook wants events for gesture.
func (m *Manifest) Subscribes(gesture string) bool {
	return slices.Contains(m.Gestures, gesture) || slices.Contains(m.Gestures, AnyGesture)
}

// Request represents a request sent to a hook.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Session string          `json:"session,omitempty"`
	Mode    string          `json:"mode,omitempty"`
	At      time.Time       `json:"at"`
	Config  json.RawMessage `json:"config,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents the response from a hook.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered hook with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
