// Package main provides a macOS hook that turns entered gestures into media
// keys, volume changes or keystrokes via AppleScript.
//
// Bindings come from the manifest config:
//
//	{"bindings": {"rock": {"action": "volume-up"},
//	              "ok":   {"key": "space", "modifiers": ["command"]}}}
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Request represents the input from the hook dispatcher.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Session string          `json:"session,omitempty"`
	Mode    string          `json:"mode,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// Response represents the output to the hook dispatcher.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Binding is what a gesture triggers: either a named system action or a
// keystroke with modifiers.
type Binding struct {
	Action    string   `json:"action,omitempty"`
	Key       string   `json:"key,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// Config is the manifest config block.
type Config struct {
	Bindings map[string]Binding `json:"bindings"`
}

// systemScripts maps action names to AppleScript snippets.
var systemScripts = map[string]string{
	"volume-up":        `set volume output volume ((output volume of (get volume settings)) + 10)`,
	"volume-down":      `set volume output volume ((output volume of (get volume settings)) - 10)`,
	"volume-mute":      `set volume output muted (not (output muted of (get volume settings)))`,
	"brightness-up":    `tell application "System Events" to key code 144`,
	"brightness-down":  `tell application "System Events" to key code 145`,
	"media-play-pause": `tell application "System Events" to key code 100`,
	"media-next":       `tell application "System Events" to key code 101`,
	"media-prev":       `tell application "System Events" to key code 98`,
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	script, err := scriptFor(req)
	if err != nil {
		writeResponse(Response{Error: err.Error()})
		return
	}
	if script == "" {
		writeResponse(Response{Success: true})
		return
	}

	if err := runAppleScript(script); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("gesture %s failed: %v", req.Gesture, err)})
		return
	}
	writeResponse(Response{Success: true})
}

// scriptFor resolves the AppleScript for a request. An unbound gesture
// yields an empty script.
func scriptFor(req Request) (string, error) {
	if req.Action != "gesture_entered" {
		return "", fmt.Errorf("unknown action: %s", req.Action)
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return "", fmt.Errorf("failed to parse config: %w", err)
		}
	}

	b, ok := cfg.Bindings[req.Gesture]
	if !ok {
		return "", nil
	}

	switch {
	case b.Action != "":
		script, ok := systemScripts[b.Action]
		if !ok {
			return "", fmt.Errorf("unknown system action: %s", b.Action)
		}
		return script, nil
	case b.Key != "":
		return keystrokeScript(b.Key, b.Modifiers), nil
	default:
		return "", fmt.Errorf("binding for %s has neither action nor key", req.Gesture)
	}
}

// keystrokeScript generates an AppleScript for the given key and modifiers.
func keystrokeScript(key string, modifiers []string) string {
	var appleModifiers []string
	for _, mod := range modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`, key, strings.Join(appleModifiers, ", "))
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
