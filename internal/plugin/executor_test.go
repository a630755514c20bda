package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScript creates an executable shell hook in a fresh directory.
func writeScript(t *testing.T, name, body string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name,
			Gestures:   []string{"open"},
		},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := writeScript(t, "ok-hook", `echo '{"success":true,"data":{"message":"hello world"}}'
`)

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plugin, &Request{
		Action:  ActionGestureEntered,
		Gesture: "open",
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Errorf("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]string
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("expected message 'hello world', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plugin := writeScript(t, "echo-hook", `INPUT=$(cat)
echo "{\"success\":true,\"data\":$INPUT}"
`)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	request := &Request{
		Action:  ActionGestureEntered,
		Gesture: "victory",
		Session: "abc",
		Mode:    "Cinematic",
		At:      at,
		Config:  json.RawMessage(`{"setting":"enabled"}`),
	}

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var received Request
	if err := json.Unmarshal(response.Data, &received); err != nil {
		t.Fatalf("failed to unmarshal echoed request: %v", err)
	}
	if received.Action != ActionGestureEntered || received.Gesture != "victory" {
		t.Errorf("received action/gesture = %q/%q", received.Action, received.Gesture)
	}
	if received.Session != "abc" || received.Mode != "Cinematic" {
		t.Errorf("received session/mode = %q/%q", received.Session, received.Mode)
	}
	if !received.At.Equal(at) {
		t.Errorf("received at = %v, want %v", received.At, at)
	}
	if string(received.Config) != `{"setting":"enabled"}` {
		t.Errorf("received config = %s", received.Config)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := writeScript(t, "slow-hook", "sleep 5\n")

	start := time.Now()
	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), plugin, &Request{Gesture: "open"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestExecutor_Cancelled(t *testing.T) {
	plugin := writeScript(t, "slow-hook", "sleep 5\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor(5*time.Second).Execute(ctx, plugin, &Request{Gesture: "open"})
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if errors.Is(err, ErrTimeout) {
		t.Errorf("cancellation should not be reported as a timeout: %v", err)
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	plugin := writeScript(t, "fail-hook", `echo '{"success":false,"error":"nope"}'
`)

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Gesture: "open"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if response.Success {
		t.Error("expected success=false")
	}
	if response.Error != "nope" {
		t.Errorf("expected error 'nope', got %q", response.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	plugin := writeScript(t, "junk-hook", "echo 'not json'\n")

	_, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Gesture: "open"})
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "decode response from junk-hook") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	plugin := writeScript(t, "exit-hook", "echo 'boom' >&2\nexit 3\n")

	_, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Gesture: "open"})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should include stderr: %v", err)
	}
}
