package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/saturn/internal/app"
	"github.com/ayusman/saturn/internal/detector"
	"github.com/ayusman/saturn/internal/gesture"
	"github.com/ayusman/saturn/internal/scene"
	"github.com/ayusman/saturn/internal/store"
)

// fakeApp is a Controller with canned snapshots that records submissions.
type fakeApp struct {
	mu        sync.Mutex
	status    app.Status
	frame     scene.Frame
	enabled   bool
	preview   []byte
	camera    bool
	session   string
	submitted [][]detector.HandLandmarks
}

func newFakeApp() *fakeApp {
	return &fakeApp{
		enabled: true,
		status: app.Status{
			Status: scene.Status{
				Gesture: "Open",
				Label:   gesture.Open,
				Action:  scene.ActionOpen,
				Mode:    scene.ModeManual,
			},
			Running: true,
			Source:  app.SourceLandmarks,
		},
		frame: scene.Frame{At: time.Unix(100, 0), Params: scene.RestParams()},
	}
}

func (f *fakeApp) Status() app.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.status
	st.Enabled = f.enabled
	return st
}

func (f *fakeApp) Frame() scene.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame
}

func (f *fakeApp) setFrame(fr scene.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frame = fr
}

func (f *fakeApp) Submit(hands []detector.HandLandmarks) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, hands)
	return true
}

func (f *fakeApp) submissions() [][]detector.HandLandmarks {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]detector.HandLandmarks(nil), f.submitted...)
}

func (f *fakeApp) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
}

func (f *fakeApp) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeApp) Preview() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

func (f *fakeApp) HasCamera() bool { return f.camera }

func (f *fakeApp) SessionID() string { return f.session }

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}

		var response map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_Status(t *testing.T) {
	s := New(Config{App: newFakeApp()})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var st map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if st["gesture"] != "Open" || st["label"] != "open" {
		t.Errorf("unexpected gesture fields: %v %v", st["gesture"], st["label"])
	}
	if st["mode"] != "Manual" || st["action"] != scene.ActionOpen {
		t.Errorf("unexpected mode/action: %v %v", st["mode"], st["action"])
	}
	if st["enabled"] != true || st["source"] != "landmarks" {
		t.Errorf("unexpected app fields: %v %v", st["enabled"], st["source"])
	}
}

func TestServer_Enabled(t *testing.T) {
	fake := newFakeApp()
	s := New(Config{App: fake})

	req := httptest.NewRequest(http.MethodPut, "/api/enabled", strings.NewReader(`{"enabled": false}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if fake.IsEnabled() {
		t.Error("expected app to be paused")
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"enabled":false}` {
		t.Errorf("unexpected body %s", got)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/enabled", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for missing field, got %d", http.StatusBadRequest, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/enabled", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestServer_Routes(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		path   string
		want   int
	}{
		{"no app no status", Config{}, "/api/status", http.StatusNotFound},
		{"no store no sessions", Config{App: newFakeApp()}, "/api/sessions", http.StatusNotFound},
		{"no camera no stream", Config{App: newFakeApp()}, "/api/stream", http.StatusNotFound},
		{"unknown path", Config{}, "/api/nonexistent", http.StatusNotFound},
		{"no static dir", Config{}, "/", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.config)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestServer_SessionsKeepLiveSession(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	sess := &store.Session{Source: "camera"}
	if err := st.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	fake := newFakeApp()
	fake.session = sess.ID
	s := New(Config{App: fake, Store: st})

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()
	page := "<html><body>saturn</body></html>"
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(page), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != page {
		t.Errorf("expected body %q, got %q", page, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/missing.js", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{})
	if s.config.StateHz != defaultStateHz {
		t.Errorf("expected StateHz %d, got %d", defaultStateHz, s.config.StateHz)
	}
	var _ http.Handler = s
}
