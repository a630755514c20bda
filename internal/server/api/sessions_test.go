package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/saturn/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func seedSession(t *testing.T, s *store.Store, started time.Time, gestures ...string) *store.Session {
	t.Helper()

	sess := &store.Session{Source: "camera", StartedAt: started}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	for i, g := range gestures {
		err := s.Events().AddGesture(&store.GestureEvent{
			SessionID: sess.ID,
			Gesture:   g,
			Action:    "action " + g,
			Mode:      "Manual",
			At:        started.Add(time.Duration(i+1) * time.Second),
		})
		if err != nil {
			t.Fatalf("failed to add gesture: %v", err)
		}
	}
	return sess
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionHandler_List(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	older := seedSession(t, s, base, "open")
	newer := seedSession(t, s, base.Add(time.Hour), "fist", "fist")
	handler := NewSessionHandler(s)

	rec := serve(handler, http.MethodGet, "/api/sessions")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var resp listSessionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(resp.Sessions))
	}
	if resp.Sessions[0].ID != newer.ID || resp.Sessions[1].ID != older.ID {
		t.Errorf("sessions not newest first: %+v", resp.Sessions)
	}
	if resp.Sessions[0].Gestures != 2 {
		t.Errorf("expected 2 gestures, got %d", resp.Sessions[0].Gestures)
	}
	if resp.Sessions[0].EndedAt != nil {
		t.Errorf("expected open session, got ended_at %v", *resp.Sessions[0].EndedAt)
	}
}

func TestSessionHandler_ListLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		seedSession(t, s, base.Add(time.Duration(i)*time.Minute))
	}
	handler := NewSessionHandler(s)

	rec := serve(handler, http.MethodGet, "/api/sessions?limit=2")
	var resp listSessionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(resp.Sessions))
	}

	rec = serve(handler, http.MethodGet, "/api/sessions?limit=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSessionHandler_ListEmpty(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	rec := serve(handler, http.MethodGet, "/api/sessions")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := rec.Body.String(); got != "{\"sessions\":[]}\n" {
		t.Errorf("unexpected body %q", got)
	}
}

func TestSessionHandler_Get(t *testing.T) {
	s := newTestStore(t)
	started := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	sess := seedSession(t, s, started, "open")
	if err := s.Sessions().End(sess.ID, started.Add(time.Minute)); err != nil {
		t.Fatalf("failed to end session: %v", err)
	}
	handler := NewSessionHandler(s)

	rec := serve(handler, http.MethodGet, "/api/sessions/"+sess.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != sess.ID || resp.Source != "camera" {
		t.Errorf("unexpected session %+v", resp)
	}
	if resp.StartedAt != "2026-05-01T10:00:00Z" {
		t.Errorf("unexpected started_at %s", resp.StartedAt)
	}
	if resp.EndedAt == nil || *resp.EndedAt != "2026-05-01T10:01:00Z" {
		t.Errorf("unexpected ended_at %v", resp.EndedAt)
	}
}

func TestSessionHandler_GetNotFound(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	rec := serve(handler, http.MethodGet, "/api/sessions/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "Session not found" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestSessionHandler_Events(t *testing.T) {
	s := newTestStore(t)
	started := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	sess := seedSession(t, s, started, "open", "fist", "open")
	err := s.Events().AddQuality(&store.QualityEvent{SessionID: sess.ID, Tier: "reduced", FPS: 21.5, At: started})
	if err != nil {
		t.Fatalf("failed to add quality event: %v", err)
	}
	handler := NewSessionHandler(s)

	rec := serve(handler, http.MethodGet, "/api/sessions/"+sess.ID+"/events")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp eventsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Gestures) != 3 {
		t.Fatalf("expected 3 gesture events, got %d", len(resp.Gestures))
	}
	if resp.Gestures[1].Gesture != "fist" {
		t.Errorf("expected events in order, got %s second", resp.Gestures[1].Gesture)
	}
	if resp.Counts["open"] != 2 || resp.Counts["fist"] != 1 {
		t.Errorf("unexpected counts %v", resp.Counts)
	}
	if len(resp.Quality) != 1 || resp.Quality[0].Tier != "reduced" {
		t.Errorf("unexpected quality events %+v", resp.Quality)
	}
}

func TestSessionHandler_EventsNotFound(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	rec := serve(handler, http.MethodGet, "/api/sessions/missing/events")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	sess := seedSession(t, s, time.Now(), "open")
	handler := NewSessionHandler(s)

	rec := serve(handler, http.MethodDelete, "/api/sessions/"+sess.ID)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = serve(handler, http.MethodGet, "/api/sessions/"+sess.ID)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected deleted session to be gone, got %d", rec.Code)
	}

	rec = serve(handler, http.MethodDelete, "/api/sessions/"+sess.ID)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d on second delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSessionHandler_DeleteLiveSession(t *testing.T) {
	s := newTestStore(t)
	live := seedSession(t, s, time.Now(), "open")
	old := seedSession(t, s, time.Now().Add(-time.Hour), "fist")
	handler := NewSessionHandler(s).WithLiveSession(func() string { return live.ID })

	rec := serve(handler, http.MethodDelete, "/api/sessions/"+live.ID)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
	if _, err := s.Sessions().GetByID(live.ID); err != nil {
		t.Errorf("live session should survive, GetByID() error = %v", err)
	}
	err := s.Events().AddGesture(&store.GestureEvent{SessionID: live.ID, Gesture: "ok", At: time.Now()})
	if err != nil {
		t.Errorf("recording into the live session should still work: %v", err)
	}

	rec = serve(handler, http.MethodDelete, "/api/sessions/"+old.ID)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d for a finished session, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestSessionHandler_Routing(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodPost, "/api/sessions", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/sessions/abc", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/sessions/abc/events", http.StatusNotFound},
		{http.MethodGet, "/api/sessions/abc/other", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := serve(handler, tt.method, tt.target)
		if rec.Code != tt.want {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.target, tt.want, rec.Code)
		}
	}
}
