// Package api provides HTTP API handlers for the saturn session history.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/saturn/internal/store"
)

// SessionHandler handles HTTP requests for recorded sessions.
type SessionHandler struct {
	store *store.Store
	live  func() string
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// WithLiveSession makes the handler refuse to delete the session id()
// currently records into.
func (h *SessionHandler) WithLiveSession(id func() string) *SessionHandler {
	h.live = id
	return h
}

// ServeHTTP routes /api/sessions, /api/sessions/{id} and
// /api/sessions/{id}/events.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "events" && r.Method == http.MethodGet:
		h.events(w, id)
	case sub != "":
		writeError(w, http.StatusNotFound, "Not found")
	case r.Method == http.MethodGet:
		h.get(w, id)
	case r.Method == http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type sessionResponse struct {
	ID        string  `json:"id"`
	Source    string  `json:"source"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at"`
	Gestures  int     `json:"gestures"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type eventsResponse struct {
	Gestures []*store.GestureEvent `json:"gestures"`
	Quality  []*store.QualityEvent `json:"quality"`
	Counts   map[string]int        `json:"counts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Source:    s.Source,
		StartedAt: s.StartedAt.Format(time.RFC3339),
		Gestures:  s.Gestures,
	}
	if s.EndedAt != nil {
		ended := s.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &ended
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions?limit=N, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, toResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) get(w http.ResponseWriter, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		h.storeError(w, err, "Failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(sess))
}

func (h *SessionHandler) delete(w http.ResponseWriter, id string) {
	if h.live != nil && h.live() == id {
		writeError(w, http.StatusConflict, "Session is still recording")
		return
	}
	if err := h.store.Sessions().Delete(id); err != nil {
		h.storeError(w, err, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// events handles GET /api/sessions/{id}/events.
func (h *SessionHandler) events(w http.ResponseWriter, id string) {
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		h.storeError(w, err, "Failed to get session")
		return
	}

	events := h.store.Events()
	gestures, err := events.Gestures(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list gesture events")
		return
	}
	quality, err := events.Quality(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list quality events")
		return
	}
	counts, err := events.GestureCounts(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count gestures")
		return
	}

	resp := eventsResponse{Gestures: gestures, Quality: quality, Counts: counts}
	if resp.Gestures == nil {
		resp.Gestures = []*store.GestureEvent{}
	}
	if resp.Quality == nil {
		resp.Quality = []*store.QualityEvent{}
	}
	if resp.Counts == nil {
		resp.Counts = map[string]int{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) storeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeError(w, http.StatusInternalServerError, msg)
}
