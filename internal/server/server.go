// Package server provides the HTTP server for the saturn gesture controller.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/saturn/internal/app"
	"github.com/ayusman/saturn/internal/detector"
	"github.com/ayusman/saturn/internal/scene"
	"github.com/ayusman/saturn/internal/server/api"
	"github.com/ayusman/saturn/internal/store"
)

const (
	defaultStateHz  = 30
	shutdownTimeout = 5 * time.Second
)

// Controller is the part of the app the server talks to.
type Controller interface {
	Status() app.Status
	Frame() scene.Frame
	Submit(hands []detector.HandLandmarks) bool
	SetEnabled(enabled bool)
	IsEnabled() bool
	Preview() []byte
	HasCamera() bool
	SessionID() string
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       Controller
	Store     *store.Store
	// StateHz is the rate of the state websocket feed.
	StateHz int
	Logger  *slog.Logger
}

// Server represents the HTTP server for the saturn application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	log    *slog.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.StateHz <= 0 {
		config.StateHz = defaultStateHz
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    config.Logger.With("component", "server"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if c := s.config.App; c != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/enabled", s.handleEnabled)
		s.mux.Handle("/api/state", NewStateHandler(c, s.config.StateHz, s.log))
		s.mux.Handle("/api/landmarks", NewLandmarksHandler(c, s.log))
		if c.HasCamera() {
			s.mux.Handle("/api/stream", NewStreamHandler(c))
		}
	}

	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		if c := s.config.App; c != nil {
			sessions.WithLiveSession(c.SessionID)
		}
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.config.App.Status())
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleEnabled reports (GET) or sets (PUT) whether gesture control is on.
func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req enabledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected {\"enabled\": bool}"})
			return
		}
		s.config.App.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": s.config.App.IsEnabled()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
