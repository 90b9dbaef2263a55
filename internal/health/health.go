package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SpeechChecker reports whether speech can be produced on this host.
type SpeechChecker interface {
	Available() error
}

type Status struct {
	Status string `json:"status"`
	Speech string `json:"speech"`
}

type Server struct {
	mux        *http.ServeMux
	httpServer *http.Server
}

func New(port int, speech SpeechChecker) *Server {
	mux := http.NewServeMux()
	mux.Handle("GET /health", Handler(speech))
	return &Server{
		mux: mux,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler serves the liveness status. A nil checker reports speech as
// unavailable.
func Handler(speech SpeechChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := Status{Status: "ok", Speech: "unavailable"}
		if speech != nil && speech.Available() == nil {
			status.Speech = "available"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

// Handle mounts an extra handler, such as /metrics, next to /health.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
