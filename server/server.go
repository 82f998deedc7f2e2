// Package server exposes the image description service over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Server is the HTTP server for the description service.
type Server struct {
	httpServer *http.Server
}

// New constructs a Server listening on addr and routing to handler.
func New(addr string, handler *Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := mux.NewRouter()
	router.Handle("/api/process", handler).Methods(http.MethodPost)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	var h http.Handler = router
	h = loggingMiddleware(logger, h)
	h = recoveryMiddleware(logger, h)

	return &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     h,
			ReadTimeout: 30 * time.Second,
			// No write timeout: responses stream for as long as the
			// backend generates.
			IdleTimeout: 60 * time.Second,
		},
	}
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the underlying http.Handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
