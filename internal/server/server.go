// Package server exposes a running navigation session over HTTP.
//
// The surface is the renderer boundary, read-only apart from the
// interaction actions (focus, camera, cursor): GET endpoints serve the
// latest frame snapshot and graph summary, POST actions queue interaction
// input for the next frame. Prometheus metrics and pprof ride along for
// operations.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sanonone/kartograph/pkg/nav"
)

// Server holds the HTTP interface and the navigation engine it fronts.
type Server struct {
	Engine *nav.Engine

	httpServer *http.Server
	authToken  string

	// latest holds the most recent published frame snapshot (a clone, so
	// it never races with the engine's double buffer).
	latest atomic.Pointer[nav.FrameOutput]
}

// New initializes the HTTP server over an opened engine. The engine must
// stay owned by the caller; Shutdown does not close it.
func New(eng *nav.Engine, httpAddr, authToken string) *Server {
	s := &Server{
		Engine:    eng,
		authToken: authToken,
	}

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Chain: Recovery -> Logging -> Auth -> mux. Recovery outermost so it
	// catches everything.
	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("/", handler)

	s.httpServer = &http.Server{
		Addr:    httpAddr,
		Handler: rootMux,
	}
	return s
}

// Publish stores a frame snapshot for the GET endpoints. The frame loop
// calls this once per frame with a clone of the engine output.
func (s *Server) Publish(out *nav.FrameOutput) {
	s.latest.Store(out)
}

// Latest returns the last published snapshot, nil before the first frame.
func (s *Server) Latest() *nav.FrameOutput {
	return s.latest.Load()
}

// Run starts serving. Blocks until Shutdown or a listener error.
func (s *Server) Run() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully. It does NOT close the Engine;
// the daemon owns that lifecycle.
func (s *Server) Shutdown() {
	slog.Info("starting graceful shutdown of HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
