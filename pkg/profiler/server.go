// Package profiler serves pprof endpoints on a local port while the
// timeline UI runs, since the default HTTP mux is never installed.
package profiler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/rs/zerolog/log"
)

// Server wraps an HTTP server that only exposes the pprof handlers.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	port       int
}

// New builds a profiler server for the given port. Port 0 picks a free
// one; Addr reports the resolved address after Start.
func New(port int) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &Server{
		httpServer: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		port: port,
	}
}

// Start binds the listener and serves in the background. An immediate
// serve failure within the first 100ms is returned to the caller.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	s.listener = listener

	boundPort := listener.Addr().(*net.TCPAddr).Port
	log.Info().Str("component", "profiler").Int("port", boundPort).Msg("profiler listening")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("serve pprof: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown drains the server within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Str("component", "profiler").Msg("profiler stopping")
	return s.httpServer.Shutdown(ctx)
}
