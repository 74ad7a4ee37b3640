// Package httpserver serves the editor session over HTTP.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/pkg/types"
	"github.com/bmizerany/pat"
)

var (
	// ErrAlreadyRunning is returned by Start on a running server
	ErrAlreadyRunning = errors.New("server is already running")

	// ErrNotRunning is returned by Stop on a stopped server
	ErrNotRunning = errors.New("server is not running")
)

var _ types.Server = &HTTPServer{}

// Handler returns the HTTP API for backend, wrapped in request id,
// access log and CORS middleware
func Handler(backend types.Backend, cfg types.Config, encoding patch.Encoding) http.Handler {
	h := &handlers{
		backend:   backend,
		assetsDir: cfg.AssetsDir,
		encoding:  encoding,
	}

	m := pat.New()
	m.Add("GET", "/.well-known/ai-plugin.json", http.HandlerFunc(h.ServeAsset))
	m.Add("GET", "/openapi.yaml", http.HandlerFunc(h.ServeAsset))
	m.Add("GET", "/logo.jpg", http.HandlerFunc(h.ServeAsset))
	m.Add("GET", "/tabs", http.HandlerFunc(h.ServeTabs))
	m.Add("GET", "/tabs/:tabName", http.HandlerFunc(h.ServeTab))
	m.Add("GET", "/tabs/:tabName/symbols", http.HandlerFunc(h.ServeSymbols))
	m.Add("POST", "/tabs/modify", http.HandlerFunc(h.ServeModify))
	// "/" matches every path, so it goes last
	m.Add("GET", "/", http.HandlerFunc(h.ServeRoot))

	var handler http.Handler = m
	handler = newCORSHandler(handler, cfg.CORS)
	handler = &requestLogger{inner: handler}
	handler = &requestIDHandler{inner: handler}
	return handler
}

// HTTPServer runs the HTTP API. It moves between stopped and running;
// Start on a running server and Stop on a stopped one are errors.
type HTTPServer struct {
	addr    string
	handler http.Handler

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	done     chan struct{}
	serveErr error
}

// NewHTTPServer creates a stopped server that will listen on addr
func NewHTTPServer(addr string, handler http.Handler) *HTTPServer {
	return &HTTPServer{addr: addr, handler: handler}
}

// Start listens on the configured address and serves in the background
func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return ErrAlreadyRunning
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})

	s.srv = srv
	s.listener = listener
	s.done = done
	s.serveErr = nil

	go func() {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "addr", listener.Addr().String(), "error", err)
			s.mu.Lock()
			s.serveErr = err
			s.mu.Unlock()
		}
	}()

	slog.Info("Server: running", "addr", listener.Addr().String())
	return nil
}

// Addr returns the address the server listens on, or "" when stopped
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Running reports whether the server has been started and not stopped
func (s *HTTPServer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.srv != nil
}

// Done is closed when the serving goroutine exits, or nil when stopped
func (s *HTTPServer) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until ctx expires
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.srv, s.done
	if srv == nil {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.mu.Unlock()

	shutdownErr := srv.Shutdown(ctx)
	<-done

	s.mu.Lock()
	serveErr := s.serveErr
	s.srv = nil
	s.listener = nil
	s.done = nil
	s.serveErr = nil
	s.mu.Unlock()

	slog.Info("Server: stopped")
	if shutdownErr != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", shutdownErr)
	}
	return serveErr
}
