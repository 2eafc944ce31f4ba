// Package server provides the HTTP server exposing health, statistics, the
// joined channels, a websocket stream of classified chat events, and
// prometheus metrics.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Guliveer/twitch-chat-go/internal/constants"
	"github.com/Guliveer/twitch-chat-go/internal/eventbus"
	"github.com/Guliveer/twitch-chat-go/internal/logger"
	"github.com/Guliveer/twitch-chat-go/internal/metrics"
)

// Account is a running chat connection the server reports on.
type Account interface {
	Username() string
	Bus() *eventbus.Bus
	JoinedChannels() []string
}

// Options configures a Server.
type Options struct {
	// Registry is served on /metrics. Nil disables the endpoint.
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	// EventsBuffer is the per-client queue length of /events.
	EventsBuffer int
	// OriginPatterns lists the hosts allowed to open /events from a browser.
	OriginPatterns []string
}

// Server serves the JSON API and the event stream.
type Server struct {
	addr string
	log  *logger.Logger
	srv  *http.Server
	opts Options
	hub  *hub

	mu       sync.RWMutex
	accounts map[string]Account
	cancels  []func()
}

// New creates a Server bound to the given address.
func New(addr string, log *logger.Logger, opts Options) *Server {
	if opts.EventsBuffer <= 0 {
		opts.EventsBuffer = constants.DefaultEventsBuffer
	}

	s := &Server{
		addr:     addr,
		log:      log,
		opts:     opts,
		hub:      newHub(opts.Metrics),
		accounts: make(map[string]Account),
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// No read or write timeouts: /events connections are long lived.
		IdleTimeout: 60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.Background()
		},
	}

	return s
}

// Handler returns the server's routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/channels", s.handleChannels)
	mux.HandleFunc("GET /events", s.handleEvents)
	if s.opts.Registry != nil {
		mux.Handle("GET /metrics", metrics.Handler(s.opts.Registry))
	}
	return withLogging(s.log, mux)
}

// AddAccount registers an account and streams its events to /events clients.
func (s *Server) AddAccount(a Account) {
	cancel := a.Bus().SubscribeAll(s.hub.broadcast)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.Username()] = a
	s.cancels = append(s.cancels, cancel)
}

// accountList returns registered accounts sorted by username.
func (s *Server) accountList() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username() < out[j].Username() })
	return out
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It performs graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("HTTP server starting", "addr", s.addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("HTTP server shutting down")
		s.detach()
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultGracefulShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) detach() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func withLogging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade take over the connection.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	rw.statusCode = http.StatusSwitchingProtocols
	return http.NewResponseController(rw.ResponseWriter).Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
