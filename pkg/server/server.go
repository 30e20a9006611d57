// Package server exposes spanner runs over HTTP.
//
// # Routes
//
//	GET  /healthz         liveness and build information
//	GET  /v1/algorithms   run commands and their pipeline shapes
//	POST /v1/runs         execute one run, respond with its report
//
// A run request is a JSON [pipeline.Options]:
//
//	{"algorithm": "greedy", "stretch": 1.5,
//	 "instance": {"space": "euclid", "distribution": "uniform", "seed": 1, "n": 100}}
//
// The response body is the report exactly as the CLI prints it. Failures
// respond with {"error": {"code": "...", "message": "..."}}: status 400
// for input errors and 500 for everything else.
//
// Every response carries an X-Request-ID header; an incoming one is kept.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/geospanner/pkg/pipeline"
)

// Defaults for [Server].
const (
	DefaultRunTimeout = 10 * time.Minute
	DefaultMaxNodes   = 20000
	DefaultMaxEdges   = 8_000_000
	MaxBodyBytes      = 1 << 20
)

// Server handles run requests with a shared runner.
type Server struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// RunTimeout bounds each run. Zero means DefaultRunTimeout.
	RunTimeout time.Duration

	// MaxNodes rejects instances larger than this. Zero disables the check.
	MaxNodes int

	// MaxEdges rejects runs whose first stage may hold more candidate
	// edges than this: n(n-1)/2 for the greedy family, n·min(k, n-1) for
	// Yao with k cones. Zero disables the check.
	MaxEdges int
}

// New creates a server. A nil runner gets an uncached one.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		Runner:     runner,
		Logger:     logger,
		RunTimeout: DefaultRunTimeout,
		MaxNodes:   DefaultMaxNodes,
		MaxEdges:   DefaultMaxEdges,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/algorithms", s.handleAlgorithms)
		r.Post("/runs", s.handleRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
// Request contexts derive from ctx, so in-flight runs are cancelled too.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
