// Package server exposes the item catalog and crafting graphs over HTTP.
//
// Routes:
//
//	GET /healthz               liveness probe
//	GET /metrics               Prometheus metrics (when enabled)
//	GET /api/items             catalog listing, filtered by ?kind= and ?q=
//	GET /api/items/{id}        one item with its consumers
//	GET /api/tree/{id}         scene JSON, ?selected= picks a node
//	GET /api/tree/{id}.svg     rendered artifact; .dot, .png and .json also work
//
// Errors are JSON objects carrying the pkg/errors code, a message and,
// for unknown items, close suggestions.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/arcforge/pkg/dataset"
	"github.com/matzehuels/arcforge/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	// Metrics serves /metrics when non-nil.
	Metrics http.Handler
}

// Server serves the HTTP API.
type Server struct {
	catalog *dataset.Catalog
	runner  *pipeline.Runner
	logger  *log.Logger
	opts    Options
	router  chi.Router
}

// New creates a server over catalog, rendering through runner.
func New(catalog *dataset.Catalog, runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{catalog: catalog, runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	// instrument sits outside Recoverer so recovered panics record as 500.
	r.Use(middleware.RequestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", s.handleListItems)
		r.Get("/items/{id}", s.handleGetItem)
		r.Get("/tree/{id}", s.handleTree)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path}})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
