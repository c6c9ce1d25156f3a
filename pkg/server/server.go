// Package server exposes the planner over HTTP. Clients create a
// session, select endpoints, mutate the overlay, and request routes;
// every mutation invalidates the session's last route so a follow-up
// request always reflects the current overlay.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wayfinder/pkg/cache"
	"github.com/matzehuels/wayfinder/pkg/config"
	"github.com/matzehuels/wayfinder/pkg/graph"
	"github.com/matzehuels/wayfinder/pkg/planner"
	"github.com/matzehuels/wayfinder/pkg/spatial"
)

// sweepInterval is how often expired sessions and cache entries are
// reaped.
const sweepInterval = time.Minute

// Server wires the topology, planner, session store, and spatial index
// behind an HTTP API.
type Server struct {
	cfg     config.Config
	topo    *graph.Topology
	index   *spatial.Index
	planner *planner.Planner
	store   *planner.MemoryStore
	logger  *log.Logger
}

// New creates a server for the given topology. If c is nil, route
// caching is disabled.
func New(cfg config.Config, topo *graph.Topology, c cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:     cfg,
		topo:    topo,
		index:   spatial.NewIndex(topo),
		planner: planner.NewPlanner(c, logger),
		store:   planner.NewMemoryStore(),
		logger:  logger,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/map", s.handleMap)
		r.Get("/map/locate", s.handleLocate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Put("/endpoints", s.handleSelectEndpoints)
				r.Post("/route", s.handleRoute)
				r.Post("/block/node", s.handleBlockNode)
				r.Post("/block/edge", s.handleBlockEdge)
				r.Get("/traffic", s.handleTrafficState)
				r.Post("/traffic", s.handleAdjustTraffic)
				r.Post("/reset", s.handleReset)
			})
		})
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// sweep periodically reaps expired sessions and cache entries.
func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
			if mc, ok := s.planner.Cache.(*cache.MemoryCache); ok {
				mc.Sweep()
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
