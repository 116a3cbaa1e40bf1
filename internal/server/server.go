// Package server is the HTTP surface: routing, middleware, and the
// lifecycle of the listening process.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/plotforge/plotforge/internal/auth"
	"github.com/plotforge/plotforge/internal/cache"
	"github.com/plotforge/plotforge/internal/server/middleware"
	"github.com/plotforge/plotforge/internal/source"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	RateLimit       int // requests per minute per IP, 0 disables
	SweepInterval   time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		RateLimit:       0,
		SweepInterval:   5 * time.Minute,
	}
}

// Server owns the router and the process lifecycle. Request handling
// lives in Handler; Server wires it to routes and middleware.
type Server struct {
	cfg        Config
	router     chi.Router
	handler    *Handler
	sources    *source.Manager
	specs      *cache.SpecStore
	results    *cache.ResultCache
	tokens     *auth.TokenService
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server with all routes wired, ready to listen.
func New(cfg Config, h *Handler, sources *source.Manager, specs *cache.SpecStore, results *cache.ResultCache, tokens *auth.TokenService, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		handler: h,
		sources: sources,
		specs:   specs,
		results: results,
		tokens:  tokens,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))
	r.Use(middleware.RateLimit(s.cfg.RateLimit))

	// Health checks stay outside authentication.
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.tokens))

		r.Post("/recommend", s.handler.Recommend)

		r.Get("/patterns", s.handler.ListPatterns)
		r.Get("/patterns/{patternID}", s.handler.GetPattern)

		r.Get("/sources", s.handler.ListSources)
		r.Post("/sources", s.handler.CreateSource)
		r.Delete("/sources/{sourceName}", s.handler.DeleteSource)
		r.Get("/sources/{sourceName}/schema", s.handler.GetSchema)
		r.Get("/sources/{sourceName}/tables/{tableName}/columns", s.handler.ClassifyColumns)
		r.Post("/sources/{sourceName}/query", s.handler.Query)

		r.Get("/specs/{specID}", s.handler.GetSpec)
		r.Get("/specs/{specID}/render", s.handler.RenderSpec)
	})

	s.router = r
}

// handleHealthz is a liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz reports 200 when every registered source is reachable
// and 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	for _, name := range s.sources.List() {
		src, err := s.sources.Get(name)
		if err != nil {
			checks[name] = "error: " + err.Error()
			status = "degraded"
			continue
		}
		if err := src.Ping(r.Context()); err != nil {
			checks[name] = "error: " + err.Error()
			status = "degraded"
		} else {
			checks[name] = "ok"
		}
	}

	if status != "ok" {
		httpStatus = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "checks": checks})
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM,
// then drains in-flight requests and closes every source.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.sources.CloseAll()
	s.logger.Info("server stopped")
	return nil
}

// sweepLoop periodically evicts expired cache entries.
func (s *Server) sweepLoop(ctx context.Context) {
	interval := s.cfg.SweepInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.specs.Sweep() + s.results.Sweep(); n > 0 {
				s.logger.Debug("cache sweep", "evicted", n)
			}
		}
	}
}

// Router returns the underlying router, useful for tests.
func (s *Server) Router() chi.Router { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
