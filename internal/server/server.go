// Package server is the HTTP shell shared by the site, the mail relay and
// the chat endpoints: middleware, CORS, health check and lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lumenforge/website/internal/logger"
)

// DefaultRequestTimeout bounds every request on the timed router.
const DefaultRequestTimeout = 60 * time.Second

// Config holds server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string // CORS origins; "*" allows all
	RequestTimeout time.Duration
	TrustProxy     bool // honour X-Forwarded-For and X-Real-IP
}

// Server owns the router and the listening http.Server.
type Server struct {
	cfg        Config
	log        *slog.Logger
	router     chi.Router
	timed      chi.Router
	httpServer *http.Server
}

// New creates a server with the shared middleware and /healthz mounted.
func New(cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	s := &Server{cfg: cfg, log: log.With(logger.Scope("server"))}
	s.router = s.buildRouter()
	s.timed = s.router.With(middleware.Timeout(cfg.RequestTimeout))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates the base router. Routes on it are not subject to the
// request timeout.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if s.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// Router returns the router for ordinary request/response routes. Every
// request on it is cancelled after the configured timeout.
func (s *Server) Router() chi.Router { return s.timed }

// Streaming returns the router for long-lived connections such as
// websockets, which must outlive the request timeout.
func (s *Server) Streaming() chi.Router { return s.router }

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins listening on the configured port. After Shutdown it returns
// http.ErrServerClosed, even if Shutdown ran first.
func (s *Server) Start() error {
	s.log.Info("lumensite listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
