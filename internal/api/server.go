// Package api provides the HTTP API server and handlers for KeepUp.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/keepupapp/keepup-server/internal/metrics"
	"github.com/keepupapp/keepup-server/internal/ratelimit"
	"github.com/keepupapp/keepup-server/internal/store"
)

// Options tunes the HTTP surface.
type Options struct {
	Version           string
	CORSOrigins       []string
	AuthRatePerMinute float64
	AuthBurst         int
	MetricsEnabled    bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
	opts            Options
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		store:           store,
		services:        services,
		router:          chi.NewRouter(),
		logger:          logger,
		authRateLimiter: ratelimit.New(opts.AuthRatePerMinute, opts.AuthBurst, authLimiterIdleTTL),
		opts:            opts,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("KeepUp API", opts.Version)
	// No $schema links in bodies; clients compare {"ok": true} literally.
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(accessLog(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Clients address collections as /tasks/ and /media/.
	s.router.Use(middleware.StripSlashes)
	if s.opts.MetricsEnabled {
		s.router.Use(metrics.Middleware)
	}
}

func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerTaskRoutes()
	s.registerMediaRoutes()
	s.registerTagRoutes()

	if s.opts.MetricsEnabled {
		s.router.Handle("/metrics", metrics.Handler())
	}
}
