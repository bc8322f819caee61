// Package api provides the HTTP API server and handlers for the placar server.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/placarapp/placar-server/internal/i18n"
	"github.com/placarapp/placar-server/internal/metrics"
	"github.com/placarapp/placar-server/internal/store"
	"github.com/placarapp/placar-server/internal/validation"
)

// Options tunes the transport.
type Options struct {
	CORSAllowedOrigins []string
	AuthPerMinute      int // per client IP
	ScoresPerMinute    int // per user
	// Metrics is served on /metrics when non-nil.
	Metrics *metrics.Metrics
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.Store
	services  *Services
	validator *validation.Validator
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger

	authRateLimiter  *RateLimiter
	scoreRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:            st,
		services:         services,
		validator:        validation.New(),
		router:           chi.NewRouter(),
		logger:           logger,
		authRateLimiter:  NewRateLimiter(opts.AuthPerMinute, time.Minute, max(opts.AuthPerMinute/2, 1)),
		scoreRateLimiter: NewRateLimiter(opts.ScoresPerMinute, time.Minute, max(opts.ScoresPerMinute/2, 1)),
	}

	s.setupMiddleware(opts.CORSAllowedOrigins)

	if opts.Metrics != nil {
		s.router.Handle("/metrics", opts.Metrics.Handler())
	}

	s.api = humachi.New(s.router, newHumaConfig())
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Shutdown stops background work owned by the server.
func (s *Server) Shutdown() {
	s.authRateLimiter.Stop()
	s.scoreRateLimiter.Stop()
}

func newHumaConfig() huma.Config {
	cfg := huma.DefaultConfig("Placar API", "1.0.0")
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	cfg.Transformers = append(cfg.Transformers, EnvelopeTransformer)
	return cfg
}

func (s *Server) setupMiddleware(allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Language"},
		MaxAge:         300,
	}))
	s.router.Use(i18n.Middleware)
	s.router.Use(clientIPMiddleware)
	s.router.Use(authMiddleware(s.services.Auth))
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerScoreRoutes()
	s.registerLeaderboardRoutes()
	s.registerGameRoutes()
}

// bearerSecurity marks an operation as requiring a bearer token in the docs.
var bearerSecurity = []map[string][]string{{"bearer": {}}}
