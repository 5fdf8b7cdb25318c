// Package api provides the HTTP API server and handlers for the sermon
// platform.
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

	"github.com/Mastsam10/platform-sub000/internal/http/response"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/sse"
	"github.com/Mastsam10/platform-sub000/internal/store"
	"github.com/Mastsam10/platform-sub000/internal/webhook"
)

// Services groups the business services the handlers call.
type Services struct {
	Video      *service.VideoService
	Transcript *service.TranscriptService
	Chapter    *service.ChapterService
	Search     *service.SearchService
	Webhook    *service.WebhookService
}

// Config holds HTTP surface settings.
type Config struct {
	Title       string
	Version     string
	CORSOrigins []string

	// RateLimitPerMinute and RateLimitBurst bound webhook and preview
	// requests per client IP. Zero disables limiting.
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	services    *Services
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	sseManager  *sse.Manager
	rateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, sseManager *sse.Manager, cfg Config, logger *slog.Logger) *Server {
	if cfg.Title == "" {
		cfg.Title = "Sermon Platform API"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}

	s := &Server{
		store:      st,
		services:   services,
		router:     chi.NewRouter(),
		logger:     logger,
		sseManager: sseManager,
	}
	if cfg.RateLimitPerMinute > 0 {
		s.rateLimiter = NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, cfg.RateLimitBurst)
	}

	s.setupMiddleware(cfg.CORSOrigins)

	humaConfig := huma.DefaultConfig(cfg.Title, cfg.Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Content-Type", "X-Request-Id",
			webhook.CloudflareSignatureHeader, webhook.MuxSignatureHeader, webhook.DeepgramTokenHeader,
		},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	if s.rateLimiter != nil {
		s.router.Use(s.limitRoutes)
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed", s.logger)
	})
}

// registerRoutes registers every huma operation plus the raw SSE stream.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerCatalogRoutes()
	s.registerChapterRoutes()
	s.registerVideoRoutes()
	s.registerTranscriptRoutes()
	s.registerSearchRoutes()
	s.registerWebhookRoutes()

	if s.sseManager != nil {
		s.router.Get("/api/v1/events", sse.NewHandler(s.sseManager, s.logger).ServeHTTP)
	}
}
