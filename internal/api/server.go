package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eshaffer321/room-allocation-backend/internal/api/dto"
	"github.com/eshaffer321/room-allocation-backend/internal/api/handlers"
	"github.com/eshaffer321/room-allocation-backend/internal/api/middleware"
	"github.com/eshaffer321/room-allocation-backend/internal/application/service"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/config"
)

// Config holds API server configuration.
type Config struct {
	Port            int
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRequestBytes int64
	ExplainLimits   handlers.ExplainLimits
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:            config.DefaultPort,
		AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		ReadTimeout:     config.DefaultReadTimeoutSeconds * time.Second,
		WriteTimeout:    config.DefaultWriteTimeoutSeconds * time.Second,
		MaxRequestBytes: config.DefaultMaxRequestBytes,
		ExplainLimits: handlers.ExplainLimits{
			Default: config.DefaultExplainLimit,
			Max:     config.DefaultMaxExplainLimit,
		},
	}
}

// ConfigFrom builds the server config from application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Port:            cfg.Server.Port,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:    time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		MaxRequestBytes: cfg.Limits.MaxRequestBytes,
		ExplainLimits: handlers.ExplainLimits{
			Default: cfg.Limits.DefaultExplainLimit,
			Max:     cfg.Limits.MaxExplainLimit,
		},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	service    *service.AllocationService
	gatherer   prometheus.Gatherer
}

// NewServer creates a new API server.
// If gatherer is nil, /metrics is not served.
func NewServer(cfg Config, svc *service.AllocationService, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   logger,
		service:  svc,
		gatherer: gatherer,
	}

	s.setupMiddleware()
	s.setupRoutes()

	// Built up front so Shutdown before Start makes ListenAndServe return at once.
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.Recoverer)
	s.router.Use(middleware.CorrelationID)

	// Request logging
	s.router.Use(middleware.Logging(s.logger))

	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.BodyLimit(s.config.MaxRequestBytes))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, http.StatusNotFound, dto.NotFoundError("route "+r.URL.Path))
	})

	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	occupancyHandler := handlers.NewOccupancyHandler(s.service, s.config.ExplainLimits, s.logger)

	// Legacy path kept for existing clients.
	s.router.Post("/occupancy", occupancyHandler.Allocate)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/occupancy", occupancyHandler.Allocate)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
