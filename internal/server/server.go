// Package server provides the HTTP API for Umami.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/umami/internal/config"
	"github.com/hyperjump/umami/internal/service"
)

// WatchService manages drop-folder roots at runtime.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the Umami API.
type Server struct {
	svc    *service.Service
	config *config.Config
	logger *zap.Logger
	server *http.Server

	watch      WatchService
	configPath string
	configMu   sync.Mutex
}

// ServerOption configures optional server features.
type ServerOption func(*Server)

// WithWatch enables the drop-folder management endpoints. configPath, when
// non-empty, is where directory changes are persisted.
func WithWatch(w WatchService, configPath string) ServerOption {
	return func(s *Server) {
		s.watch = w
		s.configPath = configPath
	}
}

// NewServer creates a server with the given dependencies.
func NewServer(svc *service.Service, cfg *config.Config, logger *zap.Logger, opts ...ServerOption) *Server {
	s := &Server{
		svc:    svc,
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/recommendations", s.handleRecommendations)
	r.Post("/api/v1/recipes", s.handleAddRecipes)
	r.Get("/api/v1/recipes/{id}", s.handleGetRecipe)
	r.Get("/api/v1/recipes/{id}/similar", s.handleSimilar)
	r.Get("/api/v1/cache/stats", s.handleCacheStats)
	r.Post("/api/v1/cache/expired", s.handleClearExpired)
	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// clampLimit applies the configured default and maximum result limits.
func (s *Server) clampLimit(limit int) int {
	if limit <= 0 {
		return s.config.Search.DefaultLimit
	}
	if max := s.config.Search.MaxLimit; max > 0 && limit > max {
		return max
	}
	return limit
}
