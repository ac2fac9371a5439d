// Package service is the facade surrounding HTTP handlers and CLI commands
// consume: search, similarity, recommendations, ingestion and cache
// maintenance. Store failures degrade to empty results so nothing here is
// fatal to the host process.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/umami/internal/cache"
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/recommend"
	"github.com/hyperjump/umami/internal/search"
	"github.com/hyperjump/umami/internal/store"
)

// DefaultStoreTimeout bounds every call that reaches the document store.
const DefaultStoreTimeout = 10 * time.Second

// Service wires the search engine, the recommendation allocator and the
// cache layer behind one surface.
type Service struct {
	engine    *search.Engine
	allocator *recommend.Allocator
	cache     *cache.Cache
	store     store.Store
	logger    *zap.Logger
	timeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithStoreTimeout bounds store-reaching calls.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithAllocator overrides the recommendation allocator.
func WithAllocator(a *recommend.Allocator) Option {
	return func(s *Service) { s.allocator = a }
}

// New creates the service over a store, engine and cache.
func New(st store.Store, engine *search.Engine, c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		engine:  engine,
		cache:   c,
		store:   st,
		logger:  zap.NewNop(),
		timeout: DefaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.allocator == nil {
		s.allocator = recommend.NewAllocator(engineSearcher{engine})
	}
	return s
}

// engineSearcher adapts the engine to the allocator's Searcher.
type engineSearcher struct {
	engine *search.Engine
}

func (e engineSearcher) Search(ctx context.Context, query string, filters models.SearchFilters, limit int) ([]models.ScoredRecipe, error) {
	return e.engine.Search(ctx, query, filters, limit)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Search returns up to limit recipes for the query. Cached results are
// served when fresh; otherwise the engine runs a live search and its results
// are cached for next time. A dead store yields an empty list, never an
// error.
func (s *Service) Search(ctx context.Context, query string, filters models.SearchFilters, limit int) []*models.Recipe {
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if cached, ok := s.cache.Get(ctx, query, "", filters); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached
	}

	scored, err := s.engine.Search(ctx, query, filters, limit)
	if err != nil {
		s.logger.Warn("search degraded to empty", zap.String("query", query), zap.Error(err))
		return nil
	}
	out := make([]*models.Recipe, len(scored))
	for i, sr := range scored {
		out[i] = sr.Recipe
	}
	if err := s.cache.Put(ctx, out, query, "", filters); err != nil {
		s.logger.Warn("failed to cache search results", zap.Error(err))
	}
	return out
}

// FindSimilar returns up to limit recipes similar to the given one. Unknown
// ids and store failures yield an empty list.
func (s *Service) FindSimilar(ctx context.Context, recipeID string, limit int) []*models.Recipe {
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	scored, err := s.engine.FindSimilar(ctx, recipeID, limit)
	if err != nil {
		s.logger.Warn("similar lookup degraded to empty",
			zap.String("id", recipeID), zap.Error(err))
		return nil
	}
	out := make([]*models.Recipe, len(scored))
	for i, sr := range scored {
		out[i] = sr.Recipe
	}
	return out
}

// Recommend builds a preference-driven recommendation list.
func (s *Service) Recommend(ctx context.Context, profile models.PreferenceProfile, limit int) []*models.Recipe {
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.allocator.Recommend(ctx, profile, limit)
	if err != nil {
		s.logger.Warn("recommendation degraded to empty", zap.Error(err))
		return nil
	}
	return out
}

// GetRecipe returns one recipe by id, or nil when unknown or unusable.
func (s *Service) GetRecipe(ctx context.Context, id string) *models.Recipe {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil
	}
	recipe, ok := search.ParseDocument(*doc)
	if !ok {
		return nil
	}
	return recipe
}

// AddRecipes ingests recipes into the cache with a fresh timestamp.
func (s *Service) AddRecipes(ctx context.Context, recipes []*models.Recipe) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.cache.Put(ctx, recipes, "", "", models.SearchFilters{})
}

// CacheGet exposes the cache lookup for callers that manage their own
// search context.
func (s *Service) CacheGet(ctx context.Context, query, ingredient string, filters models.SearchFilters) ([]*models.Recipe, bool) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.cache.Get(ctx, query, ingredient, filters)
}

// CachePut caches recipes under the given search context.
func (s *Service) CachePut(ctx context.Context, recipes []*models.Recipe, query, ingredient string, filters models.SearchFilters) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.cache.Put(ctx, recipes, query, ingredient, filters)
}

// ClearExpired sweeps stale cache entries and returns how many were removed.
func (s *Service) ClearExpired(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.cache.ClearExpired(ctx)
}

// Stats reports cache freshness counts.
func (s *Service) Stats(ctx context.Context) models.CacheStats {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.cache.Stats(ctx)
}
