// Package cache wraps the document store with a TTL-aware memoization layer:
// timestamped writes, freshness-checked reads, expiry sweeps, and a search
// index of cached entries. Store failures degrade to cache misses so callers
// never see an error from this layer.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/ranking"
	"github.com/hyperjump/umami/internal/search"
	"github.com/hyperjump/umami/internal/searchindex"
	"github.com/hyperjump/umami/internal/store"
	"github.com/hyperjump/umami/pkg/utils"
)

// DefaultTTL is how long cached entries stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is the TTL-bounded caching layer over the document store.
type Cache struct {
	store  store.Store
	index  searchindex.Index
	ranker *ranking.Ranker
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the cache logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithIndex sets the search-text index registrations go to.
func WithIndex(index searchindex.Index) Option {
	return func(c *Cache) { c.index = index }
}

// NewCache creates a cache over the given store.
func NewCache(st store.Store, opts ...Option) *Cache {
	c := &Cache{
		store:  st,
		index:  searchindex.NewMemoryIndex(),
		ranker: ranking.NewRanker(nil),
		logger: zap.NewNop(),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsValid reports whether an entry written at cachedAt is still fresh.
// Zero timestamps are invalid.
func (c *Cache) IsValid(cachedAt time.Time) bool {
	if cachedAt.IsZero() {
		return false
	}
	return c.now().Sub(cachedAt) < c.ttl
}

// Get looks up cached recipes for the query context. Query-bearing lookups
// run a filtered similarity query, union in recipes registered under a
// matching search-index entry, keep fresh entries, and return them ranked;
// filter-only lookups return fresh entries in store order. The second return
// is false on a miss, including any store failure.
func (c *Cache) Get(ctx context.Context, query, ingredient string, filters models.SearchFilters) ([]*models.Recipe, bool) {
	text := strings.TrimSpace(strings.TrimSpace(query) + " " + strings.TrimSpace(ingredient))
	if text == "" {
		return c.getFiltered(ctx, filters)
	}

	results, err := c.store.Query(ctx, store.Query{
		Text:   text,
		Filter: search.StoreFilter(filters),
		Limit:  maxScan,
	})
	if err != nil {
		c.logger.Warn("cache lookup failed, treating as miss", zap.Error(err))
		return nil, false
	}

	type scored struct {
		recipe *models.Recipe
		score  float64
	}
	var (
		hits    []scored
		expired []string
		seen    = make(map[string]bool)
	)
	for _, res := range results {
		recipe, ok := search.ParseDocument(res.Document)
		if !ok {
			c.logger.Debug("skipping malformed cache entry", zap.String("id", res.ID))
			continue
		}
		if !c.IsValid(recipe.CachedAt) {
			expired = append(expired, recipe.ID)
			continue
		}
		if seen[recipe.ID] {
			continue
		}
		seen[recipe.ID] = true

		base := utils.Clamp01(1 - res.Distance)
		hits = append(hits, scored{
			recipe: recipe,
			score:  c.ranker.Score(base, recipe, query),
		})
	}

	key := ComputeKey(query, ingredient, filters)
	entries, err := c.index.Lookup(ctx, text, maxScan)
	if err != nil {
		c.logger.Warn("search index lookup failed", zap.Error(err))
	}
	for _, entry := range entries {
		if entry.RecipeID == "" || seen[entry.RecipeID] {
			continue
		}
		doc, err := c.store.Get(ctx, entry.RecipeID)
		if err != nil || doc == nil {
			continue
		}
		recipe, ok := search.ParseDocument(*doc)
		if !ok {
			continue
		}
		if !c.IsValid(recipe.CachedAt) {
			expired = append(expired, recipe.ID)
			continue
		}
		if !filters.Matches(recipe) {
			continue
		}
		seen[recipe.ID] = true

		// An entry registered under the same memoization key is an exact
		// repeat of this lookup; anything else matched on search text alone.
		base := indexHitBase
		if entry.Key == key {
			base = 1
		}
		hits = append(hits, scored{
			recipe: recipe,
			score:  c.ranker.Score(base, recipe, query),
		})
	}
	c.dropExpired(ctx, expired)

	if len(hits) == 0 {
		return nil, false
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	out := make([]*models.Recipe, len(hits))
	for i, h := range hits {
		out[i] = h.recipe
	}
	return out, true
}

// maxScan bounds how many entries a single cache read or sweep touches.
const maxScan = 1000

// indexHitBase is the base similarity credited to recipes recovered through
// the search index rather than the similarity query.
const indexHitBase = 0.5

func (c *Cache) getFiltered(ctx context.Context, filters models.SearchFilters) ([]*models.Recipe, bool) {
	results, err := c.store.Query(ctx, store.Query{
		Filter: search.StoreFilter(filters),
		Limit:  maxScan,
	})
	if err != nil {
		c.logger.Warn("cache scan failed, treating as miss", zap.Error(err))
		return nil, false
	}

	var (
		out     []*models.Recipe
		expired []string
		seen    = make(map[string]bool)
	)
	for _, res := range results {
		recipe, ok := search.ParseDocument(res.Document)
		if !ok {
			continue
		}
		if !c.IsValid(recipe.CachedAt) {
			expired = append(expired, recipe.ID)
			continue
		}
		if seen[recipe.ID] {
			continue
		}
		seen[recipe.ID] = true
		out = append(out, recipe)
	}
	c.dropExpired(ctx, expired)

	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// dropExpired removes entries discovered stale during a read. Failures are
// logged and ignored; the next sweep will retry.
func (c *Cache) dropExpired(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	if err := c.store.Delete(ctx, ids); err != nil {
		c.logger.Warn("failed to drop expired entries", zap.Error(err))
	}
	if err := c.index.Delete(ctx, ids); err != nil {
		c.logger.Warn("failed to drop expired index entries", zap.Error(err))
	}
}

// Put caches each recipe with a fresh timestamp. Re-caching an id
// overwrites. When a search context is present, each recipe is also
// registered in the search-text index under the lookup's memoization key.
// Per-record failures are logged and skipped; the rest of the batch still
// lands.
func (c *Cache) Put(ctx context.Context, recipes []*models.Recipe, query, ingredient string, filters models.SearchFilters) error {
	now := c.now()
	hasContext := strings.TrimSpace(query) != "" || strings.TrimSpace(ingredient) != ""
	key := ComputeKey(query, ingredient, filters)

	for _, recipe := range recipes {
		if recipe == nil || recipe.ID == "" {
			continue
		}
		doc, err := DocumentFor(recipe, now)
		if err != nil {
			c.logger.Warn("failed to encode recipe, skipping",
				zap.String("id", recipe.ID), zap.Error(err))
			continue
		}
		if err := c.store.Upsert(ctx, []store.Document{doc}); err != nil {
			c.logger.Warn("failed to cache recipe, skipping",
				zap.String("id", recipe.ID), zap.Error(err))
			continue
		}
		if hasContext {
			entry := searchindex.Entry{
				RecipeID:   recipe.ID,
				Key:        key,
				SearchText: doc.Text,
				CachedAt:   now,
			}
			if err := c.index.Put(ctx, entry); err != nil {
				c.logger.Warn("failed to index cache entry",
					zap.String("id", recipe.ID), zap.Error(err))
			}
		}
	}
	return nil
}

// ClearExpired sweeps the primary store and the search index, deletes every
// entry whose timestamp is missing, malformed or past the TTL, and returns
// the number of entries removed.
func (c *Cache) ClearExpired(ctx context.Context) (int, error) {
	removed := 0
	removedIDs := make(map[string]bool)

	docs, err := c.store.List(ctx)
	if err != nil {
		return 0, err
	}
	var stale []string
	for _, doc := range docs {
		if !c.IsValid(cachedAtOf(doc.Metadata)) {
			stale = append(stale, doc.ID)
			removedIDs[doc.ID] = true
		}
	}
	if len(stale) > 0 {
		if err := c.store.Delete(ctx, stale); err != nil {
			return 0, err
		}
		removed += len(stale)
	}

	entries, err := c.index.All(ctx)
	if err != nil {
		return removed, err
	}
	var staleEntries []string
	for _, entry := range entries {
		if !c.IsValid(entry.CachedAt) {
			staleEntries = append(staleEntries, entry.RecipeID)
			if !removedIDs[entry.RecipeID] {
				removed++
			}
		}
	}
	if len(staleEntries) > 0 {
		if err := c.index.Delete(ctx, staleEntries); err != nil {
			return removed, err
		}
	}

	c.logger.Info("cleared expired cache entries", zap.Int("removed", removed))
	return removed, nil
}

// Stats scans the store and reports entry freshness counts.
func (c *Cache) Stats(ctx context.Context) models.CacheStats {
	stats := models.CacheStats{TTLDays: int(c.ttl / (24 * time.Hour))}

	docs, err := c.store.List(ctx)
	if err != nil {
		c.logger.Warn("cache stats scan failed", zap.Error(err))
		return stats
	}
	stats.Total = len(docs)
	for _, doc := range docs {
		if c.IsValid(cachedAtOf(doc.Metadata)) {
			stats.Valid++
		} else {
			stats.Expired++
		}
	}
	return stats
}

func cachedAtOf(metadata map[string]any) time.Time {
	ts, ok := metadata["cached_at"].(string)
	if !ok {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
