// Package recommend produces cuisine-fair, deduplicated recommendation lists
// from a preference profile. Allocation runs as a pipeline of phases over an
// explicit state value, each phase drawing candidates through the search
// engine and respecting a shared used-id set.
package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/umami/internal/models"
)

// Searcher is the slice of the search engine the allocator needs.
type Searcher interface {
	Search(ctx context.Context, query string, filters models.SearchFilters, limit int) ([]models.ScoredRecipe, error)
}

// Allocator builds recommendation lists.
type Allocator struct {
	searcher Searcher
	logger   *zap.Logger
	rng      *rand.Rand
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithLogger sets the allocator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Allocator) { a.logger = logger }
}

// WithRand injects the random source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(a *Allocator) { a.rng = rng }
}

// NewAllocator creates an allocator over the given searcher.
func NewAllocator(searcher Searcher, opts ...Option) *Allocator {
	a := &Allocator{
		searcher: searcher,
		logger:   zap.NewNop(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Recommend returns up to limit complete, deduplicated recipes distributed
// fairly across the profile's favorite cuisines and enriched with favorite
// food matches. With no favorite cuisines it falls back to food-only
// allocation; with neither, the result is empty and the caller decides what
// to do.
func (a *Allocator) Recommend(ctx context.Context, profile models.PreferenceProfile, limit int) ([]*models.Recipe, error) {
	if limit < 1 {
		limit = 1
	}

	st := newAllocState(profile, limit)
	if len(st.cuisines) == 0 {
		st = a.phase0(ctx, st)
		return st.allocated, nil
	}

	st = a.phase1(ctx, st)
	st = a.phase2(ctx, st)
	st = a.phase3(ctx, st)
	st = a.rebalance(st)

	a.logger.Debug("recommendation allocation finished",
		zap.Int("requested", limit),
		zap.Int("allocated", len(st.allocated)),
		zap.Int("cuisines", len(st.cuisines)))
	return st.allocated, nil
}

// dietFilters maps the profile's dietary restrictions onto search filters so
// every phase draws candidates that already respect them.
func dietFilters(profile models.PreferenceProfile) models.SearchFilters {
	var f models.SearchFilters
	for _, r := range profile.DietaryRestrictions {
		switch strings.ToLower(strings.TrimSpace(r)) {
		case "vegetarian":
			f.Vegetarian = true
		case "vegan":
			f.Vegan = true
		case "gluten-free", "gluten free":
			f.GlutenFree = true
		}
	}
	return f
}

// excluded applies the cuisine exclusion rule: with favorite cuisines active,
// "american" recipes are out unless "american" is itself a favorite. Favorite
// food matches are exempt so foods may surface any cuisine.
func excluded(r *models.Recipe, profile models.PreferenceProfile, foodMatch bool) bool {
	if foodMatch {
		return false
	}
	if len(profile.FavoriteCuisines) == 0 {
		return false
	}
	return r.Cuisine == "american" && !profile.HasCuisine("american")
}

// usable is the uniform per-candidate gate every phase applies.
func usable(r *models.Recipe, st allocState, foodMatch bool) bool {
	if r == nil || !r.Complete() {
		return false
	}
	if st.used[r.ID] {
		return false
	}
	return !excluded(r, st.profile, foodMatch)
}

// draw runs one search and returns usable candidates in rank order.
func (a *Allocator) draw(ctx context.Context, st allocState, query string, cuisineScope string, want int, foodMatch bool) []*models.Recipe {
	filters := dietFilters(st.profile)
	filters.Cuisine = cuisineScope

	results, err := a.searcher.Search(ctx, query, filters, want*3)
	if err != nil {
		a.logger.Warn("candidate search failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	var out []*models.Recipe
	for _, res := range results {
		if !usable(res.Recipe, st, foodMatch) {
			continue
		}
		if cuisineScope != "" && res.Recipe.Cuisine != cuisineScope {
			continue
		}
		out = append(out, res.Recipe)
		if len(out) >= want {
			break
		}
	}
	return out
}

// foodQuery builds the phase 0/2 search text. The random seed term varies
// repeated identical requests so cached store hits do not pin the output.
func (a *Allocator) foodQuery(food string) string {
	seeds := []string{"delicious", "tasty", "amazing", "homemade", "favorite"}
	return fmt.Sprintf("%s %s recipes", seeds[a.rng.Intn(len(seeds))], food)
}
