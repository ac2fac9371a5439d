// Package search implements semantic recipe search. Queries are expanded
// with synonyms, run as a filtered similarity query against the document
// store, and the parsed hits are re-ranked deterministically.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/ranking"
	"github.com/hyperjump/umami/internal/store"
	"github.com/hyperjump/umami/pkg/utils"
)

// maxCandidates caps how far a single similarity query over-fetches.
const maxCandidates = 1000

// Engine runs semantic searches over the document store.
type Engine struct {
	store    store.Store
	ranker   *ranking.Ranker
	expander *ranking.Expander
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRanker overrides the default ranker.
func WithRanker(r *ranking.Ranker) Option {
	return func(e *Engine) { e.ranker = r }
}

// NewEngine creates a search engine over the given store.
func NewEngine(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    st,
		ranker:   ranking.NewRanker(nil),
		expander: ranking.NewExpander(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search returns up to limit recipes ranked by relevance to the query.
// The query is synonym-expanded before embedding; contextual ranking boosts
// key on the original text. Unparseable hits are skipped, not fatal.
func (e *Engine) Search(ctx context.Context, query string, filters models.SearchFilters, limit int) ([]models.ScoredRecipe, error) {
	if limit < 1 {
		limit = 1
	}
	query = strings.TrimSpace(query)

	fetch := limit * 3
	if fetch > maxCandidates {
		fetch = maxCandidates
	}

	results, err := e.store.Query(ctx, store.Query{
		Text:   e.expander.Expand(query),
		Filter: StoreFilter(filters),
		Limit:  fetch,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}

	seen := make(map[string]bool, len(results))
	scored := make([]models.ScoredRecipe, 0, len(results))
	for _, res := range results {
		recipe, ok := ParseDocument(res.Document)
		if !ok {
			e.logger.Debug("skipping unusable document", zap.String("id", res.ID))
			continue
		}
		if seen[recipe.ID] {
			continue
		}
		seen[recipe.ID] = true

		base := utils.Clamp01(1 - res.Distance)
		scored = append(scored, models.ScoredRecipe{
			Recipe:    recipe,
			BaseScore: base,
			Score:     e.ranker.Score(base, recipe, query),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// FindSimilar returns up to limit recipes similar to the one with the given
// id, using its own stored text as the query. The source recipe is excluded;
// no secondary ranking is applied.
func (e *Engine) FindSimilar(ctx context.Context, recipeID string, limit int) ([]models.ScoredRecipe, error) {
	if limit < 1 {
		limit = 1
	}

	doc, err := e.store.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load source recipe: %w", err)
	}

	queryText := doc.Text
	if queryText == "" {
		if recipe, ok := ParseDocument(*doc); ok {
			queryText = recipe.SearchText()
		}
	}

	results, err := e.store.Query(ctx, store.Query{
		Text:  queryText,
		Limit: limit + 1, // the source document will be among the hits
	})
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}

	out := make([]models.ScoredRecipe, 0, limit)
	for _, res := range results {
		recipe, ok := ParseDocument(res.Document)
		if !ok || recipe.ID == recipeID {
			continue
		}
		score := utils.Clamp01(1 - res.Distance)
		out = append(out, models.ScoredRecipe{Recipe: recipe, BaseScore: score, Score: score})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
