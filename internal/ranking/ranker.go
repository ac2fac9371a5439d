package ranking

import (
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/pkg/utils"
)

// Ranker chains multipliers over a similarity base score to produce the
// final relevance score for a recipe.
type Ranker struct {
	config      *RankingConfig
	multipliers []Multiplier
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config:      config,
		multipliers: DefaultMultipliers(config),
	}
}

// WithMultipliers sets custom multipliers.
func (r *Ranker) WithMultipliers(multipliers []Multiplier) *Ranker {
	r.multipliers = multipliers
	return r
}

// Score applies every multiplier to the base score and clamps the result
// to [0,1]. The query is the original user text, not the expanded one.
func (r *Ranker) Score(baseScore float64, recipe *models.Recipe, query string) float64 {
	score := utils.Clamp01(baseScore)
	if score == 0 {
		return 0
	}

	ctx := NewScoringContext(query, recipe)
	for _, m := range r.multipliers {
		score = m.Multiply(ctx, score)
	}
	return utils.Clamp01(score)
}
