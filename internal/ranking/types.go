package ranking

import (
	"strings"

	"github.com/hyperjump/umami/internal/models"
)

// ScoringContext carries everything a multiplier needs to score one recipe
// against one query.
type ScoringContext struct {
	// Query is the original user query, lowercased. Contextual boosts key on
	// this text, never on the expanded query.
	Query  string
	Recipe *models.Recipe
}

// NewScoringContext creates a scoring context for a recipe and query.
func NewScoringContext(query string, recipe *models.Recipe) *ScoringContext {
	return &ScoringContext{
		Query:  strings.ToLower(strings.TrimSpace(query)),
		Recipe: recipe,
	}
}

// Multiplier adjusts a base score based on one signal.
type Multiplier interface {
	// Name returns the multiplier name.
	Name() string
	// Multiply applies the multiplier to the base score.
	Multiply(ctx *ScoringContext, baseScore float64) float64
}

// DefaultMultipliers returns the standard multiplier chain.
func DefaultMultipliers(config *RankingConfig) []Multiplier {
	return []Multiplier{
		NewTitleMatchMultiplier(config),
		NewRatingMultiplier(config),
		NewCompletenessMultiplier(config),
		NewContextMultiplier(config),
	}
}
