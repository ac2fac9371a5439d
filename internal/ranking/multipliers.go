package ranking

import "strings"

// TitleMatchMultiplier boosts recipes whose title matches the query text.
type TitleMatchMultiplier struct {
	config *RankingConfig
}

// NewTitleMatchMultiplier creates a new TitleMatchMultiplier.
func NewTitleMatchMultiplier(config *RankingConfig) *TitleMatchMultiplier {
	return &TitleMatchMultiplier{config: config}
}

// Name returns the multiplier name.
func (m *TitleMatchMultiplier) Name() string {
	return "title_match"
}

// Multiply applies the title match multiplier to the base score.
func (m *TitleMatchMultiplier) Multiply(ctx *ScoringContext, baseScore float64) float64 {
	if baseScore == 0 || ctx.Query == "" || ctx.Recipe == nil {
		return baseScore
	}

	title := strings.ToLower(strings.TrimSpace(ctx.Recipe.Title))
	if title == "" {
		return baseScore
	}

	if title == ctx.Query {
		return baseScore * m.config.ExactTitleMultiplier
	}
	if strings.Contains(title, ctx.Query) || strings.Contains(ctx.Query, title) {
		return baseScore * m.config.SubstringTitleMultiplier
	}
	return baseScore
}

// RatingMultiplier boosts highly rated recipes in tiers.
type RatingMultiplier struct {
	config *RankingConfig
}

// NewRatingMultiplier creates a new RatingMultiplier.
func NewRatingMultiplier(config *RankingConfig) *RatingMultiplier {
	return &RatingMultiplier{config: config}
}

// Name returns the multiplier name.
func (m *RatingMultiplier) Name() string {
	return "rating"
}

// Multiply applies the rating multiplier to the base score.
func (m *RatingMultiplier) Multiply(ctx *ScoringContext, baseScore float64) float64 {
	if !m.config.RatingOn() || baseScore == 0 || ctx.Recipe == nil {
		return baseScore
	}

	rating := ctx.Recipe.Rating
	switch {
	case rating > 4.5:
		return baseScore * m.config.RatingHighMultiplier
	case rating > 4.0:
		return baseScore * m.config.RatingGoodMultiplier
	case rating > 3.5:
		return baseScore * m.config.RatingOkMultiplier
	}
	return baseScore
}

// CompletenessMultiplier rewards recipes that carry the key descriptive
// fields: ingredients, instructions, cooking time, difficulty, nutrition.
type CompletenessMultiplier struct {
	config *RankingConfig
}

// NewCompletenessMultiplier creates a new CompletenessMultiplier.
func NewCompletenessMultiplier(config *RankingConfig) *CompletenessMultiplier {
	return &CompletenessMultiplier{config: config}
}

// Name returns the multiplier name.
func (m *CompletenessMultiplier) Name() string {
	return "completeness"
}

// Multiply applies the completeness multiplier to the base score.
func (m *CompletenessMultiplier) Multiply(ctx *ScoringContext, baseScore float64) float64 {
	if !m.config.CompletenessOn() || baseScore == 0 || ctx.Recipe == nil {
		return baseScore
	}

	present := 0
	r := ctx.Recipe
	if len(r.Ingredients) > 0 {
		present++
	}
	if len(r.Instructions) > 0 {
		present++
	}
	if r.CookingMinutes > 0 {
		present++
	}
	if r.Difficulty != "" {
		present++
	}
	if r.Nutrition != nil {
		present++
	}
	return baseScore * (1 + m.config.CompletenessBonus*float64(present))
}

// ContextMultiplier applies boosts keyed on literal substrings of the
// original query: "quick"/"fast" favor short cook times, "easy"/"simple"
// favor low difficulty, "healthy" favors low-calorie recipes, and
// "simple"/"gourmet" use ingredient-count heuristics.
type ContextMultiplier struct {
	config *RankingConfig
}

// NewContextMultiplier creates a new ContextMultiplier.
func NewContextMultiplier(config *RankingConfig) *ContextMultiplier {
	return &ContextMultiplier{config: config}
}

// Name returns the multiplier name.
func (m *ContextMultiplier) Name() string {
	return "context"
}

// Multiply applies the contextual multiplier to the base score.
func (m *ContextMultiplier) Multiply(ctx *ScoringContext, baseScore float64) float64 {
	if !m.config.ContextOn() || baseScore == 0 || ctx.Recipe == nil || ctx.Query == "" {
		return baseScore
	}

	score := baseScore
	r := ctx.Recipe
	q := ctx.Query

	if strings.Contains(q, "quick") || strings.Contains(q, "fast") {
		switch {
		case r.CookingMinutes > 0 && r.CookingMinutes <= 30:
			score *= m.config.QuickUnder30Multiplier
		case r.CookingMinutes > 0 && r.CookingMinutes <= 45:
			score *= m.config.QuickUnder45Multiplier
		}
	}

	if strings.Contains(q, "easy") || strings.Contains(q, "simple") {
		if r.Difficulty == "easy" || r.Difficulty == "beginner" {
			score *= m.config.EasyMultiplier
		}
	}

	if strings.Contains(q, "healthy") {
		if r.Nutrition != nil && r.Nutrition.Calories > 0 && r.Nutrition.Calories < m.config.HealthyCalorieThreshold {
			score *= m.config.HealthyMultiplier
		}
	}

	if strings.Contains(q, "simple") && len(r.Ingredients) > 0 && len(r.Ingredients) <= 5 {
		score *= m.config.SimpleMultiplier
	}
	if strings.Contains(q, "gourmet") && len(r.Ingredients) > 10 {
		score *= m.config.GourmetMultiplier
	}

	return score
}
