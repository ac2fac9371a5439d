package models

import (
	"fmt"
	"strings"
)

// SearchFilters are optional structured constraints applied conjunctively (AND).
// Zero values mean "no constraint".
type SearchFilters struct {
	Cuisine           string  `json:"cuisine,omitempty"`
	MaxCookingMinutes int     `json:"max_cooking_minutes,omitempty"`
	MaxCalories       float64 `json:"max_calories,omitempty"`
	MinRating         float64 `json:"min_rating,omitempty"`
	MaxIngredients    int     `json:"max_ingredients,omitempty"`
	Vegetarian        bool    `json:"vegetarian,omitempty"`
	Vegan             bool    `json:"vegan,omitempty"`
	GlutenFree        bool    `json:"gluten_free,omitempty"`
}

// IsZero reports whether no constraint is set.
func (f SearchFilters) IsZero() bool {
	return f == SearchFilters{}
}

// Canonical returns a stable key=value encoding with fixed field order, so
// that semantically equal filter sets always produce the same string
// regardless of how they were populated. Used for cache key derivation.
func (f SearchFilters) Canonical() string {
	var b strings.Builder
	appendField := func(key, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}

	appendField("cuisine", strings.ToLower(strings.TrimSpace(f.Cuisine)))
	if f.MaxCookingMinutes > 0 {
		appendField("max_cooking_minutes", fmt.Sprintf("%d", f.MaxCookingMinutes))
	}
	if f.MaxCalories > 0 {
		appendField("max_calories", fmt.Sprintf("%g", f.MaxCalories))
	}
	if f.MinRating > 0 {
		appendField("min_rating", fmt.Sprintf("%g", f.MinRating))
	}
	if f.MaxIngredients > 0 {
		appendField("max_ingredients", fmt.Sprintf("%d", f.MaxIngredients))
	}
	if f.Vegetarian {
		appendField("vegetarian", "true")
	}
	if f.Vegan {
		appendField("vegan", "true")
	}
	if f.GlutenFree {
		appendField("gluten_free", "true")
	}
	return b.String()
}

// Matches reports whether the recipe passes every set constraint.
func (f SearchFilters) Matches(r *Recipe) bool {
	if f.Cuisine != "" && !strings.EqualFold(f.Cuisine, r.Cuisine) {
		return false
	}
	if f.MaxCookingMinutes > 0 && (r.CookingMinutes <= 0 || r.CookingMinutes > f.MaxCookingMinutes) {
		return false
	}
	if f.MaxCalories > 0 {
		if r.Nutrition == nil || r.Nutrition.Calories <= 0 || r.Nutrition.Calories > f.MaxCalories {
			return false
		}
	}
	if f.MinRating > 0 && r.Rating < f.MinRating {
		return false
	}
	if f.MaxIngredients > 0 && len(r.Ingredients) > f.MaxIngredients {
		return false
	}
	if f.Vegetarian && !r.HasTag("vegetarian") {
		return false
	}
	if f.Vegan && !r.HasTag("vegan") {
		return false
	}
	if f.GlutenFree && !r.HasTag("gluten-free") && !r.HasTag("gluten free") {
		return false
	}
	return true
}
