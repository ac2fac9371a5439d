// Package models defines core data structures for recipes, filters, preferences, and results.
package models

import (
	"strings"
	"time"
)

// Ingredient is a single ingredient descriptor.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

// Nutrition holds the optional per-serving nutrition facts.
type Nutrition struct {
	Calories float64 `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
}

// Recipe is the canonical content unit.
//
// CachedAt is a property of the cache entry wrapping the recipe, not of the
// recipe's domain identity; it drives TTL expiry in the cache layer.
type Recipe struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Cuisine        string       `json:"cuisine,omitempty"`
	Ingredients    []Ingredient `json:"ingredients,omitempty"`
	Instructions   []string     `json:"instructions,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	DietFlags      []string     `json:"diet_flags,omitempty"`
	DishTypes      []string     `json:"dish_types,omitempty"`
	Nutrition      *Nutrition   `json:"nutrition,omitempty"`
	CookingMinutes int          `json:"cooking_minutes,omitempty"`
	Difficulty     string       `json:"difficulty,omitempty"`
	Rating         float64      `json:"rating,omitempty"`
	Servings       int          `json:"servings,omitempty"`
	CachedAt       time.Time    `json:"cached_at,omitempty"`
}

// genericTitles are placeholder titles that mark a record as incomplete.
var genericTitles = map[string]bool{
	"untitled":        true,
	"untitled recipe": true,
	"unknown recipe":  true,
	"recipe":          true,
}

// Complete reports whether the recipe meets the minimum bar for being
// returnable: a non-empty, non-generic title.
func (r *Recipe) Complete() bool {
	title := strings.TrimSpace(strings.ToLower(r.Title))
	if title == "" {
		return false
	}
	return !genericTitles[title]
}

// IngredientNames returns the ingredient names in order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Name != "" {
			names = append(names, ing.Name)
		}
	}
	return names
}

// SearchText assembles the text body indexed for similarity search:
// title, cuisine, ingredient names, and tags, space-joined.
func (r *Recipe) SearchText() string {
	parts := make([]string, 0, 3+len(r.Ingredients)+len(r.Tags))
	if r.Title != "" {
		parts = append(parts, r.Title)
	}
	if r.Cuisine != "" {
		parts = append(parts, r.Cuisine)
	}
	parts = append(parts, r.IngredientNames()...)
	parts = append(parts, r.Tags...)
	return strings.Join(parts, " ")
}

// HasTag reports whether any of the recipe's tags, diet flags, or dish types
// equals tag (case-insensitive).
func (r *Recipe) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, set := range [][]string{r.Tags, r.DietFlags, r.DishTypes} {
		for _, t := range set {
			if strings.ToLower(t) == tag {
				return true
			}
		}
	}
	return false
}

// MatchesFood reports whether the free-text food term appears in the recipe's
// title, ingredient names, or tags (case-insensitive substring).
func (r *Recipe) MatchesFood(food string) bool {
	food = strings.TrimSpace(strings.ToLower(food))
	if food == "" {
		return false
	}
	if strings.Contains(strings.ToLower(r.Title), food) {
		return true
	}
	for _, name := range r.IngredientNames() {
		if strings.Contains(strings.ToLower(name), food) {
			return true
		}
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), food) {
			return true
		}
	}
	return false
}
