package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseRecipe converts an arbitrarily-shaped ingestion record into a Recipe.
// Records arrive from external collaborators in inconsistent shapes: structured
// objects with varying field names (cuisine vs cuisines, name vs title), or
// plain strings. Raw strings become a minimal {Title: text} stub. Unknown
// fields are ignored and missing fields defaulted; all shape tolerance lives
// here so business logic never branches on document shape.
func ParseRecipe(v any) *Recipe {
	switch val := v.(type) {
	case string:
		return &Recipe{Title: strings.TrimSpace(val)}
	case map[string]any:
		return parseRecipeObject(val)
	case *Recipe:
		return val
	case Recipe:
		return &val
	default:
		return &Recipe{}
	}
}

// DecodeRecipe parses a JSON-encoded ingestion record. JSON strings become
// title stubs; objects go through the same field mapping as ParseRecipe.
func DecodeRecipe(data []byte) (*Recipe, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	return ParseRecipe(v), nil
}

func parseRecipeObject(obj map[string]any) *Recipe {
	r := &Recipe{}

	r.ID = firstString(obj, "id", "recipe_id", "recipeId")
	r.Title = firstString(obj, "title", "name", "recipe_name")
	r.Cuisine = strings.ToLower(firstString(obj, "cuisine", "cuisines", "cuisine_type", "cuisineType"))
	r.Ingredients = parseIngredients(lookup(obj, "ingredients", "ingredient_list"))
	r.Instructions = asStringList(lookup(obj, "instructions", "steps", "directions"))
	r.Tags = asStringList(lookup(obj, "tags", "keywords"))
	r.DietFlags = asStringList(lookup(obj, "diet_flags", "dietary", "diets", "dietFlags"))
	r.DishTypes = asStringList(lookup(obj, "dish_types", "dishTypes", "dish_type", "course"))
	r.Nutrition = parseNutrition(lookup(obj, "nutrition", "nutrition_facts", "nutritionFacts"))
	r.CookingMinutes = asMinutes(lookup(obj, "cooking_minutes", "cook_time", "cooking_time", "ready_in_minutes", "readyInMinutes", "total_time"))
	r.Difficulty = strings.ToLower(firstString(obj, "difficulty", "difficulty_level", "difficultyLevel"))
	r.Rating = asFloat(lookup(obj, "rating", "average_rating", "averageRating"))
	r.Servings = int(asFloat(lookup(obj, "servings", "serves", "yield")))

	if ts := firstString(obj, "cached_at", "cachedAt"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			r.CachedAt = parsed
		}
	}
	return r
}

// lookup returns the first present key's value.
func lookup(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(obj map[string]any, keys ...string) string {
	v := lookup(obj, keys...)
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []any:
		// e.g. "cuisines": ["Italian", "European"] -> first entry
		for _, item := range s {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				return strings.TrimSpace(str)
			}
		}
	}
	return ""
}

func parseIngredients(v any) []Ingredient {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []Ingredient{{Name: s}}
		}
	case []any:
		out := make([]Ingredient, 0, len(val))
		for _, item := range val {
			switch ing := item.(type) {
			case string:
				if s := strings.TrimSpace(ing); s != "" {
					out = append(out, Ingredient{Name: s})
				}
			case map[string]any:
				name := firstString(ing, "name", "ingredient", "item")
				if name == "" {
					continue
				}
				qty := firstString(ing, "quantity", "amount", "measure")
				if qty == "" {
					if f := asFloat(lookup(ing, "quantity", "amount")); f > 0 {
						qty = strconv.FormatFloat(f, 'g', -1, 64)
					}
				}
				out = append(out, Ingredient{Name: name, Quantity: qty})
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func parseNutrition(v any) *Nutrition {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	n := &Nutrition{
		Calories: asFloat(lookup(obj, "calories", "kcal")),
		Protein:  asFloat(lookup(obj, "protein", "protein_g")),
		Carbs:    asFloat(lookup(obj, "carbs", "carbohydrates", "carbs_g")),
		Fat:      asFloat(lookup(obj, "fat", "fat_g")),
	}
	if *n == (Nutrition{}) {
		return nil
	}
	return n
}

// asStringList accepts a list of strings, a single string (split on newlines),
// or anything else (nil).
func asStringList(v any) []string {
	switch val := v.(type) {
	case string:
		var out []string
		for _, line := range strings.Split(val, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// asFloat accepts numbers and numeric strings.
func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return 0
}

// asMinutes accepts numbers and strings like "45" or "45 minutes".
func asMinutes(v any) int {
	if f := asFloat(v); f > 0 {
		return int(f)
	}
	s, ok := v.(string)
	if !ok {
		return 0
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	if n, err := strconv.Atoi(fields[0]); err == nil && n > 0 {
		return n
	}
	return 0
}
