package search

import (
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/store"
)

// StoreFilter converts structured search filters into the store's metadata
// filter clause. Zero-valued filter fields contribute no conditions.
func StoreFilter(f models.SearchFilters) store.Filter {
	if f.IsZero() {
		return nil
	}

	clause := store.Filter{}
	if f.Cuisine != "" {
		clause["cuisine"] = store.Condition{Eq: f.Cuisine}
	}
	if f.MaxCookingMinutes > 0 {
		v := float64(f.MaxCookingMinutes)
		clause["cooking_minutes"] = store.Condition{Lte: &v}
	}
	if f.MaxCalories > 0 {
		v := f.MaxCalories
		clause["calories"] = store.Condition{Lte: &v}
	}
	if f.MinRating > 0 {
		v := f.MinRating
		clause["rating"] = store.Condition{Gte: &v}
	}
	if f.MaxIngredients > 0 {
		v := float64(f.MaxIngredients)
		clause["ingredient_count"] = store.Condition{Lte: &v}
	}
	if f.Vegetarian {
		clause["vegetarian"] = store.Condition{Eq: true}
	}
	if f.Vegan {
		clause["vegan"] = store.Condition{Eq: true}
	}
	if f.GlutenFree {
		clause["gluten_free"] = store.Condition{Eq: true}
	}
	return clause
}
