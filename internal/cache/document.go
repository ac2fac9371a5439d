package cache

import (
	"encoding/json"
	"time"

	"github.com/hyperjump/umami/internal/cuisine"
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/store"
)

// DocumentFor converts a recipe into its stored document form: the derived
// search text, the serialized record, and the flat metadata fields the store
// filters on. The cuisine is resolved to its canonical name before it lands
// in the record and the metadata, so store-level cuisine filters match
// variant labels. cachedAt stamps the entry for TTL checks.
func DocumentFor(r *models.Recipe, cachedAt time.Time) (store.Document, error) {
	clone := *r
	clone.CachedAt = cachedAt
	if c := cuisine.Detect(clone.Cuisine, clone.Title, clone.IngredientNames()); c != "" {
		clone.Cuisine = c
	}

	raw, err := json.Marshal(&clone)
	if err != nil {
		return store.Document{}, err
	}

	metadata := map[string]any{
		"recipe":    string(raw),
		"title":     clone.Title,
		"cuisine":   clone.Cuisine,
		"cached_at": cachedAt.UTC().Format(time.RFC3339),
	}
	if clone.Rating > 0 {
		metadata["rating"] = clone.Rating
	}
	if clone.CookingMinutes > 0 {
		metadata["cooking_minutes"] = clone.CookingMinutes
	}
	if len(clone.Ingredients) > 0 {
		metadata["ingredient_count"] = len(clone.Ingredients)
	}
	if clone.Nutrition != nil && clone.Nutrition.Calories > 0 {
		metadata["calories"] = clone.Nutrition.Calories
	}
	for _, flag := range []string{"vegetarian", "vegan", "gluten-free"} {
		if clone.HasTag(flag) {
			metadata[metadataFlag(flag)] = true
		}
	}

	return store.Document{
		ID:       clone.ID,
		Text:     clone.SearchText(),
		Metadata: metadata,
	}, nil
}

func metadataFlag(flag string) string {
	if flag == "gluten-free" {
		return "gluten_free"
	}
	return flag
}
