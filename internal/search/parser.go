package search

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hyperjump/umami/internal/cuisine"
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/store"
)

// fallbackTitle is assigned when a document has no usable title. Records that
// end up with it are rejected rather than surfaced.
const fallbackTitle = "Untitled Recipe"

// ParseDocument turns a stored document into a full Recipe. Structured
// documents carry either a serialized record under the "recipe" metadata key
// or flat metadata fields; bare-text documents become a title-only stub. The
// second return is false when the record is unusable (no real title).
func ParseDocument(doc store.Document) (*models.Recipe, bool) {
	var recipe *models.Recipe
	switch {
	case doc.Metadata["recipe"] != nil:
		raw, _ := doc.Metadata["recipe"].(string)
		if parsed, err := models.DecodeRecipe([]byte(raw)); err == nil {
			recipe = parsed
		} else {
			recipe = models.ParseRecipe(doc.Metadata)
		}
	case len(doc.Metadata) > 0:
		recipe = models.ParseRecipe(doc.Metadata)
	default:
		recipe = models.ParseRecipe(doc.Text)
	}

	if recipe.ID == "" {
		recipe.ID = doc.ID
	}
	if recipe.ID == "" {
		recipe.ID = derivedID(doc.Text)
	}

	recipe.Title = strings.TrimSpace(recipe.Title)
	if recipe.Title == "" {
		recipe.Title = fallbackTitle
	}
	if !recipe.Complete() {
		return nil, false
	}

	resolveCuisine(recipe, doc.Metadata)
	resolveCachedAt(recipe, doc.Metadata)
	return recipe, true
}

// resolveCuisine prefers the record's own cuisine, falls back to the store
// metadata, and normalizes whatever it found. When nothing resolves, the
// indicator tables get a chance before the field is left empty.
func resolveCuisine(recipe *models.Recipe, metadata map[string]any) {
	label := recipe.Cuisine
	if label == "" {
		if meta, ok := metadata["cuisine"].(string); ok {
			label = meta
		}
	}
	recipe.Cuisine = cuisine.Detect(label, recipe.Title, recipe.IngredientNames())
}

func resolveCachedAt(recipe *models.Recipe, metadata map[string]any) {
	if !recipe.CachedAt.IsZero() {
		return
	}
	if ts, ok := metadata["cached_at"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			recipe.CachedAt = parsed
		}
	}
}

// derivedID hashes the document text into a stable identifier for records
// that arrived without one.
func derivedID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
