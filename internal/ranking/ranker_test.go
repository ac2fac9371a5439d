package ranking

import (
	"testing"

	"github.com/hyperjump/umami/internal/models"
)

func TestRankerScore(t *testing.T) {
	r := NewRanker(nil)

	recipe := &models.Recipe{
		Title:          "Quick Veggie Stir Fry",
		Rating:         4.8,
		CookingMinutes: 20,
		Ingredients:    []models.Ingredient{{Name: "broccoli"}},
		Instructions:   []string{"stir fry"},
	}

	score := r.Score(0.6, recipe, "quick veggie stir fry")
	if score <= 0.6 {
		t.Errorf("boosted score = %v, want > base 0.6", score)
	}
	if score > 1.0 {
		t.Errorf("score = %v, want clamped to [0,1]", score)
	}
}

func TestRankerScoreClampsBase(t *testing.T) {
	r := NewRanker(nil)
	recipe := &models.Recipe{Title: "Anything"}

	if got := r.Score(-0.3, recipe, "q"); got != 0 {
		t.Errorf("negative base: got %v, want 0", got)
	}
	if got := r.Score(1.7, recipe, ""); got > 1.0 {
		t.Errorf("oversized base: got %v, want <= 1", got)
	}
}

func TestRankerScoreOrdering(t *testing.T) {
	r := NewRanker(nil)

	strong := &models.Recipe{Title: "Chicken Curry", Rating: 4.9}
	weak := &models.Recipe{Title: "Plain Rice"}

	sStrong := r.Score(0.5, strong, "chicken curry")
	sWeak := r.Score(0.5, weak, "chicken curry")
	if sStrong <= sWeak {
		t.Errorf("title+rating match should outrank: %v <= %v", sStrong, sWeak)
	}
}
