package ranking

import (
	"math"
	"testing"

	"github.com/hyperjump/umami/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTitleMatchMultiplier(t *testing.T) {
	m := NewTitleMatchMultiplier(DefaultRankingConfig())

	tests := []struct {
		name  string
		query string
		title string
		want  float64
	}{
		{"exact match", "pad thai", "Pad Thai", 0.5 * 1.5},
		{"substring match", "thai", "Pad Thai", 0.5 * 1.2},
		{"query contains title", "best pad thai ever", "Pad Thai", 0.5 * 1.2},
		{"no match", "lasagna", "Pad Thai", 0.5},
		{"empty query", "", "Pad Thai", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewScoringContext(tt.query, &models.Recipe{Title: tt.title})
			if got := m.Multiply(ctx, 0.5); !almostEqual(got, tt.want) {
				t.Errorf("Multiply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRatingMultiplier(t *testing.T) {
	m := NewRatingMultiplier(DefaultRankingConfig())

	tests := []struct {
		name   string
		rating float64
		want   float64
	}{
		{"high tier", 4.8, 0.5 * 1.3},
		{"good tier", 4.3, 0.5 * 1.2},
		{"ok tier", 3.7, 0.5 * 1.1},
		{"boundary 4.5 stays good", 4.5, 0.5 * 1.2},
		{"low rating no boost", 3.0, 0.5},
		{"unrated no boost", 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewScoringContext("q", &models.Recipe{Rating: tt.rating})
			if got := m.Multiply(ctx, 0.5); !almostEqual(got, tt.want) {
				t.Errorf("Multiply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompletenessMultiplier(t *testing.T) {
	m := NewCompletenessMultiplier(DefaultRankingConfig())

	full := &models.Recipe{
		Ingredients:    []models.Ingredient{{Name: "rice"}},
		Instructions:   []string{"cook"},
		CookingMinutes: 20,
		Difficulty:     "easy",
		Nutrition:      &models.Nutrition{Calories: 300},
	}
	ctx := NewScoringContext("q", full)
	if got, want := m.Multiply(ctx, 0.4), 0.4*1.25; !almostEqual(got, want) {
		t.Errorf("all five fields: got %v, want %v", got, want)
	}

	bare := &models.Recipe{Title: "Just a Title"}
	ctx = NewScoringContext("q", bare)
	if got := m.Multiply(ctx, 0.4); !almostEqual(got, 0.4) {
		t.Errorf("no key fields: got %v, want unchanged 0.4", got)
	}
}

func TestContextMultiplier(t *testing.T) {
	m := NewContextMultiplier(DefaultRankingConfig())

	tests := []struct {
		name   string
		query  string
		recipe *models.Recipe
		want   float64
	}{
		{
			"quick under 30",
			"quick dinner",
			&models.Recipe{CookingMinutes: 25},
			0.5 * 1.3,
		},
		{
			"fast under 45",
			"fast pasta",
			&models.Recipe{CookingMinutes: 40},
			0.5 * 1.2,
		},
		{
			"quick but slow recipe",
			"quick dinner",
			&models.Recipe{CookingMinutes: 90},
			0.5,
		},
		{
			"easy difficulty",
			"easy breakfast",
			&models.Recipe{Difficulty: "beginner"},
			0.5 * 1.25,
		},
		{
			"healthy low calorie",
			"healthy lunch",
			&models.Recipe{Nutrition: &models.Nutrition{Calories: 350}},
			0.5 * 1.2,
		},
		{
			"healthy without nutrition data",
			"healthy lunch",
			&models.Recipe{},
			0.5,
		},
		{
			"simple few ingredients stacks with easy",
			"simple soup",
			&models.Recipe{
				Difficulty:  "easy",
				Ingredients: []models.Ingredient{{Name: "a"}, {Name: "b"}},
			},
			0.5 * 1.25 * 1.2,
		},
		{
			"gourmet many ingredients",
			"gourmet feast",
			&models.Recipe{Ingredients: make([]models.Ingredient, 12)},
			0.5 * 1.15,
		},
		{
			"no context terms",
			"chicken curry",
			&models.Recipe{CookingMinutes: 10, Difficulty: "easy"},
			0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewScoringContext(tt.query, tt.recipe)
			if got := m.Multiply(ctx, 0.5); !almostEqual(got, tt.want) {
				t.Errorf("Multiply() = %v, want %v", got, tt.want)
			}
		})
	}
}
