// Package integration provides end-to-end tests over real storage and indices.
package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/umami/internal/cache"
	"github.com/hyperjump/umami/internal/embedding"
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/search"
	"github.com/hyperjump/umami/internal/searchindex"
	"github.com/hyperjump/umami/internal/service"
	"github.com/hyperjump/umami/internal/store"
)

func seedRecipes() []*models.Recipe {
	cuisines := map[string][]string{
		"italian": {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna"},
		"mexican": {"Beef Tacos", "Chicken Enchiladas", "Pork Tamales"},
		"indian":  {"Chicken Tikka Masala", "Palak Paneer", "Lamb Biryani"},
	}
	var recipes []*models.Recipe
	i := 0
	for cuisine, titles := range cuisines {
		for _, title := range titles {
			i++
			recipes = append(recipes, &models.Recipe{
				ID:           fmt.Sprintf("r%d", i),
				Title:        title,
				Cuisine:      cuisine,
				Ingredients:  []models.Ingredient{{Name: "salt"}, {Name: "oil"}, {Name: "onion"}},
				Instructions: []string{"prep", "cook", "serve"},
				Rating:       4.0,
			})
		}
	}
	return recipes
}

func TestIntegration_Pipeline(t *testing.T) {
	dir := t.TempDir()

	embedder := embedding.NewHashEmbedder(64)
	st, err := store.NewSQLiteStore(filepath.Join(dir, "recipes.db"), embedder)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	idx, err := searchindex.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	now := time.Now()
	clock := &now
	engine := search.NewEngine(st)
	recipeCache := cache.NewCache(st,
		cache.WithIndex(idx),
		cache.WithClock(func() time.Time { return *clock }),
	)
	svc := service.New(st, engine, recipeCache)
	ctx := context.Background()

	if err := svc.AddRecipes(ctx, seedRecipes()); err != nil {
		t.Fatal(err)
	}

	t.Run("search", func(t *testing.T) {
		got := svc.Search(ctx, "margherita pizza", models.SearchFilters{}, 5)
		if len(got) == 0 {
			t.Fatal("expected search results")
		}
		if got[0].ID != "r1" && got[0].Title != "Margherita Pizza" {
			t.Errorf("top result = %+v", got[0])
		}
	})

	t.Run("filtered search", func(t *testing.T) {
		got := svc.Search(ctx, "chicken", models.SearchFilters{Cuisine: "indian"}, 5)
		for _, r := range got {
			if r.Cuisine != "indian" {
				t.Errorf("cuisine filter leaked %q", r.Cuisine)
			}
		}
	})

	t.Run("similar", func(t *testing.T) {
		got := svc.FindSimilar(ctx, "r1", 3)
		for _, r := range got {
			if r.ID == "r1" {
				t.Error("similar results include the source recipe")
			}
		}
	})

	t.Run("recommendations balance cuisines", func(t *testing.T) {
		profile := models.PreferenceProfile{FavoriteCuisines: []string{"italian", "mexican", "indian"}}
		got := svc.Recommend(ctx, profile, 9)
		if len(got) == 0 {
			t.Fatal("expected recommendations")
		}
		counts := make(map[string]int)
		for _, r := range got {
			counts[r.Cuisine]++
		}
		for cuisine, n := range counts {
			if n > 5 {
				t.Errorf("cuisine %q dominates with %d of %d", cuisine, n, len(got))
			}
		}
	})

	t.Run("expiry sweep", func(t *testing.T) {
		stats := svc.Stats(ctx)
		if stats.Total != 9 || stats.Expired != 0 {
			t.Fatalf("stats before expiry = %+v", stats)
		}
		aged := now.Add(8 * 24 * time.Hour)
		clock = &aged
		stats = svc.Stats(ctx)
		if stats.Expired != 9 {
			t.Fatalf("stats after aging = %+v, want all expired", stats)
		}
		removed, err := svc.ClearExpired(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if removed != 9 {
			t.Errorf("removed = %d, want 9", removed)
		}
		if got := svc.Search(ctx, "margherita pizza", models.SearchFilters{}, 5); len(got) != 0 {
			t.Errorf("expired recipes still searchable: %d", len(got))
		}
	})
}
