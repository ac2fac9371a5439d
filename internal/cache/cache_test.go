package cache

import (
	"context"
	"testing"
	"time"

	"github.com/hyperjump/umami/internal/embedding"
	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/internal/searchindex"
	"github.com/hyperjump/umami/internal/store"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache(
		store.NewMemoryStore(embedding.NewHashEmbedder(256)),
		WithClock(clock.Now),
	)
	return c, clock
}

func sampleRecipes() []*models.Recipe {
	return []*models.Recipe{
		{ID: "r1", Title: "Spicy Beef Tacos", Cuisine: "mexican", Rating: 4.6,
			Ingredients: []models.Ingredient{{Name: "beef"}, {Name: "tortillas"}}},
		{ID: "r2", Title: "Margherita Pizza", Cuisine: "italian", Rating: 4.1,
			Ingredients: []models.Ingredient{{Name: "mozzarella"}}},
	}
}

func TestComputeKeyDeterministic(t *testing.T) {
	f := models.SearchFilters{Cuisine: "mexican", MinRating: 4}

	a := ComputeKey("Beef  Tacos", "beef", f)
	b := ComputeKey("  beef tacos ", "BEEF", f)
	if a != b {
		t.Error("normalized-equal lookups must hash identically")
	}
	if a == ComputeKey("beef tacos", "beef", models.SearchFilters{}) {
		t.Error("different filters must change the key")
	}
	if a == ComputeKey("beef tacos", "", f) {
		t.Error("different ingredient must change the key")
	}
}

func TestCachePutGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, sampleRecipes(), "tacos", "", models.SearchFilters{}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, ok := c.Get(ctx, "beef tacos", "", models.SearchFilters{})
	if !ok {
		t.Fatal("Get() missed after Put()")
	}
	if got[0].ID != "r1" {
		t.Errorf("top hit = %s, want r1", got[0].ID)
	}
}

func TestCacheGetMissOnEmpty(t *testing.T) {
	c, _ := newTestCache(t)
	if _, ok := c.Get(context.Background(), "anything", "", models.SearchFilters{}); ok {
		t.Error("empty cache should miss")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, sampleRecipes(), "tacos", "", models.SearchFilters{})

	clock.Advance(6 * 24 * time.Hour)
	if _, ok := c.Get(ctx, "tacos", "", models.SearchFilters{}); !ok {
		t.Error("day 6 should still hit with a 7 day TTL")
	}

	clock.Advance(2 * 24 * time.Hour)
	if _, ok := c.Get(ctx, "tacos", "", models.SearchFilters{}); ok {
		t.Error("day 8 should miss")
	}
}

func TestCacheFilterOnlyLookup(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, sampleRecipes(), "", "", models.SearchFilters{})

	got, ok := c.Get(ctx, "", "", models.SearchFilters{Cuisine: "italian"})
	if !ok {
		t.Fatal("filter-only lookup missed")
	}
	if len(got) != 1 || got[0].ID != "r2" {
		t.Errorf("got %v, want only the italian recipe", got)
	}
}

func TestDocumentForNormalizesCuisine(t *testing.T) {
	r := &models.Recipe{ID: "v1", Title: "Margherita Pizza", Cuisine: "italy",
		Ingredients: []models.Ingredient{{Name: "mozzarella"}}}

	doc, err := DocumentFor(r, time.Now())
	if err != nil {
		t.Fatalf("DocumentFor() error: %v", err)
	}
	if doc.Metadata["cuisine"] != "italian" {
		t.Errorf("metadata cuisine = %v, want italian", doc.Metadata["cuisine"])
	}
	decoded, err := models.DecodeRecipe([]byte(doc.Metadata["recipe"].(string)))
	if err != nil {
		t.Fatalf("DecodeRecipe() error: %v", err)
	}
	if decoded.Cuisine != "italian" {
		t.Errorf("serialized cuisine = %q, want italian", decoded.Cuisine)
	}
	if r.Cuisine != "italy" {
		t.Errorf("input recipe mutated, Cuisine = %q", r.Cuisine)
	}
}

func TestCacheFilterMatchesVariantCuisineLabel(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	variant := &models.Recipe{ID: "v1", Title: "Beef Tacos", Cuisine: "tex-mex",
		Ingredients: []models.Ingredient{{Name: "beef"}}}
	c.Put(ctx, []*models.Recipe{variant}, "", "", models.SearchFilters{})

	got, ok := c.Get(ctx, "", "", models.SearchFilters{Cuisine: "mexican"})
	if !ok || len(got) != 1 || got[0].ID != "v1" {
		t.Fatalf("canonical cuisine filter missed the variant-labeled recipe: %v", got)
	}
	if got[0].Cuisine != "mexican" {
		t.Errorf("Cuisine = %q, want mexican", got[0].Cuisine)
	}
}

// queryBlindStore never returns similarity hits, so Get can only reach a
// recipe through the search index.
type queryBlindStore struct {
	store.Store
}

func (queryBlindStore) Query(ctx context.Context, q store.Query) ([]store.Result, error) {
	return nil, nil
}

func TestCacheGetUnionsIndexedEntries(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	inner := store.NewMemoryStore(embedding.NewHashEmbedder(256))
	c := NewCache(queryBlindStore{Store: inner}, WithClock(clock.Now))
	ctx := context.Background()

	c.Put(ctx, sampleRecipes(), "beef tacos", "", models.SearchFilters{})

	got, ok := c.Get(ctx, "beef tacos", "", models.SearchFilters{})
	if !ok {
		t.Fatal("indexed entry should be recovered even without similarity hits")
	}
	if got[0].ID != "r1" {
		t.Errorf("top hit = %s, want r1", got[0].ID)
	}
	for _, r := range got {
		if r.ID == "r2" {
			t.Error("entry with no token overlap should not surface")
		}
	}
}

func TestCachePutRegistersKey(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	idx := searchindex.NewMemoryIndex()
	c := NewCache(
		store.NewMemoryStore(embedding.NewHashEmbedder(256)),
		WithClock(clock.Now),
		WithIndex(idx),
	)
	ctx := context.Background()
	filters := models.SearchFilters{MinRating: 4}

	c.Put(ctx, sampleRecipes()[:1], "tacos", "beef", filters)

	entries, err := idx.All(ctx)
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if want := ComputeKey("tacos", "beef", filters); entries[0].Key != want {
		t.Errorf("entry key = %q, want the lookup's memoization key", entries[0].Key)
	}
}

func TestCachePutOverwrites(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, sampleRecipes(), "tacos", "", models.SearchFilters{})
	updated := &models.Recipe{ID: "r1", Title: "Improved Beef Tacos", Cuisine: "mexican"}
	c.Put(ctx, []*models.Recipe{updated}, "tacos", "", models.SearchFilters{})

	stats := c.Stats(ctx)
	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2 after overwrite", stats.Total)
	}
}

func TestCacheClearExpired(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, sampleRecipes()[:1], "tacos", "", models.SearchFilters{})
	clock.Advance(8 * 24 * time.Hour)
	c.Put(ctx, sampleRecipes()[1:], "pizza", "", models.SearchFilters{})

	removed, err := c.ClearExpired(ctx)
	if err != nil {
		t.Fatalf("ClearExpired() error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	stats := c.Stats(ctx)
	if stats.Total != 1 || stats.Valid != 1 || stats.Expired != 0 {
		t.Errorf("stats after sweep = %+v", stats)
	}
}

func TestCacheStats(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, sampleRecipes()[:1], "tacos", "", models.SearchFilters{})
	clock.Advance(8 * 24 * time.Hour)
	c.Put(ctx, sampleRecipes()[1:], "pizza", "", models.SearchFilters{})

	stats := c.Stats(ctx)
	if stats.Total != 2 || stats.Valid != 1 || stats.Expired != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TTLDays != 7 {
		t.Errorf("TTLDays = %d, want 7", stats.TTLDays)
	}
}

func TestCacheDegradesOnDeadStore(t *testing.T) {
	c := NewCache(store.NewNullStore())
	ctx := context.Background()

	if err := c.Put(ctx, sampleRecipes(), "tacos", "", models.SearchFilters{}); err != nil {
		t.Errorf("Put() on dead store should not error, got %v", err)
	}
	if _, ok := c.Get(ctx, "tacos", "", models.SearchFilters{}); ok {
		t.Error("dead store must behave as a permanent miss")
	}
	stats := c.Stats(ctx)
	if stats.Total != 0 {
		t.Errorf("stats on dead store = %+v", stats)
	}
}
