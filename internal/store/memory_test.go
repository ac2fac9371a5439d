package store

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/umami/internal/embedding"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore(embedding.NewHashEmbedder(128))
}

func seedDocs(t *testing.T, s Store) {
	t.Helper()
	docs := []Document{
		{ID: "r1", Text: "spicy beef tacos with salsa", Metadata: map[string]any{"cuisine": "mexican", "rating": 4.6}},
		{ID: "r2", Text: "margherita pizza with basil", Metadata: map[string]any{"cuisine": "italian", "rating": 4.2}},
		{ID: "r3", Text: "chicken tacos with lime", Metadata: map[string]any{"cuisine": "mexican", "rating": 3.9}},
	}
	if err := s.Upsert(context.Background(), docs); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
}

func TestMemoryStoreGet(t *testing.T) {
	s := newTestStore()
	seedDocs(t, s)

	doc, err := s.Get(context.Background(), "r2")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if doc.Text != "margherita pizza with basil" {
		t.Errorf("Text = %q", doc.Text)
	}

	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreQueryRanksBySimilarity(t *testing.T) {
	s := newTestStore()
	seedDocs(t, s)

	results, err := s.Query(context.Background(), Query{Text: "beef tacos", Limit: 3})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].ID != "r1" {
		t.Errorf("top hit = %s, want r1 (most token overlap)", results[0].ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Error("results not sorted by ascending distance")
		}
	}
}

func TestMemoryStoreQueryFilter(t *testing.T) {
	s := newTestStore()
	seedDocs(t, s)

	results, err := s.Query(context.Background(), Query{
		Text:   "tacos",
		Filter: Filter{"cuisine": {Eq: "mexican"}},
	})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 mexican", len(results))
	}
	for _, r := range results {
		if r.Metadata["cuisine"] != "mexican" {
			t.Errorf("filter leaked %v", r.Metadata["cuisine"])
		}
	}
}

func TestMemoryStoreEmptyQueryListsStoreOrder(t *testing.T) {
	s := newTestStore()
	seedDocs(t, s)

	results, err := s.Query(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	want := []string{"r1", "r2", "r3"}
	if len(results) != len(want) {
		t.Fatalf("got %d results", len(results))
	}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("results[%d] = %s, want %s", i, results[i].ID, id)
		}
		if results[i].Distance != 0 {
			t.Error("filter-only lookups carry no distance")
		}
	}
}

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	s := newTestStore()
	seedDocs(t, s)

	err := s.Upsert(context.Background(), []Document{
		{ID: "r1", Text: "updated taco recipe", Metadata: map[string]any{"cuisine": "mexican"}},
	})
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	if n, _ := s.Count(context.Background()); n != 3 {
		t.Errorf("Count() = %d, want 3 after overwrite", n)
	}
	doc, _ := s.Get(context.Background(), "r1")
	if doc.Text != "updated taco recipe" {
		t.Errorf("Text = %q, want overwritten", doc.Text)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := newTestStore()
	seedDocs(t, s)

	if err := s.Delete(context.Background(), []string{"r2", "missing"}); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if n, _ := s.Count(context.Background()); n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
	docs, _ := s.List(context.Background())
	for _, d := range docs {
		if d.ID == "r2" {
			t.Error("deleted document still listed")
		}
	}
}

func TestNullStoreAlwaysMisses(t *testing.T) {
	s := NewNullStore()
	ctx := context.Background()

	if err := s.Upsert(ctx, []Document{{ID: "x", Text: "y"}}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	results, err := s.Query(ctx, Query{Text: "anything"})
	if err != nil || len(results) != 0 {
		t.Errorf("Query() = %v, %v; want empty, nil", results, err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}
