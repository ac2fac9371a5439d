package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hyperjump/umami/internal/embedding"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "recipes.db"), embedding.NewHashEmbedder(64))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	seedDocs(t, s)
	ctx := context.Background()

	doc, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if doc.Metadata["cuisine"] != "mexican" {
		t.Errorf("metadata = %v", doc.Metadata)
	}

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if n, _ := s.Count(ctx); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestSQLiteStoreQuery(t *testing.T) {
	s := newSQLiteStore(t)
	seedDocs(t, s)

	results, err := s.Query(context.Background(), Query{Text: "beef tacos", Limit: 2})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "r1" {
		t.Errorf("top hit = %s, want r1", results[0].ID)
	}
}

func TestSQLiteStoreUpsertOverwrites(t *testing.T) {
	s := newSQLiteStore(t)
	seedDocs(t, s)
	ctx := context.Background()

	err := s.Upsert(ctx, []Document{{ID: "r3", Text: "brand new text", Metadata: map[string]any{"cuisine": "thai"}}})
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if n, _ := s.Count(ctx); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
	doc, _ := s.Get(ctx, "r3")
	if doc.Metadata["cuisine"] != "thai" {
		t.Errorf("metadata not overwritten: %v", doc.Metadata)
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	s := newSQLiteStore(t)
	seedDocs(t, s)
	ctx := context.Background()

	if err := s.Delete(ctx, []string{"r1", "r2"}); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "r3" {
		t.Errorf("List() = %v", docs)
	}
}
