// Package searchindex maintains the lightweight search-text index that the
// cache layer registers entries in: derived search text mapped to a recipe id
// plus the timestamp that drives TTL expiry.
package searchindex

import (
	"context"
	"time"
)

// Entry is one indexed cache registration. Key is the memoization key of the
// lookup that produced the entry; registrations from the same query context
// share it.
type Entry struct {
	RecipeID   string
	Key        string
	SearchText string
	CachedAt   time.Time
}

// Index defines search-text index operations. Put with an existing recipe id
// overwrites the previous entry.
type Index interface {
	Put(ctx context.Context, entry Entry) error
	Lookup(ctx context.Context, text string, limit int) ([]Entry, error)
	All(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, recipeIDs []string) error
	Count() (uint64, error)
	Close() error
}
