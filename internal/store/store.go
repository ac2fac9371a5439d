// Package store abstracts the persistent, similarity-searchable recipe
// document store. Implementations embed document text themselves so callers
// deal only in text and metadata.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Document is one stored recipe record: the raw text that was (or will be)
// embedded, plus arbitrary metadata used for filtering and hydration.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// Result is a similarity hit. Distance is cosine distance: 0 means identical,
// larger means less similar.
type Result struct {
	Document
	Distance float64
}

// Condition constrains one metadata field. Eq matches equality (strings
// compared case-insensitively); Lte and Gte bound numeric fields. A condition
// may set several of these; all must hold.
type Condition struct {
	Eq  any
	Lte *float64
	Gte *float64
}

// Filter maps metadata field names to conditions. Conditions are conjunctive.
type Filter map[string]Condition

// Query is a similarity query. An empty Text returns documents in store
// order, filtered but unranked.
type Query struct {
	Text   string
	Filter Filter
	Limit  int
}

// Store is the document store contract: upsert-by-id, get-by-id,
// metadata-filtered similarity query, listing and counting.
type Store interface {
	Upsert(ctx context.Context, docs []Document) error
	Get(ctx context.Context, id string) (*Document, error)
	Query(ctx context.Context, q Query) ([]Result, error)
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, ids []string) error
	Count(ctx context.Context) (int, error)
	Close() error
}
