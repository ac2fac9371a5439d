package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hyperjump/umami/internal/embedding"
)

// MemoryStore is an in-memory Store using brute-force cosine search.
// Suitable for tests and small catalogs.
type MemoryStore struct {
	embedder embedding.Embedder
	docs     map[string]Document
	vectors  map[string][]float32
	order    []string
	mu       sync.RWMutex
}

// NewMemoryStore creates an in-memory store backed by the given embedder.
func NewMemoryStore(embedder embedding.Embedder) *MemoryStore {
	return &MemoryStore{
		embedder: embedder,
		docs:     make(map[string]Document),
		vectors:  make(map[string][]float32),
	}
}

// Upsert embeds and stores each document, overwriting existing ids.
func (s *MemoryStore) Upsert(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("upsert: document without id")
		}
		vec, err := s.embedder.Embed(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("embed %s: %w", doc.ID, err)
		}

		s.mu.Lock()
		if _, exists := s.docs[doc.ID]; !exists {
			s.order = append(s.order, doc.ID)
		}
		s.docs[doc.ID] = doc
		s.vectors[doc.ID] = vec
		s.mu.Unlock()
	}
	return nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

// Query runs a filtered similarity search. An empty query text returns
// filtered documents in insertion order with zero distance.
func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Result, error) {
	if q.Text == "" {
		return s.listFiltered(q)
	}

	queryVec, err := s.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Result, 0, len(s.order))
	for _, id := range s.order {
		doc := s.docs[id]
		if q.Filter != nil && !q.Filter.Matches(doc.Metadata) {
			continue
		}
		sim := dot(queryVec, s.vectors[id])
		results = append(results, Result{Document: doc, Distance: 1 - sim})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

func (s *MemoryStore) listFiltered(q Query) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Result, 0, len(s.order))
	for _, id := range s.order {
		doc := s.docs[id]
		if q.Filter != nil && !q.Filter.Matches(doc.Metadata) {
			continue
		}
		results = append(results, Result{Document: doc})
		if q.Limit > 0 && len(results) >= q.Limit {
			break
		}
	}
	return results, nil
}

// List returns all documents in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out, nil
}

// Delete removes documents by id; missing ids are ignored.
func (s *MemoryStore) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.docs[id]; ok {
			delete(s.docs, id)
			delete(s.vectors, id)
			removed[id] = true
		}
	}
	if len(removed) == 0 {
		return nil
	}
	order := s.order[:0]
	for _, id := range s.order {
		if !removed[id] {
			order = append(order, id)
		}
	}
	s.order = order
	return nil
}

// Count returns the number of stored documents.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
