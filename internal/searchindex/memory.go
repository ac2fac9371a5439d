package searchindex

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryIndex is an in-memory Index using token-overlap matching. Suitable
// for tests and for running without a persistent index directory.
type MemoryIndex struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]Entry)}
}

// Put stores the entry, overwriting any previous one for the recipe id.
func (m *MemoryIndex) Put(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.RecipeID] = entry
	return nil
}

// Lookup returns up to limit entries whose search text shares tokens with
// the query, most overlapping first.
func (m *MemoryIndex) Lookup(_ context.Context, text string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	queryTokens := strings.Fields(strings.ToLower(text))
	if len(queryTokens) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		entry Entry
		hits  int
	}
	var matches []scored
	for _, entry := range m.entries {
		haystack := strings.ToLower(entry.SearchText)
		hits := 0
		for _, tok := range queryTokens {
			if strings.Contains(haystack, tok) {
				hits++
			}
		}
		if hits > 0 {
			matches = append(matches, scored{entry: entry, hits: hits})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].hits != matches[j].hits {
			return matches[i].hits > matches[j].hits
		}
		return matches[i].entry.RecipeID < matches[j].entry.RecipeID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Entry, len(matches))
	for i, s := range matches {
		out[i] = s.entry
	}
	return out, nil
}

// All returns every entry, ordered by recipe id for determinism.
func (m *MemoryIndex) All(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecipeID < out[j].RecipeID })
	return out, nil
}

// Delete removes entries by recipe id; missing ids are ignored.
func (m *MemoryIndex) Delete(_ context.Context, recipeIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range recipeIDs {
		delete(m.entries, id)
	}
	return nil
}

// Count returns the number of entries.
func (m *MemoryIndex) Count() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.entries)), nil
}

// Close is a no-op.
func (m *MemoryIndex) Close() error {
	return nil
}
