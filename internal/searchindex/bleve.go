package searchindex

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// BleveIndex implements Index using Bleve.
type BleveIndex struct {
	index bleve.Index
}

type bleveEntry struct {
	Key        string `json:"key"`
	SearchText string `json:"search_text"`
	CachedAt   string `json:"cached_at"`
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// reused so registrations survive restarts.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so "taco" only
	// matches "taco"/"tacos"-adjacent tokens the query actually contains.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("search_text", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("key", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("cached_at", keywordFieldMapping)
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemoryBleveIndex creates a non-persistent Bleve index, for tests.
func NewMemoryBleveIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Put indexes the entry under its recipe id.
func (b *BleveIndex) Put(_ context.Context, entry Entry) error {
	return b.index.Index(entry.RecipeID, bleveEntry{
		Key:        entry.Key,
		SearchText: entry.SearchText,
		CachedAt:   entry.CachedAt.UTC().Format(time.RFC3339),
	})
}

// Lookup runs a match query over the search text and returns up to limit
// entries, best match first.
func (b *BleveIndex) Lookup(_ context.Context, text string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := bleve.NewMatchQuery(text)
	req := bleve.NewSearchRequest(query)
	req.Size = limit
	req.Fields = []string{"key", "search_text", "cached_at"}

	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	out := make([]Entry, 0, len(results.Hits))
	for _, hit := range results.Hits {
		out = append(out, hitToEntry(hit.ID, hit.Fields))
	}
	return out, nil
}

// All returns every indexed entry.
func (b *BleveIndex) All(_ context.Context) ([]Entry, error) {
	count, err := b.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("bleve doc count: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(count)
	req.Fields = []string{"key", "search_text", "cached_at"}

	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve scan failed: %w", err)
	}

	out := make([]Entry, 0, len(results.Hits))
	for _, hit := range results.Hits {
		out = append(out, hitToEntry(hit.ID, hit.Fields))
	}
	return out, nil
}

// Delete removes entries by recipe id.
func (b *BleveIndex) Delete(_ context.Context, recipeIDs []string) error {
	for _, id := range recipeIDs {
		if err := b.index.Delete(id); err != nil {
			return fmt.Errorf("bleve delete %s: %w", id, err)
		}
	}
	return nil
}

// Count returns the number of indexed entries.
func (b *BleveIndex) Count() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

func hitToEntry(id string, fields map[string]any) Entry {
	entry := Entry{RecipeID: id}
	if key, ok := fields["key"].(string); ok {
		entry.Key = key
	}
	if text, ok := fields["search_text"].(string); ok {
		entry.SearchText = text
	}
	if ts, ok := fields["cached_at"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.CachedAt = parsed
		}
	}
	return entry
}
