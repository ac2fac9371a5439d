// Package ingest loads recipe files from disk into model records. JSON
// documents, NDJSON streams and spreadsheet exports are supported.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hyperjump/umami/internal/models"
)

// Loader parses recipe files.
type Loader struct{}

// NewLoader returns a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads the file at path and returns the recipes it holds.
// Returns an error if the file cannot be read or the format is unsupported.
func (l *Loader) LoadFile(path string) ([]*models.Recipe, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return l.LoadBytes(content, ext)
}

// LoadBytes parses recipes from content based on the given extension.
// ext should include the leading dot (e.g. ".json").
func (l *Loader) LoadBytes(content []byte, ext string) ([]*models.Recipe, error) {
	var (
		recipes []*models.Recipe
		err     error
	)
	switch ext {
	case ".xlsx":
		recipes, err = parseExcel(content)
	case ".json", ".ndjson", "":
		recipes, err = parseJSON(content)
	default:
		return nil, fmt.Errorf("unsupported recipe file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return assignIDs(recipes), nil
}

// assignIDs fills missing recipe ids so every record is addressable.
func assignIDs(recipes []*models.Recipe) []*models.Recipe {
	out := recipes[:0]
	for _, r := range recipes {
		if r == nil {
			continue
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		out = append(out, r)
	}
	return out
}
