package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hyperjump/umami/internal/models"
)

// parseJSON handles three shapes: a JSON array of recipe objects, a single
// recipe object, and newline-delimited JSON with one object per line.
func parseJSON(content []byte) ([]*models.Recipe, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parse recipe array: %w", err)
		}
		recipes := make([]*models.Recipe, 0, len(items))
		for _, item := range items {
			if r := models.ParseRecipe(item); r != nil {
				recipes = append(recipes, r)
			}
		}
		return recipes, nil
	case '{':
		// A single object might still be one object per line.
		if bytes.ContainsRune(trimmed, '\n') {
			if recipes, err := parseNDJSON(trimmed); err == nil {
				return recipes, nil
			}
		}
		var obj any
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("parse recipe object: %w", err)
		}
		if r := models.ParseRecipe(obj); r != nil {
			return []*models.Recipe{r}, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unrecognized recipe document")
	}
}

func parseNDJSON(content []byte) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var obj any
		if err := json.Unmarshal(line, &obj); err != nil {
			return nil, fmt.Errorf("parse ndjson line: %w", err)
		}
		if r := models.ParseRecipe(obj); r != nil {
			recipes = append(recipes, r)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ndjson: %w", err)
	}
	return recipes, nil
}
