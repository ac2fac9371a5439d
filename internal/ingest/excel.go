package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/umami/internal/models"
)

// listColumns hold multiple values separated by semicolons.
var listColumns = map[string]bool{
	"ingredients":  true,
	"instructions": true,
	"steps":        true,
	"tags":         true,
}

// parseExcel reads recipes from a spreadsheet. The first row of each sheet
// names the columns; every following row becomes one recipe.
func parseExcel(content []byte) ([]*models.Recipe, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	var recipes []*models.Recipe
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		header := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			header[i] = strings.ToLower(strings.TrimSpace(h))
		}
		for _, row := range rows[1:] {
			obj := rowToObject(header, row)
			if len(obj) == 0 {
				continue
			}
			if r := models.ParseRecipe(obj); r != nil {
				recipes = append(recipes, r)
			}
		}
	}
	return recipes, nil
}

func rowToObject(header []string, row []string) map[string]any {
	obj := make(map[string]any)
	for i, cell := range row {
		if i >= len(header) || header[i] == "" {
			continue
		}
		value := strings.TrimSpace(cell)
		if value == "" {
			continue
		}
		if listColumns[header[i]] {
			obj[header[i]] = splitList(value)
		} else {
			obj[header[i]] = value
		}
	}
	return obj
}

func splitList(value string) []any {
	parts := strings.Split(value, ";")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
