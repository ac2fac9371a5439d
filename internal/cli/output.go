// Package cli provides CLI output utilities for Umami.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/pkg/utils"
)

// OutputFormat is the format for recipe list output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is one recipe per line.
	OutputCompact OutputFormat = "compact"
)

// ParseFormat maps a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	case "compact":
		return OutputCompact, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteRecipes writes recipes to w in the given format.
func WriteRecipes(w io.Writer, recipes []*models.Recipe, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recipes)
	case OutputCompact:
		for _, r := range recipes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Title, r.Cuisine)
		}
		return nil
	default:
		writeRecipesText(w, recipes)
		return nil
	}
}

func writeRecipesText(w io.Writer, recipes []*models.Recipe) {
	fmt.Fprintf(w, "\nFound %d recipes\n\n", len(recipes))
	for i, r := range recipes {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(w, "ID: %s\n", r.ID)
		details := make([]string, 0, 4)
		if r.Cuisine != "" {
			details = append(details, "cuisine: "+r.Cuisine)
		}
		if r.CookingMinutes > 0 {
			details = append(details, fmt.Sprintf("%d min", r.CookingMinutes))
		}
		if r.Rating > 0 {
			details = append(details, fmt.Sprintf("rating: %.1f", r.Rating))
		}
		if r.Difficulty != "" {
			details = append(details, "difficulty: "+r.Difficulty)
		}
		if len(details) > 0 {
			fmt.Fprintln(w, strings.Join(details, " | "))
		}
		if names := r.IngredientNames(); len(names) > 0 {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(strings.Join(names, ", "), 200))
		}
		fmt.Fprintln(w)
	}
}

// WriteStats writes cache statistics to w in the given format.
func WriteStats(w io.Writer, stats models.CacheStats, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	fmt.Fprintf(w, "total:    %d   # cached recipes\n", stats.Total)
	fmt.Fprintf(w, "valid:    %d   # within the freshness window\n", stats.Valid)
	fmt.Fprintf(w, "expired:  %d   # older than ttl_days\n", stats.Expired)
	fmt.Fprintf(w, "ttl_days: %d\n", stats.TTLDays)
	return nil
}
