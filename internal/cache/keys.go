package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/hyperjump/umami/internal/models"
	"github.com/hyperjump/umami/pkg/utils"
)

// ComputeKey derives the deterministic cache key for a lookup. Query and
// ingredient are lower-cased, trimmed and whitespace-collapsed; filters are
// canonicalized so equivalent filter sets hash identically.
func ComputeKey(query, ingredient string, filters models.SearchFilters) string {
	parts := []string{
		utils.FoldSpace(query),
		utils.FoldSpace(ingredient),
		filters.Canonical(),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
