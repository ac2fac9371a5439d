package store

import (
	"strconv"
	"strings"
)

// Matches reports whether metadata satisfies every condition in the filter.
// Fields named by Lte/Gte conditions must be present and numeric; a missing
// field fails the condition rather than passing vacuously.
func (f Filter) Matches(metadata map[string]any) bool {
	for field, cond := range f {
		v, ok := metadata[field]
		if !ok {
			return false
		}
		if cond.Eq != nil && !looseEqual(v, cond.Eq) {
			return false
		}
		if cond.Lte != nil || cond.Gte != nil {
			n, ok := asNumber(v)
			if !ok {
				return false
			}
			if cond.Lte != nil && n > *cond.Lte {
				return false
			}
			if cond.Gte != nil && n < *cond.Gte {
				return false
			}
		}
	}
	return true
}

func looseEqual(a, b any) bool {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.EqualFold(strings.TrimSpace(as), strings.TrimSpace(bs))
		}
	}
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			return an == bn
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
	}
	return a == b
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
