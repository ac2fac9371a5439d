package models

// ScoredRecipe is a recipe with its composite relevance score attached.
type ScoredRecipe struct {
	*Recipe
	// Score is the final composite score in [0, 1].
	Score float64 `json:"score"`
	// BaseScore is the raw similarity (1 - vector distance) before ranking.
	BaseScore float64 `json:"base_score,omitempty"`
}

// CacheStats summarizes the state of the cache layer.
type CacheStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Expired int `json:"expired"`
	TTLDays int `json:"ttl_days"`
}
