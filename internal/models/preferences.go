package models

import "strings"

// PreferenceProfile carries a user's cuisine and food preferences.
// It is supplied per-request by an upstream preferences subsystem and is not
// persisted by this core.
type PreferenceProfile struct {
	FavoriteCuisines    []string `json:"favorite_cuisines,omitempty"`
	FavoriteFoods       []string `json:"favorite_foods,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}

// HasCuisine reports whether name is among the favorite cuisines (case-insensitive).
func (p PreferenceProfile) HasCuisine(name string) bool {
	for _, c := range p.FavoriteCuisines {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// DistinctCuisines returns the favorite cuisines lower-cased with duplicates
// and blanks removed, preserving first-seen order.
func (p PreferenceProfile) DistinctCuisines() []string {
	seen := make(map[string]bool, len(p.FavoriteCuisines))
	out := make([]string, 0, len(p.FavoriteCuisines))
	for _, c := range p.FavoriteCuisines {
		c = strings.TrimSpace(strings.ToLower(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
