package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// FoldSpace lower-cases s, trims it, and collapses runs of whitespace to a
// single space. Used to normalize free text before hashing or matching.
func FoldSpace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
