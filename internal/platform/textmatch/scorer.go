package textmatch

import "strings"

// Scorer rates how alike two names are on a 0..1 scale, where 1 means an
// exact match after normalization. Implementations must be symmetric and
// safe for concurrent use.
type Scorer interface {
	Score(a, b string) float64
}

// Normalize lowercases a name and collapses runs of whitespace so scoring
// is insensitive to casing and spacing.
func Normalize(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
