package textmatch

import (
	"sort"
	"strings"
)

// TokenSetScorer compares names as word sets before falling back to edit
// distance. A query that is a subset of a candidate ("mahomes" against
// "patrick mahomes") scores 1.0, which is what partial name lookups need.
type TokenSetScorer struct{}

func NewTokenSetScorer() TokenSetScorer {
	return TokenSetScorer{}
}

func (TokenSetScorer) Score(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	shared, onlyA, onlyB := partitionTokens(tokensA, tokensB)

	base := strings.Join(shared, " ")
	left := joinTokens(base, onlyA)
	right := joinTokens(base, onlyB)

	best := ratio(left, right)
	if base != "" {
		if r := ratio(base, left); r > best {
			best = r
		}
		if r := ratio(base, right); r > best {
			best = r
		}
	}
	return best
}

func tokenSet(value string) []string {
	fields := strings.Fields(strings.ToLower(value))
	if len(fields) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}
	sort.Strings(tokens)
	return tokens
}

func partitionTokens(a, b []string) (shared, onlyA, onlyB []string) {
	inB := make(map[string]struct{}, len(b))
	for _, token := range b {
		inB[token] = struct{}{}
	}
	inShared := make(map[string]struct{}, len(a))
	for _, token := range a {
		if _, ok := inB[token]; ok {
			shared = append(shared, token)
			inShared[token] = struct{}{}
			continue
		}
		onlyA = append(onlyA, token)
	}
	for _, token := range b {
		if _, ok := inShared[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	return shared, onlyA, onlyB
}

func joinTokens(base string, rest []string) string {
	if len(rest) == 0 {
		return base
	}
	tail := strings.Join(rest, " ")
	if base == "" {
		return tail
	}
	return base + " " + tail
}

// ratio is normalized edit-distance similarity over runes.
func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	runesA := []rune(a)
	runesB := []rune(b)
	longest := len(runesA)
	if len(runesB) > longest {
		longest = len(runesB)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(runesA, runesB))/float64(longest)
}

// levenshtein computes edit distance with a rolling two-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
