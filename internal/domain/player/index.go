package player

import (
	"fmt"
	"sort"
	"strings"
)

// Index holds every known identity keyed by scheme ID and by normalized
// name. It is immutable after construction; a rebuild produces a new Index
// so concurrent readers never observe partial state.
type Index struct {
	byID       map[Scheme]map[string]int
	byName     map[string][]int
	candidates []Identity
}

// NewIndex builds an index from provider rows. Rows that fail validation or
// collide with an already-indexed scheme ID are skipped; the returned errors
// describe each skipped row so the caller can log them.
func NewIndex(items []Identity) (*Index, []error) {
	x := &Index{
		byID:       make(map[Scheme]map[string]int, len(AllSchemes)),
		byName:     make(map[string][]int, len(items)),
		candidates: make([]Identity, 0, len(items)),
	}
	for _, scheme := range AllSchemes {
		x.byID[scheme] = make(map[string]int, len(items))
	}

	var skipped []error
	for _, item := range items {
		if err := item.Validate(); err != nil {
			skipped = append(skipped, err)
			continue
		}
		if dup := x.duplicateID(item); dup != "" {
			skipped = append(skipped, fmt.Errorf("player %s duplicates indexed id %s", item.Name, dup))
			continue
		}

		idx := len(x.candidates)
		x.candidates = append(x.candidates, item)
		for scheme, value := range item.IDs {
			x.byID[scheme][strings.TrimSpace(value)] = idx
		}
		key := item.NormalizedName()
		x.byName[key] = append(x.byName[key], idx)
	}

	// Candidate order is part of the resolution contract: fuzzy scans and
	// tie-breaks must see identities in a stable order regardless of how the
	// provider emitted them.
	order := make([]int, len(x.candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		left, right := x.candidates[order[a]], x.candidates[order[b]]
		if ln, rn := left.NormalizedName(), right.NormalizedName(); ln != rn {
			return ln < rn
		}
		return left.Name < right.Name
	})

	remap := make([]int, len(order))
	sortedCandidates := make([]Identity, len(order))
	for newIdx, oldIdx := range order {
		sortedCandidates[newIdx] = x.candidates[oldIdx]
		remap[oldIdx] = newIdx
	}
	x.candidates = sortedCandidates
	for scheme := range x.byID {
		for value, oldIdx := range x.byID[scheme] {
			x.byID[scheme][value] = remap[oldIdx]
		}
	}
	for key := range x.byName {
		for i, oldIdx := range x.byName[key] {
			x.byName[key][i] = remap[oldIdx]
		}
		sort.Ints(x.byName[key])
	}

	return x, skipped
}

func (x *Index) duplicateID(item Identity) string {
	for scheme, value := range item.IDs {
		if _, exists := x.byID[scheme][strings.TrimSpace(value)]; exists {
			return fmt.Sprintf("%s=%s", scheme, value)
		}
	}
	return ""
}

// ByID returns the identity holding the exact ID value in one scheme.
func (x *Index) ByID(scheme Scheme, value string) (Identity, bool) {
	ids, ok := x.byID[scheme]
	if !ok {
		return Identity{}, false
	}
	idx, ok := ids[strings.TrimSpace(value)]
	if !ok {
		return Identity{}, false
	}
	return x.candidates[idx], true
}

// ByAnyID auto-detects a token's scheme by shape and looks it up, trying
// schemes in AllSchemes precedence order.
func (x *Index) ByAnyID(token string) (Identity, Scheme, bool) {
	token = strings.TrimSpace(token)
	for _, scheme := range AllSchemes {
		if !MatchesScheme(scheme, token) {
			continue
		}
		if identity, ok := x.ByID(scheme, token); ok {
			return identity, scheme, true
		}
	}
	return Identity{}, "", false
}

// ByName returns all identities whose canonical name normalizes to the
// given normalized form, in candidate order.
func (x *Index) ByName(normalized string) []Identity {
	idxs, ok := x.byName[normalized]
	if !ok {
		return nil
	}
	out := make([]Identity, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, x.candidates[idx])
	}
	return out
}

// Candidates returns every indexed identity in stable name order. The slice
// is shared; callers treat it as read-only.
func (x *Index) Candidates() []Identity {
	return x.candidates
}

// Convert translates an ID value between schemes through the identity that
// owns it, e.g. a GSIS ID to the ESPN ID the headshot CDN wants.
func (x *Index) Convert(value string, from, to Scheme) (string, bool) {
	identity, ok := x.ByID(from, value)
	if !ok {
		return "", false
	}
	converted, ok := identity.ID(to)
	return converted, ok
}

// Len reports how many identities are indexed.
func (x *Index) Len() int {
	return len(x.candidates)
}
