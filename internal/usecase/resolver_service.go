package usecase

import (
	"context"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/nflverse/nflassets/internal/domain/player"
	"github.com/nflverse/nflassets/internal/domain/team"
	"github.com/nflverse/nflassets/internal/platform/textmatch"
)

// DefaultFuzzyThreshold is the minimum similarity score a fuzzy candidate
// needs before it counts as a match.
const DefaultFuzzyThreshold = 0.85

type EntityKind string

const (
	EntityTeam    EntityKind = "team"
	EntityPlayer  EntityKind = "player"
	EntityUnknown EntityKind = "unknown"
)

type ResolutionMethod string

const (
	MethodID    ResolutionMethod = "id"
	MethodAlias ResolutionMethod = "alias"
	MethodName  ResolutionMethod = "name"
	MethodFuzzy ResolutionMethod = "fuzzy"
	MethodNone  ResolutionMethod = "none"
)

// Resolution is the outcome of resolving one query token. A miss is a
// value with MethodNone, never an error. Exact matches carry a score of
// 1; a fuzzy match carries the similarity that won.
type Resolution struct {
	Query     string           `json:"query"`
	Entity    EntityKind       `json:"entity"`
	Method    ResolutionMethod `json:"method"`
	Team      *team.Team       `json:"team,omitempty"`
	Player    *player.Identity `json:"player,omitempty"`
	Scheme    player.Scheme    `json:"scheme,omitempty"`
	Score     float64          `json:"score,omitempty"`
	Ambiguous bool             `json:"ambiguous,omitempty"`
}

func (r Resolution) Found() bool {
	return r.Method != MethodNone
}

// ResolverService maps free-form tokens to canonical teams and player
// identities. Stages run in order: ID lookup, team abbreviation or alias,
// exact normalized name, then fuzzy name match against the whole index.
type ResolverService struct {
	directory *team.Directory
	index     *player.Index
	scorer    textmatch.Scorer
	threshold float64
	teamNames map[string]string
}

func NewResolverService(directory *team.Directory, index *player.Index, scorer textmatch.Scorer, threshold float64) *ResolverService {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}

	teamNames := make(map[string]string, 64)
	if directory != nil {
		for _, abbr := range directory.List() {
			if franchise, ok := directory.Get(abbr); ok {
				teamNames[textmatch.Normalize(franchise.Name)] = franchise.Abbreviation
				teamNames[textmatch.Normalize(franchise.Nickname)] = franchise.Abbreviation
			}
		}
	}

	return &ResolverService{
		directory: directory,
		index:     index,
		scorer:    scorer,
		threshold: threshold,
		teamNames: teamNames,
	}
}

func (s *ResolverService) Threshold() float64 {
	return s.threshold
}

// Resolve never fails; callers branch on Found. A scheme hint restricts the
// ID stage to that scheme, an unparseable hint skips ID lookup entirely.
func (s *ResolverService) Resolve(ctx context.Context, query, schemeHint string) Resolution {
	_, span := startUsecaseSpan(ctx, "usecase.ResolverService.Resolve")
	defer span.End()

	result := Resolution{
		Query:  query,
		Entity: EntityUnknown,
		Method: MethodNone,
	}

	token := strings.TrimSpace(query)
	if token == "" {
		return result
	}

	if identity, scheme, ok := s.resolveByID(token, schemeHint); ok {
		result.Entity = EntityPlayer
		result.Method = MethodID
		result.Player = &identity
		result.Scheme = scheme
		result.Score = 1
		return result
	}

	if s.directory != nil {
		if franchise, ok := s.directory.Resolve(token); ok {
			result.Entity = EntityTeam
			result.Method = MethodAlias
			result.Team = &franchise
			result.Score = 1
			return result
		}
		if abbr, ok := s.teamNames[textmatch.Normalize(token)]; ok {
			if franchise, ok := s.directory.Get(abbr); ok {
				result.Entity = EntityTeam
				result.Method = MethodName
				result.Team = &franchise
				result.Score = 1
				return result
			}
		}
	}

	if s.index == nil {
		return result
	}

	if matches := s.index.ByName(player.NormalizeName(token)); len(matches) > 0 {
		best := pickPreferred(matches)
		result.Entity = EntityPlayer
		result.Method = MethodName
		result.Player = &best
		result.Score = 1
		result.Ambiguous = len(matches) > 1
		return result
	}

	if identity, score, tied, ok := s.resolveFuzzy(token); ok {
		result.Entity = EntityPlayer
		result.Method = MethodFuzzy
		result.Player = &identity
		result.Score = score
		result.Ambiguous = tied
		return result
	}

	return result
}

// ResolveAll resolves queries concurrently, preserving input order in the
// returned slice.
func (s *ResolverService) ResolveAll(ctx context.Context, queries []string, schemeHint string) []Resolution {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.ResolveAll")
	defer span.End()

	return iter.Map(queries, func(query *string) Resolution {
		return s.Resolve(ctx, *query, schemeHint)
	})
}

func (s *ResolverService) resolveByID(token, schemeHint string) (player.Identity, player.Scheme, bool) {
	if s.index == nil {
		return player.Identity{}, "", false
	}

	if strings.TrimSpace(schemeHint) != "" {
		scheme, err := player.ParseScheme(schemeHint)
		if err != nil {
			return player.Identity{}, "", false
		}
		identity, ok := s.index.ByID(scheme, token)
		return identity, scheme, ok
	}

	return s.index.ByAnyID(token)
}

func (s *ResolverService) resolveFuzzy(token string) (best player.Identity, score float64, tied, ok bool) {
	if s.scorer == nil {
		return player.Identity{}, 0, false, false
	}
	normalized := player.NormalizeName(token)

	bestScore := -1.0
	tieCount := 0

	for _, candidate := range s.index.Candidates() {
		candidateScore := s.scorer.Score(normalized, candidate.NormalizedName())
		switch {
		case candidateScore > bestScore:
			best = candidate
			bestScore = candidateScore
			tieCount = 1
		case candidateScore == bestScore:
			tieCount++
			if preferIdentity(candidate, best) {
				best = candidate
			}
		}
	}

	if bestScore < s.threshold {
		return player.Identity{}, 0, false, false
	}
	return best, bestScore, tieCount > 1, true
}

// pickPreferred breaks ties between identities sharing a normalized name:
// the most recent season wins, then the lexicographically smaller name.
func pickPreferred(matches []player.Identity) player.Identity {
	best := matches[0]
	for _, candidate := range matches[1:] {
		if preferIdentity(candidate, best) {
			best = candidate
		}
	}
	return best
}

func preferIdentity(candidate, current player.Identity) bool {
	if candidate.LatestSeason != current.LatestSeason {
		return candidate.LatestSeason > current.LatestSeason
	}
	return candidate.Name < current.Name
}
