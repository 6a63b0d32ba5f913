package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nflverse/nflassets/internal/domain/asset"
	"github.com/nflverse/nflassets/internal/domain/player"
	"github.com/nflverse/nflassets/internal/domain/team"
	"github.com/nflverse/nflassets/internal/platform/resilience"
)

// Sitrep is a one-shot operational snapshot: what the index knows, what
// the cache holds, and how the upstream hosts are behaving.
type Sitrep struct {
	Offline        bool              `json:"offline"`
	IdentitySource string            `json:"identity_source"`
	FuzzyThreshold float64           `json:"fuzzy_threshold"`
	TeamCount      int               `json:"team_count"`
	PlayerCount    int               `json:"player_count"`
	Cache          asset.CacheInfo   `json:"cache"`
	Breakers       map[string]string `json:"breakers,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

type SitrepService struct {
	directory      *team.Directory
	index          *player.Index
	resolver       *ResolverService
	store          AssetStore
	breakers       *resilience.HostBreakers
	offline        bool
	identitySource string
}

func NewSitrepService(
	directory *team.Directory,
	index *player.Index,
	resolver *ResolverService,
	store AssetStore,
	breakers *resilience.HostBreakers,
	offline bool,
	identitySource string,
) *SitrepService {
	return &SitrepService{
		directory:      directory,
		index:          index,
		resolver:       resolver,
		store:          store,
		breakers:       breakers,
		offline:        offline,
		identitySource: identitySource,
	}
}

func (s *SitrepService) Get(ctx context.Context) (Sitrep, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SitrepService.Get")
	defer span.End()

	report := Sitrep{
		Offline:        s.offline,
		IdentitySource: s.identitySource,
		GeneratedAt:    time.Now().UTC(),
	}

	if s.directory != nil {
		report.TeamCount = len(s.directory.List())
	}
	if s.index != nil {
		report.PlayerCount = s.index.Len()
	}
	if s.resolver != nil {
		report.FuzzyThreshold = s.resolver.Threshold()
	}

	if s.store != nil {
		info, err := s.store.Info(ctx)
		if err != nil {
			return Sitrep{}, fmt.Errorf("cache info: %w", err)
		}
		report.Cache = info
	}

	if s.breakers != nil {
		states := s.breakers.States()
		if len(states) > 0 {
			report.Breakers = make(map[string]string, len(states))
			for host, state := range states {
				report.Breakers[host] = string(state)
			}
		}
	}

	return report, nil
}
