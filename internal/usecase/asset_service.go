package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/nflverse/nflassets/internal/domain/asset"
	"github.com/nflverse/nflassets/internal/domain/player"
	"github.com/nflverse/nflassets/internal/platform/logging"
)

// AssetStore is the disk-backed cache the asset services depend on.
type AssetStore interface {
	GetOrFetch(ctx context.Context, key asset.Key, candidates []string) (asset.Handle, error)
	ForceRefresh(ctx context.Context, key asset.Key, candidates []string) (asset.Handle, error)
	Evict(ctx context.Context) (asset.EvictionReport, error)
	Clear(ctx context.Context, kind asset.Kind) (int, error)
	Info(ctx context.Context) (asset.CacheInfo, error)
}

type FetchAssetInput struct {
	Kind       string
	Token      string
	SchemeHint string
	Force      bool
}

// AssetService turns entity tokens into cached asset files: it resolves
// the token, asks the URL manager for candidate sources, and hands the
// fetch to the cache store.
type AssetService struct {
	resolver *ResolverService
	urls     *URLManager
	store    AssetStore
	logger   *logging.Logger
}

func NewAssetService(resolver *ResolverService, urls *URLManager, store AssetStore, logger *logging.Logger) *AssetService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AssetService{
		resolver: resolver,
		urls:     urls,
		store:    store,
		logger:   logger,
	}
}

func (s *AssetService) Fetch(ctx context.Context, input FetchAssetInput) (asset.Handle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssetService.Fetch")
	defer span.End()

	if s.store == nil || s.urls == nil {
		return asset.Handle{}, fmt.Errorf("%w: asset service is not fully configured", ErrDependencyUnavailable)
	}

	kind, err := asset.ParseKind(input.Kind)
	if err != nil {
		return asset.Handle{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if strings.TrimSpace(input.Token) == "" {
		return asset.Handle{}, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	key, candidates, err := s.candidatesFor(ctx, kind, input.Token, input.SchemeHint)
	if err != nil {
		return asset.Handle{}, err
	}

	handle, err := s.fetch(ctx, key, candidates, input.Force)
	if err != nil {
		return asset.Handle{}, err
	}

	s.logger.DebugContext(ctx, "asset fetched",
		"kind", string(key.Kind),
		"slug", key.Slug,
		"source", handle.Source,
		"stale", handle.Stale,
	)
	return handle, nil
}

func (s *AssetService) CacheInfo(ctx context.Context) (asset.CacheInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssetService.CacheInfo")
	defer span.End()

	if s.store == nil {
		return asset.CacheInfo{}, fmt.Errorf("%w: asset store is not configured", ErrDependencyUnavailable)
	}
	return s.store.Info(ctx)
}

// ClearCache removes cached payloads. An empty kind clears everything.
func (s *AssetService) ClearCache(ctx context.Context, rawKind string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssetService.ClearCache")
	defer span.End()

	if s.store == nil {
		return 0, fmt.Errorf("%w: asset store is not configured", ErrDependencyUnavailable)
	}

	var kind asset.Kind
	if strings.TrimSpace(rawKind) != "" {
		parsed, err := asset.ParseKind(rawKind)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		kind = parsed
	}

	removed, err := s.store.Clear(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}

	s.logger.InfoContext(ctx, "cache cleared", "kind", string(kind), "removed", removed)
	return removed, nil
}

// EvictCache applies the configured age and size budgets.
func (s *AssetService) EvictCache(ctx context.Context) (asset.EvictionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssetService.EvictCache")
	defer span.End()

	if s.store == nil {
		return asset.EvictionReport{}, fmt.Errorf("%w: asset store is not configured", ErrDependencyUnavailable)
	}

	report, err := s.store.Evict(ctx)
	if err != nil {
		return asset.EvictionReport{}, fmt.Errorf("evict cache: %w", err)
	}

	s.logger.InfoContext(ctx, "cache evicted",
		"scanned", report.Scanned,
		"removed", report.Removed(),
		"freed_bytes", report.FreedBytes,
	)
	return report, nil
}

func (s *AssetService) candidatesFor(ctx context.Context, kind asset.Kind, token, schemeHint string) (asset.Key, []string, error) {
	switch kind {
	case asset.KindLogo:
		return s.urls.Logo(token)
	case asset.KindWordmark:
		return s.urls.Wordmark(token)
	case asset.KindHeadshot:
		espnID, err := s.resolveESPNID(ctx, token, schemeHint)
		if err != nil {
			return asset.Key{}, nil, err
		}
		return s.urls.Headshot(espnID)
	default:
		return asset.Key{}, nil, fmt.Errorf("%w: unknown asset kind %q", ErrInvalidInput, kind)
	}
}

// resolveESPNID maps any player token to the ESPN ID headshot URLs want.
func (s *AssetService) resolveESPNID(ctx context.Context, token, schemeHint string) (string, error) {
	if s.resolver == nil {
		return "", fmt.Errorf("%w: resolver is not configured", ErrDependencyUnavailable)
	}

	resolution := s.resolver.Resolve(ctx, token, schemeHint)
	if !resolution.Found() || resolution.Player == nil {
		return "", fmt.Errorf("%w: no player matched %q", ErrNotFound, token)
	}
	if resolution.Ambiguous {
		s.logger.WarnContext(ctx, "ambiguous player token",
			"token", token,
			"picked", resolution.Player.Name,
		)
	}

	espnID, ok := resolution.Player.ID(player.SchemeESPN)
	if !ok {
		return "", fmt.Errorf("%w: player %s has no espn id", ErrAssetUnavailable, resolution.Player.Name)
	}
	return espnID, nil
}

func (s *AssetService) fetch(ctx context.Context, key asset.Key, candidates []string, force bool) (asset.Handle, error) {
	if force {
		return s.store.ForceRefresh(ctx, key, candidates)
	}
	return s.store.GetOrFetch(ctx, key, candidates)
}
