package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/nflverse/nflassets/internal/config"
	"github.com/nflverse/nflassets/internal/domain/player"
	"github.com/nflverse/nflassets/internal/domain/team"
	"github.com/nflverse/nflassets/internal/infrastructure/assetcache"
	"github.com/nflverse/nflassets/internal/infrastructure/provider/nflverse"
	idgen "github.com/nflverse/nflassets/internal/platform/id"
	"github.com/nflverse/nflassets/internal/platform/logging"
	"github.com/nflverse/nflassets/internal/platform/resilience"
	"github.com/nflverse/nflassets/internal/platform/textmatch"
	"github.com/nflverse/nflassets/internal/usecase"
)

const (
	identitySourceDataset = "dataset"
	identitySourceBundled = "bundled"
)

// App wires configuration into the service graph the CLI commands use.
type App struct {
	Config   config.Config
	Logger   *logging.Logger
	Resolver *usecase.ResolverService
	URLs     *usecase.URLManager
	Assets   *usecase.AssetService
	Warm     *usecase.WarmService
	URLCheck *usecase.URLCheckService
	Sitrep   *usecase.SitrepService
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	directory := team.NewDirectory()
	identities, identitySource := loadIdentities(ctx, cfg, logger)

	index, rowErrs := player.NewIndex(identities)
	if len(rowErrs) > 0 {
		logger.WarnContext(ctx, "skipped malformed identity rows", "skipped", len(rowErrs))
	}

	resolver := usecase.NewResolverService(directory, index, textmatch.NewTokenSetScorer(), cfg.FuzzyThreshold)
	urls := usecase.NewURLManager(directory)

	var (
		fetcher  *assetcache.Fetcher
		breakers *resilience.HostBreakers
	)
	if !cfg.Offline {
		fetcher = assetcache.NewFetcher(assetcache.FetcherConfig{
			Timeout:        cfg.FetchTimeout,
			MaxRetries:     cfg.FetchRetries,
			MaxAssetBytes:  cfg.MaxAssetBytes,
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker(),
		})
		breakers = fetcher.Breakers()
	}

	store, err := assetcache.NewStore(assetcache.StoreConfig{
		Root:     cfg.CacheDir,
		TTL:      cfg.AssetTTL,
		MaxAge:   cfg.CacheMaxAge,
		MaxBytes: cfg.CacheMaxBytes,
		Offline:  cfg.Offline,
		Fetcher:  fetcher,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build asset store: %w", err)
	}

	assets := usecase.NewAssetService(resolver, urls, store, logger)

	application := &App{
		Config:   cfg,
		Logger:   logger,
		Resolver: resolver,
		URLs:     urls,
		Assets:   assets,
		Warm:     usecase.NewWarmService(assets, directory, idgen.NewRandomGenerator(), logger, cfg.WarmWorkers),
		URLCheck: usecase.NewURLCheckService(urls, idgen.NewRandomGenerator(), logger),
		Sitrep:   usecase.NewSitrepService(directory, index, resolver, store, breakers, cfg.Offline, identitySource),
	}

	logger.InfoContext(ctx, "toolkit ready",
		"cache_dir", cfg.CacheDir,
		"offline", cfg.Offline,
		"identity_source", identitySource,
		"players", index.Len(),
	)

	return application, nil
}

// loadIdentities prefers the configured dataset and falls back to the
// bundled rows. Downstream code only ever sees the source label.
func loadIdentities(ctx context.Context, cfg config.Config, logger *logging.Logger) ([]player.Identity, string) {
	useDataset := cfg.DatasetEnabled && cfg.DatasetSource != ""
	if useDataset && cfg.Offline && isRemoteDataset(cfg.DatasetSource) {
		logger.InfoContext(ctx, "skipping remote players dataset while offline", "source", cfg.DatasetSource)
		useDataset = false
	}

	if useDataset {
		client := nflverse.NewClient(nflverse.ClientConfig{
			Source:     cfg.DatasetSource,
			Timeout:    cfg.DatasetTimeout,
			MaxRetries: cfg.DatasetRetries,
			DatasetTTL: cfg.DatasetTTL,
			Logger:     logger,
		})
		identities, err := client.LoadIdentities(ctx)
		if err == nil {
			return identities, identitySourceDataset
		}
		logger.WarnContext(ctx, "players dataset unavailable, using bundled identities", "error", err)
	}

	identities, _ := nflverse.NewBundled().LoadIdentities(ctx)
	return identities, identitySourceBundled
}

func isRemoteDataset(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (a *App) Close() error {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.Sync()
}
