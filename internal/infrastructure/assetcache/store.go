package assetcache

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	digest "github.com/opencontainers/go-digest"

	"github.com/nflverse/nflassets/internal/domain/asset"
	"github.com/nflverse/nflassets/internal/platform/logging"
	"github.com/nflverse/nflassets/internal/platform/resilience"
	"github.com/nflverse/nflassets/internal/usecase"
)

type downloader interface {
	Fetch(ctx context.Context, candidates []string) (Download, error)
}

type StoreConfig struct {
	Root     string
	TTL      time.Duration
	MaxAge   time.Duration
	MaxBytes int64
	Offline  bool
	Fetcher  *Fetcher
	Logger   *logging.Logger
}

// Store is the disk-backed asset cache. Payloads are served from disk while
// fresh, refreshed from their source once the TTL lapses, and repaired when
// the bytes on disk no longer match the recorded checksum. Concurrent
// requests for the same key share one download.
type Store struct {
	root     string
	ttl      time.Duration
	maxAge   time.Duration
	maxBytes int64
	offline  bool
	fetcher  downloader
	logger   *logging.Logger
	flight   resilience.Flight[asset.Handle]

	// mu serializes eviction and clearing against the serve path.
	mu  sync.RWMutex
	now func() time.Time
}

func NewStore(cfg StoreConfig) (*Store, error) {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, fmt.Errorf("%w: cache root is required", usecase.ErrInvalidInput)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root %s: %w", root, err)
	}
	if cfg.Fetcher == nil && !cfg.Offline {
		return nil, fmt.Errorf("%w: fetcher is required unless offline", usecase.ErrInvalidInput)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	store := &Store{
		root:     root,
		ttl:      cfg.TTL,
		maxAge:   cfg.MaxAge,
		maxBytes: cfg.MaxBytes,
		offline:  cfg.Offline,
		logger:   logger,
		now:      time.Now,
	}
	if cfg.Fetcher != nil {
		store.fetcher = cfg.Fetcher
	}
	return store, nil
}

// Root returns the cache directory the store serves from.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) GetOrFetch(ctx context.Context, key asset.Key, candidates []string) (asset.Handle, error) {
	handle, err, _ := s.flight.Do(key.String(), func() (asset.Handle, error) {
		return s.load(ctx, key, candidates, false)
	})
	return handle, err
}

// ForceRefresh bypasses freshness checks and always downloads. Unlike the
// regular path it never falls back to a stale copy: callers asked for new
// bytes, so a failed download is an error.
func (s *Store) ForceRefresh(ctx context.Context, key asset.Key, candidates []string) (asset.Handle, error) {
	handle, err, _ := s.flight.Do(key.String(), func() (asset.Handle, error) {
		return s.load(ctx, key, candidates, true)
	})
	return handle, err
}

func (s *Store) load(ctx context.Context, key asset.Key, candidates []string, force bool) (asset.Handle, error) {
	s.mu.RLock()
	entry, cached := s.lookup(ctx, key)
	s.mu.RUnlock()

	now := s.now().UTC()

	if s.offline {
		if force {
			return asset.Handle{}, fmt.Errorf("%w: cannot refresh %s", usecase.ErrOffline, key)
		}
		if cached {
			return s.handleFor(key, entry, !entry.Fresh(now)), nil
		}
		return asset.Handle{}, fmt.Errorf("%w: %s is not cached", usecase.ErrOffline, key)
	}

	if cached && !force && entry.Fresh(now) {
		return s.handleFor(key, entry, false), nil
	}

	download, err := s.fetcher.Fetch(ctx, candidates)
	if err != nil {
		if cached && !force {
			s.logger.WarnContext(ctx, "serving stale asset after refresh failure",
				"key", key.String(),
				"age", entry.Age(now).String(),
				"error", err,
			)
			return s.handleFor(key, entry, true), nil
		}
		return asset.Handle{}, fmt.Errorf("%w: download %s: %v", usecase.ErrAssetUnavailable, key, err)
	}

	entry, err = s.persist(key, download, now)
	if err != nil {
		return asset.Handle{}, err
	}
	return s.handleFor(key, entry, false), nil
}

// lookup returns the entry for key when both sidecar and payload are intact.
// Corrupt or orphaned entries are discarded so the next fetch repairs them.
func (s *Store) lookup(ctx context.Context, key asset.Key) (asset.Entry, bool) {
	entry, err := readSidecar(s.root, key)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "discarding unreadable cache entry", "key", key.String(), "error", err)
			removeEntryFiles(s.root, key)
		}
		return asset.Entry{}, false
	}

	if err := verifyPayload(payloadPath(s.root, key), entry); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", key.String(), "error", err)
		removeEntryFiles(s.root, key)
		return asset.Entry{}, false
	}
	return entry, true
}

func (s *Store) persist(key asset.Key, download Download, now time.Time) (asset.Entry, error) {
	entry := asset.Entry{
		Key:         key,
		SourceURL:   download.SourceURL,
		ContentType: download.ContentType,
		FetchedAt:   now,
		TTL:         s.ttl,
		Checksum:    digest.FromBytes(download.Body),
		Size:        int64(len(download.Body)),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Payload first: a sidecar on disk implies its payload is on disk.
	if err := writePayload(s.root, key, download.Body); err != nil {
		return asset.Entry{}, err
	}
	if err := writeSidecar(s.root, key, entry); err != nil {
		removeEntryFiles(s.root, key)
		return asset.Entry{}, err
	}
	return entry, nil
}

func (s *Store) handleFor(key asset.Key, entry asset.Entry, stale bool) asset.Handle {
	return asset.Handle{
		Key:         key,
		Path:        payloadPath(s.root, key),
		ContentType: entry.ContentType,
		Source:      entry.SourceURL,
		FetchedAt:   entry.FetchedAt,
		Size:        entry.Size,
		Stale:       stale,
	}
}
