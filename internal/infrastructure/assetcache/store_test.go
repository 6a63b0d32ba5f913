package assetcache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nflverse/nflassets/internal/domain/asset"
	"github.com/nflverse/nflassets/internal/platform/logging"
	"github.com/nflverse/nflassets/internal/platform/resilience"
	"github.com/nflverse/nflassets/internal/usecase"
)

func testKey(t *testing.T, kind asset.Kind, slug string) asset.Key {
	t.Helper()
	key, err := asset.NewKey(kind, slug)
	if err != nil {
		t.Fatalf("build key %s/%s: %v", kind, slug, err)
	}
	return key
}

func newTestStore(t *testing.T, cfg StoreConfig) *Store {
	t.Helper()
	if cfg.Root == "" {
		cfg.Root = t.TempDir()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	return store
}

func newTestFetcher(client *http.Client) *Fetcher {
	return NewFetcher(FetcherConfig{HTTPClient: client, Logger: logging.NewNop()})
}

func TestStore_GetOrFetchDownloadsOnce(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client())})
	key := testKey(t, asset.KindLogo, "KC")

	const workers = 24
	var wg sync.WaitGroup
	handles := make([]asset.Handle, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			handles[slot], errs[slot] = store.GetOrFetch(context.Background(), key, []string{server.URL + "/logo.png"})
		}(i)
	}
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Fatalf("expected exactly one download, got %d", got)
	}
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if handles[i].Stale {
			t.Fatalf("worker %d got stale handle for a fresh download", i)
		}
		if handles[i].ContentType != "image/png" {
			t.Fatalf("worker %d content type = %q", i, handles[i].ContentType)
		}
	}

	payload, err := os.ReadFile(handles[0].Path)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(payload) != "png-bytes" {
		t.Fatalf("unexpected payload %q", payload)
	}
	if _, err := os.Stat(handles[0].Path + sidecarSuffix); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
}

func TestStore_ServesCachedWithoutRefetch(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("wordmark-bytes"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client())})
	key := testKey(t, asset.KindWordmark, "GB")
	urls := []string{server.URL + "/wordmark.png"}

	if _, err := store.GetOrFetch(context.Background(), key, urls); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	handle, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Fatalf("cached entry should not refetch, got %d hits", got)
	}
	if handle.Stale {
		t.Fatal("cached fresh entry reported stale")
	}
	if handle.Source != urls[0] {
		t.Fatalf("unexpected source %q", handle.Source)
	}
}

func TestStore_RefreshesExpiredEntry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			_, _ = w.Write([]byte("v1"))
			return
		}
		_, _ = w.Write([]byte("v2"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client()), TTL: time.Hour})
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	key := testKey(t, asset.KindLogo, "BUF")
	urls := []string{server.URL + "/logo.png"}

	first, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	current = current.Add(2 * time.Hour)
	second, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("refresh fetch: %v", err)
	}

	if got := hits.Load(); got != 2 {
		t.Fatalf("expired entry should refetch, got %d hits", got)
	}
	if second.Stale {
		t.Fatal("refreshed entry reported stale")
	}
	if !second.FetchedAt.After(first.FetchedAt) {
		t.Fatalf("fetch time not advanced: first=%s second=%s", first.FetchedAt, second.FetchedAt)
	}
	payload, err := os.ReadFile(second.Path)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(payload) != "v2" {
		t.Fatalf("payload not replaced, got %q", payload)
	}
}

func TestStore_ServesStaleWhenRefreshFails(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("v1"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client()), TTL: time.Hour})
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	key := testKey(t, asset.KindLogo, "DET")
	urls := []string{server.URL + "/logo.png"}

	if _, err := store.GetOrFetch(context.Background(), key, urls); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	failing.Store(true)
	current = current.Add(2 * time.Hour)

	handle, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("stale fallback should not error: %v", err)
	}
	if !handle.Stale {
		t.Fatal("expired entry served after failed refresh must be marked stale")
	}
	payload, err := os.ReadFile(handle.Path)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(payload) != "v1" {
		t.Fatalf("stale payload replaced, got %q", payload)
	}
}

func TestStore_ForceRefreshFailureIsAnError(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("v1"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client())})
	key := testKey(t, asset.KindLogo, "CHI")
	urls := []string{server.URL + "/logo.png"}

	if _, err := store.GetOrFetch(context.Background(), key, urls); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	failing.Store(true)
	if _, err := store.ForceRefresh(context.Background(), key, urls); !errors.Is(err, usecase.ErrAssetUnavailable) {
		t.Fatalf("expected ErrAssetUnavailable, got %v", err)
	}

	// The regular path still serves the intact cached copy.
	handle, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("cached entry unavailable after failed force refresh: %v", err)
	}
	if handle.Stale {
		t.Fatal("entry without TTL should still be fresh")
	}
}

func TestStore_RepairsCorruptPayload(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("original-bytes"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client())})
	key := testKey(t, asset.KindHeadshot, "3139477")
	urls := []string{server.URL + "/headshot.png"}

	first, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("seed fetch: %v", err)
	}
	if err := os.WriteFile(first.Path, []byte("tampered"), 0o644); err != nil {
		t.Fatalf("tamper payload: %v", err)
	}

	second, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("repair fetch: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("corrupt payload should trigger a redownload, got %d hits", got)
	}
	payload, err := os.ReadFile(second.Path)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(payload) != "original-bytes" {
		t.Fatalf("payload not repaired, got %q", payload)
	}
}

func TestStore_RepairsUnreadableSidecar(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("logo-bytes"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client())})
	key := testKey(t, asset.KindLogo, "SEA")
	urls := []string{server.URL + "/logo.png"}

	handle, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("seed fetch: %v", err)
	}
	if err := os.WriteFile(handle.Path+sidecarSuffix, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("tamper sidecar: %v", err)
	}

	if _, err := store.GetOrFetch(context.Background(), key, urls); err != nil {
		t.Fatalf("repair fetch: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("unreadable sidecar should trigger a redownload, got %d hits", got)
	}
}

func TestStore_CandidateFallback(t *testing.T) {
	t.Parallel()

	var primaryHits, fallbackHits atomic.Int32
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryHits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits.Add(1)
		_, _ = w.Write([]byte("fallback-bytes"))
	}))
	defer fallback.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(primary.Client())})
	key := testKey(t, asset.KindLogo, "MIN")
	urls := []string{primary.URL + "/logo.png", fallback.URL + "/logo.png"}

	handle, err := store.GetOrFetch(context.Background(), key, urls)
	if err != nil {
		t.Fatalf("fallback fetch: %v", err)
	}

	if got := primaryHits.Load(); got != 1 {
		t.Fatalf("primary hits = %d", got)
	}
	if got := fallbackHits.Load(); got != 1 {
		t.Fatalf("fallback hits = %d", got)
	}
	if handle.Source != urls[1] {
		t.Fatalf("handle source = %q, want fallback url", handle.Source)
	}
	payload, err := os.ReadFile(handle.Path)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(payload) != "fallback-bytes" {
		t.Fatalf("unexpected payload %q", payload)
	}
}

func TestStore_OfflineServesOnlyCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("cached-bytes"))
	}))
	defer server.Close()

	root := t.TempDir()
	online := newTestStore(t, StoreConfig{Root: root, Fetcher: newTestFetcher(server.Client()), TTL: time.Hour})
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	online.now = func() time.Time { return current }

	cachedKey := testKey(t, asset.KindLogo, "PHI")
	urls := []string{server.URL + "/logo.png"}
	if _, err := online.GetOrFetch(context.Background(), cachedKey, urls); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	offline := newTestStore(t, StoreConfig{Root: root, Offline: true, TTL: time.Hour})
	offline.now = func() time.Time { return current.Add(2 * time.Hour) }

	handle, err := offline.GetOrFetch(context.Background(), cachedKey, urls)
	if err != nil {
		t.Fatalf("offline read of cached entry: %v", err)
	}
	if !handle.Stale {
		t.Fatal("expired entry served offline must be marked stale")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("offline store must not download, got %d hits", got)
	}

	missingKey := testKey(t, asset.KindLogo, "NYJ")
	if _, err := offline.GetOrFetch(context.Background(), missingKey, urls); !errors.Is(err, usecase.ErrOffline) {
		t.Fatalf("expected ErrOffline for uncached key, got %v", err)
	}
	if _, err := offline.ForceRefresh(context.Background(), cachedKey, urls); !errors.Is(err, usecase.ErrOffline) {
		t.Fatalf("expected ErrOffline for force refresh, got %v", err)
	}
}

func TestStore_EvictAppliesAgeThenSizeBudget(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 100))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{
		Fetcher:  newTestFetcher(server.Client()),
		MaxAge:   24 * time.Hour,
		MaxBytes: 150,
	})
	current := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	urls := []string{server.URL + "/logo.png"}
	seed := func(slug string) {
		t.Helper()
		if _, err := store.GetOrFetch(context.Background(), testKey(t, asset.KindLogo, slug), urls); err != nil {
			t.Fatalf("seed %s: %v", slug, err)
		}
	}

	seed("ARI")
	current = current.Add(20 * time.Hour)
	seed("ATL")
	current = current.Add(3 * time.Hour)
	seed("BAL")

	current = current.Add(2 * time.Hour)
	report, err := store.Evict(context.Background())
	if err != nil {
		t.Fatalf("evict: %v", err)
	}

	if report.Scanned != 3 {
		t.Fatalf("scanned = %d, want 3", report.Scanned)
	}
	if report.RemovedByAge != 1 {
		t.Fatalf("removed by age = %d, want 1 (the 25h old entry)", report.RemovedByAge)
	}
	if report.RemovedBySize != 1 {
		t.Fatalf("removed by size = %d, want 1 (oldest survivor over the 150 byte budget)", report.RemovedBySize)
	}
	if report.FreedBytes != 200 {
		t.Fatalf("freed bytes = %d, want 200", report.FreedBytes)
	}

	info, err := store.Info(context.Background())
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.TotalFiles != 1 || info.TotalBytes != 100 {
		t.Fatalf("unexpected survivors: files=%d bytes=%d", info.TotalFiles, info.TotalBytes)
	}
}

func TestStore_ClearByKindAndAll(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("asset-bytes"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client())})
	urls := []string{server.URL + "/asset.png"}
	for _, item := range []struct {
		kind asset.Kind
		slug string
	}{
		{asset.KindLogo, "ARI"},
		{asset.KindLogo, "ATL"},
		{asset.KindWordmark, "ARI"},
	} {
		if _, err := store.GetOrFetch(context.Background(), testKey(t, item.kind, item.slug), urls); err != nil {
			t.Fatalf("seed %s/%s: %v", item.kind, item.slug, err)
		}
	}

	removed, err := store.Clear(context.Background(), asset.KindLogo)
	if err != nil {
		t.Fatalf("clear logos: %v", err)
	}
	if removed != 2 {
		t.Fatalf("cleared %d logos, want 2", removed)
	}

	info, err := store.Info(context.Background())
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.TotalFiles != 1 {
		t.Fatalf("files after logo clear = %d, want 1", info.TotalFiles)
	}
	if len(info.Kinds) != 1 || info.Kinds[0].Kind != asset.KindWordmark {
		t.Fatalf("unexpected kinds after logo clear: %+v", info.Kinds)
	}

	removed, err = store.Clear(context.Background(), "")
	if err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if removed != 1 {
		t.Fatalf("cleared %d entries, want 1", removed)
	}
}

func TestStore_InfoReportsInventory(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	store := newTestStore(t, StoreConfig{Fetcher: newTestFetcher(server.Client())})
	current := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	urls := []string{server.URL + "/asset.png"}
	if _, err := store.GetOrFetch(context.Background(), testKey(t, asset.KindLogo, "KC"), urls); err != nil {
		t.Fatalf("seed logo: %v", err)
	}
	current = current.Add(time.Hour)
	if _, err := store.GetOrFetch(context.Background(), testKey(t, asset.KindLogo, "BUF"), urls); err != nil {
		t.Fatalf("seed second logo: %v", err)
	}

	info, err := store.Info(context.Background())
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Root != store.Root() {
		t.Fatalf("info root = %q, want %q", info.Root, store.Root())
	}
	if info.TotalFiles != 2 || info.TotalBytes != 20 {
		t.Fatalf("unexpected totals: files=%d bytes=%d", info.TotalFiles, info.TotalBytes)
	}
	if len(info.Kinds) != 1 {
		t.Fatalf("unexpected kind rows: %+v", info.Kinds)
	}
	row := info.Kinds[0]
	if row.Kind != asset.KindLogo || row.Files != 2 || row.Bytes != 20 {
		t.Fatalf("unexpected logo row: %+v", row)
	}
	if !row.Oldest.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("oldest = %s", row.Oldest)
	}
	if !row.Newest.Equal(time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)) {
		t.Fatalf("newest = %s", row.Newest)
	}
}

func TestStore_RequiresFetcherUnlessOffline(t *testing.T) {
	t.Parallel()

	if _, err := NewStore(StoreConfig{Root: t.TempDir(), Logger: logging.NewNop()}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without fetcher, got %v", err)
	}
	if _, err := NewStore(StoreConfig{Root: t.TempDir(), Offline: true, Logger: logging.NewNop()}); err != nil {
		t.Fatalf("offline store without fetcher: %v", err)
	}
}

func TestFetcher_OpensCircuitPerHost(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(FetcherConfig{
		HTTPClient: server.Client(),
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	urls := []string{server.URL + "/logo.png"}
	for i := 0; i < 2; i++ {
		if _, err := fetcher.Fetch(context.Background(), urls); err == nil {
			t.Fatalf("attempt %d should fail", i)
		}
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("hits before circuit opened = %d, want 2", got)
	}

	if _, err := fetcher.Fetch(context.Background(), urls); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open circuit, got %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("open circuit must not reach upstream, hits = %d", got)
	}
}

func TestFetcher_RejectsOversizedPayload(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer server.Close()

	fetcher := NewFetcher(FetcherConfig{
		HTTPClient:    server.Client(),
		MaxAssetBytes: 16,
		MaxRetries:    3,
		Logger:        logging.NewNop(),
	})

	if _, err := fetcher.Fetch(context.Background(), []string{server.URL + "/big.png"}); err == nil {
		t.Fatal("oversized payload must be rejected")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("oversized payload must not be retried, hits = %d", got)
	}
}

func TestFetcher_SkipsHTMLErrorPages(t *testing.T) {
	t.Parallel()

	var primaryHits, fallbackHits atomic.Int32
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryHits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>File not found</body></html>"))
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("real-logo"))
	}))
	defer fallback.Close()

	fetcher := NewFetcher(FetcherConfig{
		HTTPClient: primary.Client(),
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	download, err := fetcher.Fetch(context.Background(), []string{primary.URL + "/logo.png", fallback.URL + "/logo.png"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := primaryHits.Load(); got != 1 {
		t.Fatalf("html candidate must not be retried, hits = %d", got)
	}
	if got := fallbackHits.Load(); got != 1 {
		t.Fatalf("fallback hits = %d", got)
	}
	if download.ContentType != "image/png" || string(download.Body) != "real-logo" {
		t.Fatalf("unexpected download: type=%q body=%q", download.ContentType, download.Body)
	}
}

func TestFetcher_RequiresCandidates(t *testing.T) {
	t.Parallel()

	fetcher := NewFetcher(FetcherConfig{Logger: logging.NewNop()})
	if _, err := fetcher.Fetch(context.Background(), nil); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
