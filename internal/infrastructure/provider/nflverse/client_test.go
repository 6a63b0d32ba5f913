package nflverse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/nflverse/nflassets/internal/domain/player"
	"github.com/nflverse/nflassets/internal/platform/logging"
)

const datasetFixture = `[
  {"gsis_id": "00-0033873", "espn_id": 3139477, "name": " Patrick Mahomes ", "team": "kc", "position": "qb", "last_season": 2024.0},
  {"gsis_id": "00-0034857", "espn_id": "3918298", "nfl_id": "46601", "name": "Josh Allen", "team": "BUF", "position": "QB", "last_season": 2024},
  {"name": "No Ids Player", "team": "DAL", "last_season": 2020},
  {"gsis_id": "not-a-gsis-id", "name": "Bad Gsis", "team": "NE", "last_season": 2019}
]`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestClient_LoadsFromFile(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		Source: writeDataset(t, datasetFixture),
		Logger: logging.NewNop(),
	})

	identities, err := client.LoadIdentities(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Two rows are unusable: one has no ids, one a malformed gsis id.
	if len(identities) != 2 {
		t.Fatalf("identities = %+v", identities)
	}

	mahomes := identities[0]
	if mahomes.Name != "Patrick Mahomes" {
		t.Errorf("name = %q, want trimmed", mahomes.Name)
	}
	if mahomes.Team != "KC" || mahomes.Position != "QB" {
		t.Errorf("team/position = %s/%s", mahomes.Team, mahomes.Position)
	}
	if mahomes.LatestSeason != 2024 {
		t.Errorf("latest season = %d", mahomes.LatestSeason)
	}
	if mahomes.IDs[player.SchemeESPN] != "3139477" {
		t.Errorf("espn id = %q, want bare number decoded", mahomes.IDs[player.SchemeESPN])
	}

	allen := identities[1]
	if allen.IDs[player.SchemeNFL] != "46601" {
		t.Errorf("nfl id = %q", allen.IDs[player.SchemeNFL])
	}
}

func TestClient_MemoizesLoads(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, datasetFixture)
	client := NewClient(ClientConfig{Source: path, Logger: logging.NewNop()})

	first, err := client.LoadIdentities(context.Background())
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	// A second load inside the TTL must not reread the source.
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("clobber fixture: %v", err)
	}
	second, err := client.LoadIdentities(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("memo miss: %d != %d", len(second), len(first))
	}
}

func TestClient_LoadsFromURL(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("User-Agent"); got != datasetUserAgent {
			t.Errorf("user agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(datasetFixture))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Source: server.URL, Logger: logging.NewNop()})

	if _, err := client.LoadIdentities(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := client.LoadIdentities(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hits = %d, want memoized single download", got)
	}
}

func TestClient_DoesNotRetryHardFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Source: server.URL, MaxRetries: 3, Logger: logging.NewNop()})

	if _, err := client.LoadIdentities(context.Background()); err == nil {
		t.Fatal("expected an error for 404")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hits = %d, want no retries on 404", got)
	}
}

func TestClient_FailsOnEmptyDataset(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Source: writeDataset(t, "[]"), Logger: logging.NewNop()})

	if _, err := client.LoadIdentities(context.Background()); err == nil {
		t.Fatal("expected an error for a dataset with no usable rows")
	}
}

func TestClient_Available(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if NewClient(ClientConfig{Logger: logging.NewNop()}).Available(ctx) {
		t.Error("empty source must not be available")
	}
	if NewClient(ClientConfig{Source: "/nonexistent/players.json", Logger: logging.NewNop()}).Available(ctx) {
		t.Error("missing file must not be available")
	}
	if !NewClient(ClientConfig{Source: writeDataset(t, "[]"), Logger: logging.NewNop()}).Available(ctx) {
		t.Error("existing file must be available")
	}
	if !NewClient(ClientConfig{Source: "https://example.com/players.json", Logger: logging.NewNop()}).Available(ctx) {
		t.Error("url source must be available")
	}
	if NewClient(ClientConfig{Source: t.TempDir(), Logger: logging.NewNop()}).Available(ctx) {
		t.Error("directory must not be available")
	}
}

func TestFlexStringDecoding(t *testing.T) {
	t.Parallel()

	var row struct {
		Quoted flexString `json:"quoted"`
		Bare   flexString `json:"bare"`
		Float  flexString `json:"float"`
		Null   flexString `json:"null"`
	}
	payload := `{"quoted": " 3139477 ", "bare": 3139477, "float": 3139477.0, "null": null}`
	if err := sonic.Unmarshal([]byte(payload), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if row.Quoted != "3139477" || row.Bare != "3139477" || row.Float != "3139477" {
		t.Fatalf("decoded = %q/%q/%q", row.Quoted, row.Bare, row.Float)
	}
	if row.Null != "" {
		t.Fatalf("null = %q", row.Null)
	}
}

func TestBundled_ProvidesValidIdentities(t *testing.T) {
	t.Parallel()

	bundled := NewBundled()
	if !bundled.Available(context.Background()) {
		t.Fatal("bundled provider must always be available")
	}

	identities, err := bundled.LoadIdentities(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(identities) == 0 {
		t.Fatal("bundled set is empty")
	}
	for _, identity := range identities {
		if err := identity.Validate(); err != nil {
			t.Errorf("bundled row invalid: %v", err)
		}
	}

	index, errs := player.NewIndex(identities)
	if len(errs) != 0 {
		t.Fatalf("index errors: %v", errs)
	}
	mahomes, ok := index.ByID(player.SchemeGSIS, "00-0033873")
	if !ok || mahomes.IDs[player.SchemeESPN] != "3139477" {
		t.Fatalf("mahomes lookup = %+v ok=%v", mahomes, ok)
	}
}
