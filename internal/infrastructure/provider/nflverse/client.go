package nflverse

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nflverse/nflassets/internal/domain/player"
	"github.com/nflverse/nflassets/internal/domain/team"
	"github.com/nflverse/nflassets/internal/platform/cache"
	"github.com/nflverse/nflassets/internal/platform/logging"
)

const (
	defaultDatasetTimeout = 30 * time.Second
	defaultDatasetTTL     = 6 * time.Hour

	// maxDatasetBytes caps the decoded download; the full nflverse players
	// export is a few megabytes.
	maxDatasetBytes = 64 << 20

	datasetMemoKey   = "players"
	datasetUserAgent = "nflassets/1.0 (+https://github.com/nflverse/nflassets)"
)

// errDatasetTransient marks failures worth retrying during a dataset load.
var errDatasetTransient = crerr.New("players dataset transient failure")

type ClientConfig struct {
	// Source is an http(s) URL or a local file path to the players JSON
	// export.
	Source     string
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int
	DatasetTTL time.Duration
	Logger     *logging.Logger
}

// Client loads the nflverse player-ID mapping dataset and adapts it to
// the player.Provider contract. Loads are memoized for the dataset TTL so
// an index rebuild inside the window does not re-download.
type Client struct {
	source     string
	httpClient *http.Client
	maxRetries int
	logger     *logging.Logger
	memo       *cache.Memo[[]player.Identity]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout == 0 {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultDatasetTimeout
		}
		httpClient.Timeout = timeout
	}

	ttl := cfg.DatasetTTL
	if ttl <= 0 {
		ttl = defaultDatasetTTL
	}

	return &Client{
		source:     strings.TrimSpace(cfg.Source),
		httpClient: httpClient,
		maxRetries: maxInt(cfg.MaxRetries, 0),
		logger:     logger,
		memo:       cache.NewMemo[[]player.Identity](ttl),
	}
}

func (c *Client) Available(ctx context.Context) bool {
	if c.source == "" {
		return false
	}
	if _, ok := c.memo.Get(ctx, datasetMemoKey); ok {
		return true
	}
	if isRemoteSource(c.source) {
		return true
	}

	info, err := os.Stat(c.source)
	return err == nil && !info.IsDir()
}

func (c *Client) LoadIdentities(ctx context.Context) ([]player.Identity, error) {
	if c.source == "" {
		return nil, fmt.Errorf("players dataset source is not configured")
	}

	return c.memo.GetOrLoad(ctx, datasetMemoKey, c.load)
}

func (c *Client) load(ctx context.Context) ([]player.Identity, error) {
	var (
		raw []byte
		err error
	)
	if isRemoteSource(c.source) {
		raw, err = c.fetchRemote(ctx, c.source)
	} else {
		raw, err = os.ReadFile(c.source)
	}
	if err != nil {
		return nil, fmt.Errorf("load players dataset: %w", err)
	}

	identities, skipped, err := decodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("decode players dataset: %w", err)
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "skipped unusable dataset rows", "skipped", skipped, "kept", len(identities))
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("players dataset yielded no usable rows")
	}

	c.logger.InfoContext(ctx, "players dataset loaded", "source", c.source, "rows", len(identities))
	return identities, nil
}

func (c *Client) fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create dataset request: %w", err)
		}
		req.Header.Set("User-Agent", datasetUserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", errDatasetTransient, err)
		} else {
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes+1))
			resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read dataset body: %v", errDatasetTransient, readErr)
			case len(body) > maxDatasetBytes:
				return nil, fmt.Errorf("dataset exceeds %d bytes", maxDatasetBytes)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return body, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d", errDatasetTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("upstream status=%d url=%s", resp.StatusCode, rawURL)
			}
		}

		if ctx.Err() != nil {
			break
		}
		if attempt < c.maxRetries && stderrors.Is(lastErr, errDatasetTransient) {
			backoff := time.Duration(attempt+1) * time.Second
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			continue
		}
		break
	}

	c.logger.WarnContext(ctx, "players dataset download failed", "url", rawURL, "error", lastErr)
	return nil, lastErr
}

type datasetRow struct {
	GsisID     flexString `json:"gsis_id"`
	EspnID     flexString `json:"espn_id"`
	NflID      flexString `json:"nfl_id"`
	Name       string     `json:"name"`
	Team       string     `json:"team"`
	Position   string     `json:"position"`
	LastSeason float64    `json:"last_season"`
}

func decodeRows(raw []byte) ([]player.Identity, int, error) {
	var rows []datasetRow
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, 0, err
	}

	identities := make([]player.Identity, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		identity := row.toIdentity()
		if err := identity.Validate(); err != nil {
			skipped++
			continue
		}
		identities = append(identities, identity)
	}

	return identities, skipped, nil
}

func (r datasetRow) toIdentity() player.Identity {
	ids := make(map[player.Scheme]string, 3)
	if id := string(r.GsisID); id != "" {
		ids[player.SchemeGSIS] = id
	}
	if id := string(r.EspnID); id != "" {
		ids[player.SchemeESPN] = id
	}
	if id := string(r.NflID); id != "" {
		ids[player.SchemeNFL] = id
	}

	return player.Identity{
		Name:         strings.TrimSpace(r.Name),
		Team:         team.NormalizeToken(r.Team),
		Position:     strings.ToUpper(strings.TrimSpace(r.Position)),
		LatestSeason: int(r.LastSeason),
		IDs:          ids,
	}
}

// flexString tolerates IDs shipped either quoted or bare; nullable int
// columns in the upstream export surface as floats.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(raw))
		return nil
	}

	var num json.Number
	if err := sonic.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = flexString(strings.TrimSuffix(num.String(), ".0"))
	return nil
}

func isRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
