package assetcache

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nflverse/nflassets/internal/platform/logging"
	"github.com/nflverse/nflassets/internal/platform/resilience"
	"github.com/nflverse/nflassets/internal/usecase"
)

const (
	defaultFetchTimeout  = 15 * time.Second
	defaultMaxAssetBytes = 10 << 20

	// Wikimedia rejects generic client strings, so every request carries a
	// descriptive agent with a contact URL.
	fetchUserAgent = "nflassets/1.0 (+https://github.com/nflverse/nflassets)"
)

var errFetchTransient = crerr.New("asset fetch transient failure")
var errPayloadTooLarge = crerr.New("asset payload exceeds configured byte cap")

type FetcherConfig struct {
	HTTPClient     *http.Client
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	MaxAssetBytes  int64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Download is one fetched payload plus the metadata the cache records about it.
type Download struct {
	Body        []byte
	ContentType string
	SourceURL   string
}

// Fetcher downloads asset payloads over HTTP. Failures are isolated per
// upstream host: a Wikimedia outage never opens the ESPN circuit.
type Fetcher struct {
	httpClient     *http.Client
	userAgent      string
	maxRetries     int
	maxAssetBytes  int64
	logger         *logging.Logger
	breakers       *resilience.HostBreakers
	circuitEnabled bool
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if httpClient.Timeout <= 0 {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		httpClient.Timeout = timeout
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = fetchUserAgent
	}

	maxAssetBytes := cfg.MaxAssetBytes
	if maxAssetBytes <= 0 {
		maxAssetBytes = defaultMaxAssetBytes
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Fetcher{
		httpClient:     httpClient,
		userAgent:      userAgent,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		maxAssetBytes:  maxAssetBytes,
		logger:         logger,
		breakers:       resilience.NewHostBreakers(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Breakers exposes the per-host circuit registry for operational snapshots.
func (f *Fetcher) Breakers() *resilience.HostBreakers {
	return f.breakers
}

// Fetch downloads the first candidate URL that answers with a usable payload.
// Candidates are tried in order; a hard miss on one (404 and friends) moves
// on to the next without burning the retry budget.
func (f *Fetcher) Fetch(ctx context.Context, candidates []string) (Download, error) {
	if len(candidates) == 0 {
		return Download{}, fmt.Errorf("%w: no candidate urls", usecase.ErrInvalidInput)
	}

	var lastErr error
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}

		var breaker *resilience.CircuitBreaker
		if host := hostOf(candidate); f.circuitEnabled && host != "" {
			breaker = f.breakers.For(host)
			if err := breaker.Allow(); err != nil {
				f.logger.WarnContext(ctx, "asset host circuit breaker rejected request", "host", host, "state", breaker.State())
				lastErr = fmt.Errorf("%w: host %s is temporarily unavailable", usecase.ErrDependencyUnavailable, host)
				continue
			}
		}

		download, err := f.executeRequest(ctx, candidate)
		if breaker != nil {
			if err != nil && isTransientFetchFailure(err) {
				breaker.RecordFailure()
			} else {
				breaker.RecordSuccess()
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return Download{}, ctx.Err()
			}
			lastErr = err
			continue
		}
		return download, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("asset request failed")
	}
	return Download{}, lastErr
}

func (f *Fetcher) executeRequest(ctx context.Context, fullURL string) (Download, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return Download{}, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "image/*")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFetchTransient, err)
		} else {
			body, readErr := f.readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case stderrors.Is(readErr, errPayloadTooLarge):
				return Download{}, fmt.Errorf("%v: url=%s", readErr, fullURL)
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFetchTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				if len(body) == 0 {
					return Download{}, fmt.Errorf("upstream returned empty payload url=%s", fullURL)
				}
				contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
				if contentType == "" {
					contentType = "application/octet-stream"
				}
				// CDNs serve HTML error pages with a 200; never cache one
				// as an asset.
				if isHTMLContentType(contentType) {
					return Download{}, fmt.Errorf("upstream returned %s instead of an asset url=%s", contentType, fullURL)
				}
				return Download{Body: body, ContentType: contentType, SourceURL: fullURL}, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d url=%s", errFetchTransient, resp.StatusCode, fullURL)
			default:
				return Download{}, fmt.Errorf("upstream status=%d url=%s", resp.StatusCode, fullURL)
			}
		}

		if attempt == f.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Download{}, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("asset request failed")
	}
	f.logger.WarnContext(ctx, "asset download failed", "url", fullURL, "error", lastErr)
	return Download{}, lastErr
}

// readBody spools the payload through a pooled buffer so bursty warm runs do
// not allocate one throwaway slice per image.
func (f *Fetcher) readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	n, err := io.Copy(buf, io.LimitReader(body, f.maxAssetBytes+1))
	if err != nil {
		return nil, err
	}
	if n > f.maxAssetBytes {
		return nil, fmt.Errorf("%w: limit=%d", errPayloadTooLarge, f.maxAssetBytes)
	}
	return append([]byte(nil), buf.B...), nil
}

func isTransientFetchFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFetchTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func isHTMLContentType(contentType string) bool {
	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
