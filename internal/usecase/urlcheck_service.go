package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/fasthttp"

	idgen "github.com/nflverse/nflassets/internal/platform/id"
	"github.com/nflverse/nflassets/internal/platform/logging"
)

// checkUserAgent identifies sweep traffic; Wikimedia policy wants a
// descriptive agent with a contact URL.
const checkUserAgent = "nflassets/1.0 (+https://github.com/nflverse/nflassets)"

const (
	urlStatusOK     = "ok"
	urlStatusBroken = "broken"

	defaultCheckTimeout = 10 * time.Second
	defaultCheckSpacing = 100 * time.Millisecond
)

type URLCheckInput struct {
	Timeout    time.Duration
	Spacing    time.Duration
	MaxWorkers int
}

type URLCheckResult struct {
	RunID        string        `json:"run_id"`
	CheckedCount int           `json:"checked_count"`
	OKCount      int           `json:"ok_count"`
	BrokenCount  int           `json:"broken_count"`
	WorkerCount  int           `json:"worker_count"`
	Rows         []URLCheckRow `json:"rows"`
}

type URLCheckRow struct {
	Key        string `json:"key"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	StatusCode int    `json:"status_code,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type trackedURLSource interface {
	TrackedURLs() []TrackedURL
}

// URLCheckService sweeps every tracked source URL with HEAD probes so
// dead upstream art is caught before users hit it. Probes are spaced out
// to stay polite to the image hosts.
type URLCheckService struct {
	urls   trackedURLSource
	client *fasthttp.Client
	idGen  idgen.Generator
	logger *logging.Logger
}

func NewURLCheckService(urls trackedURLSource, idGen idgen.Generator, logger *logging.Logger) *URLCheckService {
	if logger == nil {
		logger = logging.Default()
	}

	return &URLCheckService{
		urls: urls,
		client: &fasthttp.Client{
			Name:         checkUserAgent,
			ReadTimeout:  defaultCheckTimeout,
			WriteTimeout: defaultCheckTimeout,
		},
		idGen:  idGen,
		logger: logger,
	}
}

func (s *URLCheckService) Check(ctx context.Context, input URLCheckInput) (URLCheckResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.URLCheckService.Check")
	defer span.End()

	if s.urls == nil {
		return URLCheckResult{}, fmt.Errorf("%w: url manager is not configured", ErrDependencyUnavailable)
	}

	timeout := input.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	spacing := input.Spacing
	if spacing <= 0 {
		spacing = defaultCheckSpacing
	}

	targets := s.urls.TrackedURLs()
	workerCount := normalizeCheckWorkerCount(input.MaxWorkers, len(targets))
	runID := s.newRunID()

	result := URLCheckResult{
		RunID:        runID,
		CheckedCount: len(targets),
		WorkerCount:  workerCount,
		Rows:         make([]URLCheckRow, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	logger := s.logger.With("run_id", runID)
	logger.InfoContext(ctx, "url sweep started", "targets", len(targets), "workers", workerCount)

	throttle := time.NewTicker(spacing)
	defer throttle.Stop()

	rows := make(chan URLCheckRow, len(targets))

	workers := pool.New().WithMaxGoroutines(workerCount)
	for _, target := range targets {
		target := target
		workers.Go(func() {
			select {
			case <-ctx.Done():
				rows <- URLCheckRow{
					Key:     target.Key.String(),
					URL:     target.URL,
					Status:  urlStatusBroken,
					Message: ctx.Err().Error(),
				}
				return
			case <-throttle.C:
			}

			rows <- s.probe(target.Key.String(), target.URL, timeout)
		})
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Rows = append(result.Rows, row)
		if row.Status == urlStatusOK {
			result.OKCount++
		} else {
			result.BrokenCount++
		}
	}

	sort.SliceStable(result.Rows, func(i, j int) bool {
		if result.Rows[i].Key != result.Rows[j].Key {
			return result.Rows[i].Key < result.Rows[j].Key
		}
		return result.Rows[i].URL < result.Rows[j].URL
	})

	logger.InfoContext(ctx, "url sweep finished", "ok", result.OKCount, "broken", result.BrokenCount)
	return result, nil
}

func (s *URLCheckService) probe(key, url string, timeout time.Duration) URLCheckRow {
	row := URLCheckRow{Key: key, URL: url}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(fasthttp.MethodHead)
	req.SetRequestURI(url)
	req.Header.SetUserAgent(checkUserAgent)

	start := time.Now()
	err := s.client.DoTimeout(req, resp, timeout)
	row.DurationMs = time.Since(start).Milliseconds()

	if err != nil {
		row.Status = urlStatusBroken
		row.Message = err.Error()
		return row
	}

	row.StatusCode = resp.StatusCode()
	if row.StatusCode >= 400 {
		row.Status = urlStatusBroken
		return row
	}

	row.Status = urlStatusOK
	return row
}

func (s *URLCheckService) newRunID() string {
	if s.idGen == nil {
		return ""
	}
	runID, err := s.idGen.NewID()
	if err != nil {
		return ""
	}
	return runID
}

func normalizeCheckWorkerCount(value, targetCount int) int {
	if targetCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 5
	}
	if value > 10 {
		value = 10
	}
	if value > targetCount {
		value = targetCount
	}
	return value
}
