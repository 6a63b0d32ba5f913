package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/nflverse/nflassets/internal/domain/asset"
	"github.com/nflverse/nflassets/internal/domain/team"
	idgen "github.com/nflverse/nflassets/internal/platform/id"
	"github.com/nflverse/nflassets/internal/platform/logging"
)

type WarmInput struct {
	Kinds      []string
	Teams      []string
	Players    []string
	MaxWorkers int
	Force      bool
}

type WarmResult struct {
	RunID        string           `json:"run_id"`
	TaskCount    int              `json:"task_count"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	SkippedCount int              `json:"skipped_count"`
	WorkerCount  int              `json:"worker_count"`
	Tasks        []WarmTaskResult `json:"tasks"`
}

type WarmTaskResult struct {
	Kind       string `json:"kind"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
	Source     string `json:"source,omitempty"`
	Bytes      int64  `json:"bytes,omitempty"`
	Stale      bool   `json:"stale,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	warmStatusSuccess = "success"
	warmStatusFailed  = "failed"
	warmStatusSkipped = "skipped"
)

type warmTask struct {
	kind  asset.Kind
	token string
}

// WarmService pre-fetches assets in bulk so later lookups hit disk. Tasks
// fan out over a bounded worker pool; the report lists every task sorted
// by kind and slug regardless of completion order.
type WarmService struct {
	assets     *AssetService
	directory  *team.Directory
	idGen      idgen.Generator
	logger     *logging.Logger
	maxWorkers int
}

func NewWarmService(assets *AssetService, directory *team.Directory, idGen idgen.Generator, logger *logging.Logger, maxWorkers int) *WarmService {
	if logger == nil {
		logger = logging.Default()
	}

	return &WarmService{
		assets:     assets,
		directory:  directory,
		idGen:      idGen,
		logger:     logger,
		maxWorkers: maxWorkers,
	}
}

func (s *WarmService) Warm(ctx context.Context, input WarmInput) (WarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmService.Warm")
	defer span.End()

	if s.assets == nil || s.directory == nil {
		return WarmResult{}, fmt.Errorf("%w: warm service is not fully configured", ErrDependencyUnavailable)
	}

	kinds, err := normalizeWarmKinds(input.Kinds)
	if err != nil {
		return WarmResult{}, err
	}

	tasks, err := s.buildTasks(kinds, input.Teams, input.Players)
	if err != nil {
		return WarmResult{}, err
	}

	workerCount := normalizeWarmWorkerCount(firstPositive(input.MaxWorkers, s.maxWorkers), len(tasks))
	runID := s.newRunID()

	result := WarmResult{
		RunID:       runID,
		TaskCount:   len(tasks),
		WorkerCount: workerCount,
		Tasks:       make([]WarmTaskResult, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		return result, nil
	}

	logger := s.logger.With("run_id", runID)
	logger.InfoContext(ctx, "warm run started", "tasks", len(tasks), "workers", workerCount, "force", input.Force)

	rows := make(chan WarmTaskResult, len(tasks))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return WarmResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.runWarmTask(ctx, task, input.Force)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case warmStatusSuccess:
				successCount.Add(1)
			case warmStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return WarmResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].Kind != result.Tasks[j].Kind {
			return result.Tasks[i].Kind < result.Tasks[j].Kind
		}
		return result.Tasks[i].Slug < result.Tasks[j].Slug
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	logger.InfoContext(ctx, "warm run finished",
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (s *WarmService) runWarmTask(ctx context.Context, task warmTask, force bool) WarmTaskResult {
	row := WarmTaskResult{
		Kind: string(task.kind),
		Slug: task.token,
	}

	handle, err := s.assets.Fetch(ctx, FetchAssetInput{
		Kind:  string(task.kind),
		Token: task.token,
		Force: force,
	})
	if err != nil {
		if errors.Is(err, ErrOffline) {
			row.Status = warmStatusSkipped
		} else {
			row.Status = warmStatusFailed
		}
		row.Message = err.Error()
		return row
	}

	row.Slug = handle.Key.Slug
	row.Status = warmStatusSuccess
	row.Source = handle.Source
	row.Bytes = handle.Size
	row.Stale = handle.Stale
	return row
}

// buildTasks expands the requested kinds against team and player tokens,
// deduplicating aliases that normalize to the same franchise.
func (s *WarmService) buildTasks(kinds []asset.Kind, teams, players []string) ([]warmTask, error) {
	teamTokens := teams
	if len(teamTokens) == 0 {
		teamTokens = s.directory.List()
	}

	tasks := make([]warmTask, 0, len(kinds)*len(teamTokens))
	seen := make(map[string]struct{}, len(kinds)*len(teamTokens))
	add := func(kind asset.Kind, token string) {
		token = strings.TrimSpace(token)
		if token == "" {
			return
		}
		dedupe := token
		if kind != asset.KindHeadshot {
			if canonical, err := s.directory.Normalize(token); err == nil {
				dedupe = canonical
			} else {
				dedupe = team.NormalizeToken(token)
			}
		}
		id := string(kind) + "/" + dedupe
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		tasks = append(tasks, warmTask{kind: kind, token: token})
	}

	for _, kind := range kinds {
		switch kind {
		case asset.KindLogo, asset.KindWordmark:
			for _, token := range teamTokens {
				add(kind, token)
			}
		case asset.KindHeadshot:
			if len(players) == 0 {
				return nil, fmt.Errorf("%w: players are required to warm headshots", ErrInvalidInput)
			}
			for _, token := range players {
				add(kind, token)
			}
		}
	}

	return tasks, nil
}

func (s *WarmService) newRunID() string {
	if s.idGen == nil {
		return ""
	}
	runID, err := s.idGen.NewID()
	if err != nil {
		return ""
	}
	return runID
}

func normalizeWarmKinds(raw []string) ([]asset.Kind, error) {
	if len(raw) == 0 {
		return []asset.Kind{asset.KindLogo, asset.KindWordmark}, nil
	}

	seen := make(map[asset.Kind]struct{}, len(raw))
	kinds := make([]asset.Kind, 0, len(raw))
	for _, item := range raw {
		kind, err := asset.ParseKind(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func normalizeWarmWorkerCount(value, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 4
	}
	if value > 16 {
		value = 16
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
