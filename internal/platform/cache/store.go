package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nflverse/nflassets/internal/platform/resilience"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Memo is an in-process TTL cache for expensive loads. The identity
// provider memoizes its decoded dataset here so index rebuilds within the
// TTL do not re-download it.
type Memo[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	flight  resilience.Flight[T]
}

func NewMemo[T any](ttl time.Duration) *Memo[T] {
	return &Memo[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
	}
}

func (m *Memo[T]) Get(_ context.Context, key string) (T, bool) {
	var zero T
	if key == "" {
		return zero, false
	}

	now := time.Now()
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if m.ttl > 0 && !e.expiresAt.After(now) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (m *Memo[T]) Set(_ context.Context, key string, value T) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if m.ttl > 0 {
		expiresAt = time.Now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry[T]{
		value:     value,
		expiresAt: expiresAt,
	}
	m.mu.Unlock()
}

func (m *Memo[T]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once, deduplicating
// concurrent loads for the same key.
func (m *Memo[T]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := m.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := m.flight.Do(key, func() (T, error) {
		if cached, ok := m.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		m.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	return value, nil
}
