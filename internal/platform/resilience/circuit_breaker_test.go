package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestHostBreakers_IsolatePerHost(t *testing.T) {
	group := NewHostBreakers(CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	wiki := group.For("upload.wikimedia.org")
	espn := group.For("a.espncdn.com")
	if wiki == espn {
		t.Fatal("expected distinct breakers per host")
	}
	if again := group.For("upload.wikimedia.org"); again != wiki {
		t.Fatal("expected the same breaker on repeat lookup")
	}

	wiki.RecordFailure()
	if err := wiki.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected wikimedia circuit open, got %v", err)
	}
	if err := espn.Allow(); err != nil {
		t.Fatalf("espn breaker must be unaffected, got %v", err)
	}

	states := group.States()
	if states["upload.wikimedia.org"] != CircuitStateOpen {
		t.Fatalf("expected open state for wikimedia, got %s", states["upload.wikimedia.org"])
	}
	if states["a.espncdn.com"] != CircuitStateClosed {
		t.Fatalf("expected closed state for espn, got %s", states["a.espncdn.com"])
	}
}
