package resilience

import "sync"

// HostBreakers keeps one breaker per upstream host. Asset fetches fan out
// to several CDNs, and an outage on one must not block the others.
type HostBreakers struct {
	mu     sync.Mutex
	cfg    CircuitBreakerConfig
	byHost map[string]*CircuitBreaker
}

func NewHostBreakers(cfg CircuitBreakerConfig) *HostBreakers {
	return &HostBreakers{
		cfg:    NormalizeCircuitBreakerConfig(cfg),
		byHost: make(map[string]*CircuitBreaker),
	}
}

// For returns the breaker for a host, creating it on first use.
func (g *HostBreakers) For(host string) *CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.byHost[host]
	if !ok {
		b = NewCircuitBreaker(g.cfg)
		g.byHost[host] = b
	}
	return b
}

// States snapshots the current state of every known host breaker.
func (g *HostBreakers) States() map[string]CircuitState {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]CircuitState, len(g.byHost))
	for host, b := range g.byHost {
		out[host] = b.State()
	}
	return out
}
