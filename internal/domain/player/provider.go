package player

import "context"

// Provider describes where identity rows come from. Implementations load a
// remote dataset or fall back to the bundled seed set.
type Provider interface {
	// Available reports whether the provider can serve rows right now
	// without performing the load.
	Available(ctx context.Context) bool
	// LoadIdentities returns every identity row the provider knows about.
	LoadIdentities(ctx context.Context) ([]Identity, error)
}
