package asset

import (
	"fmt"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
)

// Kind partitions the cache by asset family. Each kind maps to its own
// subdirectory under the cache root.
type Kind string

const (
	KindLogo     Kind = "logo"
	KindWordmark Kind = "wordmark"
	KindHeadshot Kind = "headshot"
)

// AllKinds lists every cacheable asset family in report order.
var AllKinds = []Kind{KindLogo, KindWordmark, KindHeadshot}

// ParseKind normalizes a user-supplied kind token.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindLogo:
		return KindLogo, nil
	case KindWordmark:
		return KindWordmark, nil
	case KindHeadshot:
		return KindHeadshot, nil
	default:
		return "", fmt.Errorf("unknown asset kind %q", raw)
	}
}

// Key addresses one asset on disk. Slug is the team abbreviation for logos
// and wordmarks, the ESPN player ID for headshots; the payload filename is
// the slug with no extension so the key stays stable across mirrors that
// serve different formats.
type Key struct {
	Kind Kind
	Slug string
}

func NewKey(kind Kind, slug string) (Key, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Key{}, fmt.Errorf("asset slug is required")
	}
	if strings.ContainsAny(slug, "/\\") {
		return Key{}, fmt.Errorf("asset slug %q must not contain path separators", slug)
	}
	switch kind {
	case KindLogo, KindWordmark, KindHeadshot:
	default:
		return Key{}, fmt.Errorf("unknown asset kind %q", kind)
	}
	return Key{Kind: kind, Slug: slug}, nil
}

func (k Key) String() string {
	return string(k.Kind) + "/" + k.Slug
}

// Entry is the durable record for one cached asset: the payload location
// plus the sidecar metadata used for freshness and integrity checks.
type Entry struct {
	Key         Key           `json:"-"`
	SourceURL   string        `json:"source_url"`
	ContentType string        `json:"content_type"`
	FetchedAt   time.Time     `json:"fetched_at"`
	TTL         time.Duration `json:"ttl_ns"`
	Checksum    digest.Digest `json:"checksum"`
	Size        int64         `json:"size"`
}

// Fresh reports whether the entry is within its TTL at the given instant.
// A zero TTL never expires.
func (e Entry) Fresh(now time.Time) bool {
	if e.TTL <= 0 {
		return true
	}
	return now.Sub(e.FetchedAt) < e.TTL
}

// Age returns how long ago the payload was fetched.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

func (e Entry) Validate() error {
	if e.SourceURL == "" {
		return fmt.Errorf("asset entry source url is required")
	}
	if e.Checksum == "" {
		return fmt.Errorf("asset entry checksum is required")
	}
	if err := e.Checksum.Validate(); err != nil {
		return fmt.Errorf("asset entry checksum: %w", err)
	}
	if e.Size <= 0 {
		return fmt.Errorf("asset entry size must be positive")
	}
	if e.FetchedAt.IsZero() {
		return fmt.Errorf("asset entry fetch time is required")
	}
	return nil
}

// Handle is what callers get back from the cache: the local path plus
// enough metadata to decide how to use it.
type Handle struct {
	Key         Key
	Path        string
	ContentType string
	Source      string
	FetchedAt   time.Time
	Size        int64
	Stale       bool
}
