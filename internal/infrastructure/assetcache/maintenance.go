package assetcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nflverse/nflassets/internal/domain/asset"
)

// cachedFile is one payload seen during a scan. Payloads without a readable
// sidecar fall back to file modification time so they still age out.
type cachedFile struct {
	key       asset.Key
	size      int64
	fetchedAt time.Time
}

// Evict applies the age cap first and then the size budget, oldest entries
// first. Caps that are zero or negative are skipped.
func (s *Store) Evict(ctx context.Context) (asset.EvictionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.scanAll()
	if err != nil {
		return asset.EvictionReport{}, fmt.Errorf("scan cache: %w", err)
	}

	report := asset.EvictionReport{Scanned: len(rows)}
	now := s.now().UTC()

	kept := make([]cachedFile, 0, len(rows))
	for _, row := range rows {
		if s.maxAge > 0 && now.Sub(row.fetchedAt) > s.maxAge {
			removeEntryFiles(s.root, row.key)
			report.RemovedByAge++
			report.FreedBytes += row.size
			continue
		}
		kept = append(kept, row)
	}

	if s.maxBytes > 0 {
		var total int64
		for _, row := range kept {
			total += row.size
		}
		sort.SliceStable(kept, func(i, j int) bool {
			if !kept[i].fetchedAt.Equal(kept[j].fetchedAt) {
				return kept[i].fetchedAt.Before(kept[j].fetchedAt)
			}
			return kept[i].key.String() < kept[j].key.String()
		})
		for _, row := range kept {
			if total <= s.maxBytes {
				break
			}
			removeEntryFiles(s.root, row.key)
			report.RemovedBySize++
			report.FreedBytes += row.size
			total -= row.size
		}
	}

	s.logger.DebugContext(ctx, "cache eviction pass finished",
		"scanned", report.Scanned,
		"removed_by_age", report.RemovedByAge,
		"removed_by_size", report.RemovedBySize,
		"freed_bytes", report.FreedBytes,
	)
	return report, nil
}

// Clear removes every cached payload of one kind, or of all kinds when kind
// is empty. It returns the number of payloads removed.
func (s *Store) Clear(ctx context.Context, kind asset.Kind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds := asset.AllKinds
	if kind != "" {
		kinds = []asset.Kind{kind}
	}

	removed := 0
	for _, item := range kinds {
		rows, err := s.scanKind(item)
		if err != nil {
			return removed, fmt.Errorf("scan %s: %w", item, err)
		}
		for _, row := range rows {
			removeEntryFiles(s.root, row.key)
			removed++
		}
	}

	s.logger.DebugContext(ctx, "cache cleared", "kind", string(kind), "removed", removed)
	return removed, nil
}

// Info reports the on-disk inventory grouped by kind. Sidecar files count as
// bookkeeping, not inventory; sizes and totals cover payloads only.
func (s *Store) Info(_ context.Context) (asset.CacheInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := asset.CacheInfo{Root: s.root, Kinds: make([]asset.KindInfo, 0, len(asset.AllKinds))}
	for _, kind := range asset.AllKinds {
		rows, err := s.scanKind(kind)
		if err != nil {
			return asset.CacheInfo{}, fmt.Errorf("scan %s: %w", kind, err)
		}
		if len(rows) == 0 {
			continue
		}

		info := asset.KindInfo{Kind: kind, Files: len(rows)}
		for _, row := range rows {
			info.Bytes += row.size
			if info.Oldest.IsZero() || row.fetchedAt.Before(info.Oldest) {
				info.Oldest = row.fetchedAt
			}
			if row.fetchedAt.After(info.Newest) {
				info.Newest = row.fetchedAt
			}
		}
		out.Kinds = append(out.Kinds, info)
		out.TotalFiles += info.Files
		out.TotalBytes += info.Bytes
	}
	return out, nil
}

func (s *Store) scanAll() ([]cachedFile, error) {
	out := make([]cachedFile, 0, 64)
	for _, kind := range asset.AllKinds {
		rows, err := s.scanKind(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (s *Store) scanKind(kind asset.Kind) ([]cachedFile, error) {
	dir := filepath.Join(s.root, string(kind))
	items, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]cachedFile, 0, len(items))
	for _, item := range items {
		name := item.Name()
		if item.IsDir() || strings.HasSuffix(name, sidecarSuffix) || strings.Contains(name, ".tmp-") {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		key, keyErr := asset.NewKey(kind, name)
		if keyErr != nil {
			continue
		}

		row := cachedFile{key: key, size: info.Size(), fetchedAt: info.ModTime().UTC()}
		if entry, err := readSidecar(s.root, key); err == nil {
			row.fetchedAt = entry.FetchedAt
		}
		out = append(out, row)
	}
	return out, nil
}
