package asset

import "time"

// KindInfo summarizes cached payloads of one kind.
type KindInfo struct {
	Kind   Kind      `json:"kind"`
	Files  int       `json:"files"`
	Bytes  int64     `json:"bytes"`
	Oldest time.Time `json:"oldest"`
	Newest time.Time `json:"newest"`
}

// CacheInfo is a point-in-time inventory of the disk cache.
type CacheInfo struct {
	Root       string     `json:"root"`
	TotalFiles int        `json:"total_files"`
	TotalBytes int64      `json:"total_bytes"`
	Kinds      []KindInfo `json:"kinds"`
}

// EvictionReport describes one eviction pass.
type EvictionReport struct {
	Scanned       int   `json:"scanned"`
	RemovedByAge  int   `json:"removed_by_age"`
	RemovedBySize int   `json:"removed_by_size"`
	FreedBytes    int64 `json:"freed_bytes"`
}

func (r EvictionReport) Removed() int {
	return r.RemovedByAge + r.RemovedBySize
}
