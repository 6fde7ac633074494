package cache

import "time"

// KV defines the minimal key-value cache contract with TTL semantics.
// Implementations must be safe for concurrent use by multiple goroutines.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Maintainer is implemented by caches that support an explicit expiry sweep
// in addition to the lazy purge-on-read done by Get.
type Maintainer interface {
	PurgeExpired() (int, error)
	Stats() (Stats, error)
}

// HistoryLogger records product lookup outcomes for later inspection.
// Logging is best-effort; callers ignore errors.
type HistoryLogger interface {
	LogLookup(barcode string, success bool, source string) error
	History(limit int) ([]LookupRecord, error)
}

// Stats summarizes the state of a cache at a point in time.
type Stats struct {
	TotalEntries   int   `json:"total_entries"`
	ValidEntries   int   `json:"valid_entries"`
	ExpiredEntries int   `json:"expired_entries"`
	OldestUnix     int64 `json:"oldest_entry,omitempty"`
}

// LookupRecord is one entry of the lookup history.
type LookupRecord struct {
	ID      string `json:"id"`
	Barcode string `json:"barcode"`
	Time    int64  `json:"time"`
	Success bool   `json:"success"`
	Source  string `json:"source"` // "cache" | "api" | "mock" | ""
}
