package product

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dkwarude-cell/foodscan/internal/cache"
	"github.com/dkwarude-cell/foodscan/internal/logger"
)

// DefaultCacheTTL is how long successful API payloads stay fresh (7 days).
const DefaultCacheTTL = 7 * 24 * time.Hour

// Lookup resolves barcodes through the tier chain
// cache -> API -> mock -> not found. Cache and network failures are
// absorbed by falling through to the next tier; only ErrInvalidBarcode and
// ErrNotFound surface to the caller.
type Lookup struct {
	cache   cache.KV
	history cache.HistoryLogger
	client  *Client
	mock    *MockData
	ttl     time.Duration
	offline bool

	// Concurrent lookups of the same barcode share one API call.
	group singleflight.Group
}

// LookupOption configures a Lookup.
type LookupOption func(*Lookup)

// WithCache attaches a KV cache tier. A nil KV leaves the cache bypassed.
func WithCache(kv cache.KV) LookupOption {
	return func(l *Lookup) {
		l.cache = kv
		if h, ok := kv.(cache.HistoryLogger); ok {
			l.history = h
		}
	}
}

// WithClient overrides the API client.
func WithClient(c *Client) LookupOption {
	return func(l *Lookup) { l.client = c }
}

// WithMockData overrides the fallback dataset.
func WithMockData(m *MockData) LookupOption {
	return func(l *Lookup) { l.mock = m }
}

// WithTTL overrides the cache TTL for API write-backs.
func WithTTL(ttl time.Duration) LookupOption {
	return func(l *Lookup) { l.ttl = ttl }
}

// WithOffline skips the API tier entirely.
func WithOffline(offline bool) LookupOption {
	return func(l *Lookup) { l.offline = offline }
}

// NewLookup builds a Lookup with the embedded mock dataset and no cache.
// FOODSCAN_OFFLINE=true disables the API tier.
func NewLookup(opts ...LookupOption) *Lookup {
	l := &Lookup{
		client:  NewClient(),
		mock:    NewMockData(),
		ttl:     DefaultCacheTTL,
		offline: os.Getenv("FOODSCAN_OFFLINE") == "true",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetProduct resolves a barcode to a product record.
func (l *Lookup) GetProduct(ctx context.Context, barcode string) (*Product, error) {
	sanitized, err := SanitizeBarcode(barcode)
	if err != nil {
		return nil, err
	}
	logger.Infof("looking up product %s", sanitized)

	// Tier 1: cache. Any cache failure degrades to a miss.
	if l.cache != nil {
		if raw, err := l.cacheGet(sanitized); err == nil {
			logger.Debugf("cache hit for %s", sanitized)
			l.logLookup(sanitized, true, "cache")
			p := Parse(sanitized, raw)
			p.Source = "cache"
			return p, nil
		}
	}

	// Tier 2: API, unless offline. Concurrent callers share one fetch.
	if !l.offline {
		raw, err := l.fetchShared(ctx, sanitized)
		if err == nil {
			l.cachePut(sanitized, raw)
			l.logLookup(sanitized, true, "api")
			p := Parse(sanitized, raw)
			p.Source = "api"
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			logger.Warnf("api fetch failed for %s: %v", sanitized, err)
		}
	}

	// Tier 3: static mock dataset.
	if raw := l.mock.Get(sanitized); raw != nil {
		logger.Debugf("mock data fallback for %s", sanitized)
		l.logLookup(sanitized, true, "mock")
		p := Parse(sanitized, raw)
		p.Source = "mock"
		return p, nil
	}

	l.logLookup(sanitized, false, "")
	return nil, ErrNotFound
}

// Search proxies a product name search to the API. Offline mode returns an
// empty result.
func (l *Lookup) Search(ctx context.Context, query string, page, pageSize int) ([]RawProduct, error) {
	if l.offline {
		logger.Warnf("search unavailable in offline mode")
		return nil, nil
	}
	return l.client.Search(ctx, query, page, pageSize)
}

// History returns recent lookup records, most recent first.
func (l *Lookup) History(limit int) []cache.LookupRecord {
	if l.history == nil {
		return nil
	}
	records, err := l.history.History(limit)
	if err != nil {
		logger.Warnf("history read failed: %v", err)
		return nil
	}
	return records
}

func (l *Lookup) fetchShared(ctx context.Context, barcode string) (RawProduct, error) {
	v, err, _ := l.group.Do(barcode, func() (any, error) {
		return l.client.Fetch(ctx, barcode)
	})
	if err != nil {
		return nil, err
	}
	return v.(RawProduct), nil
}

func (l *Lookup) cacheGet(barcode string) (RawProduct, error) {
	blob, err := l.cache.Get(barcode)
	if err != nil {
		return nil, err
	}
	var raw RawProduct
	if err := json.Unmarshal(blob, &raw); err != nil {
		// A corrupt row is dropped and treated as a miss.
		_ = l.cache.Delete(barcode)
		return nil, err
	}
	return raw, nil
}

func (l *Lookup) cachePut(barcode string, raw RawProduct) {
	if l.cache == nil {
		return
	}
	blob, err := json.Marshal(raw)
	if err != nil {
		return
	}
	if err := l.cache.Put(barcode, blob, l.ttl); err != nil {
		logger.Warnf("cache write failed for %s: %v", barcode, err)
	}
}

func (l *Lookup) logLookup(barcode string, success bool, source string) {
	if l.history == nil {
		return
	}
	_ = l.history.LogLookup(barcode, success, source)
}
