package cache

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store provides a persistent KV cache with TTL semantics backed by bbolt.
// It is safe for concurrent use by multiple goroutines.
//
// Row layout: 8 bytes big endian storedAt (unix) || 8 bytes big endian
// ttlSeconds || raw value. An entry is valid iff now-storedAt < ttl;
// expired entries are treated as absent and removed lazily on read.
type Store struct {
	db            *bolt.DB
	bucket        []byte
	historyBucket []byte
	defaultTTL    time.Duration
	mu            sync.RWMutex

	// now is overridable in tests to simulate clock advance.
	now func() time.Time
}

type Options struct {
	// Bucket is the name of the Bolt bucket for cached entries.
	Bucket string
	// DefaultTTL is used when Put is called with ttl <= 0.
	DefaultTTL time.Duration
}

var (
	ErrNotFound = errors.New("cache: not found")
	ErrExpired  = errors.New("cache: expired")
)

const rowHeaderSize = 16

// Open initializes or opens a Store at the given path.
func Open(path string, opts Options) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	bucket := []byte("products")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	history := []byte("lookup_history")
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(history)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:            db,
		bucket:        bucket,
		historyBucket: history,
		defaultTTL:    opts.DefaultTTL,
		now:           time.Now,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put upserts value with storedAt = now. If ttl <= 0, DefaultTTL is used;
// if DefaultTTL <= 0 as well, the entry never expires.
func (s *Store) Put(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	buf := make([]byte, rowHeaderSize+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(s.now().Unix()))
	if ttl > 0 {
		secs := int64(ttl / time.Second)
		if secs == 0 {
			// A sub-second ttl must still expire, not persist forever.
			secs = 1
		}
		binary.BigEndian.PutUint64(buf[8:16], uint64(secs))
	}
	copy(buf[rowHeaderSize:], value)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), buf)
	})
}

// Get returns the cached value if present and not expired. An expired row
// is deleted as a side effect and reported as ErrExpired.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	var out []byte
	var expired, exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil || len(v) < rowHeaderSize {
			return nil
		}
		exists = true
		if s.rowExpired(v) {
			expired = true
			return nil
		}
		out = append([]byte(nil), v[rowHeaderSize:]...)
		return nil
	})
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	if expired {
		_ = s.deleteIfExpired(key)
		return nil, ErrExpired
	}
	return out, nil
}

// Delete removes a key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// deleteIfExpired removes a row only if it is still expired at delete
// time, so a refresh landing between a read and the lazy delete survives.
func (s *Store) deleteIfExpired(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		v := b.Get([]byte(key))
		if v == nil || len(v) < rowHeaderSize || !s.rowExpired(v) {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// PurgeExpired removes every expired row and returns the number removed.
func (s *Store) PurgeExpired() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if len(v) < rowHeaderSize || s.rowExpired(v) {
				if err := c.Delete(); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// Stats reports entry counts and the oldest write timestamp.
func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st Stats
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if len(v) < rowHeaderSize {
				continue
			}
			st.TotalEntries++
			storedAt := int64(binary.BigEndian.Uint64(v[:8]))
			if st.OldestUnix == 0 || storedAt < st.OldestUnix {
				st.OldestUnix = storedAt
			}
			if !s.rowExpired(v) {
				st.ValidEntries++
			}
		}
		return nil
	})
	st.ExpiredEntries = st.TotalEntries - st.ValidEntries
	return st, err
}

// rowExpired applies the validity invariant now-storedAt < ttl.
// A ttl of zero means the row never expires.
func (s *Store) rowExpired(v []byte) bool {
	storedAt := int64(binary.BigEndian.Uint64(v[:8]))
	ttl := int64(binary.BigEndian.Uint64(v[8:16]))
	if ttl <= 0 {
		return false
	}
	return s.now().Unix()-storedAt >= ttl
}
