package cache

import (
	"encoding/binary"
	"encoding/json"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Lookup history keys are 8 bytes big endian unix time followed by the raw
// record UUID, so a reverse cursor walk yields most-recent-first.

// LogLookup appends a lookup outcome to the history bucket.
func (s *Store) LogLookup(barcode string, success bool, source string) error {
	rec := LookupRecord{
		ID:      uuid.NewString(),
		Barcode: barcode,
		Time:    s.now().Unix(),
		Success: success,
		Source:  source,
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return err
	}
	key := make([]byte, 8+len(id))
	binary.BigEndian.PutUint64(key[:8], uint64(rec.Time))
	copy(key[8:], id[:])

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.historyBucket).Put(key, val)
	})
}

// History returns up to limit records, most recent first.
func (s *Store) History(limit int) ([]LookupRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LookupRecord, 0, limit)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.historyBucket).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var rec LookupRecord
			if json.Unmarshal(v, &rec) != nil {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}
