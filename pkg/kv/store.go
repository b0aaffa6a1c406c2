package kv

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starskey-io/starskey"
)

// DefaultTTL is applied when SetWithTTL is called without an explicit
// lifetime. 24 hours, same as the default cookie lifetime.
const DefaultTTL = 24 * time.Hour

// entry is the stored envelope. A zero Expires means the value never
// expires (local-storage semantics); a set Expires makes the value
// behave like a cookie with a lifetime.
type entry struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// Store persists small string values (API credentials, acknowledgments)
// in a Starskey database under the application config directory.
type Store struct {
	db *starskey.Starskey
}

// Open opens (or creates) the store in the given directory.
func Open(dir string) (*Store, error) {
	db, err := starskey.Open(&starskey.Config{
		Permission:        0755,
		Directory:         dir,
		FlushThreshold:    1 * 1024 * 1024, // tiny working set, flush early
		MaxLevel:          3,
		SizeFactor:        10,
		BloomFilter:       true,
		SuRF:              false,
		Logging:           false,
		Compression:       false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open key-value store: %w", err)
	}
	return &Store{db: db}, nil
}

// Set stores a value without an expiry.
func (s *Store) Set(key, value string) error {
	return s.put(key, entry{Value: value})
}

// SetWithTTL stores a value that expires after ttl. A non-positive ttl
// falls back to DefaultTTL.
func (s *Store) SetWithTTL(key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return s.put(key, entry{Value: value, Expires: time.Now().Add(ttl)})
}

// Get returns the stored value for key. Missing and expired entries both
// report found == false; an expired entry is removed on the way out.
func (s *Store) Get(key string) (string, bool, error) {
	raw, err := s.db.Get([]byte(key))
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if raw == nil {
		return "", false, nil
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// Corrupted entry, treat as absent
		return "", false, nil
	}

	if !e.Expires.IsZero() && time.Now().After(e.Expires) {
		if err := s.db.Delete([]byte(key)); err != nil {
			return "", false, fmt.Errorf("failed to drop expired %q: %w", key, err)
		}
		return "", false, nil
	}

	return e.Value, true, nil
}

// Remove deletes the value for key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	return s.db.Delete([]byte(key))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(key string, e entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry for %q: %w", key, err)
	}
	if err := s.db.Put([]byte(key), data); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
