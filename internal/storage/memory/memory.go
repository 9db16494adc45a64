// Package memory provides an in-process storage.Storage backend, used in
// dev mode and in tests where no Redis is available.
package memory

import (
	"sync"
	"time"

	"github.com/gofiber/storage"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Storage is a thread-safe in-memory key/value store with per-key expiry.
type Storage struct {
	mu   sync.RWMutex
	data map[string]entry
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{data: make(map[string]entry)}
}

// Get returns the value for key, or (nil, nil) when missing or expired.
func (s *Storage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		_ = s.Delete(key)
		return nil, nil
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)

	return out, nil
}

// Set stores val under key. A zero exp means the entry never expires.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	buf := make([]byte, len(val))
	copy(buf, val)

	e := entry{value: buf}
	if exp > 0 {
		e.expiresAt = time.Now().Add(exp)
	}

	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	return nil
}

// Reset removes all keys.
func (s *Storage) Reset() error {
	s.mu.Lock()
	s.data = make(map[string]entry)
	s.mu.Unlock()

	return nil
}

// Close is a no-op for the in-memory backend.
func (s *Storage) Close() error {
	return nil
}
