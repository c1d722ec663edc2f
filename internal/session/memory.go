// internal/session/memory.go
//
// In-memory Store for tests and single-process development.  No TTL
// handling; entries live until deleted.
package session

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]Record
}

// NewMemory returns an empty in-memory Store.
func NewMemory() Store {
	return &memoryStore{data: make(map[string]Record)}
}

func (s *memoryStore) Load(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (s *memoryStore) Save(_ context.Context, id string, rec *Record) error {
	s.mu.Lock()
	s.data[id] = *rec
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}
