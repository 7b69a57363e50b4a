package files

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and the dev profile.
// Records are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]FileRecord
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]FileRecord)}
}

// Put upserts a record by key.
func (s *MemoryStore) Put(_ context.Context, rec *FileRecord) error {
	if rec == nil {
		return fmt.Errorf("files: nil record")
	}
	cp := *rec
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.recs[cp.Key] = cp
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the record for a key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (*FileRecord, error) {
	s.mu.RLock()
	rec, ok := s.recs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp := rec
	return &cp, nil
}

// SetPassword protects an existing record.
func (s *MemoryStore) SetPassword(_ context.Context, key, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[key]
	if !ok {
		return ErrNotFound
	}
	rec.HasPassword = true
	rec.Password = password
	s.recs[key] = rec
	return nil
}

// Delete removes a record by key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[key]; !ok {
		return ErrNotFound
	}
	delete(s.recs, key)
	return nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.recs)), nil
}
