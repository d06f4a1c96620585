package store

import (
	"context"
	"sync"

	"github.com/AlexZinkM/walletkeeper/internal/tier"
)

// MemoryStore is a process-local store for tests and ephemeral servers.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	medium  tier.Medium
}

func NewMemoryStore(medium tier.Medium) *MemoryStore {
	if medium == "" {
		medium = tier.MediumLocal
	}
	return &MemoryStore{records: make(map[string]*Record), medium: medium}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Identity] = rec.Clone()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, identity string) (*Record, error) {
	if err := checkIdentity(identity); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[identity]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Exists(ctx context.Context, identity string) (bool, error) {
	if err := checkIdentity(identity); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[identity]
	return ok, nil
}

func (s *MemoryStore) Clear(ctx context.Context, identity string) error {
	if err := checkIdentity(identity); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identity)
	return nil
}

func (s *MemoryStore) Medium() tier.Medium { return s.medium }

func (s *MemoryStore) Close() error { return nil }
