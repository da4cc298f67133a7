package sessionstore

import (
	"context"
	"sync"
	"time"
)

// memoryStore keeps snapshots in a map guarded by a mutex.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[Key]*Snapshot
	now      func() time.Time
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{
		sessions: make(map[Key]*Snapshot),
		now:      now,
	}
}

func (s *memoryStore) Get(ctx context.Context, key Key) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sessions == nil {
		return nil, ErrClosed
	}
	stored, ok := s.sessions[key]
	if !ok {
		return nil, ErrNotFound.Msg("no snapshot for " + key.String())
	}
	return stored.Clone(), nil
}

func (s *memoryStore) Put(ctx context.Context, snap *Snapshot) (bool, error) {
	if !snap.Key.valid() {
		return false, ErrInvalidKey.Msg("incomplete session key " + snap.Key.String())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions == nil {
		return false, ErrClosed
	}
	prev := s.sessions[snap.Key]
	merged := snap.Merge(prev)
	if prev != nil && prev.Hash() == merged.Hash() && prev.Equal(merged) {
		return false, nil
	}
	merged.UpdatedAt = s.now()
	s.sessions[snap.Key] = merged
	return true, nil
}

func (s *memoryStore) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions == nil {
		return ErrClosed
	}
	delete(s.sessions, key)
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}
