package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps views in process. Views are stored encoded so callers
// never share a *View between requests. Expired views are swept on Save at
// most once per TTL, so views nobody reads again are still evicted.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*View, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if e.expired(s.now()) {
		s.mu.Lock()
		// A Save may have refreshed the entry since the read lock was dropped.
		if cur, ok := s.entries[id]; ok && cur.expired(s.now()) {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	var v View
	if err := json.Unmarshal(e.data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *MemoryStore) Save(_ context.Context, v *View) error {
	v.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	now := s.now()
	e := memoryEntry{data: data}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[v.ID] = e
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// sweep drops expired entries. Callers hold the write lock.
func (s *MemoryStore) sweep(now time.Time) {
	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
		}
	}
	s.lastSweep = now
}
