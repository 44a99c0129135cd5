package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data      Data
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Expired entries are dropped
// lazily on Load and by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Save(ctx context.Context, id string, d Data, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry{data: d, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (Data, error) {
	_ = ctx
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Data{}, ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[id]; ok && !s.now().Before(cur.expiresAt) {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return Data{}, ErrNotFound
	}
	return e.data, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Sweep removes expired entries and reports how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
