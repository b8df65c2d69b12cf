package session

import (
	"context"
	"sync"
	"time"

	"vocabquiz/internal/stats"
)

type memoryEntry struct {
	stats          stats.Stats
	lastAccessTime time.Time
}

// MemoryStore keeps sessions in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (stats.Stats, error) {
	if !ValidID(id) {
		return stats.Stats{}, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return stats.Stats{}, ErrNotFound
	}
	entry.lastAccessTime = s.now()
	return entry.stats, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, st stats.Stats) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	s.mu.Lock()
	s.sessions[id] = &memoryEntry{stats: st, lastAccessTime: s.now()}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Cleanup drops sessions not touched within maxAge.
func (s *MemoryStore) Cleanup(maxAge time.Duration) (int, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.sessions {
		if entry.lastAccessTime.IsZero() || now.Sub(entry.lastAccessTime) > maxAge {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
