package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore is the single-process fallback used when Redis is disabled.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     normalizeTTL(ttl),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, token string) (string, error) {
	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired(now)
	s.entries[id] = memoryEntry{token: token, expiresAt: now.Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return "", false, nil
	}
	return entry.token, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) evictExpired(now time.Time) {
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
