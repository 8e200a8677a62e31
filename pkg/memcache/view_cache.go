package mem

import (
	"strings"
	"sync"
	"time"
)

// ViewCache holds rendered read models for a short time. Writers invalidate
// the keys they affect.
type ViewCache interface {
	Set(key string, value any, ttl time.Duration)

	// Get returns the value for key if present and not expired.
	Get(key string) (any, bool)

	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(prefix string)
}

type entry struct {
	value     any
	expiresAt time.Time
}

type MemoryViewCache struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewViewCache() *MemoryViewCache {
	return &MemoryViewCache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *MemoryViewCache) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *MemoryViewCache) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.data[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *MemoryViewCache) DeletePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
}
