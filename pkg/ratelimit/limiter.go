package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultMaxRequests = 30
	DefaultWindow      = time.Minute
)

// Limiter decides whether one more request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type windowEntry struct {
	count     int
	lastReset time.Time
}

// MemoryLimiter is a process-local fixed-window counter. Entries idle for two
// windows are dropped by a background janitor until Stop is called.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	max     int
	window  time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryLimiter(maxRequests int, window time.Duration) *MemoryLimiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &MemoryLimiter{
		entries: make(map[string]*windowEntry),
		max:     maxRequests,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.lastReset) > l.window {
		l.entries[key] = &windowEntry{count: 1, lastReset: now}
		return true, nil
	}
	if entry.count >= l.max {
		return false, nil
	}
	entry.count++
	return true, nil
}

func (l *MemoryLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *MemoryLimiter) janitor() {
	ticker := time.NewTicker(5 * l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *MemoryLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, entry := range l.entries {
		if now.Sub(entry.lastReset) > 2*l.window {
			delete(l.entries, key)
		}
	}
}

func (l *MemoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
