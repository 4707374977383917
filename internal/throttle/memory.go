package throttle

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count           int
	windowStartedAt time.Time
}

// MemoryStore is a process-local throttle: a fixed window starts at an
// origin's first request and resets once it has fully elapsed. Suitable for
// single-instance deployments only.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*entry
	maxReqs    int
	window     time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore allows maxReqs per origin per window. Once the map holds
// more than maxEntries origins, expired entries are swept on the next call
// so memory stays bounded.
func NewMemoryStore(maxReqs int, window time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]*entry),
		maxReqs:    maxReqs,
		window:     window,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Admit(_ context.Context, originKey string) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > s.maxEntries {
		s.sweepLocked(now)
	}

	e, ok := s.entries[originKey]
	if !ok || now.Sub(e.windowStartedAt) > s.window {
		s.entries[originKey] = &entry{count: 1, windowStartedAt: now}
		return true, nil
	}

	e.count++
	return e.count <= s.maxReqs, nil
}

func (s *MemoryStore) RetryAfterSeconds() int {
	return int(s.window.Seconds())
}

// sweepLocked drops entries whose window has fully elapsed. Caller holds mu.
func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, e := range s.entries {
		if now.Sub(e.windowStartedAt) > s.window {
			delete(s.entries, key)
		}
	}
}
