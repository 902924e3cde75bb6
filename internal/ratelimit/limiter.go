// Package ratelimit implements a fixed-window attempt counter keyed by
// (action, client). Counters live outside session state so pre-login
// throttling by IP works and limiter state survives session teardown.
package ratelimit

import (
	"sync"
	"time"
)

// Policy configures one rate-limited action
type Policy struct {
	Limit  int
	Window time.Duration
}

type counter struct {
	count         int
	windowResetAt time.Time
}

// Store tracks attempt counters per (action, client) pair. Windows are
// fixed, not sliding: bursts straddling a window boundary are accepted as a
// known approximation.
type Store struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time
}

// NewStore creates an empty counter store
func NewStore() *Store {
	return &Store{
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

func key(action, clientID string) string {
	return action + "\x00" + clientID
}

// CheckAndConsume returns true and increments the counter if the client has
// attempts left for the action in the current window. At the limit it
// returns false without incrementing. A missing or expired counter is reset
// to a fresh window before counting.
func (s *Store) CheckAndConsume(action, clientID string, p Policy) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	k := key(action, clientID)

	c, ok := s.counters[k]
	if !ok || now.After(c.windowResetAt) {
		c = &counter{windowResetAt: now.Add(p.Window)}
		s.counters[k] = c
	}

	if c.count >= p.Limit {
		return false
	}

	c.count++
	return true
}

// Purge drops counters whose window has expired
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, c := range s.counters {
		if now.After(c.windowResetAt) {
			delete(s.counters, k)
		}
	}
}
