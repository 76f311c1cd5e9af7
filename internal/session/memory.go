package session

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often Save scans for expired sessions.
const sweepInterval = time.Minute

type memoryEntry struct {
	state State
	seen  time.Time
}

// MemoryStore keeps sessions in process memory. An entry expires once it has
// not been saved for the store's TTL, matching RedisStore.
type MemoryStore struct {
	mu        sync.RWMutex
	states    map[string]memoryEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryStore returns an empty in-memory store. A zero ttl means DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		states: map[string]memoryEntry{},
		ttl:    ttl,
		now:    time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

// Get returns the state stored under id.
func (s *MemoryStore) Get(_ context.Context, id string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.states[id]
	if !ok || s.expired(entry, s.now()) {
		return State{}, ErrNotFound
	}
	return entry.state, nil
}

// Save replaces the state stored under id and refreshes its expiry.
func (s *MemoryStore) Save(_ context.Context, id string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		for key, entry := range s.states {
			if s.expired(entry, now) {
				delete(s.states, key)
			}
		}
		s.lastSweep = now
	}
	s.states[id] = memoryEntry{state: state, seen: now}
	return nil
}

// Delete removes the state stored under id.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

func (s *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return now.Sub(entry.seen) >= s.ttl
}
