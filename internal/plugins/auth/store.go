package auth

import (
	"context"
	"sync"
	"time"
)

// ViewStore keeps each form instance's presentation state between requests
// and guards against two submissions of the same instance running at once.
type ViewStore interface {
	// Load returns the stored view for an instance. found is false if the
	// instance is unknown or expired.
	Load(ctx context.Context, id string) (v View, found bool, err error)

	// Save stores the view and refreshes its TTL.
	Save(ctx context.Context, id string, v View) error

	// AcquireSubmit marks a submission of the instance as in flight. It
	// returns false if one already is.
	AcquireSubmit(ctx context.Context, id string) (bool, error)

	// ReleaseSubmit clears the in-flight mark.
	ReleaseSubmit(ctx context.Context, id string) error
}

type memoryEntry struct {
	view      View
	expiresAt time.Time
}

// memoryStore is a process-local ViewStore for single-instance deployments
// and development.
type memoryStore struct {
	mu      sync.Mutex
	views   map[string]memoryEntry
	pending map[string]time.Time
	ttl     time.Duration
	lockTTL time.Duration
	now     func() time.Time

	// lastSweep is when expired entries were last dropped. Sweeps run at
	// most once per ttl.
	lastSweep time.Time
}

// NewMemoryStore creates an in-memory ViewStore. Views expire after ttl of
// inactivity; an in-flight mark is dropped after lockTTL even if never
// released.
func NewMemoryStore(ttl, lockTTL time.Duration) ViewStore {
	return &memoryStore{
		views:   make(map[string]memoryEntry),
		pending: make(map[string]time.Time),
		ttl:     ttl,
		lockTTL: lockTTL,
		now:     time.Now,
	}
}

func (s *memoryStore) Load(_ context.Context, id string) (View, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.views[id]
	if !ok {
		return View{}, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.views, id)
		return View{}, false, nil
	}
	return entry.view, true, nil
}

func (s *memoryStore) Save(_ context.Context, id string, v View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.views[id] = memoryEntry{view: v, expiresAt: now.Add(s.ttl)}

	if now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
	}
	return nil
}

// sweep drops expired views and lapsed in-flight marks. Caller holds s.mu.
func (s *memoryStore) sweep(now time.Time) {
	for key, entry := range s.views {
		if !now.Before(entry.expiresAt) {
			delete(s.views, key)
		}
	}
	for key, until := range s.pending {
		if !now.Before(until) {
			delete(s.pending, key)
		}
	}
	s.lastSweep = now
}

func (s *memoryStore) AcquireSubmit(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, ok := s.pending[id]; ok && now.Before(until) {
		return false, nil
	}
	s.pending[id] = now.Add(s.lockTTL)
	return true, nil
}

func (s *memoryStore) ReleaseSubmit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	return nil
}
