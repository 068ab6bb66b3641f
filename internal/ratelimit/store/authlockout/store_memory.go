// Package authlockout persists failed-login counters. Stores are pure I/O; the
// lockout policy lives in the service.
package authlockout

import (
	"context"
	"sync"
	"time"

	"medid/internal/ratelimit/models"
)

type InMemoryAuthLockoutStore struct {
	mu      sync.Mutex
	records map[string]*models.Lockout
}

func New() *InMemoryAuthLockoutStore {
	return &InMemoryAuthLockoutStore{records: make(map[string]*models.Lockout)}
}

// Get returns nil, nil for an unknown identifier.
func (s *InMemoryAuthLockoutStore) Get(_ context.Context, identifier string) (*models.Lockout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[identifier]; ok {
		return clone(r), nil
	}
	return nil, nil
}

// RecordFailure increments the counter, restarting it when the previous
// failure is older than window.
func (s *InMemoryAuthLockoutStore) RecordFailure(_ context.Context, identifier string, now time.Time, window time.Duration) (*models.Lockout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[identifier]
	if !ok {
		r = &models.Lockout{Identifier: identifier}
		s.records[identifier] = r
	}
	if r.WindowExpiredAt(now, window) {
		r.FailureCount = 0
	}
	r.FailureCount++
	r.LastFailureAt = now
	return clone(r), nil
}

func (s *InMemoryAuthLockoutStore) Lock(_ context.Context, identifier string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[identifier]; ok {
		r.LockedUntil = &until
	}
	return nil
}

func (s *InMemoryAuthLockoutStore) Clear(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identifier)
	return nil
}

func clone(r *models.Lockout) *models.Lockout {
	c := *r
	if r.LockedUntil != nil {
		t := *r.LockedUntil
		c.LockedUntil = &t
	}
	return &c
}
