package models

import (
	"time"
)

// Result is the outcome of a sliding window check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is in seconds and only set when not allowed.
	RetryAfter int
}

// Limit is a request budget over a sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// LockoutPolicy bounds failed logins for one login and client address.
type LockoutPolicy struct {
	// Attempts is the number of failures tolerated inside Window.
	Attempts int
	Window   time.Duration
	// LockDuration is how long the pair stays locked once Attempts is reached.
	LockDuration time.Duration
}

// DefaultLockoutPolicy allows five failures per fifteen minutes.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{Attempts: 5, Window: 15 * time.Minute, LockDuration: 15 * time.Minute}
}

// Lockout tracks failed logins for one key.
type Lockout struct {
	Identifier    string
	FailureCount  int
	LastFailureAt time.Time
	LockedUntil   *time.Time
}

// IsLockedAt reports whether the lock is still in force at now.
func (l *Lockout) IsLockedAt(now time.Time) bool {
	return l.LockedUntil != nil && now.Before(*l.LockedUntil)
}

// WindowExpiredAt reports whether the failures are older than the window and
// should no longer count.
func (l *Lockout) WindowExpiredAt(now time.Time, window time.Duration) bool {
	return !l.LastFailureAt.IsZero() && now.Sub(l.LastFailureAt) >= window
}

// ShouldLock reports whether the failure count has reached the threshold.
func (l *Lockout) ShouldLock(attempts int) bool {
	return attempts > 0 && l.FailureCount >= attempts
}

func (l *Lockout) ApplyLock(d time.Duration, now time.Time) {
	until := now.Add(d)
	l.LockedUntil = &until
}

// LockoutResult is the outcome of a lockout check.
type LockoutResult struct {
	Allowed      bool
	FailureCount int
	Remaining    int
	RetryAfter   int
}
