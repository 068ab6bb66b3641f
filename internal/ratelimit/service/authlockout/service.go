// Package authlockout locks a login and client address pair after repeated
// failed logins.
package authlockout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"medid/internal/audit"
	"medid/internal/platform/metrics"
	"medid/internal/ratelimit/models"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/requestcontext"
)

type Store interface {
	Get(ctx context.Context, identifier string) (*models.Lockout, error)
	RecordFailure(ctx context.Context, identifier string, now time.Time, window time.Duration) (*models.Lockout, error)
	Lock(ctx context.Context, identifier string, until time.Time) error
	Clear(ctx context.Context, identifier string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

type Service struct {
	store          Store
	policy         models.LockoutPolicy
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPolicy(p models.LockoutPolicy) Option {
	return func(s *Service) {
		if p.Attempts > 0 && p.Window > 0 && p.LockDuration > 0 {
			s.policy = p
		}
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth lockout store is required")
	}
	s := &Service{
		store:  store,
		policy: models.DefaultLockoutPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Policy() models.LockoutPolicy { return s.policy }

// Check reports whether another login attempt is allowed for the pair.
func (s *Service) Check(ctx context.Context, login, ip string) (*models.LockoutResult, error) {
	record, err := s.store.Get(ctx, models.NewLockoutKey(login, ip))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get auth lockout record")
	}
	// a zero record keeps the same code path for unknown pairs
	if record == nil {
		record = &models.Lockout{}
	}

	now := requestcontext.Now(ctx)
	if record.WindowExpiredAt(now, s.policy.Window) && !record.IsLockedAt(now) {
		record.FailureCount = 0
	}

	switch {
	case record.IsLockedAt(now):
		return &models.LockoutResult{
			Allowed:      false,
			FailureCount: record.FailureCount,
			RetryAfter:   seconds(record.LockedUntil.Sub(now)),
		}, nil
	case record.ShouldLock(s.policy.Attempts):
		return &models.LockoutResult{
			Allowed:      false,
			FailureCount: record.FailureCount,
			RetryAfter:   seconds(record.LastFailureAt.Add(s.policy.Window).Sub(now)),
		}, nil
	}
	return &models.LockoutResult{
		Allowed:      true,
		FailureCount: record.FailureCount,
		Remaining:    s.policy.Attempts - record.FailureCount,
	}, nil
}

// RecordFailure counts a failed login and locks the pair once the policy
// threshold is reached.
func (s *Service) RecordFailure(ctx context.Context, login, ip string) (*models.Lockout, error) {
	key := models.NewLockoutKey(login, ip)
	now := requestcontext.Now(ctx)

	record, err := s.store.RecordFailure(ctx, key, now, s.policy.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record auth failure")
	}
	if !record.ShouldLock(s.policy.Attempts) || record.IsLockedAt(now) {
		return record, nil
	}

	record.ApplyLock(s.policy.LockDuration, now)
	if err := s.store.Lock(ctx, key, *record.LockedUntil); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock auth identifier")
	}
	s.logger.WarnContext(ctx, "login locked",
		"request_id", requestcontext.RequestID(ctx),
		"login", login,
		"failures", record.FailureCount,
		"locked_until", *record.LockedUntil,
	)
	s.metrics.IncRateLimited("login_lockout")
	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{
			Action:  audit.EventLoginLocked,
			Subject: login,
			Reason:  "too_many_failures",
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to emit audit event", "action", audit.EventLoginLocked, "error", err)
		}
	}
	return record, nil
}

// Clear forgets failures after a successful login.
func (s *Service) Clear(ctx context.Context, login, ip string) error {
	if err := s.store.Clear(ctx, models.NewLockoutKey(login, ip)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear auth failures")
	}
	return nil
}

func seconds(d time.Duration) int {
	secs := int(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	return max(secs, 0)
}
