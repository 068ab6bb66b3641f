// Package service authenticates credentials and issues and revokes access
// tokens.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"medid/internal/audit"
	"medid/internal/auth/device"
	identityModels "medid/internal/identity/models"
	"medid/internal/platform/metrics"
	rlModels "medid/internal/ratelimit/models"
	id "medid/pkg/domain"
)

type CredentialStore interface {
	FindCredentialByLogin(ctx context.Context, login string) (*identityModels.Credential, error)
}

type IdentityStore interface {
	FindIdentityByCredential(ctx context.Context, credentialID id.CredentialID) (*identityModels.Identity, error)
}

type SecretVerifier interface {
	Verify(secret, hash string) error
}

type TokenIssuer interface {
	GenerateAccessToken(identityID id.IdentityID, displayName string, role id.Role, issuedAt time.Time, expiresIn time.Duration) (string, string, error)
}

// RevocationList records tokens revoked before their expiry.
type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// LoginLimiter locks out a login and client address after repeated failures.
type LoginLimiter interface {
	Check(ctx context.Context, login, ip string) (*rlModels.LockoutResult, error)
	RecordFailure(ctx context.Context, login, ip string) (*rlModels.Lockout, error)
	Clear(ctx context.Context, login, ip string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service handles login and logout.
type Service struct {
	credentials    CredentialStore
	identities     IdentityStore
	verifier       SecretVerifier
	tokens         TokenIssuer
	trl            RevocationList
	devices        *device.Service
	limiter        LoginLimiter
	tokenTTL       time.Duration
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
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

// WithTokenTTL overrides the access token validity.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithDeviceService records device fingerprints on login events.
func WithDeviceService(d *device.Service) Option {
	return func(s *Service) {
		s.devices = d
	}
}

func WithLoginLimiter(l LoginLimiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

func New(
	credentials CredentialStore,
	identities IdentityStore,
	verifier SecretVerifier,
	tokens TokenIssuer,
	trl RevocationList,
	opts ...Option,
) (*Service, error) {
	switch {
	case credentials == nil:
		return nil, errors.New("credential store is required")
	case identities == nil:
		return nil, errors.New("identity store is required")
	case verifier == nil:
		return nil, errors.New("secret verifier is required")
	case tokens == nil:
		return nil, errors.New("token issuer is required")
	case trl == nil:
		return nil, errors.New("revocation list is required")
	}
	s := &Service{
		credentials: credentials,
		identities:  identities,
		verifier:    verifier,
		tokens:      tokens,
		trl:         trl,
		devices:     device.NewService(false),
		tokenTTL:    2 * time.Hour,
		logger:      slog.Default(),
		tracer:      otel.Tracer("medid/auth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TokenTTL is the validity of issued access tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
