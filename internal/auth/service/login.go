package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"medid/internal/audit"
	"medid/internal/auth/device"
	"medid/internal/auth/models"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/sentinel"
	"medid/pkg/requestcontext"
	"medid/pkg/secrets"
)

const (
	loginResultSuccess      = "success"
	loginResultUnknownLogin = "unknown_login"
	loginResultBadSecret    = "bad_secret"
	loginResultLocked       = "locked"
	loginResultError        = "error"
)

// Login verifies the secret for a login and issues an access token.
// An unknown login is NotFound and a wrong secret Unauthorized; no token is
// issued in either case.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userAgent := requestcontext.UserAgent(ctx)
	clientIP := requestcontext.ClientIP(ctx)
	if err := s.checkLockout(ctx, req.Login, clientIP); err != nil {
		return nil, err
	}

	failed := func(reason string) {
		s.recordFailure(ctx, req.Login, clientIP)
		s.metrics.IncLogin(reason)
		s.emit(ctx, audit.Event{
			Action:  audit.EventLoginFailed,
			Subject: req.Login,
			Reason:  reason,
			Device:  device.ParseUserAgent(userAgent),
		})
	}

	cred, err := s.credentials.FindCredentialByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			failed(loginResultUnknownLogin)
			return nil, dErrors.New(dErrors.CodeNotFound, "login not found")
		}
		span.SetStatus(codes.Error, "credential lookup failed")
		s.metrics.IncLogin(loginResultError)
		return nil, s.unexpected(ctx, err, "failed to load credential")
	}

	if err := s.verifier.Verify(req.Secret, cred.SecretHash); err != nil {
		if errors.Is(err, secrets.ErrMismatch) {
			failed(loginResultBadSecret)
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		span.SetStatus(codes.Error, "secret verification failed")
		s.metrics.IncLogin(loginResultError)
		return nil, s.unexpected(ctx, err, "failed to verify secret")
	}

	identity, err := s.identities.FindIdentityByCredential(ctx, cred.ID)
	if err != nil {
		s.metrics.IncLogin(loginResultError)
		if errors.Is(err, sentinel.ErrNotFound) {
			// credential without identity: the registration transaction should
			// have made this impossible
			s.logger.ErrorContext(ctx, "credential has no identity",
				"request_id", requestcontext.RequestID(ctx),
				"credential_id", cred.ID.String(),
			)
			span.SetStatus(codes.Error, "orphaned credential")
			return nil, dErrors.New(dErrors.CodeNotFound, "identity not found")
		}
		span.SetStatus(codes.Error, "identity lookup failed")
		return nil, s.unexpected(ctx, err, "failed to load identity")
	}

	issuedAt := requestcontext.Now(ctx)
	token, jti, err := s.tokens.GenerateAccessToken(identity.ID, identity.DisplayName, identity.Role, issuedAt, s.tokenTTL)
	if err != nil {
		span.SetStatus(codes.Error, "token signing failed")
		s.metrics.IncLogin(loginResultError)
		return nil, s.unexpected(ctx, err, "failed to issue access token")
	}

	s.clearFailures(ctx, req.Login, clientIP)
	span.SetAttributes(
		attribute.String("identity_id", identity.ID.String()),
		attribute.String("role", identity.Role.String()),
	)
	s.metrics.IncLogin(loginResultSuccess)
	s.logger.InfoContext(ctx, "login succeeded",
		"request_id", requestcontext.RequestID(ctx),
		"identity_id", identity.ID.String(),
		"role", identity.Role.String(),
	)
	s.emit(ctx, audit.Event{
		Action:            audit.EventLoginSucceeded,
		IdentityID:        identity.ID,
		Role:              identity.Role,
		Subject:           jti,
		Device:            device.ParseUserAgent(userAgent),
		DeviceFingerprint: s.devices.ComputeFingerprint(userAgent),
	})

	return &models.LoginResult{
		AccessToken: token,
		TokenType:   models.TokenTypeBearer,
		TokenID:     jti,
		ExpiresAt:   issuedAt.Add(s.tokenTTL),
		ExpiresIn:   s.tokenTTL,
		Identity:    identity,
	}, nil
}

// checkLockout fails open when the lockout store is unavailable.
func (s *Service) checkLockout(ctx context.Context, login, ip string) error {
	if s.limiter == nil {
		return nil
	}
	result, err := s.limiter.Check(ctx, login, ip)
	if err != nil {
		s.logger.WarnContext(ctx, "login lockout check failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil
	}
	if result.Allowed {
		return nil
	}
	s.metrics.IncLogin(loginResultLocked)
	return dErrors.New(dErrors.CodeRateLimited,
		fmt.Sprintf("too many failed login attempts, retry in %d seconds", result.RetryAfter))
}

func (s *Service) recordFailure(ctx context.Context, login, ip string) {
	if s.limiter == nil {
		return
	}
	if _, err := s.limiter.RecordFailure(ctx, login, ip); err != nil {
		s.logger.WarnContext(ctx, "failed to record login failure", "error", err)
	}
}

func (s *Service) clearFailures(ctx context.Context, login, ip string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Clear(ctx, login, ip); err != nil {
		s.logger.WarnContext(ctx, "failed to clear login failures", "error", err)
	}
}

func (s *Service) unexpected(ctx context.Context, err error, msg string) error {
	s.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
