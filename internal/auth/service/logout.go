package service

import (
	"context"

	"medid/internal/audit"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/requestcontext"
)

// Logout revokes the caller's current token until it would have expired.
func (s *Service) Logout(ctx context.Context) error {
	principal, ok := requestcontext.PrincipalFrom(ctx)
	if !ok || principal.TokenID == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	ttl := principal.ExpiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		// already expired; nothing left to revoke
		return nil
	}
	if err := s.trl.RevokeToken(ctx, principal.TokenID, ttl); err != nil {
		return s.unexpected(ctx, err, "failed to revoke token")
	}

	s.emit(ctx, audit.Event{
		Action:     audit.EventLogout,
		IdentityID: principal.IdentityID,
		Role:       principal.Role,
		Subject:    principal.TokenID,
	})
	return nil
}

// IsTokenRevoked backs the authentication middleware's revocation check.
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.trl.IsRevoked(ctx, jti)
}
