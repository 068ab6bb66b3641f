package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medid/internal/auth/models"
	"medid/internal/auth/service"
	"medid/internal/auth/store/revocation"
	identityModels "medid/internal/identity/models"
	identityService "medid/internal/identity/service"
	jwttoken "medid/internal/jwt_token"
	"medid/internal/storage"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/requestcontext"
	"medid/pkg/secrets"
)

func TestLoginThenLogout(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.New()
	hasher := secrets.NewBcrypt(4)

	identities, err := identityService.New(store, store, store, hasher, identityService.WithLogger(logger))
	require.NoError(t, err)
	registered, err := identities.RegisterPatient(ctx, &identityModels.RegisterPatientRequest{
		Login: "ana", Secret: "pw123", DisplayName: "Ana", Contact: "ana@x.io",
	})
	require.NoError(t, err)

	jwt := jwttoken.NewJWTService("test-signing-key", "medid", "medid-api")
	trl := revocation.NewInMemoryTRL(nil)
	auth, err := service.New(store, store, hasher, jwt, trl, service.WithLogger(logger))
	require.NoError(t, err)

	_, err = auth.Login(ctx, &models.LoginRequest{Login: "ana", Secret: "wrong"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	result, err := auth.Login(ctx, &models.LoginRequest{Login: "ana", Secret: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, registered.IdentityID, result.Identity.ID)

	claims, err := jwt.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.IdentityID.String(), claims.IdentityID)
	assert.Equal(t, id.RolePatient.String(), claims.Role)
	assert.Equal(t, "Ana", claims.DisplayName)
	assert.WithinDuration(t, claims.IssuedAt.Add(2*time.Hour), claims.ExpiresAt.Time, time.Second)

	principalCtx := requestcontext.WithPrincipal(ctx, requestcontext.Principal{
		IdentityID: registered.IdentityID,
		Role:       id.RolePatient,
		TokenID:    claims.ID,
		ExpiresAt:  claims.ExpiresAt.Time,
	})
	require.NoError(t, auth.Logout(principalCtx))

	revoked, err := auth.IsTokenRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}
