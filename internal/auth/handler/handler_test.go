package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medid/internal/auth/service"
	"medid/internal/auth/store/revocation"
	identityModels "medid/internal/identity/models"
	identityService "medid/internal/identity/service"
	jwttoken "medid/internal/jwt_token"
	"medid/internal/storage"
	id "medid/pkg/domain"
	"medid/pkg/secrets"
	"medid/pkg/testutil"
)

func newAuthRouter(t *testing.T) (http.Handler, *revocation.InMemoryTRL) {
	t.Helper()
	store := storage.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := secrets.NewBcrypt(4)

	identities, err := identityService.New(store, store, store, hasher, identityService.WithLogger(logger))
	require.NoError(t, err)
	_, err = identities.RegisterMedical(context.Background(), &identityModels.RegisterMedicalRequest{
		Login: "dr1", Secret: "pw123", DisplayName: "Dr One", Contact: "dr1@clinic.io",
		LicenseNumber: "LIC-9", Specialty: "cardiology", Institution: "General Hospital",
	})
	require.NoError(t, err)

	trl := revocation.NewInMemoryTRL(nil)
	svc, err := service.New(store, store, hasher, jwttoken.NewJWTService("k", "medid", "medid-api"), trl,
		service.WithLogger(logger))
	require.NoError(t, err)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.RegisterPublic(r)
	h.RegisterAuthenticated(r)
	return r, trl
}

func TestLogin(t *testing.T) {
	router, _ := newAuthRouter(t)

	t.Run("valid credentials", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"login": "dr1", "secret": "pw123"}))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

		resp := testutil.UnmarshalResponse[loginResponse](t, rr)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.EqualValues(t, (2 * time.Hour).Seconds(), resp.ExpiresIn)
		assert.Equal(t, id.RoleMedical, resp.Identity.Role)
		assert.Equal(t, "dr1@clinic.io", resp.Identity.Contact)
	})

	t.Run("wrong secret", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"login": "dr1", "secret": "nope"}))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("unknown login", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"login": "ghost", "secret": "pw123"}))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"login": "dr1"}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})
}

func TestLogout(t *testing.T) {
	router, trl := newAuthRouter(t)

	req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodPost, "/auth/logout"), id.IdentityID{}, id.RolePatient)
	rr := testutil.DoRequest(router, req)
	// WithPrincipal sets no expiry, so there is nothing left to revoke
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/auth/logout"))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")

	revoked, err := trl.IsRevoked(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, revoked)
}
