package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks CredentialStore,IdentityStore,SecretVerifier,TokenIssuer,RevocationList,LoginLimiter,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"medid/internal/audit"
	"medid/internal/auth/models"
	"medid/internal/auth/service/mocks"
	identityModels "medid/internal/identity/models"
	rlModels "medid/internal/ratelimit/models"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/sentinel"
	"medid/pkg/requestcontext"
	"medid/pkg/secrets"
)

// AuthServiceSuite covers the login outcomes that decide which error a
// client sees and whether a token is ever signed.
type AuthServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	credentials *mocks.MockCredentialStore
	identities  *mocks.MockIdentityStore
	verifier    *mocks.MockSecretVerifier
	tokens      *mocks.MockTokenIssuer
	trl         *mocks.MockRevocationList
	publisher   *mocks.MockAuditPublisher
	service     *Service
	now         time.Time
	ctx         context.Context
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.credentials = mocks.NewMockCredentialStore(s.ctrl)
	s.identities = mocks.NewMockIdentityStore(s.ctrl)
	s.verifier = mocks.NewMockSecretVerifier(s.ctrl)
	s.tokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.trl = mocks.NewMockRevocationList(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)

	var err error
	s.service, err = New(s.credentials, s.identities, s.verifier, s.tokens, s.trl,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.publisher),
	)
	s.Require().NoError(err)
	s.now = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *AuthServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthServiceSuite) TestNew() {
	_, err := New(nil, s.identities, s.verifier, s.tokens, s.trl)
	s.ErrorContains(err, "credential store is required")
	_, err = New(s.credentials, s.identities, s.verifier, s.tokens, nil)
	s.ErrorContains(err, "revocation list is required")
}

func (s *AuthServiceSuite) TestLogin() {
	cred := &identityModels.Credential{ID: id.CredentialID(uuid.New()), Login: "dr1", SecretHash: "$hash"}
	identity := &identityModels.Identity{
		ID: id.IdentityID(uuid.New()), CredentialID: cred.ID, Role: id.RoleMedical, DisplayName: "Dr One",
	}

	s.Run("issues a two hour token", func() {
		s.credentials.EXPECT().FindCredentialByLogin(gomock.Any(), "dr1").Return(cred, nil)
		s.verifier.EXPECT().Verify("pw123", "$hash").Return(nil)
		s.identities.EXPECT().FindIdentityByCredential(gomock.Any(), cred.ID).Return(identity, nil)
		s.tokens.EXPECT().GenerateAccessToken(identity.ID, "Dr One", id.RoleMedical, s.now, 2*time.Hour).
			Return("signed", "jti-1", nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(audit.EventLoginSucceeded, e.Action)
			s.Equal(identity.ID, e.IdentityID)
			return nil
		})

		result, err := s.service.Login(s.ctx, &models.LoginRequest{Login: " dr1 ", Secret: "pw123"})
		s.Require().NoError(err)
		s.Equal("signed", result.AccessToken)
		s.Equal(models.TokenTypeBearer, result.TokenType)
		s.Equal(s.now.Add(2*time.Hour), result.ExpiresAt)
		s.Equal(identity, result.Identity)
	})

	s.Run("unknown login is not found", func() {
		s.credentials.EXPECT().FindCredentialByLogin(gomock.Any(), "ghost").Return(nil, sentinel.ErrNotFound)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.service.Login(s.ctx, &models.LoginRequest{Login: "ghost", Secret: "pw123"})
		s.Nil(result)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("wrong secret is unauthorized and signs nothing", func() {
		s.credentials.EXPECT().FindCredentialByLogin(gomock.Any(), "dr1").Return(cred, nil)
		s.verifier.EXPECT().Verify("nope", "$hash").Return(secrets.ErrMismatch)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(audit.EventLoginFailed, e.Action)
			s.Equal(loginResultBadSecret, e.Reason)
			return nil
		})

		_, err := s.service.Login(s.ctx, &models.LoginRequest{Login: "dr1", Secret: "nope"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("credential without identity is not found", func() {
		s.credentials.EXPECT().FindCredentialByLogin(gomock.Any(), "dr1").Return(cred, nil)
		s.verifier.EXPECT().Verify("pw123", "$hash").Return(nil)
		s.identities.EXPECT().FindIdentityByCredential(gomock.Any(), cred.ID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Login(s.ctx, &models.LoginRequest{Login: "dr1", Secret: "pw123"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure is opaque", func() {
		s.credentials.EXPECT().FindCredentialByLogin(gomock.Any(), "dr1").Return(nil, errors.New("connection reset"))

		_, err := s.service.Login(s.ctx, &models.LoginRequest{Login: "dr1", Secret: "pw123"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("missing secret is a validation error", func() {
		_, err := s.service.Login(s.ctx, &models.LoginRequest{Login: "dr1"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AuthServiceSuite) TestLoginLockout() {
	limiter := mocks.NewMockLoginLimiter(s.ctrl)
	svc, err := New(s.credentials, s.identities, s.verifier, s.tokens, s.trl,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.publisher),
		WithLoginLimiter(limiter),
	)
	s.Require().NoError(err)
	ctx := requestcontext.WithClientMetadata(s.ctx, "10.1.2.3", "curl/8.0")
	cred := &identityModels.Credential{ID: id.CredentialID(uuid.New()), Login: "dr1", SecretHash: "$hash"}

	s.Run("locked pair is rejected before any lookup", func() {
		limiter.EXPECT().Check(gomock.Any(), "dr1", "10.1.2.3").
			Return(&rlModels.LockoutResult{Allowed: false, RetryAfter: 120}, nil)

		_, err := svc.Login(ctx, &models.LoginRequest{Login: "dr1", Secret: "pw123"})
		s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
		s.ErrorContains(err, "120 seconds")
	})

	s.Run("failure is recorded against the pair", func() {
		limiter.EXPECT().Check(gomock.Any(), "dr1", "10.1.2.3").Return(&rlModels.LockoutResult{Allowed: true}, nil)
		s.credentials.EXPECT().FindCredentialByLogin(gomock.Any(), "dr1").Return(cred, nil)
		s.verifier.EXPECT().Verify("nope", "$hash").Return(secrets.ErrMismatch)
		limiter.EXPECT().RecordFailure(gomock.Any(), "dr1", "10.1.2.3").Return(&rlModels.Lockout{FailureCount: 1}, nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Login(ctx, &models.LoginRequest{Login: "dr1", Secret: "nope"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("success clears failures", func() {
		identity := &identityModels.Identity{ID: id.IdentityID(uuid.New()), CredentialID: cred.ID, Role: id.RoleMedical}
		limiter.EXPECT().Check(gomock.Any(), "dr1", "10.1.2.3").Return(&rlModels.LockoutResult{Allowed: true}, nil)
		s.credentials.EXPECT().FindCredentialByLogin(gomock.Any(), "dr1").Return(cred, nil)
		s.verifier.EXPECT().Verify("pw123", "$hash").Return(nil)
		s.identities.EXPECT().FindIdentityByCredential(gomock.Any(), cred.ID).Return(identity, nil)
		s.tokens.EXPECT().GenerateAccessToken(identity.ID, "", id.RoleMedical, s.now, 2*time.Hour).Return("signed", "jti", nil)
		limiter.EXPECT().Clear(gomock.Any(), "dr1", "10.1.2.3").Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Login(ctx, &models.LoginRequest{Login: "dr1", Secret: "pw123"})
		s.NoError(err)
	})

	s.Run("lockout store outage fails open", func() {
		limiter.EXPECT().Check(gomock.Any(), "ghost", "10.1.2.3").Return(nil, errors.New("db down"))
		s.credentials.EXPECT().FindCredentialByLogin(gomock.Any(), "ghost").Return(nil, sentinel.ErrNotFound)
		limiter.EXPECT().RecordFailure(gomock.Any(), "ghost", "10.1.2.3").Return(nil, errors.New("db down"))
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Login(ctx, &models.LoginRequest{Login: "ghost", Secret: "pw123"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *AuthServiceSuite) TestLogout() {
	principal := requestcontext.Principal{
		IdentityID: id.IdentityID(uuid.New()),
		Role:       id.RolePatient,
		TokenID:    "jti-9",
		ExpiresAt:  s.now.Add(90 * time.Minute),
	}

	s.Run("revokes until the token expires", func() {
		s.trl.EXPECT().RevokeToken(gomock.Any(), "jti-9", 90*time.Minute).Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		s.NoError(s.service.Logout(requestcontext.WithPrincipal(s.ctx, principal)))
	})

	s.Run("expired token needs no entry", func() {
		expired := principal
		expired.ExpiresAt = s.now.Add(-time.Minute)
		s.NoError(s.service.Logout(requestcontext.WithPrincipal(s.ctx, expired)))
	})

	s.Run("anonymous caller is unauthorized", func() {
		s.True(dErrors.HasCode(s.service.Logout(s.ctx), dErrors.CodeUnauthorized))
	})

	s.Run("revocation failure is internal", func() {
		s.trl.EXPECT().RevokeToken(gomock.Any(), "jti-9", gomock.Any()).Return(errors.New("redis down"))
		err := s.service.Logout(requestcontext.WithPrincipal(s.ctx, principal))
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
