//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"medid/internal/certification/models"
	"medid/internal/certification/store"
	identityModels "medid/internal/identity/models"
	identityStore "medid/internal/identity/store"
	id "medid/pkg/domain"
	"medid/pkg/platform/sentinel"
	"medid/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg         *containers.PostgresContainer
	store      *store.PostgresStore
	identities *identityStore.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.pg.DB)
	s.identities = identityStore.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(),
		"certification_requests", "administrators", "medical_profiles", "patient_profiles", "identities", "credentials"))
}

func (s *PostgresStoreSuite) identity(ctx context.Context, login string, role id.Role) *identityModels.Identity {
	cred := &identityModels.Credential{ID: id.CredentialID(uuid.New()), Login: login, SecretHash: "h", CreatedAt: time.Now()}
	ident := &identityModels.Identity{ID: id.IdentityID(uuid.New()), CredentialID: cred.ID, Role: role, DisplayName: login, Contact: login + "@x.io", CreatedAt: time.Now()}
	s.Require().NoError(s.identities.CreateCredential(ctx, cred))
	s.Require().NoError(s.identities.CreateIdentity(ctx, ident))
	return ident
}

func (s *PostgresStoreSuite) TestLifecycle() {
	ctx := context.Background()
	submitter := s.identity(ctx, "dr1", id.RoleMedical)
	root := s.identity(ctx, "root", id.RoleAdministrator)
	admin := &identityModels.Administrator{ID: id.AdminID(uuid.New()), IdentityID: root.ID, AccessLevel: "full"}
	s.Require().NoError(s.identities.CreateAdministrator(ctx, admin))

	created := time.Now().UTC().Truncate(time.Microsecond)
	req := &models.Request{
		ID:            id.RequestID(uuid.New()),
		IdentityID:    submitter.ID,
		LicenseNumber: "LIC-9",
		Specialty:     "cardiology",
		Institution:   "General",
		Status:        models.StatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	s.Require().NoError(s.store.CreateRequest(ctx, req))

	view, err := s.store.FindRequestView(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal("dr1", view.SubmitterName)
	s.Empty(view.DocumentURL)
	s.Nil(view.ReviewedBy)

	reviewed := created.Add(time.Minute)
	req.Status = models.StatusApproved
	req.ReviewedBy = &admin.ID
	req.ReviewedAt = &reviewed
	req.ReviewComments = "ok"
	req.UpdatedAt = reviewed
	s.Require().NoError(s.store.UpdateRequest(ctx, req))

	view, err = s.store.FindRequestView(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, view.Status)
	s.Equal(admin.ID, *view.ReviewedBy)
	s.Equal("full", view.ReviewerAccessLevel)
	s.Equal("ok", view.ReviewComments)

	ghost := id.AdminID(uuid.New())
	req.ReviewedBy = &ghost
	s.ErrorIs(s.store.UpdateRequest(ctx, req), sentinel.ErrInvalidState)

	s.Require().NoError(s.store.DeleteRequest(ctx, req.ID))
	s.ErrorIs(s.store.DeleteRequest(ctx, req.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListNewestFirst() {
	ctx := context.Background()
	submitter := s.identity(ctx, "dr2", id.RoleMedical)
	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		s.Require().NoError(s.store.CreateRequest(ctx, &models.Request{
			ID: id.RequestID(uuid.New()), IdentityID: submitter.ID, LicenseNumber: "L", Specialty: "S", Institution: "I",
			Status: models.StatusPending, CreatedAt: at, UpdatedAt: at,
		}))
	}

	views, err := s.store.ListRequestViews(ctx)
	s.Require().NoError(err)
	s.Require().Len(views, 3)
	s.True(views[0].CreatedAt.After(views[1].CreatedAt))
	s.True(views[1].CreatedAt.After(views[2].CreatedAt))
}

func (s *PostgresStoreSuite) TestRequestsBelongToExistingIdentities() {
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Microsecond)
	newRequest := func(owner id.IdentityID) *models.Request {
		return &models.Request{
			ID: id.RequestID(uuid.New()), IdentityID: owner, LicenseNumber: "L", Specialty: "S", Institution: "I",
			Status: models.StatusPending, CreatedAt: at, UpdatedAt: at,
		}
	}

	s.Run("unknown submitter is rejected", func() {
		err := s.store.CreateRequest(ctx, newRequest(id.IdentityID(uuid.New())))
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("submitter with history cannot be deleted", func() {
		submitter := s.identity(ctx, "dr3", id.RoleMedical)
		req := newRequest(submitter.ID)
		s.Require().NoError(s.store.CreateRequest(ctx, req))

		s.ErrorIs(s.identities.DeleteIdentity(ctx, submitter.ID), sentinel.ErrInvalidState)
		_, err := s.store.FindRequest(ctx, req.ID)
		s.NoError(err)
	})
}

func (s *PostgresStoreSuite) TestStatementTimeout() {
	bounded := store.NewPostgres(s.pg.DB, store.WithTimeout(time.Nanosecond))
	_, err := bounded.ListRequestViews(context.Background())
	s.ErrorIs(err, context.DeadlineExceeded)
}
