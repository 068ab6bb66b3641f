package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Directory,DocumentAttacher,AuditPublisher

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

	"medid/internal/certification/models"
	"medid/internal/certification/service/mocks"
	"medid/internal/documents"
	identityModels "medid/internal/identity/models"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/sentinel"
	"medid/pkg/requestcontext"
)

// =============================================================================
// Certification Service Test Suite
// =============================================================================
// Justification for unit tests: the review state machine, document handling
// and not-found normalization are pure orchestration over the store.

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type CertificationServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	directory *mocks.MockDirectory
	attacher  *mocks.MockDocumentAttacher
	publisher *mocks.MockAuditPublisher
	service   *Service
	now       time.Time
	ctx       context.Context
}

func TestCertificationServiceSuite(t *testing.T) {
	suite.Run(t, new(CertificationServiceSuite))
}

func (s *CertificationServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.directory = mocks.NewMockDirectory(s.ctrl)
	s.attacher = mocks.NewMockDocumentAttacher(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	var err error
	s.service, err = New(s.store, s.directory, passthroughTx{},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.publisher),
		WithDocumentAttacher(s.attacher),
	)
	s.Require().NoError(err)
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *CertificationServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CertificationServiceSuite) pending() *models.Request {
	return &models.Request{
		ID:            id.RequestID(uuid.New()),
		IdentityID:    id.IdentityID(uuid.New()),
		LicenseNumber: "LIC-9",
		Specialty:     "cardiology",
		Institution:   "General Hospital",
		DocumentURL:   "mem://docs/certification_requests/old.pdf",
		Status:        models.StatusPending,
		CreatedAt:     s.now.Add(-time.Hour),
	}
}

func viewOf(r *models.Request) *models.RequestView {
	return &models.RequestView{Request: *r}
}

func (s *CertificationServiceSuite) TestNew() {
	_, err := New(nil, s.directory, passthroughTx{})
	s.ErrorContains(err, "certification store is required")
	_, err = New(s.store, nil, passthroughTx{})
	s.ErrorContains(err, "identity directory is required")
}

// =============================================================================
// Reads
// =============================================================================

func (s *CertificationServiceSuite) TestGet() {
	requestID := id.RequestID(uuid.New())

	s.Run("missing request is not found, never an empty success", func() {
		s.store.EXPECT().FindRequestView(gomock.Any(), requestID).Return(nil, sentinel.ErrNotFound)
		view, err := s.service.Get(s.ctx, requestID)
		s.Nil(view)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure is opaque", func() {
		s.store.EXPECT().FindRequestView(gomock.Any(), requestID).Return(nil, errors.New("pq: relation missing"))
		_, err := s.service.Get(s.ctx, requestID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// =============================================================================
// Create
// =============================================================================

func (s *CertificationServiceSuite) TestCreate() {
	submitter := &identityModels.Identity{ID: id.IdentityID(uuid.New()), Role: id.RoleMedical}

	s.Run("inserts a pending request with the uploaded document", func() {
		doc := &documents.Document{FileName: "license.pdf", Data: []byte("%PDF")}
		s.directory.EXPECT().FindIdentity(gomock.Any(), submitter.ID).Return(submitter, nil)
		s.attacher.EXPECT().Attach(gomock.Any(), *doc, documents.CertificationFolder).Return("mem://docs/new.pdf", nil)
		s.store.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(nil)

		created, err := s.service.Create(s.ctx, &models.CreateRequest{
			IdentityID: submitter.ID, LicenseNumber: "LIC-9", Specialty: "cardiology", Institution: "GH", Document: doc,
		})
		s.Require().NoError(err)
		s.Equal(models.StatusPending, created.Status)
		s.Equal("mem://docs/new.pdf", created.DocumentURL)
		s.Equal(s.now, created.CreatedAt)
	})

	s.Run("unknown submitter is not found", func() {
		s.directory.EXPECT().FindIdentity(gomock.Any(), submitter.ID).Return(nil, sentinel.ErrNotFound)
		_, err := s.service.Create(s.ctx, &models.CreateRequest{
			IdentityID: submitter.ID, LicenseNumber: "L", Specialty: "S", Institution: "I",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("patients cannot request certification", func() {
		patient := &identityModels.Identity{ID: id.IdentityID(uuid.New()), Role: id.RolePatient}
		s.directory.EXPECT().FindIdentity(gomock.Any(), patient.ID).Return(patient, nil)
		_, err := s.service.Create(s.ctx, &models.CreateRequest{
			IdentityID: patient.ID, LicenseNumber: "L", Specialty: "S", Institution: "I",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("failed insert abandons the upload", func() {
		doc := &documents.Document{FileName: "license.pdf", Data: []byte("%PDF")}
		s.directory.EXPECT().FindIdentity(gomock.Any(), submitter.ID).Return(submitter, nil)
		s.attacher.EXPECT().Attach(gomock.Any(), gomock.Any(), gomock.Any()).Return("mem://docs/lost.pdf", nil)
		s.store.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
		s.attacher.EXPECT().Abandon(gomock.Any(), "mem://docs/lost.pdf", gomock.Any())

		_, err := s.service.Create(s.ctx, &models.CreateRequest{
			IdentityID: submitter.ID, LicenseNumber: "L", Specialty: "S", Institution: "I", Document: doc,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeTransaction))
	})
}

// =============================================================================
// Update
// =============================================================================

func (s *CertificationServiceSuite) TestUpdate() {
	adminID := id.AdminID(uuid.New())
	admin := &identityModels.Administrator{ID: adminID, AccessLevel: "full"}

	s.Run("approval without a new document keeps the stored url", func() {
		existing := s.pending()
		var written *models.Request
		s.store.EXPECT().FindRequest(gomock.Any(), existing.ID).Return(existing, nil).Times(2)
		s.directory.EXPECT().FindAdministrator(gomock.Any(), adminID).Return(admin, nil)
		s.store.EXPECT().UpdateRequest(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, r *models.Request) error { written = r; return nil })
		s.store.EXPECT().FindRequestView(gomock.Any(), existing.ID).DoAndReturn(
			func(context.Context, id.RequestID) (*models.RequestView, error) { return viewOf(written), nil })

		view, err := s.service.Update(s.ctx, &models.UpdateRequest{
			ID: existing.ID, Status: models.StatusApproved, ReviewedBy: &adminID, ReviewComments: "verified",
		})
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, view.Status)
		s.Equal(existing.DocumentURL, view.DocumentURL)
		s.Equal("LIC-9", view.LicenseNumber)
		s.Require().NotNil(view.ReviewedAt)
		s.Equal(s.now, *view.ReviewedAt, "reviewed_at defaults to the request time")
	})

	s.Run("a new document replaces the url", func() {
		existing := s.pending()
		doc := &documents.Document{FileName: "renewed.pdf", Data: []byte("%PDF")}
		var written *models.Request
		s.store.EXPECT().FindRequest(gomock.Any(), existing.ID).Return(existing, nil).Times(2)
		s.attacher.EXPECT().Attach(gomock.Any(), *doc, documents.CertificationFolder).Return("mem://docs/renewed.pdf", nil)
		s.store.EXPECT().UpdateRequest(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, r *models.Request) error { written = r; return nil })
		s.store.EXPECT().FindRequestView(gomock.Any(), existing.ID).DoAndReturn(
			func(context.Context, id.RequestID) (*models.RequestView, error) { return viewOf(written), nil })

		view, err := s.service.Update(s.ctx, &models.UpdateRequest{
			ID: existing.ID, Status: models.StatusPending, Document: doc, Specialty: "neurology",
		})
		s.Require().NoError(err)
		s.Equal("mem://docs/renewed.pdf", view.DocumentURL)
		s.Equal("neurology", view.Specialty)
		s.Equal("General Hospital", view.Institution)
		s.Nil(view.ReviewedAt)
	})

	s.Run("unknown request is not found before any upload", func() {
		missing := id.RequestID(uuid.New())
		s.store.EXPECT().FindRequest(gomock.Any(), missing).Return(nil, sentinel.ErrNotFound)
		_, err := s.service.Update(s.ctx, &models.UpdateRequest{
			ID: missing, Status: models.StatusPending,
			Document: &documents.Document{FileName: "x.pdf", Data: []byte("%PDF")},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("row vanishing during the write is not found", func() {
		existing := s.pending()
		s.store.EXPECT().FindRequest(gomock.Any(), existing.ID).Return(existing, nil).Times(2)
		s.store.EXPECT().UpdateRequest(gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)
		_, err := s.service.Update(s.ctx, &models.UpdateRequest{ID: existing.ID, Status: models.StatusPending})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("reviewed requests are final", func() {
		existing := s.pending()
		existing.Status = models.StatusRejected
		s.store.EXPECT().FindRequest(gomock.Any(), existing.ID).Return(existing, nil)
		_, err := s.service.Update(s.ctx, &models.UpdateRequest{ID: existing.ID, Status: models.StatusPending})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown reviewer is a validation error", func() {
		existing := s.pending()
		s.store.EXPECT().FindRequest(gomock.Any(), existing.ID).Return(existing, nil).Times(2)
		s.directory.EXPECT().FindAdministrator(gomock.Any(), adminID).Return(nil, sentinel.ErrNotFound)
		_, err := s.service.Update(s.ctx, &models.UpdateRequest{ID: existing.ID, Status: models.StatusApproved, ReviewedBy: &adminID})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("approval without a reviewer is a validation error", func() {
		_, err := s.service.Update(s.ctx, &models.UpdateRequest{ID: id.RequestID(uuid.New()), Status: models.StatusApproved})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Delete
// =============================================================================

func (s *CertificationServiceSuite) TestDelete() {
	requestID := id.RequestID(uuid.New())

	s.Run("deletes regardless of status", func() {
		s.store.EXPECT().DeleteRequest(gomock.Any(), requestID).Return(nil)
		s.NoError(s.service.Delete(s.ctx, requestID))
	})

	s.Run("no affected row is not found", func() {
		s.store.EXPECT().DeleteRequest(gomock.Any(), requestID).Return(sentinel.ErrNotFound)
		s.True(dErrors.HasCode(s.service.Delete(s.ctx, requestID), dErrors.CodeNotFound))
	})
}
