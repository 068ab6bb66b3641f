package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"medid/internal/audit"
	"medid/internal/certification/models"
	"medid/internal/documents"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/sentinel"
	"medid/pkg/platform/tx"
	"medid/pkg/requestcontext"
)

const (
	msgRequestNotFound = "certification request not found"
	msgAlreadyReviewed = "certification request has already been reviewed"
)

func notFound() error {
	return dErrors.New(dErrors.CodeNotFound, msgRequestNotFound)
}

// List returns every request joined with submitter and reviewer, newest first.
func (s *Service) List(ctx context.Context) ([]*models.RequestView, error) {
	views, err := s.store.ListRequestViews(ctx)
	if err != nil {
		return nil, s.unexpected(ctx, err, "failed to list certification requests")
	}
	if views == nil {
		views = []*models.RequestView{}
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, requestID id.RequestID) (*models.RequestView, error) {
	view, err := s.store.FindRequestView(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound()
		}
		return nil, s.unexpected(ctx, err, "failed to load certification request")
	}
	return view, nil
}

// Create submits a pending request for a medical professional.
func (s *Service) Create(ctx context.Context, req *models.CreateRequest) (*models.Request, error) {
	ctx, span := s.tracer.Start(ctx, "certification.Create")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	submitter, err := s.directory.FindIdentity(ctx, req.IdentityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submitter not found")
		}
		return nil, s.unexpected(ctx, err, "failed to load submitter")
	}
	if submitter.Role != id.RoleMedical {
		return nil, dErrors.New(dErrors.CodeValidation, "only medical professionals can request certification")
	}

	documentURL, uploaded, err := s.resolveDocument(ctx, req.Document, req.DocumentURL)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	request := &models.Request{
		ID:            id.RequestID(uuid.New()),
		IdentityID:    submitter.ID,
		LicenseNumber: req.LicenseNumber,
		Specialty:     req.Specialty,
		Institution:   req.Institution,
		DocumentURL:   documentURL,
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.CreateRequest(txCtx, request)
	})
	if err != nil {
		span.SetStatus(codes.Error, "insert failed")
		if uploaded {
			s.abandon(ctx, documentURL, "certification request insert failed")
		}
		return nil, s.txFailure(ctx, err, "certification request creation")
	}

	span.SetAttributes(attribute.String("request_id", request.ID.String()))
	s.metrics.IncCertificationTransition(string(request.Status))
	s.emit(ctx, audit.Event{
		Action:     audit.EventCertificationSubmitted,
		IdentityID: submitter.ID,
		Role:       submitter.Role,
		ActorID:    requestcontext.IdentityID(ctx).String(),
		Subject:    request.ID.String(),
		Decision:   string(request.Status),
	})
	return request, nil
}

// Update reviews or amends a request and returns the updated joined row.
// Only pending requests can change; approving or rejecting needs a reviewer
// that is a known administrator.
func (s *Service) Update(ctx context.Context, req *models.UpdateRequest) (*models.RequestView, error) {
	ctx, span := s.tracer.Start(ctx, "certification.Update")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// First check: fail fast before uploading anything.
	current, err := s.store.FindRequest(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound()
		}
		return nil, s.unexpected(ctx, err, "failed to load certification request")
	}
	if !current.Status.CanTransitionTo(req.Status) {
		return nil, dErrors.New(dErrors.CodeConflict, msgAlreadyReviewed)
	}

	newURL, uploaded, err := s.resolveDocument(ctx, req.Document, req.DocumentURL)
	if err != nil {
		return nil, err
	}

	var view *models.RequestView
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.store.FindRequest(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return notFound()
			}
			return err
		}
		if !existing.Status.CanTransitionTo(req.Status) {
			return dErrors.New(dErrors.CodeConflict, msgAlreadyReviewed)
		}
		if req.ReviewedBy != nil {
			if _, err := s.directory.FindAdministrator(txCtx, *req.ReviewedBy); err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return dErrors.New(dErrors.CodeValidation, "reviewed_by must name an existing administrator")
				}
				return err
			}
		}

		updated := applyUpdate(existing, req, newURL, requestcontext.Now(txCtx))
		if err := s.store.UpdateRequest(txCtx, updated); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return notFound()
			}
			return err
		}
		view, err = s.store.FindRequestView(txCtx, req.ID)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, "update failed")
		if uploaded {
			s.abandon(ctx, newURL, "certification request update failed")
		}
		return nil, s.txFailure(ctx, err, "certification request update")
	}

	span.SetAttributes(
		attribute.String("request_id", view.ID.String()),
		attribute.String("status", string(view.Status)),
	)
	s.metrics.IncCertificationTransition(string(view.Status))
	s.logger.InfoContext(ctx, "certification request updated",
		"request_id", requestcontext.RequestID(ctx),
		"certification_request_id", view.ID.String(),
		"status", string(view.Status),
	)
	s.emit(ctx, audit.Event{
		Action:     audit.EventCertificationUpdated,
		IdentityID: view.IdentityID,
		ActorID:    requestcontext.IdentityID(ctx).String(),
		Subject:    view.ID.String(),
		Decision:   string(view.Status),
		Reason:     view.ReviewComments,
	})
	return view, nil
}

// applyUpdate merges req into existing. Blank descriptive fields and an
// absent document keep their stored values. A replaced document is not
// deleted from the blob store.
func applyUpdate(existing *models.Request, req *models.UpdateRequest, newURL string, now time.Time) *models.Request {
	updated := *existing
	updated.Status = req.Status
	updated.ReviewedBy = req.ReviewedBy
	updated.ReviewComments = req.ReviewComments
	updated.ReviewedAt = req.ReviewedAt
	if req.Status.IsTerminal() && updated.ReviewedAt == nil {
		updated.ReviewedAt = &now
	}
	if req.LicenseNumber != "" {
		updated.LicenseNumber = req.LicenseNumber
	}
	if req.Specialty != "" {
		updated.Specialty = req.Specialty
	}
	if req.Institution != "" {
		updated.Institution = req.Institution
	}
	if newURL != "" {
		updated.DocumentURL = newURL
	}
	updated.UpdatedAt = now
	return &updated
}

// Delete removes a request regardless of its status.
func (s *Service) Delete(ctx context.Context, requestID id.RequestID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.DeleteRequest(txCtx, requestID)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return notFound()
		}
		return s.txFailure(ctx, err, "certification request deletion")
	}
	s.emit(ctx, audit.Event{
		Action:  audit.EventCertificationDeleted,
		ActorID: requestcontext.IdentityID(ctx).String(),
		Subject: requestID.String(),
	})
	return nil
}

// resolveDocument uploads doc when given, otherwise passes url through. The
// bool reports whether a new blob was created.
func (s *Service) resolveDocument(ctx context.Context, doc *documents.Document, url string) (string, bool, error) {
	if doc == nil {
		return url, false, nil
	}
	if s.attacher == nil {
		return "", false, dErrors.New(dErrors.CodeValidation, "document uploads are not enabled")
	}
	uploaded, err := s.attacher.Attach(ctx, *doc, documents.CertificationFolder)
	if err != nil {
		return "", false, err
	}
	return uploaded, true, nil
}

func (s *Service) abandon(ctx context.Context, url, reason string) {
	if s.attacher != nil {
		s.attacher.Abandon(ctx, url, reason)
	}
}

func (s *Service) unexpected(ctx context.Context, err error, msg string) error {
	s.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) txFailure(ctx context.Context, err error, op string) error {
	mapped := tx.DomainError(err, "certification request already exists")
	if !isDomain(err) {
		s.logger.ErrorContext(ctx, op+" failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	return mapped
}

func isDomain(err error) bool {
	var de *dErrors.Error
	return errors.As(err, &de)
}
