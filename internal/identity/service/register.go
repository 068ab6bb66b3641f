package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"medid/internal/audit"
	certModels "medid/internal/certification/models"
	"medid/internal/documents"
	"medid/internal/identity/models"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/tx"
	"medid/pkg/requestcontext"
)

const (
	msgLoginTaken   = "login already registered"
	msgContactTaken = "contact already registered"
)

// RegisterPatient creates a credential, a patient identity and its profile in
// one transaction.
func (s *Service) RegisterPatient(ctx context.Context, req *models.RegisterPatientRequest) (*models.RegistrationResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.RegisterPatient")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.store.LoginExists(ctx, req.Login)
	if err != nil {
		return nil, s.unexpected(ctx, err, "failed to check login")
	}
	if exists {
		return nil, dErrors.New(dErrors.CodeConflict, msgLoginTaken)
	}

	hash, err := s.hasher.Hash(req.Secret)
	if err != nil {
		return nil, s.hashError(ctx, err)
	}

	now := requestcontext.Now(ctx)
	cred := &models.Credential{ID: id.CredentialID(uuid.New()), Login: req.Login, SecretHash: hash, CreatedAt: now}
	ident := &models.Identity{
		ID:           id.IdentityID(uuid.New()),
		CredentialID: cred.ID,
		Role:         id.RolePatient,
		DisplayName:  req.DisplayName,
		Contact:      req.Contact,
		CreatedAt:    now,
	}
	profile := &models.PatientProfile{
		ID:         id.PatientID(uuid.New()),
		IdentityID: ident.ID,
		Age:        req.Age,
		Weight:     req.Weight,
		Height:     req.Height,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateCredential(txCtx, cred); err != nil {
			return err
		}
		if err := s.store.CreateIdentity(txCtx, ident); err != nil {
			return err
		}
		return s.store.CreatePatientProfile(txCtx, profile)
	})
	if err != nil {
		span.SetStatus(codes.Error, "transaction failed")
		return nil, s.txFailure(ctx, err, "patient registration")
	}

	span.SetAttributes(attribute.String("identity_id", ident.ID.String()))
	s.registered(ctx, ident)
	return &models.RegistrationResult{
		IdentityID: ident.ID,
		Role:       ident.Role,
		PatientID:  profile.ID,
	}, nil
}

// RegisterMedical creates a credential, a medical identity, its profile and a
// pending certification request in one transaction. A supplied document is
// uploaded first; when the transaction then fails the upload is handed to the
// orphan ledger.
func (s *Service) RegisterMedical(ctx context.Context, req *models.RegisterMedicalRequest) (*models.RegistrationResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.RegisterMedical")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Document != nil && s.attacher == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "document uploads are not enabled")
	}

	if err := s.checkMedicalDuplicates(ctx, req.Login, req.Contact); err != nil {
		return nil, err
	}

	var documentURL string
	if req.Document != nil {
		url, err := s.attacher.Attach(ctx, *req.Document, documents.CertificationFolder)
		if err != nil {
			span.SetStatus(codes.Error, "upload failed")
			return nil, err
		}
		documentURL = url
	}

	hash, err := s.hasher.Hash(req.Secret)
	if err != nil {
		s.abandon(ctx, documentURL, "secret hashing failed")
		return nil, s.hashError(ctx, err)
	}

	now := requestcontext.Now(ctx)
	cred := &models.Credential{ID: id.CredentialID(uuid.New()), Login: req.Login, SecretHash: hash, CreatedAt: now}
	ident := &models.Identity{
		ID:           id.IdentityID(uuid.New()),
		CredentialID: cred.ID,
		Role:         id.RoleMedical,
		DisplayName:  req.DisplayName,
		Contact:      req.Contact,
		CreatedAt:    now,
	}
	profile := &models.MedicalProfile{
		ID:              id.MedicalProfileID(uuid.New()),
		IdentityID:      ident.ID,
		LicenseNumber:   req.LicenseNumber,
		Specialty:       req.Specialty,
		Institution:     req.Institution,
		YearsExperience: req.YearsExperience,
		DocumentURL:     documentURL,
	}
	request := &certModels.Request{
		ID:            id.RequestID(uuid.New()),
		IdentityID:    ident.ID,
		LicenseNumber: req.LicenseNumber,
		Specialty:     req.Specialty,
		Institution:   req.Institution,
		DocumentURL:   documentURL,
		Status:        certModels.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateCredential(txCtx, cred); err != nil {
			return err
		}
		if err := s.store.CreateIdentity(txCtx, ident); err != nil {
			return err
		}
		if err := s.store.CreateMedicalProfile(txCtx, profile); err != nil {
			return err
		}
		return s.requests.CreateRequest(txCtx, request)
	})
	if err != nil {
		span.SetStatus(codes.Error, "transaction failed")
		s.abandon(ctx, documentURL, "medical registration rolled back")
		return nil, s.txFailure(ctx, err, "medical registration")
	}

	span.SetAttributes(attribute.String("identity_id", ident.ID.String()))
	s.registered(ctx, ident)
	s.emit(ctx, audit.Event{
		Action:     audit.EventCertificationSubmitted,
		IdentityID: ident.ID,
		Role:       ident.Role,
		Subject:    request.ID.String(),
		Decision:   string(request.Status),
	})
	s.metrics.IncCertificationTransition(string(request.Status))

	return &models.RegistrationResult{
		IdentityID:       ident.ID,
		Role:             ident.Role,
		MedicalProfileID: profile.ID,
		RequestID:        request.ID,
		DocumentURL:      documentURL,
	}, nil
}

// checkMedicalDuplicates runs the login and contact lookups concurrently.
// The unique indexes remain the real guard against concurrent registrations.
func (s *Service) checkMedicalDuplicates(ctx context.Context, login, contact string) error {
	var loginTaken, contactTaken bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loginTaken, err = s.store.LoginExists(gctx, login)
		return err
	})
	g.Go(func() error {
		var err error
		contactTaken, err = s.store.ContactExists(gctx, contact)
		return err
	})
	if err := g.Wait(); err != nil {
		return s.unexpected(ctx, err, "failed to check for duplicates")
	}
	switch {
	case loginTaken:
		return dErrors.New(dErrors.CodeConflict, msgLoginTaken)
	case contactTaken:
		return dErrors.New(dErrors.CodeConflict, msgContactTaken)
	}
	return nil
}

func (s *Service) registered(ctx context.Context, ident *models.Identity) {
	s.logger.InfoContext(ctx, "identity registered",
		"request_id", requestcontext.RequestID(ctx),
		"identity_id", ident.ID.String(),
		"role", ident.Role.String(),
	)
	s.metrics.IncRegistration(ident.Role.String())
	s.emit(ctx, audit.Event{
		Action:     audit.EventIdentityRegistered,
		IdentityID: ident.ID,
		Role:       ident.Role,
	})
}

func (s *Service) abandon(ctx context.Context, url, reason string) {
	if url == "" || s.attacher == nil {
		return
	}
	s.attacher.Abandon(ctx, url, reason)
}

func (s *Service) hashError(ctx context.Context, err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
		return dErrors.Wrap(err, dErrors.CodeValidation, "secret is not acceptable")
	}
	return s.unexpected(ctx, err, "failed to hash secret")
}

func (s *Service) unexpected(ctx context.Context, err error, msg string) error {
	s.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) txFailure(ctx context.Context, err error, op string) error {
	mapped := tx.DomainError(err, msgLoginTaken)
	if dErrors.HasCode(mapped, dErrors.CodeConflict) {
		// A racing registration won between the duplicate check and the insert.
		if isContactConflict(err) {
			mapped = tx.DomainError(err, msgContactTaken)
		}
		s.logger.InfoContext(ctx, op+" lost a uniqueness race",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return mapped
	}
	s.logger.ErrorContext(ctx, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return mapped
}
