// Package service provisions identities: patient and medical registration,
// the patient directory, and account deletion.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"medid/internal/audit"
	certModels "medid/internal/certification/models"
	"medid/internal/documents"
	"medid/internal/identity/models"
	"medid/internal/platform/metrics"
	id "medid/pkg/domain"
	"medid/pkg/platform/tx"
)

// Store is the identity side of the relational store. Every method joins the
// transaction carried by ctx.
type Store interface {
	CreateCredential(ctx context.Context, c *models.Credential) error
	LoginExists(ctx context.Context, login string) (bool, error)
	DeleteCredential(ctx context.Context, credentialID id.CredentialID) error

	CreateIdentity(ctx context.Context, ident *models.Identity) error
	FindIdentity(ctx context.Context, identityID id.IdentityID) (*models.Identity, error)
	ContactExists(ctx context.Context, contact string) (bool, error)
	DeleteIdentity(ctx context.Context, identityID id.IdentityID) error

	CreatePatientProfile(ctx context.Context, p *models.PatientProfile) error
	FindPatientProfile(ctx context.Context, patientID id.PatientID) (*models.PatientProfile, error)
	FindPatientView(ctx context.Context, patientID id.PatientID) (*models.PatientView, error)
	ListPatientViews(ctx context.Context) ([]*models.PatientView, error)
	DeletePatientProfile(ctx context.Context, patientID id.PatientID) error

	CreateMedicalProfile(ctx context.Context, p *models.MedicalProfile) error
	CreateAdministrator(ctx context.Context, a *models.Administrator) error
}

// CertificationStore receives the pending request written during medical
// registration.
type CertificationStore interface {
	CreateRequest(ctx context.Context, r *certModels.Request) error
}

type SecretHasher interface {
	Hash(secret string) (string, error)
}

// DocumentAttacher uploads documents and tracks the ones orphaned by a failed
// transaction.
type DocumentAttacher interface {
	Attach(ctx context.Context, doc documents.Document, folder string) (string, error)
	Abandon(ctx context.Context, url, reason string)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service orchestrates identity provisioning.
type Service struct {
	store          Store
	requests       CertificationStore
	tx             tx.Runner
	hasher         SecretHasher
	attacher       DocumentAttacher
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

// WithDocumentAttacher enables document uploads on medical registration.
// Without it, registrations that carry a document fail validation.
func WithDocumentAttacher(a DocumentAttacher) Option {
	return func(s *Service) {
		s.attacher = a
	}
}

// New constructs a Service.
func New(store Store, requests CertificationStore, runner tx.Runner, hasher SecretHasher, opts ...Option) (*Service, error) {
	switch {
	case store == nil:
		return nil, errors.New("identity store is required")
	case requests == nil:
		return nil, errors.New("certification store is required")
	case runner == nil:
		return nil, errors.New("transaction runner is required")
	case hasher == nil:
		return nil, errors.New("secret hasher is required")
	}
	s := &Service{
		store:    store,
		requests: requests,
		tx:       runner,
		hasher:   hasher,
		logger:   slog.Default(),
		tracer:   otel.Tracer("medid/identity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
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
