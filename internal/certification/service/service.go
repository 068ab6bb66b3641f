// Package service runs the certification request lifecycle: submission,
// administrator review and removal.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"medid/internal/audit"
	"medid/internal/certification/models"
	"medid/internal/documents"
	identityModels "medid/internal/identity/models"
	"medid/internal/platform/metrics"
	id "medid/pkg/domain"
	"medid/pkg/platform/tx"
)

type Store interface {
	CreateRequest(ctx context.Context, r *models.Request) error
	FindRequest(ctx context.Context, requestID id.RequestID) (*models.Request, error)
	FindRequestView(ctx context.Context, requestID id.RequestID) (*models.RequestView, error)
	ListRequestViews(ctx context.Context) ([]*models.RequestView, error)
	UpdateRequest(ctx context.Context, r *models.Request) error
	DeleteRequest(ctx context.Context, requestID id.RequestID) error
}

// Directory resolves submitters and reviewers.
type Directory interface {
	FindIdentity(ctx context.Context, identityID id.IdentityID) (*identityModels.Identity, error)
	FindAdministrator(ctx context.Context, adminID id.AdminID) (*identityModels.Administrator, error)
}

type DocumentAttacher interface {
	Attach(ctx context.Context, doc documents.Document, folder string) (string, error)
	Abandon(ctx context.Context, url, reason string)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service orchestrates certification requests.
type Service struct {
	store          Store
	directory      Directory
	tx             tx.Runner
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

func WithDocumentAttacher(a DocumentAttacher) Option {
	return func(s *Service) {
		s.attacher = a
	}
}

func New(store Store, directory Directory, runner tx.Runner, opts ...Option) (*Service, error) {
	switch {
	case store == nil:
		return nil, errors.New("certification store is required")
	case directory == nil:
		return nil, errors.New("identity directory is required")
	case runner == nil:
		return nil, errors.New("transaction runner is required")
	}
	s := &Service{
		store:     store,
		directory: directory,
		tx:        runner,
		logger:    slog.Default(),
		tracer:    otel.Tracer("medid/certification"),
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
