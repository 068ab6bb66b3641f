// Package store persists certification requests in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"medid/internal/certification/models"
	"medid/internal/platform/postgres"
	id "medid/pkg/domain"
	"medid/pkg/platform/tx"
)

type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
}

type Option func(*PostgresStore)

// WithTimeout bounds each statement run outside a transaction.
func WithTimeout(d time.Duration) Option {
	return func(s *PostgresStore) {
		s.timeout = d
	}
}

func NewPostgres(db *sql.DB, opts ...Option) *PostgresStore {
	s := &PostgresStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostgresStore) conn(ctx context.Context) tx.Querier {
	return tx.Conn(ctx, s.db)
}

const requestColumns = `r.id, r.identity_id, r.license_number, r.specialty, r.institution, r.document_url,
	r.status, r.reviewed_at, r.reviewed_by, r.review_comments, r.created_at, r.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner, extra ...any) (*models.Request, error) {
	var (
		r        models.Request
		doc      sql.NullString
		comments sql.NullString
	)
	dest := append([]any{
		&r.ID, &r.IdentityID, &r.LicenseNumber, &r.Specialty, &r.Institution, &doc,
		&r.Status, &r.ReviewedAt, &r.ReviewedBy, &comments, &r.CreatedAt, &r.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	r.DocumentURL = doc.String
	r.ReviewComments = comments.String
	return &r, nil
}

const viewQuery = `
	SELECT ` + requestColumns + `,
		COALESCE(i.display_name, ''), COALESCE(i.contact, ''), COALESCE(a.access_level, '')
	FROM certification_requests r
	LEFT JOIN identities i ON i.id = r.identity_id
	LEFT JOIN administrators a ON a.id = r.reviewed_by
`

func scanView(row scanner) (*models.RequestView, error) {
	var v models.RequestView
	r, err := scanRequest(row, &v.SubmitterName, &v.SubmitterContact, &v.ReviewerAccessLevel)
	if err != nil {
		return nil, err
	}
	v.Request = *r
	return &v, nil
}

func (s *PostgresStore) CreateRequest(ctx context.Context, r *models.Request) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO certification_requests
			(id, identity_id, license_number, specialty, institution, document_url,
			 status, reviewed_at, reviewed_by, review_comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), $11, $12)
	`, r.ID, r.IdentityID, r.LicenseNumber, r.Specialty, r.Institution, r.DocumentURL,
		string(r.Status), r.ReviewedAt, r.ReviewedBy, r.ReviewComments, r.CreatedAt, r.UpdatedAt)
	return postgres.Classify("create certification request", err)
}

func (s *PostgresStore) FindRequest(ctx context.Context, requestID id.RequestID) (*models.Request, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	r, err := scanRequest(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM certification_requests r WHERE r.id = $1`, requestID))
	if err != nil {
		return nil, postgres.Classify("find certification request", err)
	}
	return r, nil
}

func (s *PostgresStore) FindRequestView(ctx context.Context, requestID id.RequestID) (*models.RequestView, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	v, err := scanView(s.conn(ctx).QueryRowContext(ctx, viewQuery+` WHERE r.id = $1`, requestID))
	if err != nil {
		return nil, postgres.Classify("find certification request", err)
	}
	return v, nil
}

// ListRequestViews returns every request, newest first.
func (s *PostgresStore) ListRequestViews(ctx context.Context) ([]*models.RequestView, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	rows, err := s.conn(ctx).QueryContext(ctx, viewQuery+` ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, postgres.Classify("list certification requests", err)
	}
	defer rows.Close()

	var out []*models.RequestView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certification request: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certification requests: %w", err)
	}
	return out, nil
}

// UpdateRequest overwrites the mutable columns. Submitter and creation time
// never change.
func (s *PostgresStore) UpdateRequest(ctx context.Context, r *models.Request) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	res, err := s.conn(ctx).ExecContext(ctx, `
		UPDATE certification_requests SET
			license_number = $2,
			specialty = $3,
			institution = $4,
			document_url = NULLIF($5, ''),
			status = $6,
			reviewed_at = $7,
			reviewed_by = $8,
			review_comments = NULLIF($9, ''),
			updated_at = $10
		WHERE id = $1
	`, r.ID, r.LicenseNumber, r.Specialty, r.Institution, r.DocumentURL,
		string(r.Status), r.ReviewedAt, r.ReviewedBy, r.ReviewComments, r.UpdatedAt)
	return postgres.ExpectRow("update certification request", res, err)
}

func (s *PostgresStore) DeleteRequest(ctx context.Context, requestID id.RequestID) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM certification_requests WHERE id = $1`, requestID)
	return postgres.ExpectRow("delete certification request", res, err)
}
