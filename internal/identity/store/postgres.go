// Package store persists credentials, identities and role profiles in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"medid/internal/identity/models"
	"medid/internal/platform/postgres"
	id "medid/pkg/domain"
	"medid/pkg/platform/tx"
)

// PostgresStore is pure I/O. Every method runs on the transaction carried by
// ctx when there is one.
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

// -----------------------------------------------------------------------------
// Credentials
// -----------------------------------------------------------------------------

func (s *PostgresStore) CreateCredential(ctx context.Context, c *models.Credential) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO credentials (id, login, secret_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Login, c.SecretHash, c.CreatedAt)
	return postgres.Classify("create credential", err)
}

func (s *PostgresStore) FindCredentialByLogin(ctx context.Context, login string) (*models.Credential, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	var c models.Credential
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, login, secret_hash, created_at FROM credentials WHERE login = $1
	`, login).Scan(&c.ID, &c.Login, &c.SecretHash, &c.CreatedAt)
	if err != nil {
		return nil, postgres.Classify("find credential", err)
	}
	return &c, nil
}

func (s *PostgresStore) LoginExists(ctx context.Context, login string) (bool, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	var exists bool
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM credentials WHERE login = $1)`, login).Scan(&exists)
	if err != nil {
		return false, postgres.Classify("check login", err)
	}
	return exists, nil
}

func (s *PostgresStore) DeleteCredential(ctx context.Context, credentialID id.CredentialID) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, credentialID)
	return postgres.ExpectRow("delete credential", res, err)
}

// -----------------------------------------------------------------------------
// Identities
// -----------------------------------------------------------------------------

const identityColumns = `id, credential_id, role, display_name, contact, created_at`

func scanIdentity(row interface{ Scan(...any) error }) (*models.Identity, error) {
	var ident models.Identity
	if err := row.Scan(&ident.ID, &ident.CredentialID, &ident.Role, &ident.DisplayName, &ident.Contact, &ident.CreatedAt); err != nil {
		return nil, err
	}
	return &ident, nil
}

func (s *PostgresStore) CreateIdentity(ctx context.Context, ident *models.Identity) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO identities (`+identityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ident.ID, ident.CredentialID, string(ident.Role), ident.DisplayName, ident.Contact, ident.CreatedAt)
	return postgres.Classify("create identity", err)
}

func (s *PostgresStore) FindIdentity(ctx context.Context, identityID id.IdentityID) (*models.Identity, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	ident, err := scanIdentity(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = $1`, identityID))
	if err != nil {
		return nil, postgres.Classify("find identity", err)
	}
	return ident, nil
}

func (s *PostgresStore) FindIdentityByCredential(ctx context.Context, credentialID id.CredentialID) (*models.Identity, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	ident, err := scanIdentity(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE credential_id = $1`, credentialID))
	if err != nil {
		return nil, postgres.Classify("find identity by credential", err)
	}
	return ident, nil
}

func (s *PostgresStore) ContactExists(ctx context.Context, contact string) (bool, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	var exists bool
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM identities WHERE lower(contact) = lower($1))`, contact).Scan(&exists)
	if err != nil {
		return false, postgres.Classify("check contact", err)
	}
	return exists, nil
}

func (s *PostgresStore) DeleteIdentity(ctx context.Context, identityID id.IdentityID) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, identityID)
	return postgres.ExpectRow("delete identity", res, err)
}

// -----------------------------------------------------------------------------
// Patient profiles
// -----------------------------------------------------------------------------

func (s *PostgresStore) CreatePatientProfile(ctx context.Context, p *models.PatientProfile) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO patient_profiles (id, identity_id, age, weight, height)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.IdentityID, p.Age, p.Weight, p.Height)
	return postgres.Classify("create patient profile", err)
}

func (s *PostgresStore) FindPatientProfile(ctx context.Context, patientID id.PatientID) (*models.PatientProfile, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	var p models.PatientProfile
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, identity_id, age, weight, height FROM patient_profiles WHERE id = $1
	`, patientID).Scan(&p.ID, &p.IdentityID, &p.Age, &p.Weight, &p.Height)
	if err != nil {
		return nil, postgres.Classify("find patient profile", err)
	}
	return &p, nil
}

const patientViewQuery = `
	SELECT p.id, p.identity_id, p.age, p.weight, p.height, i.display_name, i.contact
	FROM patient_profiles p
	JOIN identities i ON i.id = p.identity_id
`

func scanPatientView(row interface{ Scan(...any) error }) (*models.PatientView, error) {
	var v models.PatientView
	if err := row.Scan(&v.ID, &v.IdentityID, &v.Age, &v.Weight, &v.Height, &v.DisplayName, &v.Contact); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *PostgresStore) FindPatientView(ctx context.Context, patientID id.PatientID) (*models.PatientView, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	v, err := scanPatientView(s.conn(ctx).QueryRowContext(ctx, patientViewQuery+` WHERE p.id = $1`, patientID))
	if err != nil {
		return nil, postgres.Classify("find patient", err)
	}
	return v, nil
}

func (s *PostgresStore) ListPatientViews(ctx context.Context) ([]*models.PatientView, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	rows, err := s.conn(ctx).QueryContext(ctx, patientViewQuery+` ORDER BY i.display_name, p.id`)
	if err != nil {
		return nil, postgres.Classify("list patients", err)
	}
	defer rows.Close()

	var out []*models.PatientView
	for rows.Next() {
		v, err := scanPatientView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeletePatientProfile(ctx context.Context, patientID id.PatientID) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM patient_profiles WHERE id = $1`, patientID)
	return postgres.ExpectRow("delete patient profile", res, err)
}

// -----------------------------------------------------------------------------
// Medical profiles and administrators
// -----------------------------------------------------------------------------

func (s *PostgresStore) CreateMedicalProfile(ctx context.Context, p *models.MedicalProfile) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO medical_profiles (id, identity_id, license_number, specialty, institution, years_experience, document_url)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
	`, p.ID, p.IdentityID, p.LicenseNumber, p.Specialty, p.Institution, p.YearsExperience, p.DocumentURL)
	return postgres.Classify("create medical profile", err)
}

func (s *PostgresStore) FindMedicalProfileByIdentity(ctx context.Context, identityID id.IdentityID) (*models.MedicalProfile, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	var (
		p   models.MedicalProfile
		doc sql.NullString
	)
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, identity_id, license_number, specialty, institution, years_experience, document_url
		FROM medical_profiles WHERE identity_id = $1
	`, identityID).Scan(&p.ID, &p.IdentityID, &p.LicenseNumber, &p.Specialty, &p.Institution, &p.YearsExperience, &doc)
	if err != nil {
		return nil, postgres.Classify("find medical profile", err)
	}
	p.DocumentURL = doc.String
	return &p, nil
}

func (s *PostgresStore) CreateAdministrator(ctx context.Context, a *models.Administrator) error {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO administrators (id, identity_id, access_level) VALUES ($1, $2, $3)
	`, a.ID, a.IdentityID, a.AccessLevel)
	return postgres.Classify("create administrator", err)
}

func (s *PostgresStore) FindAdministrator(ctx context.Context, adminID id.AdminID) (*models.Administrator, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	var a models.Administrator
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, identity_id, access_level FROM administrators WHERE id = $1
	`, adminID).Scan(&a.ID, &a.IdentityID, &a.AccessLevel)
	if err != nil {
		return nil, postgres.Classify("find administrator", err)
	}
	return &a, nil
}

func (s *PostgresStore) FindAdministratorByIdentity(ctx context.Context, identityID id.IdentityID) (*models.Administrator, error) {
	ctx, cancel := tx.Bound(ctx, s.timeout)
	defer cancel()
	var a models.Administrator
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, identity_id, access_level FROM administrators WHERE identity_id = $1
	`, identityID).Scan(&a.ID, &a.IdentityID, &a.AccessLevel)
	if err != nil {
		return nil, postgres.Classify("find administrator by identity", err)
	}
	return &a, nil
}
