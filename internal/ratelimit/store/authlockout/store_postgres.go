package authlockout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medid/internal/ratelimit/models"
)

// PostgresStore persists lockout records in PostgreSQL so every replica sees
// the same counters.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, identifier string) (*models.Lockout, error) {
	record, err := scanLockout(s.db.QueryRowContext(ctx, `
		SELECT identifier, failure_count, last_failure_at, locked_until
		FROM auth_lockouts
		WHERE identifier = $1`, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get auth lockout: %w", err)
	}
	return record, nil
}

// RecordFailure increments the counter in a single statement so concurrent
// failures cannot slip past the threshold.
func (s *PostgresStore) RecordFailure(ctx context.Context, identifier string, now time.Time, window time.Duration) (*models.Lockout, error) {
	cutoff := now.Add(-window)
	record, err := scanLockout(s.db.QueryRowContext(ctx, `
		INSERT INTO auth_lockouts (identifier, failure_count, last_failure_at, locked_until)
		VALUES ($1, 1, $2, NULL)
		ON CONFLICT (identifier) DO UPDATE SET
			failure_count = CASE
				WHEN auth_lockouts.last_failure_at <= $3 THEN 1
				ELSE auth_lockouts.failure_count + 1
			END,
			last_failure_at = $2
		RETURNING identifier, failure_count, last_failure_at, locked_until`,
		identifier, now, cutoff))
	if err != nil {
		return nil, fmt.Errorf("record auth failure: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Lock(ctx context.Context, identifier string, until time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE auth_lockouts SET locked_until = $2 WHERE identifier = $1`, identifier, until); err != nil {
		return fmt.Errorf("lock auth identifier: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, identifier string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM auth_lockouts WHERE identifier = $1`, identifier); err != nil {
		return fmt.Errorf("clear auth lockout: %w", err)
	}
	return nil
}

// PurgeStale deletes unlocked records whose last failure is before cutoff.
func (s *PostgresStore) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM auth_lockouts
		WHERE last_failure_at < $1 AND (locked_until IS NULL OR locked_until < $1)`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge auth lockouts: %w", err)
	}
	return res.RowsAffected()
}

type lockoutRow interface {
	Scan(dest ...any) error
}

func scanLockout(row lockoutRow) (*models.Lockout, error) {
	var record models.Lockout
	var lockedUntil sql.NullTime
	if err := row.Scan(&record.Identifier, &record.FailureCount, &record.LastFailureAt, &lockedUntil); err != nil {
		return nil, err
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		record.LockedUntil = &t
	}
	return &record, nil
}
