// Package postgres opens the relational store and classifies driver errors.
// Both the pgx stdlib driver and lib/pq are registered; callers pick one by name.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"medid/pkg/platform/sentinel"
)

// Supported database/sql driver names.
const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

// PostgreSQL SQLSTATE codes the stores care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Open connects to dsn with the named driver and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverPgx
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func sqlState(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	code, _ := sqlState(err)
	return code == codeUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	code, _ := sqlState(err)
	return code == codeForeignKeyViolation
}

// Constraint returns the violated constraint name, if the driver reported one.
func Constraint(err error) string {
	_, name := sqlState(err)
	return name
}

// Classify maps driver errors onto sentinels: no rows becomes ErrNotFound,
// unique violations ErrConflict and foreign key violations ErrInvalidState.
func Classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return sentinel.ErrNotFound
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %s: %w", op, Constraint(err), sentinel.ErrConflict)
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %s: %w", op, Constraint(err), sentinel.ErrInvalidState)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// ExpectRow classifies the result of a statement that must touch at least one row.
func ExpectRow(op string, res sql.Result, err error) error {
	if err != nil {
		return Classify(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
