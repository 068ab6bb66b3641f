// Package postgres persists the orphaned-document ledger in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"medid/internal/documents"
	"medid/pkg/platform/tx"
)

// Ledger stores orphans in the orphaned_documents table.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Record(ctx context.Context, o *documents.Orphan) error {
	_, err := tx.Conn(ctx, l.db).ExecContext(ctx, `
		INSERT INTO orphaned_documents (id, url, reason, recorded_at, attempts)
		VALUES ($1, $2, $3, $4, 0)
	`, o.ID, o.URL, o.Reason, o.RecordedAt)
	if err != nil {
		return fmt.Errorf("record orphaned document: %w", err)
	}
	return nil
}

func (l *Ledger) ListPending(ctx context.Context, limit int) ([]*documents.Orphan, error) {
	rows, err := tx.Conn(ctx, l.db).QueryContext(ctx, `
		SELECT id, url, reason, recorded_at, attempts
		FROM orphaned_documents
		WHERE resolved_at IS NULL AND abandoned_at IS NULL
		ORDER BY attempts, recorded_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orphaned documents: %w", err)
	}
	defer rows.Close()

	var out []*documents.Orphan
	for rows.Next() {
		var o documents.Orphan
		if err := rows.Scan(&o.ID, &o.URL, &o.Reason, &o.RecordedAt, &o.Attempts); err != nil {
			return nil, fmt.Errorf("scan orphaned document: %w", err)
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orphaned documents: %w", err)
	}
	return out, nil
}

// MarkResolved stamps a batch of orphans in one statement.
func (l *Ledger) MarkResolved(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Conn(ctx, l.db).ExecContext(ctx, `
		UPDATE orphaned_documents SET resolved_at = $2
		WHERE id = ANY($1::uuid[]) AND resolved_at IS NULL
	`, pq.Array(ids), at)
	if err != nil {
		return fmt.Errorf("resolve orphaned documents: %w", err)
	}
	return nil
}

func (l *Ledger) MarkAttempted(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Conn(ctx, l.db).ExecContext(ctx, `
		UPDATE orphaned_documents SET attempts = attempts + 1
		WHERE id = ANY($1::uuid[])
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("mark orphaned documents attempted: %w", err)
	}
	return nil
}

// MarkAbandoned stops retrying orphans whose deletion keeps failing. The rows
// stay for manual cleanup.
func (l *Ledger) MarkAbandoned(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Conn(ctx, l.db).ExecContext(ctx, `
		UPDATE orphaned_documents SET attempts = attempts + 1, abandoned_at = $2
		WHERE id = ANY($1::uuid[]) AND resolved_at IS NULL
	`, pq.Array(ids), at)
	if err != nil {
		return fmt.Errorf("abandon orphaned documents: %w", err)
	}
	return nil
}
