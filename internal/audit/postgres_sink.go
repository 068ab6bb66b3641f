package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresSink keeps events queryable in the audit_events table. Kafka stays
// the stream of record; this table backs investigations without a consumer.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Write(ctx context.Context, e Event) error {
	category := e.Category
	if category == "" {
		category = e.Action.Category()
	}
	var identityID *uuid.UUID
	if !e.IdentityID.IsNil() {
		u := uuid.UUID(e.IdentityID)
		identityID = &u
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			id, category, action, occurred_at, identity_id, role, actor_id, subject,
			decision, reason, device, device_fingerprint, client_ip, request_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		uuid.New(),
		string(category),
		string(e.Action),
		e.Timestamp,
		identityID,
		nullable(string(e.Role)),
		nullable(e.ActorID),
		nullable(e.Subject),
		nullable(e.Decision),
		nullable(e.Reason),
		nullable(e.Device),
		nullable(e.DeviceFingerprint),
		nullable(e.ClientIP),
		nullable(e.RequestID),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
