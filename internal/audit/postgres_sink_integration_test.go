//go:build integration

package audit_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"medid/internal/audit"
	id "medid/pkg/domain"
	"medid/pkg/testutil/containers"
)

type PostgresSinkSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	sink     *audit.PostgresSink
}

func TestPostgresSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSinkSuite))
}

func (s *PostgresSinkSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.sink = audit.NewPostgresSink(s.postgres.DB)
}

func (s *PostgresSinkSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *PostgresSinkSuite) TestWritePersistsEvent() {
	ctx := context.Background()
	identityID := id.IdentityID(uuid.New())
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	s.Require().NoError(s.sink.Write(ctx, audit.Event{
		Action:     audit.EventPatientAccountDeleted,
		Timestamp:  at,
		IdentityID: identityID,
		Role:       id.RolePatient,
		ActorID:    "admin-1",
		RequestID:  "req-42",
	}))

	var (
		category, action string
		occurredAt       time.Time
		actor, subject   sql.NullString
	)
	err := s.postgres.DB.QueryRowContext(ctx, `
		SELECT category, action, occurred_at, actor_id, subject
		FROM audit_events WHERE identity_id = $1`, uuid.UUID(identityID),
	).Scan(&category, &action, &occurredAt, &actor, &subject)
	s.Require().NoError(err)

	s.Equal(string(audit.CategoryCompliance), category)
	s.Equal(string(audit.EventPatientAccountDeleted), action)
	s.True(at.Equal(occurredAt))
	s.Equal("admin-1", actor.String)
	s.False(subject.Valid)
}

func (s *PostgresSinkSuite) TestWriteWithoutIdentity() {
	ctx := context.Background()
	s.Require().NoError(s.sink.Write(ctx, audit.Event{
		Action:    audit.EventLoginFailed,
		Timestamp: time.Now(),
		Subject:   "ghost",
		Reason:    "unknown_login",
	}))

	var count int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM audit_events WHERE identity_id IS NULL AND subject = 'ghost'`).Scan(&count))
	s.Equal(1, count)
}
