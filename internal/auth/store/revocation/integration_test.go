//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"medid/internal/auth/store/revocation"
	"medid/pkg/testutil/containers"
)

type trl interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RevocationIntegrationSuite struct {
	suite.Suite
	redis    *containers.RedisContainer
	postgres *containers.PostgresContainer
}

func TestRevocationIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RevocationIntegrationSuite))
}

func (s *RevocationIntegrationSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.postgres = containers.GetManager().GetPostgres(s.T())
}

func (s *RevocationIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))
	s.Require().NoError(s.postgres.TruncateTables(ctx, "token_revocations"))
}

func (s *RevocationIntegrationSuite) backends() map[string]trl {
	return map[string]trl{
		"redis":    revocation.NewRedisTRL(s.redis.Client),
		"postgres": revocation.NewPostgresTRL(s.postgres.DB),
	}
}

func (s *RevocationIntegrationSuite) TestRevokeAndCheck() {
	ctx := context.Background()
	for name, store := range s.backends() {
		s.Run(name, func() {
			jti := name + "-jti"
			revoked, err := store.IsRevoked(ctx, jti)
			s.Require().NoError(err)
			s.False(revoked)

			s.Require().NoError(store.RevokeToken(ctx, jti, time.Hour))
			revoked, err = store.IsRevoked(ctx, jti)
			s.Require().NoError(err)
			s.True(revoked)

			// revoking twice extends rather than fails
			s.Require().NoError(store.RevokeToken(ctx, jti, 2*time.Hour))
		})
	}
}

func (s *RevocationIntegrationSuite) TestRedisKeyExpires() {
	ctx := context.Background()
	store := revocation.NewRedisTRL(s.redis.Client)
	s.Require().NoError(store.RevokeToken(ctx, "short", time.Second))

	s.Eventually(func() bool {
		revoked, err := store.IsRevoked(ctx, "short")
		return err == nil && !revoked
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *RevocationIntegrationSuite) TestPostgresPurge() {
	ctx := context.Background()
	now := time.Now()
	store := revocation.NewPostgresTRL(s.postgres.DB, revocation.WithPostgresClock(func() time.Time { return now }))
	s.Require().NoError(store.RevokeToken(ctx, "stale", time.Minute))

	now = now.Add(time.Hour)
	revoked, err := store.IsRevoked(ctx, "stale")
	s.Require().NoError(err)
	s.False(revoked)

	n, err := store.PurgeExpired(ctx)
	s.Require().NoError(err)
	s.EqualValues(1, n)
}
