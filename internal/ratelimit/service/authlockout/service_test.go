package authlockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"medid/internal/audit"
	"medid/internal/ratelimit/models"
	store "medid/internal/ratelimit/store/authlockout"
	"medid/pkg/requestcontext"
)

type recordingPublisher struct {
	events []audit.Event
}

func (p *recordingPublisher) Emit(_ context.Context, e audit.Event) error {
	p.events = append(p.events, e)
	return nil
}

type AuthLockoutServiceSuite struct {
	suite.Suite
	service   *Service
	publisher *recordingPublisher
	now       time.Time
}

func TestAuthLockoutServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthLockoutServiceSuite))
}

func (s *AuthLockoutServiceSuite) SetupTest() {
	s.publisher = &recordingPublisher{}
	s.now = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	svc, err := New(store.New(),
		WithAuditPublisher(s.publisher),
		WithPolicy(models.LockoutPolicy{Attempts: 3, Window: 10 * time.Minute, LockDuration: 15 * time.Minute}),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *AuthLockoutServiceSuite) at(d time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.now.Add(d))
}

func (s *AuthLockoutServiceSuite) fail(n int, d time.Duration) {
	for range n {
		_, err := s.service.RecordFailure(s.at(d), "dr1", "10.0.0.1")
		s.Require().NoError(err)
	}
}

func (s *AuthLockoutServiceSuite) TestNew() {
	_, err := New(nil)
	s.Error(err)
}

func (s *AuthLockoutServiceSuite) TestFreshPairIsAllowed() {
	result, err := s.service.Check(s.at(0), "dr1", "10.0.0.1")
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(3, result.Remaining)
}

func (s *AuthLockoutServiceSuite) TestLocksAfterThreshold() {
	s.fail(2, 0)
	result, err := s.service.Check(s.at(0), "dr1", "10.0.0.1")
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(1, result.Remaining)
	s.Empty(s.publisher.events)

	s.fail(1, time.Minute)
	result, err = s.service.Check(s.at(time.Minute), "dr1", "10.0.0.1")
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(15*60, result.RetryAfter)

	s.Require().Len(s.publisher.events, 1)
	s.Equal(audit.EventLoginLocked, s.publisher.events[0].Action)
	s.Equal("dr1", s.publisher.events[0].Subject)
}

func (s *AuthLockoutServiceSuite) TestLockIsScopedToPair() {
	s.fail(3, 0)

	other, err := s.service.Check(s.at(0), "dr1", "10.0.0.2")
	s.Require().NoError(err)
	s.True(other.Allowed)

	sameCase, err := s.service.Check(s.at(0), " DR1 ", "10.0.0.1")
	s.Require().NoError(err)
	s.False(sameCase.Allowed)
}

func (s *AuthLockoutServiceSuite) TestLockExpires() {
	s.fail(3, 0)

	result, err := s.service.Check(s.at(16*time.Minute), "dr1", "10.0.0.1")
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(0, result.FailureCount)
}

func (s *AuthLockoutServiceSuite) TestFailuresOutsideWindowDoNotAccumulate() {
	s.fail(2, 0)
	s.fail(1, 11*time.Minute)

	result, err := s.service.Check(s.at(11*time.Minute), "dr1", "10.0.0.1")
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(1, result.FailureCount)
}

func (s *AuthLockoutServiceSuite) TestClear() {
	s.fail(2, 0)
	s.Require().NoError(s.service.Clear(s.at(0), "dr1", "10.0.0.1"))

	result, err := s.service.Check(s.at(0), "dr1", "10.0.0.1")
	s.Require().NoError(err)
	s.Equal(3, result.Remaining)
}
