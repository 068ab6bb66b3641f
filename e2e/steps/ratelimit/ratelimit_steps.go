package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	Login(name string) string
	SetClientIP(ip string)
}

// RegisterSteps registers login lockout step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I am attempting login for user "([^"]*)" from IP "([^"]*)"$`, steps.attemptingLoginFromIP)
	ctx.Step(`^I fail authentication (\d+) times$`, steps.failAuthNTimes)
	ctx.Step(`^the (\d+)(?:st|nd|rd|th) attempt should return (\d+)$`, steps.nthAttemptShouldReturn)
	ctx.Step(`^the response should indicate lockout$`, steps.responseShouldIndicateLockout)
	ctx.Step(`^I switch to IP "([^"]*)"$`, steps.switchIP)
	ctx.Step(`^I attempt login with secret "([^"]*)"$`, steps.attemptLogin)
}

type ratelimitSteps struct {
	tc TestContext
	// State for tracking across steps
	currentLogin string
	statuses     []int
}

func (s *ratelimitSteps) attemptingLoginFromIP(_ context.Context, name, ip string) error {
	s.currentLogin = s.tc.Login(name)
	s.statuses = nil
	s.tc.SetClientIP(ip)
	return nil
}

func (s *ratelimitSteps) switchIP(_ context.Context, ip string) error {
	s.tc.SetClientIP(ip)
	return nil
}

func (s *ratelimitSteps) attemptLogin(_ context.Context, secret string) error {
	if err := s.tc.POST("/auth/login", map[string]interface{}{
		"login":  s.currentLogin,
		"secret": secret,
	}); err != nil {
		return err
	}
	s.statuses = append(s.statuses, s.tc.GetLastResponseStatus())
	return nil
}

func (s *ratelimitSteps) failAuthNTimes(ctx context.Context, times int) error {
	for range times {
		if err := s.attemptLogin(ctx, "definitely-wrong-secret"); err != nil {
			return err
		}
	}
	return nil
}

func (s *ratelimitSteps) nthAttemptShouldReturn(_ context.Context, n, expectedStatus int) error {
	if n < 1 || n > len(s.statuses) {
		return fmt.Errorf("only %d attempts recorded", len(s.statuses))
	}
	if got := s.statuses[n-1]; got != expectedStatus {
		return fmt.Errorf("attempt %d: expected status %d, got %d", n, expectedStatus, got)
	}
	return nil
}

func (s *ratelimitSteps) responseShouldIndicateLockout(context.Context) error {
	code, err := s.tc.GetResponseField("error")
	if err != nil {
		return err
	}
	if code != "rate_limited" {
		return fmt.Errorf("expected rate_limited, got %v", code)
	}
	desc, err := s.tc.GetResponseField("error_description")
	if err != nil {
		return err
	}
	if !strings.Contains(fmt.Sprint(desc), "too many failed login attempts") {
		return fmt.Errorf("unexpected lockout description: %v", desc)
	}
	return nil
}
