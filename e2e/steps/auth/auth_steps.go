package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	AuthorizedPOST(path string, body interface{}) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	Login(name string) string
	GetAccessToken() string
	SetAccessToken(token string)
}

// RegisterSteps registers registration, login and logout step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	// registration
	ctx.Step(`^I register patient "([^"]*)" with secret "([^"]*)"$`, steps.registerPatient)
	ctx.Step(`^a registered patient "([^"]*)" with secret "([^"]*)"$`, steps.registeredPatient)

	// login
	ctx.Step(`^I log in as "([^"]*)" with secret "([^"]*)"$`, steps.login)
	ctx.Step(`^I am logged in as "([^"]*)" with secret "([^"]*)"$`, steps.loggedIn)
	ctx.Step(`^I save the access token$`, steps.saveAccessToken)

	// logout
	ctx.Step(`^I log out$`, steps.logout)
	ctx.Step(`^I log out with invalid token "([^"]*)"$`, steps.logoutWithToken)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) registerPatient(_ context.Context, name, secret string) error {
	return s.tc.POST("/auth/register", map[string]interface{}{
		"login":        s.tc.Login(name),
		"secret":       secret,
		"display_name": name,
		"contact":      s.tc.Login(name) + "@example.com",
	})
}

func (s *authSteps) registeredPatient(ctx context.Context, name, secret string) error {
	if err := s.registerPatient(ctx, name, secret); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 201 {
		return fmt.Errorf("registering %s: status %d", name, status)
	}
	return nil
}

func (s *authSteps) login(_ context.Context, name, secret string) error {
	return s.tc.POST("/auth/login", map[string]interface{}{
		"login":  s.tc.Login(name),
		"secret": secret,
	})
}

func (s *authSteps) loggedIn(ctx context.Context, name, secret string) error {
	if err := s.login(ctx, name, secret); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("logging in as %s: status %d", name, status)
	}
	return s.saveAccessToken(ctx)
}

func (s *authSteps) saveAccessToken(context.Context) error {
	token, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	str, ok := token.(string)
	if !ok || str == "" {
		return fmt.Errorf("access_token is not a string: %v", token)
	}
	s.tc.SetAccessToken(str)
	return nil
}

func (s *authSteps) logout(context.Context) error {
	return s.tc.AuthorizedPOST("/auth/logout", nil)
}

func (s *authSteps) logoutWithToken(_ context.Context, token string) error {
	s.tc.SetAccessToken(token)
	return s.tc.AuthorizedPOST("/auth/logout", nil)
}
