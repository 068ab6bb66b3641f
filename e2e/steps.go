package e2e

import (
	"github.com/cucumber/godog"

	"medid/e2e/steps/auth"
	"medid/e2e/steps/common"
	"medid/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// background, generic requests, assertions
	common.RegisterSteps(ctx, tc)

	// registration, login and logout
	auth.RegisterSteps(ctx, tc)

	// login lockout
	ratelimit.RegisterSteps(ctx, tc)
}
