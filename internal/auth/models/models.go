package models

import (
	"strings"
	"time"

	identityModels "medid/internal/identity/models"
	dErrors "medid/pkg/domain-errors"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "Bearer"

// LoginRequest authenticates a credential.
type LoginRequest struct {
	Login  string `json:"login"`
	Secret string `json:"secret"`
}

func (r *LoginRequest) Normalize() {
	r.Login = strings.TrimSpace(r.Login)
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	switch {
	case r.Login == "":
		return dErrors.New(dErrors.CodeValidation, "login is required")
	case r.Secret == "":
		return dErrors.New(dErrors.CodeValidation, "secret is required")
	}
	return nil
}

// LoginResult is a freshly issued access token and the identity it names.
type LoginResult struct {
	AccessToken string
	TokenType   string
	TokenID     string
	ExpiresAt   time.Time
	ExpiresIn   time.Duration
	Identity    *identityModels.Identity
}
