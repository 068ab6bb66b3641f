package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"medid/internal/identity/models"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/email"
	"medid/pkg/requestcontext"
)

// RegisterAdministratorRequest provisions a reviewer account. Administrators
// are not self-service; this backs the seed-admin command.
type RegisterAdministratorRequest struct {
	Login       string
	Secret      string
	Contact     string
	DisplayName string
	AccessLevel string
}

// RegisterAdministrator creates a credential, an administrator identity and
// its administrator row in one transaction. The display name defaults to one
// derived from the contact address.
func (s *Service) RegisterAdministrator(ctx context.Context, req RegisterAdministratorRequest) (*models.Administrator, error) {
	req.Login = strings.TrimSpace(req.Login)
	req.Contact = email.Normalize(req.Contact)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.AccessLevel = strings.TrimSpace(req.AccessLevel)
	if req.DisplayName == "" {
		req.DisplayName = email.DeriveNameFromEmail(req.Contact)
	}
	if req.AccessLevel == "" {
		req.AccessLevel = "full"
	}
	switch {
	case req.Login == "":
		return nil, dErrors.New(dErrors.CodeValidation, "login is required")
	case req.Secret == "":
		return nil, dErrors.New(dErrors.CodeValidation, "secret is required")
	case req.Contact == "":
		return nil, dErrors.New(dErrors.CodeValidation, "contact is required")
	}

	hash, err := s.hasher.Hash(req.Secret)
	if err != nil {
		return nil, s.hashError(ctx, err)
	}

	now := requestcontext.Now(ctx)
	cred := &models.Credential{ID: id.CredentialID(uuid.New()), Login: req.Login, SecretHash: hash, CreatedAt: now}
	ident := &models.Identity{
		ID:           id.IdentityID(uuid.New()),
		CredentialID: cred.ID,
		Role:         id.RoleAdministrator,
		DisplayName:  req.DisplayName,
		Contact:      req.Contact,
		CreatedAt:    now,
	}
	admin := &models.Administrator{ID: id.AdminID(uuid.New()), IdentityID: ident.ID, AccessLevel: req.AccessLevel}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateCredential(txCtx, cred); err != nil {
			return err
		}
		if err := s.store.CreateIdentity(txCtx, ident); err != nil {
			return err
		}
		return s.store.CreateAdministrator(txCtx, admin)
	})
	if err != nil {
		return nil, s.txFailure(ctx, err, "administrator registration")
	}

	s.registered(ctx, ident)
	return admin, nil
}
