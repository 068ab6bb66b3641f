package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"medid/internal/identity/models"
	id "medid/pkg/domain"
	"medid/pkg/platform/sentinel"
)

func (m *Memory) CreateCredential(ctx context.Context, c *models.Credential) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.credentials[c.ID]; ok {
			return fmt.Errorf("credential %s: %w", c.ID, sentinel.ErrConflict)
		}
		for _, existing := range t.credentials {
			if existing.Login == c.Login {
				return fmt.Errorf("login %q: %w", c.Login, sentinel.ErrConflict)
			}
		}
		t.credentials[c.ID] = *c
		return nil
	})
}

func (m *Memory) FindCredentialByLogin(ctx context.Context, login string) (*models.Credential, error) {
	var out *models.Credential
	err := m.read(ctx, func(t *tables) error {
		for _, c := range t.credentials {
			if c.Login == login {
				cp := c
				out = &cp
				return nil
			}
		}
		return sentinel.ErrNotFound
	})
	return out, err
}

func (m *Memory) LoginExists(ctx context.Context, login string) (bool, error) {
	_, err := m.FindCredentialByLogin(ctx, login)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) DeleteCredential(ctx context.Context, credentialID id.CredentialID) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.credentials[credentialID]; !ok {
			return sentinel.ErrNotFound
		}
		for _, ident := range t.identities {
			if ident.CredentialID == credentialID {
				return fmt.Errorf("credential %s still referenced: %w", credentialID, sentinel.ErrInvalidState)
			}
		}
		delete(t.credentials, credentialID)
		return nil
	})
}

func (m *Memory) CreateIdentity(ctx context.Context, ident *models.Identity) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.identities[ident.ID]; ok {
			return fmt.Errorf("identity %s: %w", ident.ID, sentinel.ErrConflict)
		}
		if _, ok := t.credentials[ident.CredentialID]; !ok {
			return fmt.Errorf("credential %s: %w", ident.CredentialID, sentinel.ErrInvalidState)
		}
		for _, existing := range t.identities {
			if existing.CredentialID == ident.CredentialID {
				return fmt.Errorf("credential %s already bound: %w", ident.CredentialID, sentinel.ErrConflict)
			}
			if sameContact(existing.Contact, ident.Contact) {
				return fmt.Errorf("contact %q: %w", ident.Contact, sentinel.ErrConflict)
			}
		}
		t.identities[ident.ID] = *ident
		return nil
	})
}

func (m *Memory) FindIdentity(ctx context.Context, identityID id.IdentityID) (*models.Identity, error) {
	var out *models.Identity
	err := m.read(ctx, func(t *tables) error {
		ident, ok := t.identities[identityID]
		if !ok {
			return sentinel.ErrNotFound
		}
		out = &ident
		return nil
	})
	return out, err
}

func (m *Memory) FindIdentityByCredential(ctx context.Context, credentialID id.CredentialID) (*models.Identity, error) {
	var out *models.Identity
	err := m.read(ctx, func(t *tables) error {
		for _, ident := range t.identities {
			if ident.CredentialID == credentialID {
				cp := ident
				out = &cp
				return nil
			}
		}
		return sentinel.ErrNotFound
	})
	return out, err
}

func (m *Memory) ContactExists(ctx context.Context, contact string) (bool, error) {
	var exists bool
	err := m.read(ctx, func(t *tables) error {
		for _, ident := range t.identities {
			if sameContact(ident.Contact, contact) {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

func (m *Memory) DeleteIdentity(ctx context.Context, identityID id.IdentityID) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.identities[identityID]; !ok {
			return sentinel.ErrNotFound
		}
		for _, p := range t.patients {
			if p.IdentityID == identityID {
				return fmt.Errorf("identity %s still has a patient profile: %w", identityID, sentinel.ErrInvalidState)
			}
		}
		for _, p := range t.medical {
			if p.IdentityID == identityID {
				return fmt.Errorf("identity %s still has a medical profile: %w", identityID, sentinel.ErrInvalidState)
			}
		}
		delete(t.identities, identityID)
		return nil
	})
}

func (m *Memory) CreatePatientProfile(ctx context.Context, p *models.PatientProfile) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.identities[p.IdentityID]; !ok {
			return fmt.Errorf("identity %s: %w", p.IdentityID, sentinel.ErrInvalidState)
		}
		for _, existing := range t.patients {
			if existing.IdentityID == p.IdentityID {
				return fmt.Errorf("patient profile for %s: %w", p.IdentityID, sentinel.ErrConflict)
			}
		}
		cp := *p
		cp.Age, cp.Weight, cp.Height = cloneInt(p.Age), cloneFloat(p.Weight), cloneFloat(p.Height)
		t.patients[p.ID] = cp
		return nil
	})
}

func (m *Memory) FindPatientProfile(ctx context.Context, patientID id.PatientID) (*models.PatientProfile, error) {
	var out *models.PatientProfile
	err := m.read(ctx, func(t *tables) error {
		p, ok := t.patients[patientID]
		if !ok {
			return sentinel.ErrNotFound
		}
		p.Age, p.Weight, p.Height = cloneInt(p.Age), cloneFloat(p.Weight), cloneFloat(p.Height)
		out = &p
		return nil
	})
	return out, err
}

func patientView(t *tables, p models.PatientProfile) *models.PatientView {
	ident := t.identities[p.IdentityID]
	p.Age, p.Weight, p.Height = cloneInt(p.Age), cloneFloat(p.Weight), cloneFloat(p.Height)
	return &models.PatientView{PatientProfile: p, DisplayName: ident.DisplayName, Contact: ident.Contact}
}

func (m *Memory) FindPatientView(ctx context.Context, patientID id.PatientID) (*models.PatientView, error) {
	var out *models.PatientView
	err := m.read(ctx, func(t *tables) error {
		p, ok := t.patients[patientID]
		if !ok {
			return sentinel.ErrNotFound
		}
		out = patientView(t, p)
		return nil
	})
	return out, err
}

// ListPatientViews returns every patient ordered by display name.
func (m *Memory) ListPatientViews(ctx context.Context) ([]*models.PatientView, error) {
	var out []*models.PatientView
	err := m.read(ctx, func(t *tables) error {
		for _, p := range t.patients {
			out = append(out, patientView(t, p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

func (m *Memory) DeletePatientProfile(ctx context.Context, patientID id.PatientID) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.patients[patientID]; !ok {
			return sentinel.ErrNotFound
		}
		delete(t.patients, patientID)
		return nil
	})
}

func (m *Memory) CreateMedicalProfile(ctx context.Context, p *models.MedicalProfile) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.identities[p.IdentityID]; !ok {
			return fmt.Errorf("identity %s: %w", p.IdentityID, sentinel.ErrInvalidState)
		}
		for _, existing := range t.medical {
			if existing.IdentityID == p.IdentityID {
				return fmt.Errorf("medical profile for %s: %w", p.IdentityID, sentinel.ErrConflict)
			}
		}
		cp := *p
		cp.YearsExperience = cloneInt(p.YearsExperience)
		t.medical[p.ID] = cp
		return nil
	})
}

func (m *Memory) FindMedicalProfileByIdentity(ctx context.Context, identityID id.IdentityID) (*models.MedicalProfile, error) {
	var out *models.MedicalProfile
	err := m.read(ctx, func(t *tables) error {
		for _, p := range t.medical {
			if p.IdentityID == identityID {
				cp := p
				cp.YearsExperience = cloneInt(p.YearsExperience)
				out = &cp
				return nil
			}
		}
		return sentinel.ErrNotFound
	})
	return out, err
}

func (m *Memory) CreateAdministrator(ctx context.Context, a *models.Administrator) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.identities[a.IdentityID]; !ok {
			return fmt.Errorf("identity %s: %w", a.IdentityID, sentinel.ErrInvalidState)
		}
		for _, existing := range t.administrators {
			if existing.IdentityID == a.IdentityID {
				return fmt.Errorf("administrator for %s: %w", a.IdentityID, sentinel.ErrConflict)
			}
		}
		t.administrators[a.ID] = *a
		return nil
	})
}

func (m *Memory) FindAdministrator(ctx context.Context, adminID id.AdminID) (*models.Administrator, error) {
	var out *models.Administrator
	err := m.read(ctx, func(t *tables) error {
		a, ok := t.administrators[adminID]
		if !ok {
			return sentinel.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (m *Memory) FindAdministratorByIdentity(ctx context.Context, identityID id.IdentityID) (*models.Administrator, error) {
	var out *models.Administrator
	err := m.read(ctx, func(t *tables) error {
		for _, a := range t.administrators {
			if a.IdentityID == identityID {
				cp := a
				out = &cp
				return nil
			}
		}
		return sentinel.ErrNotFound
	})
	return out, err
}
