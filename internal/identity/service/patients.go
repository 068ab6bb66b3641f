package service

import (
	"context"
	"errors"
	"strings"

	"medid/internal/audit"
	"medid/internal/identity/models"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/sentinel"
	"medid/pkg/requestcontext"
)

const msgPatientNotFound = "patient not found"

// ListPatients returns every patient profile joined with its identity.
func (s *Service) ListPatients(ctx context.Context) ([]*models.PatientView, error) {
	patients, err := s.store.ListPatientViews(ctx)
	if err != nil {
		return nil, s.unexpected(ctx, err, "failed to list patients")
	}
	if patients == nil {
		patients = []*models.PatientView{}
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, patientID id.PatientID) (*models.PatientView, error) {
	patient, err := s.store.FindPatientView(ctx, patientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, msgPatientNotFound)
		}
		return nil, s.unexpected(ctx, err, "failed to load patient")
	}
	return patient, nil
}

// DeletePatientAccount removes the patient profile, its identity and the
// identity's credential in one transaction. Certification history is kept.
func (s *Service) DeletePatientAccount(ctx context.Context, patientID id.PatientID) error {
	ctx, span := s.tracer.Start(ctx, "identity.DeletePatientAccount")
	defer span.End()

	var identityID id.IdentityID
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		profile, err := s.store.FindPatientProfile(txCtx, patientID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, msgPatientNotFound)
			}
			return err
		}
		identityID = profile.IdentityID

		ident, err := s.store.FindIdentity(txCtx, profile.IdentityID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}

		if err := s.store.DeletePatientProfile(txCtx, profile.ID); err != nil {
			return err
		}
		if ident == nil {
			return nil
		}
		if err := s.store.DeleteIdentity(txCtx, ident.ID); err != nil {
			return err
		}
		return s.store.DeleteCredential(txCtx, ident.CredentialID)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return err
		}
		return s.txFailure(ctx, err, "patient account deletion")
	}

	s.logger.InfoContext(ctx, "patient account deleted",
		"request_id", requestcontext.RequestID(ctx),
		"patient_id", patientID.String(),
		"identity_id", identityID.String(),
	)
	s.emit(ctx, audit.Event{
		Action:     audit.EventPatientAccountDeleted,
		IdentityID: identityID,
		Role:       id.RolePatient,
		ActorID:    requestcontext.IdentityID(ctx).String(),
		Subject:    patientID.String(),
	})
	return nil
}

// isContactConflict reports whether a uniqueness failure came from the
// contact index rather than the login.
func isContactConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "contact_lower_idx") || strings.Contains(msg, `contact "`)
}

