package domain

import (
	"github.com/google/uuid"

	dErrors "medid/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so that an identity id can never be
// passed where a patient profile id is expected.
type (
	IdentityID       uuid.UUID
	CredentialID     uuid.UUID
	PatientID        uuid.UUID
	MedicalProfileID uuid.UUID
	RequestID        uuid.UUID
	AdminID          uuid.UUID
)

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

func ParseIdentityID(s string) (IdentityID, error) {
	u, err := parseUUID(s, "identity id")
	return IdentityID(u), err
}

func ParseCredentialID(s string) (CredentialID, error) {
	u, err := parseUUID(s, "credential id")
	return CredentialID(u), err
}

func ParsePatientID(s string) (PatientID, error) {
	u, err := parseUUID(s, "patient id")
	return PatientID(u), err
}

func ParseMedicalProfileID(s string) (MedicalProfileID, error) {
	u, err := parseUUID(s, "medical profile id")
	return MedicalProfileID(u), err
}

func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID(s, "request id")
	return RequestID(u), err
}

func ParseAdminID(s string) (AdminID, error) {
	u, err := parseUUID(s, "administrator id")
	return AdminID(u), err
}

func (id IdentityID) String() string       { return uuid.UUID(id).String() }
func (id CredentialID) String() string     { return uuid.UUID(id).String() }
func (id PatientID) String() string        { return uuid.UUID(id).String() }
func (id MedicalProfileID) String() string { return uuid.UUID(id).String() }
func (id RequestID) String() string        { return uuid.UUID(id).String() }
func (id AdminID) String() string          { return uuid.UUID(id).String() }

func (id IdentityID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CredentialID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PatientID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id MedicalProfileID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id AdminID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
