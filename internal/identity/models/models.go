package models

import (
	"time"

	id "medid/pkg/domain"
)

// Credential is the login/secret pair an identity authenticates with.
type Credential struct {
	ID         id.CredentialID
	Login      string
	SecretHash string
	CreatedAt  time.Time
}

// Identity is a person known to the system. Every identity has exactly one
// credential and exactly one role profile matching its role.
type Identity struct {
	ID           id.IdentityID
	CredentialID id.CredentialID
	Role         id.Role
	DisplayName  string
	Contact      string
	CreatedAt    time.Time
}

// PatientProfile holds patient vitals. All measurements are optional.
type PatientProfile struct {
	ID         id.PatientID
	IdentityID id.IdentityID
	Age        *int
	Weight     *float64
	Height     *float64
}

// MedicalProfile describes a medical professional.
type MedicalProfile struct {
	ID              id.MedicalProfileID
	IdentityID      id.IdentityID
	LicenseNumber   string
	Specialty       string
	Institution     string
	YearsExperience *int
	DocumentURL     string
}

// Administrator reviews certification requests.
type Administrator struct {
	ID          id.AdminID
	IdentityID  id.IdentityID
	AccessLevel string
}

// PatientView is a patient profile joined with its identity.
type PatientView struct {
	PatientProfile
	DisplayName string
	Contact     string
}

// RegistrationResult is returned by both registration paths.
type RegistrationResult struct {
	IdentityID id.IdentityID
	Role       id.Role
	// PatientID is set for patient registrations.
	PatientID id.PatientID
	// MedicalProfileID, RequestID and DocumentURL are set for medical registrations.
	MedicalProfileID id.MedicalProfileID
	RequestID        id.RequestID
	DocumentURL      string
}
