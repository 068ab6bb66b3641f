package models

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"medid/internal/documents"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/email"
)

const (
	maxLoginLength   = 64
	maxSecretLength  = 72
	maxDisplayLength = 200
)

// RegisterPatientRequest is the input to patient registration.
type RegisterPatientRequest struct {
	Login       string   `json:"login"`
	Secret      string   `json:"secret"`
	DisplayName string   `json:"display_name"`
	Contact     string   `json:"contact"`
	Age         *int     `json:"age,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Height      *float64 `json:"height,omitempty"`
}

func (r *RegisterPatientRequest) Normalize() {
	r.Login = strings.TrimSpace(r.Login)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Contact = email.Normalize(r.Contact)
}

func (r *RegisterPatientRequest) Validate() error {
	if err := validateAccount(r.Login, r.Secret, r.DisplayName, r.Contact); err != nil {
		return err
	}
	if r.Age != nil && (*r.Age < 0 || *r.Age > 150) {
		return dErrors.New(dErrors.CodeValidation, "age must be between 0 and 150")
	}
	if r.Weight != nil && *r.Weight <= 0 {
		return dErrors.New(dErrors.CodeValidation, "weight must be positive")
	}
	if r.Height != nil && *r.Height <= 0 {
		return dErrors.New(dErrors.CodeValidation, "height must be positive")
	}
	return nil
}

// RegisterMedicalRequest is the input to medical professional registration.
// Document is optional; when present it is uploaded before any write.
type RegisterMedicalRequest struct {
	Login           string              `json:"login"`
	Secret          string              `json:"secret"`
	DisplayName     string              `json:"display_name"`
	Contact         string              `json:"contact"`
	LicenseNumber   string              `json:"license_number"`
	Specialty       string              `json:"specialty"`
	Institution     string              `json:"institution"`
	YearsExperience *int                `json:"years_experience,omitempty"`
	Document        *documents.Document `json:"-"`
}

func (r *RegisterMedicalRequest) Normalize() {
	r.Login = strings.TrimSpace(r.Login)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Contact = email.Normalize(r.Contact)
	r.LicenseNumber = strings.TrimSpace(r.LicenseNumber)
	r.Specialty = strings.TrimSpace(r.Specialty)
	r.Institution = strings.TrimSpace(r.Institution)
}

func (r *RegisterMedicalRequest) Validate() error {
	if err := validateAccount(r.Login, r.Secret, r.DisplayName, r.Contact); err != nil {
		return err
	}
	switch {
	case r.LicenseNumber == "":
		return dErrors.New(dErrors.CodeValidation, "license_number is required")
	case r.Specialty == "":
		return dErrors.New(dErrors.CodeValidation, "specialty is required")
	case r.Institution == "":
		return dErrors.New(dErrors.CodeValidation, "institution is required")
	}
	if r.YearsExperience != nil && (*r.YearsExperience < 0 || *r.YearsExperience > 80) {
		return dErrors.New(dErrors.CodeValidation, "years_experience must be between 0 and 80")
	}
	return nil
}

func validateAccount(login, secret, displayName, contact string) error {
	switch {
	case login == "":
		return dErrors.New(dErrors.CodeValidation, "login is required")
	case len(login) > maxLoginLength:
		return dErrors.New(dErrors.CodeValidation, "login is too long")
	case strings.ContainsAny(login, " \t\r\n"):
		return dErrors.New(dErrors.CodeValidation, "login must not contain whitespace")
	case secret == "":
		return dErrors.New(dErrors.CodeValidation, "secret is required")
	case len(secret) > maxSecretLength:
		return dErrors.New(dErrors.CodeValidation, "secret is too long")
	case displayName == "":
		return dErrors.New(dErrors.CodeValidation, "display_name is required")
	case utf8.RuneCountInString(displayName) > maxDisplayLength:
		return dErrors.New(dErrors.CodeValidation, "display_name is too long")
	case contact == "":
		return dErrors.New(dErrors.CodeValidation, "contact is required")
	}
	if _, err := mail.ParseAddress(contact); err != nil {
		return dErrors.New(dErrors.CodeValidation, "contact must be a valid email address")
	}
	return nil
}
