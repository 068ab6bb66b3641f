package models

import (
	"strings"
	"time"

	"medid/internal/documents"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
)

// CreateRequest submits a new certification request. Either Document (uploaded
// by the service) or DocumentURL (already hosted) may be given.
type CreateRequest struct {
	IdentityID    id.IdentityID
	LicenseNumber string
	Specialty     string
	Institution   string
	DocumentURL   string
	Document      *documents.Document
}

func (r *CreateRequest) Normalize() {
	r.LicenseNumber = strings.TrimSpace(r.LicenseNumber)
	r.Specialty = strings.TrimSpace(r.Specialty)
	r.Institution = strings.TrimSpace(r.Institution)
	r.DocumentURL = strings.TrimSpace(r.DocumentURL)
}

func (r *CreateRequest) Validate() error {
	switch {
	case r.IdentityID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "identity_id is required")
	case r.LicenseNumber == "":
		return dErrors.New(dErrors.CodeValidation, "license_number is required")
	case r.Specialty == "":
		return dErrors.New(dErrors.CodeValidation, "specialty is required")
	case r.Institution == "":
		return dErrors.New(dErrors.CodeValidation, "institution is required")
	}
	return nil
}

// UpdateRequest reviews or amends a request. Empty license, specialty and
// institution keep their stored values; an absent document keeps the stored
// document URL.
type UpdateRequest struct {
	ID             id.RequestID
	Status         Status
	ReviewedAt     *time.Time
	ReviewedBy     *id.AdminID
	ReviewComments string
	LicenseNumber  string
	Specialty      string
	Institution    string
	DocumentURL    string
	Document       *documents.Document
}

func (r *UpdateRequest) Normalize() {
	r.Status = Status(strings.ToLower(strings.TrimSpace(string(r.Status))))
	r.ReviewComments = strings.TrimSpace(r.ReviewComments)
	r.LicenseNumber = strings.TrimSpace(r.LicenseNumber)
	r.Specialty = strings.TrimSpace(r.Specialty)
	r.Institution = strings.TrimSpace(r.Institution)
	r.DocumentURL = strings.TrimSpace(r.DocumentURL)
}

func (r *UpdateRequest) Validate() error {
	if r.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "request id is required")
	}
	if !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of pending, approved, rejected")
	}
	if r.Status.IsTerminal() && (r.ReviewedBy == nil || r.ReviewedBy.IsNil()) {
		return dErrors.New(dErrors.CodeValidation, "reviewed_by is required to approve or reject")
	}
	return nil
}
