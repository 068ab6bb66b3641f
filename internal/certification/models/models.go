package models

import (
	"time"

	id "medid/pkg/domain"
)

// Status is the review state of a certification request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo reports whether a request in s may move to next.
// pending may move anywhere; reviewed requests are final.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.IsValid() {
		return false
	}
	return s == StatusPending
}

func (s Status) String() string {
	return string(s)
}

// Request is a medical professional's certification request.
type Request struct {
	ID             id.RequestID
	IdentityID     id.IdentityID
	LicenseNumber  string
	Specialty      string
	Institution    string
	DocumentURL    string
	Status         Status
	ReviewedAt     *time.Time
	ReviewedBy     *id.AdminID
	ReviewComments string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RequestView is a request joined with its submitter and reviewer.
type RequestView struct {
	Request
	SubmitterName       string
	SubmitterContact    string
	ReviewerAccessLevel string
}
