package handler

import (
	"time"

	"medid/internal/certification/models"
	id "medid/pkg/domain"
)

type requestResponse struct {
	ID                  id.RequestID  `json:"id"`
	IdentityID          id.IdentityID `json:"identity_id"`
	LicenseNumber       string        `json:"license_number"`
	Specialty           string        `json:"specialty"`
	Institution         string        `json:"institution"`
	DocumentURL         string        `json:"document_url,omitempty"`
	Status              string        `json:"status"`
	ReviewedAt          *time.Time    `json:"reviewed_at,omitempty"`
	ReviewedBy          *id.AdminID   `json:"reviewed_by,omitempty"`
	ReviewComments      string        `json:"review_comments,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
	SubmitterName       string        `json:"submitter_name,omitempty"`
	SubmitterContact    string        `json:"submitter_contact,omitempty"`
	ReviewerAccessLevel string        `json:"reviewer_access_level,omitempty"`
}

type listResponse struct {
	Requests []requestResponse `json:"requests"`
}

func fromRequest(r *models.Request) requestResponse {
	return requestResponse{
		ID:             r.ID,
		IdentityID:     r.IdentityID,
		LicenseNumber:  r.LicenseNumber,
		Specialty:      r.Specialty,
		Institution:    r.Institution,
		DocumentURL:    r.DocumentURL,
		Status:         r.Status.String(),
		ReviewedAt:     r.ReviewedAt,
		ReviewedBy:     r.ReviewedBy,
		ReviewComments: r.ReviewComments,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func fromView(v *models.RequestView) requestResponse {
	resp := fromRequest(&v.Request)
	resp.SubmitterName = v.SubmitterName
	resp.SubmitterContact = v.SubmitterContact
	resp.ReviewerAccessLevel = v.ReviewerAccessLevel
	return resp
}
