package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medid/internal/certification/models"
	"medid/internal/documents"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/httputil"
)

const documentField = "document"

// createBody is the JSON or form shape of a new request.
type createBody struct {
	IdentityID    string `json:"identity_id"`
	LicenseNumber string `json:"license_number"`
	Specialty     string `json:"specialty"`
	Institution   string `json:"institution"`
	DocumentURL   string `json:"document_url"`
}

// updateBody is the JSON or form shape of a review or amendment.
type updateBody struct {
	Status         string `json:"status"`
	ReviewedAt     string `json:"reviewed_at"`
	ReviewedBy     string `json:"reviewed_by"`
	ReviewComments string `json:"review_comments"`
	LicenseNumber  string `json:"license_number"`
	Specialty      string `json:"specialty"`
	Institution    string `json:"institution"`
	DocumentURL    string `json:"document_url"`
}

func (h *Handler) decodeCreate(w http.ResponseWriter, r *http.Request) (*models.CreateRequest, error) {
	var body createBody
	var doc *documents.Document
	if httputil.IsMultipart(r) {
		file, err := httputil.ParseMultipart(w, r, h.maxDocument, documentField)
		if err != nil {
			return nil, err
		}
		doc = toDocument(file)
		body = createBody{
			IdentityID:    r.FormValue("identity_id"),
			LicenseNumber: r.FormValue("license_number"),
			Specialty:     r.FormValue("specialty"),
			Institution:   r.FormValue("institution"),
			DocumentURL:   r.FormValue("document_url"),
		}
	} else if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}

	req := &models.CreateRequest{
		LicenseNumber: body.LicenseNumber,
		Specialty:     body.Specialty,
		Institution:   body.Institution,
		DocumentURL:   body.DocumentURL,
		Document:      doc,
	}
	if raw := strings.TrimSpace(body.IdentityID); raw != "" {
		identityID, err := id.ParseIdentityID(raw)
		if err != nil {
			return nil, err
		}
		req.IdentityID = identityID
	}
	return req, nil
}

func (h *Handler) decodeUpdate(w http.ResponseWriter, r *http.Request) (*models.UpdateRequest, error) {
	var body updateBody
	var doc *documents.Document
	if httputil.IsMultipart(r) {
		file, err := httputil.ParseMultipart(w, r, h.maxDocument, documentField)
		if err != nil {
			return nil, err
		}
		doc = toDocument(file)
		body = updateBody{
			Status:         r.FormValue("status"),
			ReviewedAt:     r.FormValue("reviewed_at"),
			ReviewedBy:     r.FormValue("reviewed_by"),
			ReviewComments: r.FormValue("review_comments"),
			LicenseNumber:  r.FormValue("license_number"),
			Specialty:      r.FormValue("specialty"),
			Institution:    r.FormValue("institution"),
			DocumentURL:    r.FormValue("document_url"),
		}
	} else if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}

	req := &models.UpdateRequest{
		Status:         models.Status(body.Status),
		ReviewComments: body.ReviewComments,
		LicenseNumber:  body.LicenseNumber,
		Specialty:      body.Specialty,
		Institution:    body.Institution,
		DocumentURL:    body.DocumentURL,
		Document:       doc,
	}
	if raw := strings.TrimSpace(body.ReviewedBy); raw != "" {
		adminID, err := id.ParseAdminID(raw)
		if err != nil {
			return nil, err
		}
		req.ReviewedBy = &adminID
	}
	if raw := strings.TrimSpace(body.ReviewedAt); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "reviewed_at must be an RFC 3339 timestamp")
		}
		req.ReviewedAt = &at
	}
	return req, nil
}

func toDocument(file *httputil.FilePart) *documents.Document {
	if file == nil {
		return nil
	}
	return &documents.Document{
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Data:        file.Data,
	}
}
