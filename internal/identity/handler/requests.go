package handler

import (
	"net/http"
	"strconv"
	"strings"

	"medid/internal/documents"
	"medid/internal/identity/models"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/httputil"
)

// documentField is the multipart part carrying the supporting document.
const documentField = "document"

func (h *Handler) medicalFromForm(w http.ResponseWriter, r *http.Request) (*models.RegisterMedicalRequest, error) {
	file, err := httputil.ParseMultipart(w, r, h.maxDocument, documentField)
	if err != nil {
		return nil, err
	}
	years, err := formInt(r, "years_experience")
	if err != nil {
		return nil, err
	}
	req := &models.RegisterMedicalRequest{
		Login:           r.FormValue("login"),
		Secret:          r.FormValue("secret"),
		DisplayName:     r.FormValue("display_name"),
		Contact:         r.FormValue("contact"),
		LicenseNumber:   r.FormValue("license_number"),
		Specialty:       r.FormValue("specialty"),
		Institution:     r.FormValue("institution"),
		YearsExperience: years,
	}
	if file != nil {
		req.Document = &documents.Document{
			FileName:    file.FileName,
			ContentType: file.ContentType,
			Data:        file.Data,
		}
	}
	return req, nil
}

// formInt reads an optional integer form field.
func formInt(r *http.Request, field string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, field+" must be an integer")
	}
	return &n, nil
}
