// Package handler exposes registration and the patient directory over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medid/internal/identity/models"
	id "medid/pkg/domain"
	"medid/pkg/platform/httputil"
	"medid/pkg/requestcontext"
)

// Service defines the identity operations the handler needs.
type Service interface {
	RegisterPatient(ctx context.Context, req *models.RegisterPatientRequest) (*models.RegistrationResult, error)
	RegisterMedical(ctx context.Context, req *models.RegisterMedicalRequest) (*models.RegistrationResult, error)
	ListPatients(ctx context.Context) ([]*models.PatientView, error)
	GetPatient(ctx context.Context, patientID id.PatientID) (*models.PatientView, error)
	DeletePatientAccount(ctx context.Context, patientID id.PatientID) error
}

// Handler wires identity endpoints to the identity service.
type Handler struct {
	service     Service
	logger      *slog.Logger
	maxDocument int64
}

// New constructs an identity handler. maxDocument bounds multipart uploads.
func New(service Service, logger *slog.Logger, maxDocument int64) *Handler {
	return &Handler{
		service:     service,
		logger:      logger,
		maxDocument: maxDocument,
	}
}

// RegisterPublic mounts the unauthenticated registration endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/register", h.HandleRegisterPatient)
	r.Post("/auth/register/medical", h.HandleRegisterMedical)
}

// RegisterPatients mounts the patient directory. Callers must already be
// restricted to administrators.
func (h *Handler) RegisterPatients(r chi.Router) {
	r.Get("/patients", h.HandleListPatients)
	r.Get("/patients/{id}", h.HandleGetPatient)
	r.Delete("/patients/{id}", h.HandleDeletePatient)
}

// HandleRegisterPatient handles POST /auth/register.
func (h *Handler) HandleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterPatientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.RegisterPatient(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "patient registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toRegistrationResponse(result))
}

// HandleRegisterMedical handles POST /auth/register/medical, as JSON or as a
// multipart form with an optional "document" file.
func (h *Handler) HandleRegisterMedical(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req *models.RegisterMedicalRequest
	if httputil.IsMultipart(r) {
		parsed, err := h.medicalFromForm(w, r)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid medical registration form",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		req = parsed
	} else {
		decoded, ok := httputil.DecodeAndPrepare[models.RegisterMedicalRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		req = decoded
	}

	result, err := h.service.RegisterMedical(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "medical registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toRegistrationResponse(result))
}

// HandleListPatients handles GET /patients.
func (h *Handler) HandleListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.service.ListPatients(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := make([]patientResponse, 0, len(patients))
	for _, p := range patients {
		resp = append(resp, toPatientResponse(p))
	}
	httputil.WriteJSON(w, http.StatusOK, patientsResponse{Patients: resp})
}

// HandleGetPatient handles GET /patients/{id}.
func (h *Handler) HandleGetPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := id.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patient, err := h.service.GetPatient(r.Context(), patientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPatientResponse(patient))
}

// HandleDeletePatient handles DELETE /patients/{id}.
func (h *Handler) HandleDeletePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientID, err := id.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeletePatientAccount(ctx, patientID); err != nil {
		h.logger.WarnContext(ctx, "patient account deletion failed",
			"request_id", requestcontext.RequestID(ctx),
			"patient_id", patientID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
