// Package handler exposes certification requests over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medid/internal/certification/models"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/httputil"
	"medid/pkg/requestcontext"
)

// Service defines the certification operations the handler needs.
type Service interface {
	List(ctx context.Context) ([]*models.RequestView, error)
	Get(ctx context.Context, requestID id.RequestID) (*models.RequestView, error)
	Create(ctx context.Context, req *models.CreateRequest) (*models.Request, error)
	Update(ctx context.Context, req *models.UpdateRequest) (*models.RequestView, error)
	Delete(ctx context.Context, requestID id.RequestID) error
}

// Handler wires certification endpoints to the certification service.
type Handler struct {
	service     Service
	logger      *slog.Logger
	maxDocument int64
}

// New constructs a certification handler. maxDocument bounds multipart uploads.
func New(service Service, logger *slog.Logger, maxDocument int64) *Handler {
	return &Handler{
		service:     service,
		logger:      logger,
		maxDocument: maxDocument,
	}
}

// RegisterSubmit mounts request creation, open to medical professionals and
// administrators.
func (h *Handler) RegisterSubmit(r chi.Router) {
	r.Post("/certification-requests", h.HandleCreate)
}

// RegisterReview mounts the administrator endpoints.
func (h *Handler) RegisterReview(r chi.Router) {
	r.Get("/certification-requests", h.HandleList)
	r.Get("/certification-requests/{id}", h.HandleGet)
	r.Put("/certification-requests/{id}", h.HandleUpdate)
	r.Delete("/certification-requests/{id}", h.HandleDelete)
}

// HandleList handles GET /certification-requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := make([]requestResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, fromView(v))
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Requests: resp})
}

// HandleGet handles GET /certification-requests/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	requestID, err := id.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.Get(r.Context(), requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromView(view))
}

// HandleCreate handles POST /certification-requests. Medical professionals
// always submit for themselves; administrators name the submitter.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := h.decodeCreate(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid certification request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if principal, ok := requestcontext.PrincipalFrom(ctx); ok && principal.Role == id.RoleMedical {
		req.IdentityID = principal.IdentityID
	}
	if req.IdentityID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "identity_id is required"))
		return
	}

	created, err := h.service.Create(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "certification request creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fromRequest(created))
}

// HandleUpdate handles PUT /certification-requests/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	certID, err := id.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := h.decodeUpdate(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid certification update",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	req.ID = certID

	view, err := h.service.Update(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "certification request update failed",
			"request_id", requestID,
			"certification_request_id", certID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromView(view))
}

// HandleDelete handles DELETE /certification-requests/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	certID, err := id.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), certID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
