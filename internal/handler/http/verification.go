package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshmarket/freshmarket/internal/service"
	"github.com/freshmarket/freshmarket/pkg/httputil"
	"github.com/freshmarket/freshmarket/pkg/middleware"
	"github.com/freshmarket/freshmarket/pkg/validator"
)

// VerificationHandler handles HTTP requests for identity verification.
type VerificationHandler struct {
	service *service.VerificationService
	logger  *slog.Logger
}

// NewVerificationHandler creates a new verification HTTP handler.
func NewVerificationHandler(svc *service.VerificationService, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// SubmitVerificationRequest is the JSON request body for an identity
// submission. The image fields are URLs of previously uploaded files.
type SubmitVerificationRequest struct {
	DocumentType     string `json:"document_type" validate:"required,oneof=national_id passport driving_license"`
	DocumentNumber   string `json:"document_number" validate:"required,max=50"`
	DocumentImageURL string `json:"document_image_url" validate:"required,url"`
	PhotoImageURL    string `json:"photo_image_url" validate:"required,url"`
}

// ResubmitVerificationRequest is the JSON request body for resubmitting after
// a rejection. Image URLs are optional; omitted ones keep their prior value.
type ResubmitVerificationRequest struct {
	DocumentType     string `json:"document_type" validate:"required,oneof=national_id passport driving_license"`
	DocumentNumber   string `json:"document_number" validate:"required,max=50"`
	DocumentImageURL string `json:"document_image_url" validate:"omitempty,url"`
	PhotoImageURL    string `json:"photo_image_url" validate:"omitempty,url"`
}

// --- Handlers ---

// Submit handles POST /api/v1/verifications
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	verification, err := h.service.Submit(r.Context(), &service.SubmitVerificationInput{
		UserID:           middleware.UserIDFromContext(r.Context()),
		DocumentType:     req.DocumentType,
		DocumentNumber:   req.DocumentNumber,
		DocumentImageURL: req.DocumentImageURL,
		PhotoImageURL:    req.PhotoImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: verification})
}

// Resubmit handles PUT /api/v1/verifications/{id}
func (h *VerificationHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ResubmitVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	verification, err := h.service.Resubmit(r.Context(), id.String(), &service.SubmitVerificationInput{
		UserID:           middleware.UserIDFromContext(r.Context()),
		DocumentType:     req.DocumentType,
		DocumentNumber:   req.DocumentNumber,
		DocumentImageURL: req.DocumentImageURL,
		PhotoImageURL:    req.PhotoImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: verification})
}

// Get handles GET /api/v1/verifications/{id}
func (h *VerificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	verification, err := h.service.Get(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: verification})
}

// GetMine handles GET /api/v1/users/me/verification
func (h *VerificationHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	verification, err := h.service.GetByUser(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: verification})
}
