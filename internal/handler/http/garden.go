package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freshmarket/freshmarket/internal/service"
	"github.com/freshmarket/freshmarket/pkg/httputil"
	"github.com/freshmarket/freshmarket/pkg/validator"
)

// GardenHandler handles HTTP requests for gardens and farmer profiles.
type GardenHandler struct {
	service *service.GardenService
	logger  *slog.Logger
}

// NewGardenHandler creates a new garden HTTP handler.
func NewGardenHandler(svc *service.GardenService, logger *slog.Logger) *GardenHandler {
	return &GardenHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// GardenRequest is the JSON request body for creating or updating a garden.
type GardenRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Location    string `json:"location" validate:"required,max=255"`
	Size        string `json:"size" validate:"max=100"`
	Description string `json:"description"`
}

// FarmerRequest is the JSON request body for creating or updating a farmer
// profile.
type FarmerRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=30"`
}

// --- Handlers ---

// ListGardens handles GET /api/v1/gardens
func (h *GardenHandler) ListGardens(w http.ResponseWriter, r *http.Request) {
	page, perPage := 1, 20

	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid positive integer"},
			})
			return
		}
		page = p
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		pp, err := strconv.Atoi(v)
		if err != nil || pp < 1 || pp > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "per_page must be a valid integer between 1 and 100"},
			})
			return
		}
		perPage = pp
	}

	gardens, total, err := h.service.ListGardens(r.Context(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(gardens, total, page, perPage))
}

// GetGarden handles GET /api/v1/gardens/{id}
func (h *GardenHandler) GetGarden(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	garden, err := h.service.GetGarden(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: garden})
}

// CreateGarden handles POST /api/v1/gardens
func (h *GardenHandler) CreateGarden(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req GardenRequest
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

	garden, err := h.service.CreateGarden(r.Context(), &service.GardenInput{
		Name:        req.Name,
		Location:    req.Location,
		Size:        req.Size,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: garden})
}

// UpdateGarden handles PUT /api/v1/gardens/{id}
func (h *GardenHandler) UpdateGarden(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req GardenRequest
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

	garden, err := h.service.UpdateGarden(r.Context(), id.String(), &service.GardenInput{
		Name:        req.Name,
		Location:    req.Location,
		Size:        req.Size,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: garden})
}

// DeleteGarden handles DELETE /api/v1/gardens/{id}
func (h *GardenHandler) DeleteGarden(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteGarden(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFarmers handles GET /api/v1/products/{productId}/farmers
func (h *GardenHandler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	farmers, err := h.service.ListFarmersByProduct(r.Context(), productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: farmers})
}

// CreateFarmer handles POST /api/v1/farmers
func (h *GardenHandler) CreateFarmer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req FarmerRequest
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

	farmer, err := h.service.CreateFarmer(r.Context(), &service.FarmerInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: farmer})
}

// UpdateFarmer handles PUT /api/v1/farmers/{id}
func (h *GardenHandler) UpdateFarmer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req FarmerRequest
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

	farmer, err := h.service.UpdateFarmer(r.Context(), id.String(), &service.FarmerInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: farmer})
}

// DeleteFarmer handles DELETE /api/v1/farmers/{id}
func (h *GardenHandler) DeleteFarmer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteFarmer(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
