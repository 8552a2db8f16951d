package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/freshmarket/freshmarket/internal/service"
	"github.com/freshmarket/freshmarket/pkg/httputil"
	"github.com/freshmarket/freshmarket/pkg/validator"
)

// BannerHandler handles HTTP requests for banners and categories.
type BannerHandler struct {
	service *service.BannerService
	logger  *slog.Logger
}

// NewBannerHandler creates a new banner HTTP handler.
func NewBannerHandler(svc *service.BannerService, logger *slog.Logger) *BannerHandler {
	return &BannerHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// BannerRequest is the JSON request body for creating or updating a banner.
// Countdown, when set, is the RFC 3339 moment the promotion ends.
type BannerRequest struct {
	Title      string     `json:"title" validate:"required,max=255"`
	ImageURL   string     `json:"image_url" validate:"required,url"`
	LinkURL    string     `json:"link_url" validate:"omitempty,url"`
	Active     bool       `json:"active"`
	CategoryID *string    `json:"category_id" validate:"omitempty,uuid"`
	Countdown  *time.Time `json:"countdown"`
}

// CategoryRequest is the JSON request body for creating a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// --- Handlers ---

// ListLiveBanners handles GET /api/v1/banners
func (h *BannerHandler) ListLiveBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.service.ListLiveBanners(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: banners})
}

// CreateBanner handles POST /api/v1/banners
func (h *BannerHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req BannerRequest
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

	banner, err := h.service.CreateBanner(r.Context(), &service.BannerInput{
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		LinkURL:    req.LinkURL,
		Active:     req.Active,
		CategoryID: req.CategoryID,
		Countdown:  req.Countdown,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: banner})
}

// UpdateBanner handles PUT /api/v1/banners/{id}
func (h *BannerHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req BannerRequest
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

	banner, err := h.service.UpdateBanner(r.Context(), id.String(), &service.BannerInput{
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		LinkURL:    req.LinkURL,
		Active:     req.Active,
		CategoryID: req.CategoryID,
		Countdown:  req.Countdown,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: banner})
}

// DeleteBanner handles DELETE /api/v1/banners/{id}
func (h *BannerHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteBanner(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/v1/categories
func (h *BannerHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// CreateCategory handles POST /api/v1/categories
func (h *BannerHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CategoryRequest
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

	category, err := h.service.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: category})
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *BannerHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
