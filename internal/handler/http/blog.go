package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/repository"
	"github.com/freshmarket/freshmarket/internal/service"
	"github.com/freshmarket/freshmarket/pkg/httputil"
	"github.com/freshmarket/freshmarket/pkg/middleware"
	"github.com/freshmarket/freshmarket/pkg/pagination"
	"github.com/freshmarket/freshmarket/pkg/validator"
)

// BlogHandler handles HTTP requests for blog posts and their interactions.
type BlogHandler struct {
	service *service.BlogService
	logger  *slog.Logger
}

// NewBlogHandler creates a new blog HTTP handler.
func NewBlogHandler(svc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateBlogRequest is the JSON request body for publishing a post.
type CreateBlogRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// UpdateBlogRequest is the JSON request body for updating a post.
type UpdateBlogRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=255"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

// CommentRequest is the JSON request body for posting or editing a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// --- Handlers ---

// ListBlogs handles GET /api/v1/blogs
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	filter := repository.BlogFilter{
		Page:    1,
		PerPage: 20,
	}

	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid positive integer"},
			})
			return
		}
		filter.Page = page
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "per_page must be a valid integer between 1 and 100"},
			})
			return
		}
		filter.PerPage = perPage
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filter.Search = &v
	}
	if v := r.URL.Query().Get("author_id"); v != "" {
		filter.AuthorID = &v
	}

	blogs, total, err := h.service.ListBlogs(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(blogs, total, filter.Page, filter.PerPage))
}

// GetBlog handles GET /api/v1/blogs/{idOrSlug}
// It accepts both a UUID and a slug for lookup.
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "blog id or slug is required"},
		})
		return
	}

	var (
		detail *domain.BlogDetail
		err    error
	)

	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		detail, err = h.service.GetBlog(r.Context(), idOrSlug)
	} else {
		detail, err = h.service.GetBlogBySlug(r.Context(), idOrSlug)
	}

	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// CreateBlog handles POST /api/v1/blogs
func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateBlogRequest
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

	blog, err := h.service.CreateBlog(r.Context(), &service.CreateBlogInput{
		AuthorID: middleware.UserIDFromContext(r.Context()),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: blog})
}

// UpdateBlog handles PUT /api/v1/blogs/{id}
func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateBlogRequest
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

	blog, err := h.service.UpdateBlog(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()), &service.UpdateBlogInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: blog})
}

// DeleteBlog handles DELETE /api/v1/blogs/{id}
func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteBlog(r.Context(), id.String(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /api/v1/blogs/{id}/comments
func (h *BlogHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	p := pagination.FromRequest(r)

	comments, total, err := h.service.ListComments(r.Context(), id.String(), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(comments, total, p.Page, p.PerPage))
}

// AddComment handles POST /api/v1/blogs/{id}/comments
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CommentRequest
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

	comment, err := h.service.AddComment(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: comment})
}

// UpdateComment handles PUT /api/v1/comments/{id}
func (h *BlogHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CommentRequest
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

	comment, err := h.service.UpdateComment(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comment})
}

// DeleteComment handles DELETE /api/v1/comments/{id}
func (h *BlogHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), id.String(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LikeBlog handles POST /api/v1/blogs/{id}/likes
func (h *BlogHandler) LikeBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	count, err := h.service.LikeBlog(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int{"like_count": count}})
}

// ShareBlog handles POST /api/v1/blogs/{id}/shares
func (h *BlogHandler) ShareBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	count, err := h.service.ShareBlog(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int{"share_count": count}})
}
