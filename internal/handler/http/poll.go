package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freshmarket/freshmarket/internal/service"
	"github.com/freshmarket/freshmarket/pkg/httputil"
	"github.com/freshmarket/freshmarket/pkg/middleware"
	"github.com/freshmarket/freshmarket/pkg/validator"
)

// PollHandler handles HTTP requests for poll and voting endpoints.
type PollHandler struct {
	service *service.PollService
	logger  *slog.Logger
}

// NewPollHandler creates a new poll HTTP handler.
func NewPollHandler(svc *service.PollService, logger *slog.Logger) *PollHandler {
	return &PollHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreatePollRequest is the JSON request body for creating a poll. Choices
// keep the order they are given in.
type CreatePollRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Choices     []string `json:"choices" validate:"required,min=2,dive,required,max=255"`
}

// CastVoteRequest is the JSON request body for voting on a poll.
type CastVoteRequest struct {
	ChoiceID string `json:"choice_id" validate:"required,uuid"`
}

// --- Handlers ---

// ListPolls handles GET /api/v1/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
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

	polls, total, err := h.service.ListPolls(r.Context(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(polls, total, page, perPage))
}

// GetPoll handles GET /api/v1/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: poll})
}

// CreatePoll handles POST /api/v1/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreatePollRequest
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

	poll, err := h.service.CreatePoll(r.Context(), &service.CreatePollInput{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   middleware.UserIDFromContext(r.Context()),
		Choices:     req.Choices,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: poll})
}

// DeletePoll handles DELETE /api/v1/polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeletePoll(r.Context(), id.String(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CastVote handles POST /api/v1/polls/{id}/votes
func (h *PollHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CastVoteRequest
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

	vote, err := h.service.CastVote(r.Context(), id.String(), req.ChoiceID, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: vote})
}

// Tally handles GET /api/v1/polls/{id}/tally
func (h *PollHandler) Tally(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	entries, err := h.service.Tally(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entries})
}
