package show

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"showapi/internal/httpx"
)

// ListResponse is the body of GET /shows. Page is null when no page was
// requested.
type ListResponse struct {
	Success      bool    `json:"success"`
	Page         *int    `json:"page"`
	PageSize     int     `json:"page_size"`
	TotalPages   float64 `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Shows        []Show  `json:"shows"`
}

// EmptyResponse is the body of GET /shows before anything was ingested.
type EmptyResponse struct {
	Success      bool   `json:"success"`
	TotalResults int    `json:"total_results"`
	Shows        []Show `json:"shows"`
}

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// List handles GET /shows
// @Summary List ingested shows
// @Description Paged list of shows with their cast, 20 per page
// @Tags shows
// @Produce json
// @Param page query int false "Page number starting from 1; all shows when omitted"
// @Success 200 {object} ListResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /shows [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 0
	}

	shows, total, err := h.svc.List(r.Context(), page)
	if err != nil {
		if errors.Is(err, ErrNoShows) {
			httpx.JSON(w, http.StatusOK, EmptyResponse{Success: false, TotalResults: 0, Shows: []Show{}})
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	resp := ListResponse{
		Success:  true,
		PageSize: PageSize,
		// Raw ratio, not rounded up.
		TotalPages:   float64(total) / PageSize,
		TotalResults: total,
		Shows:        shows,
	}
	if page > 0 {
		resp.Page = &page
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Get handles GET /shows/{id}
// @Summary Get a show by id
// @Tags shows
// @Produce json
// @Param id path int true "Show id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /shows/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "show id must be a positive integer", nil)
		return
	}

	sh, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Show not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, sh, nil)
}
