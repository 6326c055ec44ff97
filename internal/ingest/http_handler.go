package ingest

import (
	"context"
	"errors"
	"net/http"

	"showapi/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	runCtx context.Context
}

// NewHTTPHandler runs triggered cycles on runCtx instead of the request
// context, so a client disconnect does not stop a cycle. The owner of
// runCtx cancels it on shutdown and then calls Service.Wait.
func NewHTTPHandler(runCtx context.Context, svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc, runCtx: runCtx}
}

// Trigger handles POST /internal/jobs/ingest
// @Summary Trigger an ingest cycle
// @Description Runs one crawl and backfill cycle synchronously and returns the recorded run
// @Tags internal
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /internal/jobs/ingest [post]
func (h *HTTPHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Run(h.runCtx); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			httpx.JSONError(w, r, http.StatusConflict, "RUN_IN_PROGRESS", err.Error(), nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INGEST_FAILED", err.Error(), nil)
		return
	}

	run, err := h.svc.LatestRun(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, run, nil)
}

// Latest handles GET /internal/jobs/ingest/latest
// @Summary Latest ingest run
// @Tags internal
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /internal/jobs/ingest/latest [get]
func (h *HTTPHandler) Latest(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.LatestRun(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoRuns) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No ingest run recorded", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, run, map[string]any{"running": h.svc.Running()})
}
