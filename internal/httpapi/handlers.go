package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type runHandler struct {
	runs   RunService
	logger *zap.Logger
}

// getBundle serves GET /v1/runs/{runID}; "latest" selects the newest run.
func (h *runHandler) getBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.runs.GetBundle(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, h.logger, "getBundle", err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *runHandler) getDepartmentTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.runs.GetDepartmentTotals(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, h.logger, "getDepartmentTotals", err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *runHandler) getDailyCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.runs.GetDailyCounts(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, h.logger, "getDailyCounts", err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
