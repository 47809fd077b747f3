package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/godilite/supportsim/internal/dataset"
	"github.com/godilite/supportsim/internal/repository/models"
	"github.com/godilite/supportsim/internal/telemetry"
)

const requestTimeout = 15 * time.Second

// RunService is the part of the dataset service the HTTP API exposes.
type RunService interface {
	GetBundle(ctx context.Context, runID string) (*dataset.Bundle, error)
	GetDepartmentTotals(ctx context.Context, runID string) ([]models.DepartmentTotal, error)
	GetDailyCounts(ctx context.Context, runID string) ([]models.DailyCount, error)
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter builds the HTTP routes. db may be nil, in which case readiness
// only reflects that the process is up.
func NewRouter(runs RunService, db Pinger, logger *zap.Logger) http.Handler {
	if runs == nil {
		panic("nil RunService provided to NewRouter")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	h := &runHandler{runs: runs, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthz(db))
	r.Handle("/metrics", promhttp.HandlerFor(telemetry.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1/runs/{runID}", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/", h.getBundle)
		r.Get("/departments", h.getDepartmentTotals)
		r.Get("/daily", h.getDailyCounts)
	})

	return r
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
