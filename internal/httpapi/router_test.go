package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/supportsim/internal/dataset"
	"github.com/godilite/supportsim/internal/repository/models"
	"github.com/godilite/supportsim/internal/service"
)

type mockRunService struct {
	GetBundleFunc           func(ctx context.Context, runID string) (*dataset.Bundle, error)
	GetDepartmentTotalsFunc func(ctx context.Context, runID string) ([]models.DepartmentTotal, error)
	GetDailyCountsFunc      func(ctx context.Context, runID string) ([]models.DailyCount, error)
}

func (m *mockRunService) GetBundle(ctx context.Context, runID string) (*dataset.Bundle, error) {
	if m.GetBundleFunc != nil {
		return m.GetBundleFunc(ctx, runID)
	}
	return nil, service.ErrRunNotFound
}

func (m *mockRunService) GetDepartmentTotals(ctx context.Context, runID string) ([]models.DepartmentTotal, error) {
	if m.GetDepartmentTotalsFunc != nil {
		return m.GetDepartmentTotalsFunc(ctx, runID)
	}
	return []models.DepartmentTotal{}, nil
}

func (m *mockRunService) GetDailyCounts(ctx context.Context, runID string) ([]models.DailyCount, error) {
	if m.GetDailyCountsFunc != nil {
		return m.GetDailyCountsFunc(ctx, runID)
	}
	return []models.DailyCount{}, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_PanicsOnNilService(t *testing.T) {
	assert.Panics(t, func() { NewRouter(nil, nil, nil) })
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewRouter(&mockRunService{}, pingerFunc(func(ctx context.Context) error { return nil }), zaptest.NewLogger(t))
		rec := serve(t, h, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		h := NewRouter(&mockRunService{}, pingerFunc(func(ctx context.Context) error { return errors.New("disk I/O error") }), zaptest.NewLogger(t))
		rec := serve(t, h, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "disk I/O error")
	})

	t.Run("no database", func(t *testing.T) {
		rec := serve(t, NewRouter(&mockRunService{}, nil, zaptest.NewLogger(t)), "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, NewRouter(&mockRunService{}, nil, zaptest.NewLogger(t)), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "supportsim_")
}

func TestGetBundle(t *testing.T) {
	var gotRunID string
	svc := &mockRunService{
		GetBundleFunc: func(ctx context.Context, runID string) (*dataset.Bundle, error) {
			gotRunID = runID
			return &dataset.Bundle{Metadata: dataset.Metadata{RunID: "run-7", Version: dataset.SchemaVersion}}, nil
		},
	}
	rec := serve(t, NewRouter(svc, nil, zaptest.NewLogger(t)), "/v1/runs/latest")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "latest", gotRunID)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	meta := doc["metadata"].(map[string]any)
	assert.Equal(t, "run-7", meta["run_id"])
}

func TestGetBundle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown run", fmt.Errorf("%w: nope", service.ErrRunNotFound), http.StatusNotFound, "RUN_NOT_FOUND"},
		{"invalid config", service.ErrInvalidConfig, http.StatusBadRequest, "INVALID_CONFIG"},
		{"storage", fmt.Errorf("%w: locked", service.ErrStorageFailure), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRunService{
				GetBundleFunc: func(ctx context.Context, runID string) (*dataset.Bundle, error) {
					return nil, tt.err
				},
			}
			rec := serve(t, NewRouter(svc, nil, zaptest.NewLogger(t)), "/v1/runs/abc")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestGetDepartmentTotals(t *testing.T) {
	svc := &mockRunService{
		GetDepartmentTotalsFunc: func(ctx context.Context, runID string) ([]models.DepartmentTotal, error) {
			assert.Equal(t, "run-1", runID)
			return []models.DepartmentTotal{{Department: "Suporte Técnico", TotalTickets: 12, ResolvedTickets: 9}}, nil
		},
	}
	rec := serve(t, NewRouter(svc, nil, zaptest.NewLogger(t)), "/v1/runs/run-1/departments")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.DepartmentTotal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 12, got[0].TotalTickets)
}

func TestGetDailyCounts_EmptyIsArray(t *testing.T) {
	rec := serve(t, NewRouter(&mockRunService{}, nil, zaptest.NewLogger(t)), "/v1/runs/run-1/daily")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	rec := serve(t, NewRouter(&mockRunService{}, nil, zaptest.NewLogger(t)), "/v2/anything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StartShutdown(t *testing.T) {
	srv, err := NewServer("127.0.0.1:0", NewRouter(&mockRunService{}, nil, nil), nil)
	require.NoError(t, err)
	srv.Start()

	resp, err := http.Get("http://" + srv.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
}
