package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetRunGauges(t *testing.T) {
	TicketsGenerated.Set(35)
	AgentsGenerated.Set(2)
	ResolutionRate.Set(61.5)
	TicketsByStatus.WithLabelValues("Aberto").Set(4)

	ResetRunGauges()

	assert.Zero(t, testutil.ToFloat64(TicketsGenerated))
	assert.Zero(t, testutil.ToFloat64(AgentsGenerated))
	assert.Zero(t, testutil.ToFloat64(ResolutionRate))
	assert.Zero(t, testutil.CollectAndCount(TicketsByStatus))
}

func TestPush(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, Push(srv.URL))
	assert.Equal(t, "/metrics/job/"+JobName, gotPath)
}

func TestPush_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Error(t, Push(srv.URL))
}
