// Package telemetry holds the prometheus metrics of a generation run.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the custom prometheus registry for the application.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// JobName labels pushes to the pushgateway.
const JobName = "supportsim"

// StageDurationSeconds tracks how long each pipeline stage takes.
var StageDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "supportsim",
	Name:      "stage_duration_seconds",
	Help:      "Time taken by each generation stage",
	Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
}, []string{"stage"})

// RunsTotal counts generation runs by outcome.
var RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "supportsim",
	Name:      "runs_total",
	Help:      "Generation runs by outcome",
}, []string{"outcome"})

// TicketsGenerated tracks the ticket count of the last run.
var TicketsGenerated = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "supportsim",
	Name:      "tickets_generated",
	Help:      "Tickets generated by the last run",
})

// AgentsGenerated tracks roster size of the last run.
var AgentsGenerated = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "supportsim",
	Name:      "agents_generated",
	Help:      "Agents generated by the last run",
})

// TicketsByStatus breaks the last run's tickets down by status.
var TicketsByStatus = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "supportsim",
	Name:      "tickets_by_status",
	Help:      "Tickets of the last run by status",
}, []string{"status"})

// ResolutionRate is the last run's overall resolution percentage.
var ResolutionRate = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "supportsim",
	Name:      "resolution_rate_percent",
	Help:      "Overall resolution rate of the last run",
})

// CacheLookupsTotal counts read-through cache lookups by result.
var CacheLookupsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "supportsim",
	Subsystem: "cache",
	Name:      "lookups_total",
	Help:      "Cache lookups by result (hit, miss, error)",
}, []string{"result"})

// GRPCRequestsTotal counts served RPCs by method and status code.
var GRPCRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "supportsim",
	Subsystem: "grpc",
	Name:      "requests_total",
	Help:      "Served gRPC requests by method and code",
}, []string{"method", "code"})

// ResetRunGauges clears the per-run gauges before a new run.
func ResetRunGauges() {
	TicketsGenerated.Set(0)
	AgentsGenerated.Set(0)
	ResolutionRate.Set(0)
	TicketsByStatus.Reset()
}

// Push sends the registry to a pushgateway.
func Push(url string) error {
	if err := push.New(url, JobName).Gatherer(Registry).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
