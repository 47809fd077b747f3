package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/supportsim/internal/dataset"
	"github.com/godilite/supportsim/internal/generator"
	"github.com/godilite/supportsim/internal/metrics"
	"github.com/godilite/supportsim/internal/repository/models"
	"github.com/godilite/supportsim/internal/telemetry"
)

const (
	dbTimeout   = 1 * time.Second
	saveTimeout = 30 * time.Second

	// LatestRun resolves to the most recently generated run.
	LatestRun = "latest"
)

var (
	ErrStorageFailure = errors.New("storage failure")
	ErrRunNotFound    = errors.New("run not found")
)

// DatasetService runs the generation pipeline and serves stored runs.
type DatasetService struct {
	storage DatasetRepository
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewDatasetService creates a new DatasetService instance.
func NewDatasetService(storage DatasetRepository, logger *zap.Logger) *DatasetService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &DatasetService{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Generate validates req and runs roster generation, ticket simulation,
// aggregation and assembly. Nothing is persisted.
func (s *DatasetService) Generate(ctx context.Context, req GenerationRequest) (*dataset.Bundle, error) {
	if err := req.Validate(); err != nil {
		telemetry.RunsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	telemetry.ResetRunGauges()

	bundle, err := s.generate(ctx, req)
	if err != nil {
		telemetry.RunsTotal.WithLabelValues("failure").Inc()
		s.logger.Error("generation failed", zap.Uint64("seed", req.Seed), zap.Error(err))
		return nil, err
	}
	telemetry.RunsTotal.WithLabelValues("success").Inc()
	record(bundle)
	return bundle, nil
}

func (s *DatasetService) generate(ctx context.Context, req GenerationRequest) (*dataset.Bundle, error) {
	cat := req.catalog()
	sampler := generator.NewSampler(req.Seed)
	runID := s.newID()
	log := s.logger.With(zap.String("run_id", runID), zap.Uint64("seed", req.Seed))

	started := time.Now()
	roster, err := generator.GenerateRoster(cat, req.Headcount, req.Window.End, sampler)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	observe("roster", started)
	log.Info("roster generated", zap.Int("agents", len(roster)), zap.Duration("took", time.Since(started)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = time.Now()
	tickets, err := generator.Simulate(cat, roster, generator.SimulationConfig{
		Window:        req.Window,
		WeekdayVolume: req.WeekdayVolume,
		WeekendVolume: req.WeekendVolume,
	}, sampler)
	if errors.Is(err, generator.ErrNoActiveAgents) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err != nil {
		return nil, fmt.Errorf("simulate tickets: %w", err)
	}
	observe("simulate", started)
	log.Info("tickets simulated",
		zap.Int("tickets", len(tickets)),
		zap.Int("days", req.Window.Days()),
		zap.Duration("took", time.Since(started)))

	started = time.Now()
	res, err := metrics.Aggregate(ctx, cat, req.Window, roster, tickets)
	if err != nil {
		return nil, fmt.Errorf("aggregate metrics: %w", err)
	}
	observe("aggregate", started)

	bundle := dataset.Assemble(dataset.AssembleInput{
		RunID:       runID,
		Seed:        req.Seed,
		GeneratedAt: s.now().UTC(),
		Catalog:     cat,
		Window:      req.Window,
		Agents:      roster,
		Tickets:     tickets,
		Metrics:     res,
	})
	log.Info("dataset assembled",
		zap.Int("departments", len(bundle.DepartmentMetrics)),
		zap.Float64("resolution_rate", bundle.Summary.ResolutionRate))
	return bundle, nil
}

// GenerateAndStore generates a bundle and persists it.
func (s *DatasetService) GenerateAndStore(ctx context.Context, req GenerationRequest) (*dataset.Bundle, error) {
	bundle, err := s.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	started := time.Now()
	if err := s.storage.SaveBundle(dbCtx, bundle); err != nil {
		s.logger.Error("failed to store bundle", zap.String("run_id", bundle.Metadata.RunID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	observe("store", started)

	s.logger.Info("bundle stored",
		zap.String("run_id", bundle.Metadata.RunID),
		zap.Int("tickets", bundle.Metadata.Records.Tickets))
	return bundle, nil
}

// GetBundle returns a stored bundle. An empty runID or LatestRun selects the
// most recent run.
func (s *DatasetService) GetBundle(ctx context.Context, runID string) (*dataset.Bundle, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := s.resolveRun(dbCtx, runID)
	if err != nil {
		return nil, err
	}

	bundle, err := s.storage.GetBundle(dbCtx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if bundle == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return bundle, nil
}

// GetDepartmentTotals returns the database-side department rollup of a run.
func (s *DatasetService) GetDepartmentTotals(ctx context.Context, runID string) ([]models.DepartmentTotal, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := s.resolveRun(dbCtx, runID)
	if err != nil {
		return nil, err
	}

	totals, err := s.storage.GetDepartmentTotals(dbCtx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if totals == nil {
		totals = []models.DepartmentTotal{}
	}
	return totals, nil
}

// GetDailyCounts returns the database-side ticket count per creation day.
func (s *DatasetService) GetDailyCounts(ctx context.Context, runID string) ([]models.DailyCount, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := s.resolveRun(dbCtx, runID)
	if err != nil {
		return nil, err
	}

	counts, err := s.storage.GetDailyCounts(dbCtx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if counts == nil {
		counts = []models.DailyCount{}
	}
	return counts, nil
}

func (s *DatasetService) resolveRun(ctx context.Context, runID string) (string, error) {
	if runID == "" || runID == LatestRun {
		id, err := s.storage.LatestRunID(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if id == "" {
			return "", fmt.Errorf("%w: no runs stored", ErrRunNotFound)
		}
		return id, nil
	}

	ok, err := s.storage.RunExists(ctx, runID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return runID, nil
}

func observe(stage string, started time.Time) {
	telemetry.StageDurationSeconds.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

func record(b *dataset.Bundle) {
	telemetry.TicketsGenerated.Set(float64(len(b.Tickets)))
	telemetry.AgentsGenerated.Set(float64(len(b.Agents)))
	telemetry.ResolutionRate.Set(b.Summary.ResolutionRate)
	for i := range b.Tickets {
		telemetry.TicketsByStatus.WithLabelValues(string(b.Tickets[i].Status)).Inc()
	}
}
