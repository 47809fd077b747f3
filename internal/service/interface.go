package service

import (
	"context"

	"github.com/godilite/supportsim/internal/dataset"
	"github.com/godilite/supportsim/internal/repository/models"
)

// DatasetRepository defines the storage operations the service needs.
type DatasetRepository interface {
	SaveBundle(ctx context.Context, b *dataset.Bundle) error
	GetBundle(ctx context.Context, runID string) (*dataset.Bundle, error)
	LatestRunID(ctx context.Context) (string, error)
	RunExists(ctx context.Context, runID string) (bool, error)
	GetDepartmentTotals(ctx context.Context, runID string) ([]models.DepartmentTotal, error)
	GetDailyCounts(ctx context.Context, runID string) ([]models.DailyCount, error)
}
