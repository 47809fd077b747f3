package mocks

import (
	"context"
	"errors"

	"github.com/godilite/supportsim/internal/dataset"
	"github.com/godilite/supportsim/internal/repository/models"
)

// MockDatasetRepository is a mock implementation of the DatasetRepository
// interface for testing the service layer.
type MockDatasetRepository struct {
	SaveBundleFunc          func(ctx context.Context, b *dataset.Bundle) error
	GetBundleFunc           func(ctx context.Context, runID string) (*dataset.Bundle, error)
	LatestRunIDFunc         func(ctx context.Context) (string, error)
	RunExistsFunc           func(ctx context.Context, runID string) (bool, error)
	GetDepartmentTotalsFunc func(ctx context.Context, runID string) ([]models.DepartmentTotal, error)
	GetDailyCountsFunc      func(ctx context.Context, runID string) ([]models.DailyCount, error)
}

// SaveBundle implements the DatasetRepository interface
func (m *MockDatasetRepository) SaveBundle(ctx context.Context, b *dataset.Bundle) error {
	if m.SaveBundleFunc != nil {
		return m.SaveBundleFunc(ctx, b)
	}
	return errors.New("SaveBundleFunc not implemented")
}

// GetBundle implements the DatasetRepository interface
func (m *MockDatasetRepository) GetBundle(ctx context.Context, runID string) (*dataset.Bundle, error) {
	if m.GetBundleFunc != nil {
		return m.GetBundleFunc(ctx, runID)
	}
	return nil, errors.New("GetBundleFunc not implemented")
}

// LatestRunID implements the DatasetRepository interface
func (m *MockDatasetRepository) LatestRunID(ctx context.Context) (string, error) {
	if m.LatestRunIDFunc != nil {
		return m.LatestRunIDFunc(ctx)
	}
	return "", errors.New("LatestRunIDFunc not implemented")
}

// RunExists implements the DatasetRepository interface
func (m *MockDatasetRepository) RunExists(ctx context.Context, runID string) (bool, error) {
	if m.RunExistsFunc != nil {
		return m.RunExistsFunc(ctx, runID)
	}
	return false, errors.New("RunExistsFunc not implemented")
}

// GetDepartmentTotals implements the DatasetRepository interface
func (m *MockDatasetRepository) GetDepartmentTotals(ctx context.Context, runID string) ([]models.DepartmentTotal, error) {
	if m.GetDepartmentTotalsFunc != nil {
		return m.GetDepartmentTotalsFunc(ctx, runID)
	}
	return nil, errors.New("GetDepartmentTotalsFunc not implemented")
}

// GetDailyCounts implements the DatasetRepository interface
func (m *MockDatasetRepository) GetDailyCounts(ctx context.Context, runID string) ([]models.DailyCount, error) {
	if m.GetDailyCountsFunc != nil {
		return m.GetDailyCountsFunc(ctx, runID)
	}
	return nil, errors.New("GetDailyCountsFunc not implemented")
}
