package mocks

import (
	"context"
	"errors"

	"github.com/godilite/supportsim/internal/dataset"
)

// MockBundleReader is a function-based mock of the BundleReader interface.
type MockBundleReader struct {
	GetBundleFunc func(ctx context.Context, runID string) (*dataset.Bundle, error)
}

// GetBundle implements the BundleReader interface
func (m *MockBundleReader) GetBundle(ctx context.Context, runID string) (*dataset.Bundle, error) {
	if m.GetBundleFunc != nil {
		return m.GetBundleFunc(ctx, runID)
	}
	return nil, errors.New("GetBundleFunc not implemented")
}
