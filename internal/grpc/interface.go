package grpc

import (
	"context"
	"time"

	"github.com/godilite/supportsim/internal/dataset"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// BundleReader is the part of the dataset service the handlers call.
type BundleReader interface {
	GetBundle(ctx context.Context, runID string) (*dataset.Bundle, error)
}
