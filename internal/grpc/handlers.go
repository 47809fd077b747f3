package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/godilite/supportsim/internal/dataset"
	"github.com/godilite/supportsim/internal/metrics"
	"github.com/godilite/supportsim/internal/service"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
	maxRunIDLength       = 64
)

type CacheKeyType string

const (
	cacheKeySummary     CacheKeyType = "grpc:summary"
	cacheKeyAgents      CacheKeyType = "grpc:agent_metrics"
	cacheKeyDepartments CacheKeyType = "grpc:department_metrics"
	cacheKeyDaily       CacheKeyType = "grpc:daily_volume"
	cacheKeyMonthly     CacheKeyType = "grpc:monthly_volume"
)

type GRPCHandlers struct {
	bundles  BundleReader
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

var _ DatasetServiceServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers. cache may be nil.
func NewGRPCHandlers(bundles BundleReader, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if bundles == nil {
		panic("nil BundleReader provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		bundles:  bundles,
		cache:    cache,
		logger:   logger.Named("grpc-handler"),
		cacheTTL: ttl,
	}
}

func parseRunID(req *wrapperspb.StringValue) (string, error) {
	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return service.LatestRun, nil
	}
	if len(id) > maxRunIDLength {
		return "", status.Errorf(codes.InvalidArgument, "run id longer than %d characters", maxRunIDLength)
	}
	return id, nil
}

func normalizeKey(prefix CacheKeyType, runID string) string {
	return fmt.Sprintf("%s:%s", prefix, runID)
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrRunNotFound):
		s.logger.Info("run not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrInvalidConfig):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

// section loads one part of a run's bundle through the cache.
func section[T any](ctx context.Context, s *GRPCHandlers, op string, prefix CacheKeyType, req *wrapperspb.StringValue, pick func(*dataset.Bundle) T) (T, error) {
	var zero T
	runID, err := parseRunID(req)
	if err != nil {
		return zero, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	policy := CachePolicy{TTL: s.cacheTTL, RefreshOnHit: runID == service.LatestRun}
	value, err := FindAndCache(ctx, s.cache, &s.sfGroup, normalizeKey(prefix, runID), policy, s.logger, func(fetchCtx context.Context) (T, error) {
		b, err := s.bundles.GetBundle(fetchCtx, runID)
		if err != nil {
			return zero, err
		}
		return pick(b), nil
	})
	if err != nil {
		return zero, s.handleError(ctx, op, err)
	}
	return value, nil
}

func (s *GRPCHandlers) GetSummary(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	summary, err := section(ctx, s, "GetSummary", cacheKeySummary, req, func(b *dataset.Bundle) metrics.Summary {
		return b.Summary
	})
	if err != nil {
		return nil, err
	}
	return s.toStruct("GetSummary", summary)
}

func (s *GRPCHandlers) GetAgentMetrics(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	agents, err := section(ctx, s, "GetAgentMetrics", cacheKeyAgents, req, func(b *dataset.Bundle) []metrics.AgentMetric {
		return b.AgentMetrics
	})
	if err != nil {
		return nil, err
	}
	return s.toList("GetAgentMetrics", agents)
}

func (s *GRPCHandlers) GetDepartmentMetrics(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	depts, err := section(ctx, s, "GetDepartmentMetrics", cacheKeyDepartments, req, func(b *dataset.Bundle) []metrics.DepartmentMetric {
		return b.DepartmentMetrics
	})
	if err != nil {
		return nil, err
	}
	return s.toList("GetDepartmentMetrics", depts)
}

func (s *GRPCHandlers) GetDailyVolume(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	daily, err := section(ctx, s, "GetDailyVolume", cacheKeyDaily, req, func(b *dataset.Bundle) map[string]metrics.DailyVolume {
		return b.Volume.Daily
	})
	if err != nil {
		return nil, err
	}
	return s.toStruct("GetDailyVolume", daily)
}

func (s *GRPCHandlers) GetMonthlyVolume(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	monthly, err := section(ctx, s, "GetMonthlyVolume", cacheKeyMonthly, req, func(b *dataset.Bundle) map[string]metrics.MonthlyVolume {
		return b.Volume.Monthly
	})
	if err != nil {
		return nil, err
	}
	return s.toStruct("GetMonthlyVolume", monthly)
}

// toStruct maps v onto a Struct through its JSON form, keeping the wire keys.
func (s *GRPCHandlers) toStruct(op string, v any) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	if err := convert(v, out); err != nil {
		s.logger.Error("response conversion failed", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func (s *GRPCHandlers) toList(op string, v any) (*structpb.ListValue, error) {
	out := &structpb.ListValue{}
	if err := convert(v, out); err != nil {
		s.logger.Error("response conversion failed", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func convert(v any, out proto.Message) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if string(data) == "null" {
		return nil
	}
	return protojson.Unmarshal(data, out)
}
