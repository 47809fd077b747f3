package grpc

import (
	"context"
	"path"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/godilite/supportsim/internal/telemetry"
)

// MetricsInterceptor counts every unary call by short method name and code.
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		telemetry.GRPCRequestsTotal.WithLabelValues(path.Base(info.FullMethod), status.Code(err).String()).Inc()
		return resp, err
	}
}
