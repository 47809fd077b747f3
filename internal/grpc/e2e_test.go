package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	handler "github.com/godilite/supportsim/internal/grpc"
	"github.com/godilite/supportsim/internal/grpc/mocks"
	"github.com/godilite/supportsim/internal/domain"
	"github.com/godilite/supportsim/internal/repository"
	"github.com/godilite/supportsim/internal/service"
	dbbuilder "github.com/godilite/supportsim/pkg/database"
	grpcsrv "github.com/godilite/supportsim/pkg/grpc/server"
)

func startServer(t *testing.T) (*handler.DatasetServiceClient, *service.DatasetService) {
	t.Helper()
	ctx := context.Background()
	// background cache writes may log after the test returns
	logger := zap.NewNop()

	db, err := dbbuilder.New(ctx, dbbuilder.WithSetup(repository.Migrate))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := service.NewDatasetService(repository.NewDatasetRepository(db), logger)
	handlers := handler.NewGRPCHandlers(svc, mocks.NewMemoryCacher(), logger, time.Minute)

	lis := bufconn.Listen(1 << 20)
	srv, err := grpcsrv.New(grpcsrv.WithListener(lis), grpcsrv.WithLogger(logger), grpcsrv.WithLogging(true))
	require.NoError(t, err)
	srv.RegisterService(handler.ServiceName, func(s grpc.ServiceRegistrar) {
		handler.RegisterDatasetServiceServer(s, handlers)
	})
	srv.Start()
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return handler.NewDatasetServiceClient(conn), svc
}

func TestE2E_DatasetService(t *testing.T) {
	client, svc := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("no runs yet", func(t *testing.T) {
		_, err := client.GetSummary(ctx, "")
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	window, err := domain.ParseWindow("2024-02-01", "2024-02-07")
	require.NoError(t, err)
	bundle, err := svc.GenerateAndStore(ctx, service.DefaultRequest(42, window))
	require.NoError(t, err)

	t.Run("summary of latest run", func(t *testing.T) {
		resp, err := client.GetSummary(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, float64(bundle.Summary.TotalTickets), resp.Fields["total_tickets"].GetNumberValue())
	})

	t.Run("agent metrics by run id", func(t *testing.T) {
		resp, err := client.GetAgentMetrics(ctx, bundle.Metadata.RunID)
		require.NoError(t, err)
		assert.Len(t, resp.Values, len(bundle.Agents))
	})

	t.Run("department metrics", func(t *testing.T) {
		resp, err := client.GetDepartmentMetrics(ctx, bundle.Metadata.RunID)
		require.NoError(t, err)

		total := 0.0
		for _, v := range resp.Values {
			total += v.GetStructValue().Fields["total_tickets"].GetNumberValue()
		}
		assert.Equal(t, float64(len(bundle.Tickets)), total)
	})

	t.Run("daily volume covers the window", func(t *testing.T) {
		resp, err := client.GetDailyVolume(ctx, bundle.Metadata.RunID)
		require.NoError(t, err)
		assert.Len(t, resp.Fields, 7)
	})

	t.Run("monthly volume", func(t *testing.T) {
		resp, err := client.GetMonthlyVolume(ctx, bundle.Metadata.RunID)
		require.NoError(t, err)
		assert.Contains(t, resp.Fields, "2024-02")
	})

	t.Run("unknown run", func(t *testing.T) {
		_, err := client.GetSummary(ctx, "does-not-exist")
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}
