package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/godilite/supportsim/internal/config"
	"github.com/godilite/supportsim/internal/dataset"
	"github.com/godilite/supportsim/internal/export"
	handler "github.com/godilite/supportsim/internal/grpc"
	"github.com/godilite/supportsim/internal/httpapi"
	"github.com/godilite/supportsim/internal/repository"
	"github.com/godilite/supportsim/internal/service"
	"github.com/godilite/supportsim/internal/telemetry"
	"github.com/godilite/supportsim/pkg/cache"
	dbbuilder "github.com/godilite/supportsim/pkg/database"
	grpcsrv "github.com/godilite/supportsim/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	service    *service.DatasetService
	grpcServer *grpcsrv.Server
	httpServer *httpapi.Server
}

// NewApp wires storage, the optional cache and, when cfg.Serve is set, the
// gRPC and HTTP servers. Nothing is started.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithMaxOpenConns(cfg.DBMaxOpenConns),
		dbbuilder.WithMaxIdleConns(cfg.DBMaxIdleConns),
		dbbuilder.WithConnMaxLifetime(cfg.DBConnMaxLifetime),
		dbbuilder.WithSetup(repository.Migrate),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	a := &App{
		cfg:     cfg,
		logger:  logger,
		dbPool:  dbPool,
		service: service.NewDatasetService(repository.NewDatasetRepository(dbPool), logger),
	}

	if !cfg.Serve {
		return a, nil
	}

	if err := a.initServers(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *App) initServers(ctx context.Context) error {
	// the handlers must see a nil interface, not a nil *cache.Cache
	var cacher handler.Cacher
	if a.cfg.RedisAddr != "" {
		cacheClient, err := cache.New(ctx,
			cache.WithAddress(a.cfg.RedisAddr),
			cache.WithPassword(a.cfg.RedisPassword),
			cache.WithDB(a.cfg.RedisDB),
		)
		if err != nil {
			return fmt.Errorf("cache init failed: %w", err)
		}
		a.cache = cacheClient
		cacher = cacheClient
		a.logger.Info("Cache client initialized", zap.String("addr", a.cfg.RedisAddr))
	} else {
		a.logger.Info("Cache disabled, REDIS_ADDR is empty")
	}

	grpcHandlers := handler.NewGRPCHandlers(a.service, cacher, a.logger, a.cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(a.cfg.GRPCPort),
		grpcsrv.WithLogger(a.logger),
		grpcsrv.WithReflection(a.cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRecovery(true),
		grpcsrv.WithUnaryInterceptors(handler.MetricsInterceptor()),
	)
	if err != nil {
		return fmt.Errorf("failed to create gRPC server: %w", err)
	}
	grpcServer.RegisterService(handler.ServiceName, func(s grpc.ServiceRegistrar) {
		handler.RegisterDatasetServiceServer(s, grpcHandlers)
	})
	a.grpcServer = grpcServer

	httpServer, err := httpapi.NewServer(a.cfg.HTTPAddr, httpapi.NewRouter(a.service, a.dbPool, a.logger), a.logger)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	a.httpServer = httpServer
	return nil
}

// Generate runs the pipeline once: generate, store, export and push metrics.
// Export and push failures are logged but do not fail the run, since the
// bundle is already stored.
func (a *App) Generate(ctx context.Context) (*dataset.Bundle, error) {
	req := service.GenerationRequest{
		Seed:          a.cfg.Seed,
		Window:        a.cfg.Window,
		Headcount:     a.cfg.Headcount,
		WeekdayVolume: a.cfg.WeekdayVolume,
		WeekendVolume: a.cfg.WeekendVolume,
	}

	bundle, err := a.service.GenerateAndStore(ctx, req)
	if err != nil {
		return nil, err
	}

	if a.cfg.ExportPath != "" {
		if err := export.WriteJSON(a.cfg.ExportPath, bundle); err != nil {
			a.logger.Error("export failed", zap.String("path", a.cfg.ExportPath), zap.Error(err))
		} else {
			a.logger.Info("bundle exported", zap.String("path", a.cfg.ExportPath))
		}
	}

	if a.cfg.PushgatewayURL != "" {
		if err := telemetry.Push(a.cfg.PushgatewayURL); err != nil {
			a.logger.Warn("metrics push failed", zap.Error(err))
		}
	}
	return bundle, nil
}

// Run generates one dataset and, when serving, keeps the servers up until ctx
// is canceled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting")
	defer a.close()

	if _, err := a.Generate(ctx); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if a.grpcServer == nil {
		return nil
	}

	a.grpcServer.Start()
	a.httpServer.Start()

	<-ctx.Done()
	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP shutdown error", zap.Error(err))
	}
	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("shutdown completed but deadline exceeded", zap.Error(err))
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}
	return nil
}

// HTTPAddr reports the bound HTTP address, or "" when not serving.
func (a *App) HTTPAddr() string {
	if a.httpServer == nil {
		return ""
	}
	return a.httpServer.Addr().String()
}

func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}
}
