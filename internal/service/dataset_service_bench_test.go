package service

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/godilite/supportsim/internal/domain"
	"github.com/godilite/supportsim/internal/repository"
	dbbuilder "github.com/godilite/supportsim/pkg/database"
)

func setupRealDB(tb testing.TB) *repository.DatasetRepository {
	tb.Helper()

	db, err := dbbuilder.New(context.Background(),
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithSetup(repository.Migrate),
	)
	if err != nil {
		tb.Fatalf("failed to create db pool via builder: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	return repository.NewDatasetRepository(db)
}

func benchWindow(tb testing.TB) domain.Window {
	tb.Helper()
	w, err := domain.ParseWindow("2024-01-01", "2024-01-31")
	if err != nil {
		tb.Fatalf("window: %v", err)
	}
	return w
}

func BenchmarkGenerate(b *testing.B) {
	svc := NewDatasetService(setupRealDB(b), zap.NewNop())
	req := DefaultRequest(42, benchWindow(b))

	b.ReportAllocs()
	for b.Loop() {
		if _, err := svc.Generate(context.Background(), req); err != nil {
			b.Fatalf("Generate failed: %v", err)
		}
	}
}

func BenchmarkGenerateAndStore(b *testing.B) {
	svc := NewDatasetService(setupRealDB(b), zap.NewNop())
	req := DefaultRequest(42, benchWindow(b))

	b.ReportAllocs()
	for b.Loop() {
		if _, err := svc.GenerateAndStore(context.Background(), req); err != nil {
			b.Fatalf("GenerateAndStore failed: %v", err)
		}
	}
}

func TestGenerateAndStore_RealDB(t *testing.T) {
	ctx := context.Background()
	svc := NewDatasetService(setupRealDB(t), zap.NewNop())

	bundle, err := svc.GenerateAndStore(ctx, DefaultRequest(42, benchWindow(t)))
	if err != nil {
		t.Fatalf("GenerateAndStore failed: %v", err)
	}

	latest, err := svc.GetBundle(ctx, LatestRun)
	if err != nil {
		t.Fatalf("GetBundle failed: %v", err)
	}
	if latest.Metadata.RunID != bundle.Metadata.RunID {
		t.Fatalf("latest run = %s, want %s", latest.Metadata.RunID, bundle.Metadata.RunID)
	}

	totals, err := svc.GetDepartmentTotals(ctx, bundle.Metadata.RunID)
	if err != nil {
		t.Fatalf("GetDepartmentTotals failed: %v", err)
	}
	sum := 0
	for _, d := range totals {
		sum += d.TotalTickets
	}
	if sum != len(bundle.Tickets) {
		t.Fatalf("department totals sum to %d, want %d", sum, len(bundle.Tickets))
	}
}
