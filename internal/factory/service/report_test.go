package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/internal/factory/service"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
	"github.com/pipetrack/pipetrack-backend/pkg/testutil"
)

func newReportService(t *testing.T) (*service.ReportService, *service.LabelService) {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	log := logger.New("test", "test")
	require.NoError(t, repository.Migrate(context.Background(), db, log))

	labelRepo := repository.NewLabelRepository(db)
	reportRepo := repository.NewReportRepository(db)

	labels := service.NewLabelService(labelRepo, service.NewLogPrinter(log), log)
	return service.NewReportService(reportRepo, db, log), labels
}

func TestReportService_Stats(t *testing.T) {
	ctx := context.Background()
	reports, labels := newReportService(t)

	for i := 0; i < 3; i++ {
		_, err := labels.CreateLabel(ctx, &repository.Label{
			PipeName: "PVC-110", Size: "110mm", Color: "Blue", Weight: 12.5,
		})
		require.NoError(t, err)
	}

	stats, err := reports.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(3), stats.Stock)
	assert.Zero(t, stats.Dispatched)

	require.Len(t, stats.StockSummary, 1)
	assert.Equal(t, int64(3), stats.StockSummary[0].Stock)

	require.Len(t, stats.ProductionChart, 1)
	assert.Equal(t, int64(3), stats.ProductionChart[0].Count)
}

func TestReportService_Backup(t *testing.T) {
	ctx := context.Background()
	reports, labels := newReportService(t)

	_, err := labels.CreateLabel(ctx, &repository.Label{
		PipeName: "PVC-110", Size: "110mm", Color: "Blue", Weight: 12.5,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, reports.Backup(ctx, &buf))

	// A valid sqlite file starts with the format header
	require.Greater(t, buf.Len(), 16)
	assert.Equal(t, []byte("SQLite format 3\x00"), buf.Bytes()[:16])
}
