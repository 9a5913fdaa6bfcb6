package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/internal/factory/service"
	"github.com/pipetrack/pipetrack-backend/pkg/database"
	"github.com/pipetrack/pipetrack-backend/pkg/errors"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
	"github.com/pipetrack/pipetrack-backend/pkg/testutil"
)

// fakePrinter records the last job and returns a canned result
type fakePrinter struct {
	lastJob service.PrintJob
	err     error
}

func (p *fakePrinter) Print(_ context.Context, job service.PrintJob) (string, error) {
	p.lastJob = job
	if p.err != nil {
		return "", p.err
	}
	return "Printed", nil
}

func newLabelService(t *testing.T) (*service.LabelService, *repository.LabelRepository, *fakePrinter, *database.DB) {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	log := logger.New("test", "test")
	require.NoError(t, repository.Migrate(context.Background(), db, log))

	repo := repository.NewLabelRepository(db)
	printer := &fakePrinter{}
	return service.NewLabelService(repo, printer, log), repo, printer, db
}

func TestLabelService_CreateLabel_AppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newLabelService(t)

	label := &repository.Label{PipeName: "PVC-110", Size: "110mm", Color: "Blue", Weight: 12.5}
	qr, err := svc.CreateLabel(ctx, label)
	require.NoError(t, err)

	assert.Equal(t, service.DefaultLength, label.Length)
	assert.Equal(t, service.DefaultBatch, label.Batch)
	assert.Equal(t, service.DefaultOperator, label.Operator)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}

func TestLabelService_CreateLabel_KeepsExplicitFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newLabelService(t)

	label := &repository.Label{
		PipeName: "PVC-110", Size: "110mm", Color: "Blue", Weight: 12.5,
		Length: "3m", Batch: "BATCH-7", Operator: "OP-9",
	}
	_, err := svc.CreateLabel(ctx, label)
	require.NoError(t, err)

	assert.Equal(t, "3m", label.Length)
	assert.Equal(t, "BATCH-7", label.Batch)
	assert.Equal(t, "OP-9", label.Operator)
}

func TestLabelService_PrintLabel(t *testing.T) {
	ctx := context.Background()
	svc, repo, printer, _ := newLabelService(t)

	label := &repository.Label{PipeName: "PVC-110", Size: "110mm", Color: "Blue", Weight: 12.5}
	_, err := svc.CreateLabel(ctx, label)
	require.NoError(t, err)

	msg, err := svc.PrintLabel(ctx, label.ID, "PN-10")
	require.NoError(t, err)
	assert.Equal(t, "Printed", msg)

	// The job carries the pressure class but it is never stored
	assert.Equal(t, "PN-10", printer.lastJob.Pressure)
	assert.Equal(t, label.ID, printer.lastJob.ID)

	got, err := repo.GetByID(ctx, label.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.PrintedAt)
}

func TestLabelService_PrintLabel_PrinterFailure(t *testing.T) {
	ctx := context.Background()
	svc, repo, printer, _ := newLabelService(t)

	label := &repository.Label{PipeName: "PVC-110", Size: "110mm", Color: "Blue", Weight: 12.5}
	_, err := svc.CreateLabel(ctx, label)
	require.NoError(t, err)

	printer.err = assert.AnError
	_, err = svc.PrintLabel(ctx, label.ID, "")
	require.Error(t, err)

	// A failed print must not mark the label printed
	got, err := repo.GetByID(ctx, label.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PrintedAt)
}

func TestLabelService_PrintLabel_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newLabelService(t)

	_, err := svc.PrintLabel(ctx, 9999, "")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestLabelService_ScanDispatch(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newLabelService(t)

	label := &repository.Label{PipeName: "PVC-110", Size: "110mm", Color: "Blue", Weight: 12.5}
	_, err := svc.CreateLabel(ctx, label)
	require.NoError(t, err)

	require.NoError(t, svc.ScanDispatch(ctx, label.ID))

	got, err := repo.GetByID(ctx, label.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DispatchedBy)
	assert.Equal(t, service.ScanDispatchedBy, *got.DispatchedBy)
	assert.Nil(t, got.ShipmentID)
}

func TestLabelService_Cleanup(t *testing.T) {
	ctx := context.Background()
	svc, _, _, db := newLabelService(t)

	old := time.Now().AddDate(0, 0, -45).Format(repository.TimeLayout)
	_, err := db.ExecContext(ctx, `
		INSERT INTO labels (pipe_name, size, color, weight_g, created_at)
		VALUES ('PVC-110', '110mm', 'Blue', 12.5, ?)`, old)
	require.NoError(t, err)

	deleted, err := svc.Cleanup(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
