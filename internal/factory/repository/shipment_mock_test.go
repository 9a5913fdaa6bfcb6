package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/pkg/testutil"
)

// A member update failing halfway through must roll the whole shipment
// back, header included.
func TestShipmentRepository_Create_RollsBackOnMemberFailure(t *testing.T) {
	ctx := context.Background()
	mock := testutil.NewMockDB(t)
	defer mock.Close()

	repo := repository.NewShipmentRepository(mock.DB)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT(*) FROM shipments WHERE challan_no = ?").
		WithArgs("CH-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO shipments").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE labels SET dispatched_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE labels SET dispatched_at").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(ctx, &repository.Shipment{ChallanNo: "CH-1"},
		[]repository.ShipmentItem{
			{LabelID: 1, Weight: 12.5},
			{LabelID: 2, Weight: 8.2},
		})
	require.Error(t, err)

	mock.ExpectationsWereMet(t)
}

func TestShipmentRepository_Create_RollsBackOnExistingChallan(t *testing.T) {
	ctx := context.Background()
	mock := testutil.NewMockDB(t)
	defer mock.Close()

	repo := repository.NewShipmentRepository(mock.DB)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT(*) FROM shipments WHERE challan_no = ?").
		WithArgs("CH-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Create(ctx, &repository.Shipment{ChallanNo: "CH-1"},
		[]repository.ShipmentItem{{LabelID: 1, Weight: 12.5}})
	require.Error(t, err)

	mock.ExpectationsWereMet(t)
}
