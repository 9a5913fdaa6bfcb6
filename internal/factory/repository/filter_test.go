package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
)

func TestReportFilter_Where_Empty(t *testing.T) {
	f := repository.ReportFilter{}

	where, params := f.Where()

	assert.Equal(t, "1=1", where)
	assert.Empty(t, params)
}

func TestReportFilter_Where_ExactMatches(t *testing.T) {
	f := repository.ReportFilter{
		PipeName: "PVC-110",
		Size:     "110mm",
		Color:    "Blue",
		Date:     "2026-08-15",
	}

	where, params := f.Where()

	assert.Contains(t, where, "pipe_name = ?")
	assert.Contains(t, where, "size = ?")
	assert.Contains(t, where, "color = ?")
	assert.Contains(t, where, "date(created_at) = ?")
	assert.Equal(t, []interface{}{"PVC-110", "110mm", "Blue", "2026-08-15"}, params)
}

func TestReportFilter_Where_Status(t *testing.T) {
	where, params := repository.ReportFilter{Status: repository.StatusInStock}.Where()
	assert.Contains(t, where, "dispatched_at IS NULL")
	assert.Empty(t, params)

	where, params = repository.ReportFilter{Status: repository.StatusDispatched}.Where()
	assert.Contains(t, where, "dispatched_at IS NOT NULL")
	assert.Empty(t, params)

	// Unknown status values apply no constraint
	where, _ = repository.ReportFilter{Status: "bogus"}.Where()
	assert.Equal(t, "1=1", where)
}

func TestReportFilter_Where_DispatchColumn(t *testing.T) {
	f := repository.ReportFilter{Dispatch: true, Date: "2026-08-15"}

	where, params := f.Where()

	assert.Equal(t, "dispatched_at", f.DateColumn())
	assert.Contains(t, where, "date(dispatched_at) = ?")
	assert.Contains(t, where, "dispatched_at IS NOT NULL")
	assert.Equal(t, []interface{}{"2026-08-15"}, params)
}

func TestReportFilter_Where_HourRange(t *testing.T) {
	// Day shift: a plain half-open window
	where, params := repository.ReportFilter{TimeRange: "8-16"}.Where()
	assert.Contains(t, where, ">= ? AND")
	assert.NotContains(t, where, "OR")
	assert.Equal(t, []interface{}{8, 16}, params)

	// Night shift: the window wraps past midnight
	where, params = repository.ReportFilter{TimeRange: "22-6"}.Where()
	assert.Contains(t, where, ">= ? OR")
	assert.Equal(t, []interface{}{22, 6}, params)
}

func TestReportFilter_Where_MalformedHourRange(t *testing.T) {
	for _, bad := range []string{"abc", "8", "8-", "-8", "25-3", "3-24", "8:16", "a-b"} {
		where, params := repository.ReportFilter{TimeRange: bad}.Where()
		assert.Equal(t, "1=1", where, "time range %q should be ignored", bad)
		assert.Empty(t, params)
	}
}

// Exercises the wraparound predicate against a real database rather than
// just the rendered SQL.
func TestReportFilter_OvernightWindow(t *testing.T) {
	ctx := context.Background()
	db := newMigratedDB(t)
	repo := repository.NewReportRepository(db)

	seedLabelAt(t, db, "PVC-110", "110mm", "Blue", 12.5, "2026-08-14T23:10:00")
	seedLabelAt(t, db, "PVC-110", "110mm", "Blue", 12.5, "2026-08-15T03:45:00")
	seedLabelAt(t, db, "PVC-110", "110mm", "Blue", 12.5, "2026-08-15T12:00:00")

	labels, err := repo.Inventory(ctx, repository.ReportFilter{TimeRange: "22-6"})
	require.NoError(t, err)
	require.Len(t, labels, 2)

	labels, err = repo.Inventory(ctx, repository.ReportFilter{TimeRange: "8-16"})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "2026-08-15T12:00:00", labels[0].CreatedAt)
}
