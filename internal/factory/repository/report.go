package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pipetrack/pipetrack-backend/pkg/database"
)

// flatReportLimit bounds flat report responses
const flatReportLimit = 500

// GroupedRow is one (product, size, color) aggregate of a production report
type GroupedRow struct {
	PipeName    string  `db:"pipe_name" json:"pipe_name"`
	Size        string  `db:"size" json:"size"`
	Color       string  `db:"color" json:"color"`
	Count       int64   `db:"count" json:"count"`
	TotalWeight float64 `db:"total_weight" json:"total_weight"`
	AvgWeight   float64 `db:"avg_weight" json:"avg_weight"`
}

// StockRow is one (product, size, color) line of the live stock position
type StockRow struct {
	PipeName string `db:"pipe_name" json:"pipe_name"`
	Size     string `db:"size" json:"size"`
	Color    string `db:"color" json:"color"`
	Total    int64  `db:"total" json:"total"`
	Stock    int64  `db:"stock" json:"stock"`
}

// TrendRow is one calendar day of the production trend
type TrendRow struct {
	Day   string `db:"day" json:"day"`
	Count int64  `db:"count" json:"count"`
}

// Stats is the global snapshot shown on the dashboard
type Stats struct {
	Total      int64 `json:"total"`
	Dispatched int64 `json:"dispatched"`
	Stock      int64 `json:"stock"`
}

// ReportRepository executes the reporting and aggregation queries on top of
// the filter builder.
type ReportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Inventory returns the flat rows matching the filter, newest first by the
// filter's date column, capped to bound response size.
func (r *ReportRepository) Inventory(ctx context.Context, f ReportFilter) ([]*Label, error) {
	where, params := f.Where()
	query := fmt.Sprintf(
		`SELECT %s FROM labels WHERE %s ORDER BY %s DESC LIMIT %d`,
		labelColumns, where, f.DateColumn(), flatReportLimit)

	labels := []*Label{}
	if err := r.db.SelectContext(ctx, &labels, query, params...); err != nil {
		return nil, err
	}
	return labels, nil
}

// Grouped returns the matching rows aggregated by (product, size, color)
// with count, total and average weight, ordered by product name then size.
// An empty result is an empty slice, not an error.
func (r *ReportRepository) Grouped(ctx context.Context, f ReportFilter) ([]*GroupedRow, error) {
	where, params := f.Where()
	query := fmt.Sprintf(`
		SELECT pipe_name, size, color, COUNT(*) AS count,
			SUM(weight_g) AS total_weight, AVG(weight_g) AS avg_weight
		FROM labels WHERE %s
		GROUP BY pipe_name, size, color
		ORDER BY pipe_name, size`, where)

	rows := []*GroupedRow{}
	if err := r.db.SelectContext(ctx, &rows, query, params...); err != nil {
		return nil, err
	}
	return rows, nil
}

// StockSummary returns, per (product, size, color), the total ever produced
// and the count still in stock.
func (r *ReportRepository) StockSummary(ctx context.Context) ([]*StockRow, error) {
	rows := []*StockRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT pipe_name, size, color, COUNT(*) AS total,
			SUM(CASE WHEN dispatched_at IS NULL THEN 1 ELSE 0 END) AS stock
		FROM labels
		GROUP BY pipe_name, size, color
		ORDER BY pipe_name, size`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ProductionTrend returns the daily label counts for the trailing window.
// The cutoff is computed from the local clock, consistent with the stored
// local-time timestamps.
func (r *ReportRepository) ProductionTrend(ctx context.Context, days int) ([]*TrendRow, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Format(DateLayout)

	rows := []*TrendRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT date(created_at) AS day, COUNT(*) AS count
		FROM labels WHERE created_at >= ?
		GROUP BY day
		ORDER BY day`, cutoff)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GlobalStats returns the total, dispatched and in-stock label counts as a
// single snapshot.
func (r *ReportRepository) GlobalStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := r.db.GetContext(ctx, &stats.Total,
		`SELECT COUNT(*) FROM labels`); err != nil {
		return nil, err
	}
	if err := r.db.GetContext(ctx, &stats.Dispatched,
		`SELECT COUNT(*) FROM labels WHERE dispatched_at IS NOT NULL`); err != nil {
		return nil, err
	}
	stats.Stock = stats.Total - stats.Dispatched
	return &stats, nil
}
