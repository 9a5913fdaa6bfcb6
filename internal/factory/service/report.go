package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/pkg/database"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// trendDays is the trailing window of the production trend chart
const trendDays = 7

// StatsSummary is the dashboard snapshot: global counters plus the live
// stock position and the production trend.
type StatsSummary struct {
	Total           int64                  `json:"total"`
	Dispatched      int64                  `json:"dispatched"`
	Stock           int64                  `json:"stock"`
	StockSummary    []*repository.StockRow `json:"stock_summary"`
	ProductionChart []*repository.TrendRow `json:"production_chart"`
}

// ReportService shapes repository rows into report structures
type ReportService struct {
	reportRepo *repository.ReportRepository
	db         *database.DB
	logger     *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(reportRepo *repository.ReportRepository, db *database.DB, log *logger.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		db:         db,
		logger:     log,
	}
}

// Inventory returns the flat filtered rows
func (s *ReportService) Inventory(ctx context.Context, f repository.ReportFilter) ([]*repository.Label, error) {
	return s.reportRepo.Inventory(ctx, f)
}

// Grouped returns the grouped production summary
func (s *ReportService) Grouped(ctx context.Context, f repository.ReportFilter) ([]*repository.GroupedRow, error) {
	return s.reportRepo.Grouped(ctx, f)
}

// Stats assembles the dashboard snapshot
func (s *ReportService) Stats(ctx context.Context) (*StatsSummary, error) {
	stats, err := s.reportRepo.GlobalStats(ctx)
	if err != nil {
		return nil, err
	}

	stock, err := s.reportRepo.StockSummary(ctx)
	if err != nil {
		return nil, err
	}

	trend, err := s.reportRepo.ProductionTrend(ctx, trendDays)
	if err != nil {
		return nil, err
	}

	return &StatsSummary{
		Total:           stats.Total,
		Dispatched:      stats.Dispatched,
		Stock:           stats.Stock,
		StockSummary:    stock,
		ProductionChart: trend,
	}, nil
}

// Backup streams a consistent snapshot of the database to w. VACUUM INTO
// produces a clean copy even while the WAL database serves other requests,
// so no locking beyond sqlite's own is needed.
func (s *ReportService) Backup(ctx context.Context, w io.Writer) error {
	target := filepath.Join(os.TempDir(), fmt.Sprintf("pipetrack-backup-%s.db", uuid.New().String()))
	defer os.Remove(target)

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, target); err != nil {
		return fmt.Errorf("vacuum into: %w", err)
	}

	f, err := os.Open(target)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
