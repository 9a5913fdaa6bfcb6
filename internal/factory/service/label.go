package service

import (
	"context"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// Defaults applied to optional label fields at creation
const (
	DefaultLength   = "6m"
	DefaultBatch    = "BATCH-001"
	DefaultOperator = "OP-1"
)

// ScanDispatchedBy marks labels dispatched one at a time from the scan page
const ScanDispatchedBy = "Scanner"

// LabelService handles label lifecycle business logic
type LabelService struct {
	labelRepo *repository.LabelRepository
	printer   Printer
	logger    *logger.Logger
}

// NewLabelService creates a new label service
func NewLabelService(labelRepo *repository.LabelRepository, printer Printer, log *logger.Logger) *LabelService {
	return &LabelService{
		labelRepo: labelRepo,
		printer:   printer,
		logger:    log,
	}
}

// CreateLabel persists a new label and returns it together with its QR code
// as a data URI. Optional fields fall back to the factory defaults.
func (s *LabelService) CreateLabel(ctx context.Context, label *repository.Label) (string, error) {
	if label.Length == "" {
		label.Length = DefaultLength
	}
	if label.Batch == "" {
		label.Batch = DefaultBatch
	}
	if label.Operator == "" {
		label.Operator = DefaultOperator
	}

	if err := s.labelRepo.Create(ctx, label); err != nil {
		return "", err
	}

	qr, err := EncodeLabelQR(label.ID, label.CreatedAt)
	if err != nil {
		// The label is already persisted; a QR render failure should not
		// fail the creation.
		s.logger.Error().Err(err).Int64("label_id", label.ID).Msg("qr encoding failed")
		return "", nil
	}
	return qr, nil
}

// GetLabel gets a label by id
func (s *LabelService) GetLabel(ctx context.Context, id int64) (*repository.Label, error) {
	return s.labelRepo.GetByID(ctx, id)
}

// PrintLabel submits a label to the printer and records printed_at on
// success. Pressure is injected into the job without being stored.
func (s *LabelService) PrintLabel(ctx context.Context, id int64, pressure string) (string, error) {
	label, err := s.labelRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	msg, err := s.printer.Print(ctx, PrintJob{
		ID:        label.ID,
		PipeName:  label.PipeName,
		Size:      label.Size,
		Color:     label.Color,
		Weight:    label.Weight,
		Batch:     label.Batch,
		Operator:  label.Operator,
		CreatedAt: label.CreatedAt,
		Pressure:  pressure,
	})
	if err != nil {
		return "", err
	}

	if err := s.labelRepo.MarkPrinted(ctx, id); err != nil {
		return "", err
	}
	return msg, nil
}

// ScanDispatch dispatches a single scanned label, outside any shipment
func (s *LabelService) ScanDispatch(ctx context.Context, id int64) error {
	return s.labelRepo.MarkDispatched(ctx, id, ScanDispatchedBy)
}

// Cleanup deletes labels older than the retention window and returns the
// number of removed rows.
func (s *LabelService) Cleanup(ctx context.Context, maxAgeDays int) (int64, error) {
	deleted, err := s.labelRepo.DeleteOlderThan(ctx, maxAgeDays)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info().Int64("deleted", deleted).Int("max_age_days", maxAgeDays).Msg("retention cleanup")
	}
	return deleted, nil
}
