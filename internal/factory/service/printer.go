package service

import (
	"context"

	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// PrintJob is the payload handed to the label printer. Pressure class is
// print-only: it appears on the physical label but is never persisted.
type PrintJob struct {
	ID        int64   `json:"id"`
	PipeName  string  `json:"pipe_name"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Weight    float64 `json:"weight_g"`
	Batch     string  `json:"batch"`
	Operator  string  `json:"operator"`
	CreatedAt string  `json:"created_at"`
	Pressure  string  `json:"pressure"`
}

// Printer renders a label and submits it to whatever print subsystem is
// present. Implementations return a human-readable status message on
// success.
type Printer interface {
	Print(ctx context.Context, job PrintJob) (string, error)
}

// LogPrinter is the default Printer when no print subsystem is wired. It
// accepts every job and logs it, which keeps the printed-state flow usable
// on machines without a label printer.
type LogPrinter struct {
	logger *logger.Logger
}

// NewLogPrinter creates a printer that only logs jobs
func NewLogPrinter(log *logger.Logger) *LogPrinter {
	return &LogPrinter{logger: log.WithComponent("printer")}
}

// Print implements Printer
func (p *LogPrinter) Print(_ context.Context, job PrintJob) (string, error) {
	p.logger.Info().
		Int64("label_id", job.ID).
		Str("pipe_name", job.PipeName).
		Str("size", job.Size).
		Str("pressure", job.Pressure).
		Msg("label sent to printer")
	return "Printed", nil
}
