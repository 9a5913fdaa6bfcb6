package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pipetrack/pipetrack-backend/internal/factory/service"
	"github.com/pipetrack/pipetrack-backend/pkg/httputil"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// ExportHandler streams filtered label reports as CSV or Excel
type ExportHandler struct {
	service *service.ReportService
	logger  *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(svc *service.ReportService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		service: svc,
		logger:  log,
	}
}

var exportHeaders = []string{
	"ID", "Pipe Name", "Size", "Color", "Weight (g)", "Length (m)",
	"Batch", "Operator", "Created At", "Printed At", "Dispatched At",
	"Dispatched By", "Shipment ID",
}

// Export writes the filtered inventory in the requested format. The same
// filter parameters as the inventory endpoint apply.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	labels, err := h.service.Inventory(r.Context(), filterFromQuery(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	data := make([][]string, 0, len(labels))
	for _, l := range labels {
		data = append(data, []string{
			strconv.FormatInt(l.ID, 10),
			l.PipeName,
			l.Size,
			l.Color,
			strconv.FormatFloat(l.Weight, 'f', 2, 64),
			l.Length,
			l.Batch,
			l.Operator,
			l.CreatedAt,
			deref(l.PrintedAt),
			deref(l.DispatchedAt),
			deref(l.DispatchedBy),
			derefID(l.ShipmentID),
		})
	}

	h.logger.Info().
		Str("format", format).
		Int("rows", len(data)).
		Msg("exporting labels")

	if format == "xlsx" {
		h.writeExcel(w, data)
		return
	}
	writeCSV(w, "labels.csv", data)
}

func writeCSV(w http.ResponseWriter, filename string, data [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, row := range data {
		writer.Write(row)
	}
}

func (h *ExportHandler) writeExcel(w http.ResponseWriter, data [][]string) {
	const sheet = "Labels"

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		http.Error(w, "failed to create sheet", http.StatusInternalServerError)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		http.Error(w, "failed to create header style", http.StatusInternalServerError)
		return
	}

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, row := range data {
		for colIdx, value := range row {
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2), value)
		}
	}

	for i := range exportHeaders {
		col := string(rune('A' + i))
		f.SetColWidth(sheet, col, col, 15)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=labels.xlsx")

	if err := f.Write(w); err != nil {
		h.logger.WithError(err).Error().Msg("failed to write excel export")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
