package handler

import (
	"net/http"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/internal/factory/service"
	"github.com/pipetrack/pipetrack-backend/pkg/httputil"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// ReportHandler handles inventory and statistics endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  log,
	}
}

// Inventory returns the filtered inventory, flat or grouped depending on
// the report_type query parameter
func (h *ReportHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)

	if r.URL.Query().Get("report_type") == "grouped" {
		rows, err := h.service.Grouped(r.Context(), f)
		if err != nil {
			httputil.Error(w, err)
			return
		}
		httputil.JSON(w, http.StatusOK, rows)
		return
	}

	labels, err := h.service.Inventory(r.Context(), f)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, labels)
}

// Stats returns global counters, per-variant stock and the production trend
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}

// filterFromQuery builds a report filter from query parameters. Absent or
// malformed parameters simply widen the result set.
func filterFromQuery(r *http.Request) repository.ReportFilter {
	q := r.URL.Query()
	return repository.ReportFilter{
		PipeName:  q.Get("pipe_name"),
		Size:      q.Get("size"),
		Color:     q.Get("color"),
		Status:    q.Get("status"),
		Date:      q.Get("date"),
		TimeRange: q.Get("time_range"),
		Dispatch:  q.Get("dispatch") == "true",
	}
}
