package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pipetrack/pipetrack-backend/internal/factory/service"
	"github.com/pipetrack/pipetrack-backend/pkg/httputil"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// AdminHandler handles maintenance endpoints sitting behind admin auth
type AdminHandler struct {
	labels     *service.LabelService
	reports    *service.ReportService
	maxAgeDays int
	logger     *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(labels *service.LabelService, reports *service.ReportService, maxAgeDays int, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		labels:     labels,
		reports:    reports,
		maxAgeDays: maxAgeDays,
		logger:     log,
	}
}

// Backup streams a consistent snapshot of the database file
func (h *AdminHandler) Backup(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("pvc_factory_%s.db", time.Now().Format("20060102_150405"))

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := h.reports.Backup(r.Context(), w); err != nil {
		// Headers are already written; all we can do is log
		h.logger.WithError(err).Error().Msg("backup failed mid-stream")
	}
}

type cleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

// Cleanup deletes labels created before the retention window, regardless
// of dispatch state
func (h *AdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.labels.Cleanup(r.Context(), h.maxAgeDays)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, cleanupResponse{Deleted: deleted})
}
