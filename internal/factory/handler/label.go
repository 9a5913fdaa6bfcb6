package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/internal/factory/service"
	"github.com/pipetrack/pipetrack-backend/pkg/errors"
	"github.com/pipetrack/pipetrack-backend/pkg/httputil"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// LabelHandler handles label lifecycle endpoints
type LabelHandler struct {
	service *service.LabelService
	logger  *logger.Logger
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(svc *service.LabelService, log *logger.Logger) *LabelHandler {
	return &LabelHandler{
		service: svc,
		logger:  log,
	}
}

type createLabelRequest struct {
	PipeName string  `json:"pipe_name" validate:"required"`
	Size     string  `json:"size" validate:"required"`
	Color    string  `json:"color" validate:"required"`
	Weight   float64 `json:"weight_g" validate:"required,gt=0"`
	Length   string  `json:"length_m"`
	Batch    string  `json:"batch"`
	Operator string  `json:"operator"`
	// Pressure goes on the printed label only; it is echoed back so the
	// client can pass it to the print endpoint.
	Pressure string `json:"pressure"`
}

type createLabelResponse struct {
	Label    *repository.Label `json:"label"`
	QRImage  string            `json:"qr_image"`
	Pressure string            `json:"pressure"`
}

// Create creates a new label and returns it with its QR code
func (h *LabelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLabelRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	label := &repository.Label{
		PipeName: req.PipeName,
		Size:     req.Size,
		Color:    req.Color,
		Weight:   req.Weight,
		Length:   req.Length,
		Batch:    req.Batch,
		Operator: req.Operator,
	}

	qr, err := h.service.CreateLabel(r.Context(), label)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, createLabelResponse{
		Label:    label,
		QRImage:  qr,
		Pressure: req.Pressure,
	})
}

// Get returns a single label
func (h *LabelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := labelID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	label, err := h.service.GetLabel(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, label)
}

type printRequest struct {
	Pressure string `json:"pressure"`
}

type printResponse struct {
	Message string `json:"message"`
}

// Print submits a label to the printer and marks it printed on success
func (h *LabelHandler) Print(w http.ResponseWriter, r *http.Request) {
	id, err := labelID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req printRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	msg, err := h.service.PrintLabel(r.Context(), id, req.Pressure)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, printResponse{Message: msg})
}

type dispatchRequest struct {
	ID int64 `json:"id" validate:"required"`
}

// Dispatch marks a single scanned label as dispatched
func (h *LabelHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.ScanDispatch(r.Context(), req.ID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, nil)
}

func labelID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.BadRequest("invalid label id")
	}
	return id, nil
}
