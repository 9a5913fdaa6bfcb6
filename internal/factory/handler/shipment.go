package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/pkg/errors"
	"github.com/pipetrack/pipetrack-backend/pkg/httputil"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// ShipmentHandler handles shipment batch endpoints
type ShipmentHandler struct {
	repo   *repository.ShipmentRepository
	logger *logger.Logger
}

// NewShipmentHandler creates a new shipment handler
func NewShipmentHandler(repo *repository.ShipmentRepository, log *logger.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		repo:   repo,
		logger: log,
	}
}

type shipmentMeta struct {
	Customer       string `json:"customer" validate:"required"`
	Vehicle        string `json:"vehicle" validate:"required"`
	CustomerMobile string `json:"customer_mobile"`
	DriverMobile   string `json:"driver_mobile"`
	Address        string `json:"address"`
	ChallanNo      string `json:"challan_no"`
}

type createShipmentRequest struct {
	Meta  shipmentMeta              `json:"meta"`
	Items []repository.ShipmentItem `json:"items" validate:"required,min=1"`
}

// Create records a shipment and dispatches all its labels atomically
func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createShipmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	shipment := &repository.Shipment{
		CustomerName:    req.Meta.Customer,
		VehicleNo:       req.Meta.Vehicle,
		CustomerMobile:  req.Meta.CustomerMobile,
		DriverMobile:    req.Meta.DriverMobile,
		CustomerAddress: req.Meta.Address,
		ChallanNo:       req.Meta.ChallanNo,
	}

	if err := h.repo.Create(r.Context(), shipment, req.Items); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, shipment)
}

// Get returns a shipment with its dispatched labels
func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shipmentID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	detail, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, detail)
}

// List returns all shipments, newest first
func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, shipments)
}

// Delete removes a shipment and returns its labels to stock
func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shipmentID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	existed, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if !existed {
		httputil.Error(w, errors.NotFound("shipment"))
		return
	}

	httputil.NoContent(w)
}

func shipmentID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.BadRequest("invalid shipment id")
	}
	return id, nil
}
