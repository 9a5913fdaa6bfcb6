package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/pipetrack/pipetrack-backend/pkg/database"
	"github.com/pipetrack/pipetrack-backend/pkg/errors"
)

// BatchDispatchedBy marks labels dispatched through the shipment batch flow,
// as opposed to single scan-to-dispatch which records the scanner identity.
const BatchDispatchedBy = "DispatchHub"

// Shipment is a batch dispatch event grouping labels bound for one
// customer/vehicle. total_pipes and total_weight are computed once at
// creation from the member set and are not recomputed afterwards; deleting
// the shipment reverses its members instead.
type Shipment struct {
	ID              int64   `db:"id" json:"id"`
	CustomerName    string  `db:"customer_name" json:"customer_name"`
	VehicleNo       string  `db:"vehicle_no" json:"vehicle_no"`
	CustomerMobile  string  `db:"customer_mobile" json:"customer_mobile"`
	DriverMobile    string  `db:"driver_mobile" json:"driver_mobile"`
	CustomerAddress string  `db:"customer_address" json:"customer_address"`
	ChallanNo       string  `db:"challan_no" json:"challan_no"`
	TotalPipes      int64   `db:"total_pipes" json:"total_pipes"`
	TotalWeight     float64 `db:"total_weight" json:"total_weight"`
	CreatedAt       string  `db:"created_at" json:"created_at"`
}

// ShipmentItem identifies one label going into a shipment, with the weight
// the caller scanned for it.
type ShipmentItem struct {
	LabelID int64   `json:"id"`
	Weight  float64 `json:"weight_g"`
}

// ShipmentDetail is a shipment header with its member labels
type ShipmentDetail struct {
	Shipment *Shipment `json:"shipment"`
	Items    []*Label  `json:"items"`
}

const shipmentColumns = `id, customer_name, vehicle_no, customer_mobile, driver_mobile,
	customer_address, challan_no, total_pipes, total_weight, created_at`

// ShipmentRepository handles shipment persistence
type ShipmentRepository struct {
	db *database.DB
}

// NewShipmentRepository creates a new shipment repository
func NewShipmentRepository(db *database.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// Create inserts the shipment header and dispatches every member label as
// one atomic unit: a failure anywhere leaves no header and no touched
// labels. meta's totals are overwritten from items. Returns
// DuplicateChallanError when a non-empty challan number is already used.
func (r *ShipmentRepository) Create(ctx context.Context, meta *Shipment, items []ShipmentItem) error {
	if len(items) == 0 {
		return errors.Validation(map[string]string{"items": "must not be empty"})
	}

	meta.CreatedAt = nowString()
	meta.TotalPipes = int64(len(items))
	meta.TotalWeight = 0
	for _, item := range items {
		meta.TotalWeight += item.Weight
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		// Explicit duplicate check inside the transaction. The partial
		// unique index normally catches this too, but the check keeps the
		// typed error working when the index could not be created over
		// dirty data.
		if meta.ChallanNo != "" {
			var n int
			err := tx.GetContext(ctx, &n,
				`SELECT COUNT(*) FROM shipments WHERE challan_no = ?`, meta.ChallanNo)
			if err != nil {
				return err
			}
			if n > 0 {
				return errors.DuplicateChallan(meta.ChallanNo)
			}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO shipments (customer_name, vehicle_no, customer_mobile, driver_mobile,
				customer_address, challan_no, total_pipes, total_weight, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			meta.CustomerName, meta.VehicleNo, meta.CustomerMobile, meta.DriverMobile,
			meta.CustomerAddress, meta.ChallanNo, meta.TotalPipes, meta.TotalWeight, meta.CreatedAt,
		)
		if err != nil {
			if database.IsUniqueViolation(err, "shipments.challan_no") {
				return errors.DuplicateChallan(meta.ChallanNo)
			}
			return err
		}

		meta.ID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		for _, item := range items {
			_, err := tx.ExecContext(ctx, `
				UPDATE labels SET dispatched_at = ?, dispatched_by = ?, shipment_id = ?
				WHERE id = ?`,
				meta.CreatedAt, BatchDispatchedBy, meta.ID, item.LabelID,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByID returns a shipment header with its member labels, ordered by
// product name, size, color, then id.
func (r *ShipmentRepository) GetByID(ctx context.Context, id int64) (*ShipmentDetail, error) {
	var shipment Shipment
	err := r.db.GetContext(ctx, &shipment,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("shipment")
	}
	if err != nil {
		return nil, err
	}

	items := []*Label{}
	err = r.db.SelectContext(ctx, &items, `
		SELECT `+labelColumns+` FROM labels WHERE shipment_id = ?
		ORDER BY pipe_name, size, color, id`, id)
	if err != nil {
		return nil, err
	}

	return &ShipmentDetail{Shipment: &shipment, Items: items}, nil
}

// List returns all shipment headers, most recent first
func (r *ShipmentRepository) List(ctx context.Context) ([]*Shipment, error) {
	shipments := []*Shipment{}
	err := r.db.SelectContext(ctx, &shipments,
		`SELECT `+shipmentColumns+` FROM shipments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return shipments, nil
}

// Delete removes a shipment and returns its member labels to stock, as one
// atomic unit. Reports whether a shipment with that id existed.
func (r *ShipmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var existed bool
	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE labels SET dispatched_at = NULL, dispatched_by = NULL, shipment_id = NULL
			WHERE shipment_id = ?`, id)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM shipments WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		existed = affected > 0
		return nil
	})
	return existed, err
}
