package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pipetrack/pipetrack-backend/pkg/database"
	"github.com/pipetrack/pipetrack-backend/pkg/errors"
)

// nowString is swapped out by tests that need a fixed clock.
var nowString = func() string {
	return time.Now().Format(TimeLayout)
}

// Label is one manufactured unit's tracked record (a pipe instance).
// The weight_g column historically stores kilograms; the name is kept for
// compatibility with existing databases and exports.
type Label struct {
	ID           int64   `db:"id" json:"id"`
	PipeName     string  `db:"pipe_name" json:"pipe_name"`
	Size         string  `db:"size" json:"size"`
	Color        string  `db:"color" json:"color"`
	Weight       float64 `db:"weight_g" json:"weight_g"`
	Length       string  `db:"length_m" json:"length_m"`
	Batch        string  `db:"batch" json:"batch"`
	Operator     string  `db:"operator" json:"operator"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
	PrintedAt    *string `db:"printed_at" json:"printed_at"`
	DispatchedAt *string `db:"dispatched_at" json:"dispatched_at"`
	DispatchedBy *string `db:"dispatched_by" json:"dispatched_by"`
	ShipmentID   *int64  `db:"shipment_id" json:"shipment_id"`
}

// InStock reports whether the label has not been dispatched yet
func (l *Label) InStock() bool {
	return l.DispatchedAt == nil
}

const labelColumns = `id, pipe_name, size, color, weight_g, length_m, batch, operator,
	created_at, printed_at, dispatched_at, dispatched_by, shipment_id`

// LabelRepository handles label persistence
type LabelRepository struct {
	db *database.DB
}

// NewLabelRepository creates a new label repository
func NewLabelRepository(db *database.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Create inserts a new label and reads back the persisted record, including
// the assigned id and created_at. printed_at and dispatched_at start NULL.
func (r *LabelRepository) Create(ctx context.Context, label *Label) error {
	label.CreatedAt = nowString()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO labels (pipe_name, size, color, weight_g, length_m, batch, operator, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		label.PipeName, label.Size, label.Color, label.Weight,
		label.Length, label.Batch, label.Operator, label.CreatedAt,
	)
	if err != nil {
		if mapped := database.MapSQLiteError(err); mapped != nil {
			return mapped
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	return r.db.GetContext(ctx, label,
		`SELECT `+labelColumns+` FROM labels WHERE id = ?`, id)
}

// GetByID gets a label by id
func (r *LabelRepository) GetByID(ctx context.Context, id int64) (*Label, error) {
	var label Label
	err := r.db.GetContext(ctx, &label,
		`SELECT `+labelColumns+` FROM labels WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("label")
	}
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// MarkPrinted records a successful print. A missing id is a no-op, not an
// error; callers that care should check existence first.
func (r *LabelRepository) MarkPrinted(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE labels SET printed_at = ? WHERE id = ?`, nowString(), id)
	return err
}

// MarkDispatched dispatches a single label outside the shipment batch flow
// (scan-to-dispatch). shipment_id stays NULL.
func (r *LabelRepository) MarkDispatched(ctx context.Context, id int64, dispatchedBy string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE labels SET dispatched_at = ?, dispatched_by = ? WHERE id = ?`,
		nowString(), dispatchedBy, id)
	return err
}

// DeleteOlderThan removes labels created more than maxAgeDays ago and
// returns how many rows were deleted. The statement is idempotent and safe
// to re-run.
func (r *LabelRepository) DeleteOlderThan(ctx context.Context, maxAgeDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays).Format(TimeLayout)
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM labels WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
