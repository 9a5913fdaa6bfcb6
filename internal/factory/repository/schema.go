package repository

import (
	"context"
	"fmt"

	"github.com/pipetrack/pipetrack-backend/pkg/database"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// Timestamps are stored as sortable local-time ISO-8601 strings without a
// timezone offset. date() truncation and hour extraction in SQL depend on
// this exact layout.
const (
	TimeLayout = "2006-01-02T15:04:05"
	DateLayout = "2006-01-02"
)

var baseTables = []string{
	`CREATE TABLE IF NOT EXISTS labels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pipe_name TEXT NOT NULL,
		size TEXT NOT NULL,
		color TEXT NOT NULL,
		weight_g REAL NOT NULL,
		length_m TEXT DEFAULT '',
		batch TEXT DEFAULT '',
		operator TEXT DEFAULT '',
		created_at TEXT NOT NULL,
		printed_at TEXT,
		dispatched_at TEXT,
		dispatched_by TEXT,
		shipment_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS shipments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_name TEXT DEFAULT '',
		vehicle_no TEXT DEFAULT '',
		customer_mobile TEXT DEFAULT '',
		driver_mobile TEXT DEFAULT '',
		customer_address TEXT DEFAULT '',
		challan_no TEXT DEFAULT '',
		total_pipes INTEGER NOT NULL DEFAULT 0,
		total_weight REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
}

// columnMigrations are additive schema changes applied, in order, to
// databases created by older releases. Each one is guarded by a column
// presence check so running them on every startup is a no-op.
var columnMigrations = []struct {
	table, column, ddl string
}{
	{"labels", "shipment_id", "ALTER TABLE labels ADD COLUMN shipment_id INTEGER"},
	{"shipments", "customer_address", "ALTER TABLE shipments ADD COLUMN customer_address TEXT DEFAULT ''"},
	{"shipments", "customer_mobile", "ALTER TABLE shipments ADD COLUMN customer_mobile TEXT DEFAULT ''"},
	{"shipments", "driver_mobile", "ALTER TABLE shipments ADD COLUMN driver_mobile TEXT DEFAULT ''"},
	{"shipments", "challan_no", "ALTER TABLE shipments ADD COLUMN challan_no TEXT DEFAULT ''"},
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_labels_created_at ON labels(created_at)",
	"CREATE INDEX IF NOT EXISTS idx_labels_dispatched_at ON labels(dispatched_at)",
	"CREATE INDEX IF NOT EXISTS idx_labels_shipment_id ON labels(shipment_id)",
	"CREATE INDEX IF NOT EXISTS idx_shipments_created_at ON shipments(created_at)",
}

// challanIndex enforces challan uniqueness among non-empty values only;
// any number of empty or NULL challans may coexist.
const challanIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_shipments_challan_no
	ON shipments (challan_no) WHERE challan_no IS NOT NULL AND challan_no != ''`

// Migrate ensures the store has the required tables, columns and indexes.
// It is idempotent and safe to call on every startup. When the challan
// uniqueness index cannot be created because existing rows already violate
// it, a warning is logged and the system continues without the constraint.
func Migrate(ctx context.Context, db *database.DB, log *logger.Logger) error {
	for _, ddl := range baseTables {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	for _, m := range columnMigrations {
		exists, err := columnExists(ctx, db, m.table, m.column)
		if err != nil {
			return fmt.Errorf("check column %s.%s: %w", m.table, m.column, err)
		}
		if exists {
			continue
		}
		if _, err := db.ExecContext(ctx, m.ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", m.table, m.column, err)
		}
		log.Info().Str("table", m.table).Str("column", m.column).Msg("schema migrated")
	}

	if _, err := db.ExecContext(ctx, challanIndex); err != nil {
		if database.IsUniqueViolation(err, "shipments.challan_no") {
			log.Warn().Err(err).
				Msg("could not enforce unique challan numbers: existing shipments contain duplicates; " +
					"running without the constraint until the data is fixed")
		} else {
			return fmt.Errorf("create challan index: %w", err)
		}
	}

	for _, ddl := range indexes {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

func columnExists(ctx context.Context, db *database.DB, table, column string) (bool, error) {
	var n int
	err := db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
