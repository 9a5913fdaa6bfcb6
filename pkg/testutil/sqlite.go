package testutil

import (
	"testing"

	"github.com/pipetrack/pipetrack-backend/pkg/database"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

// NewSQLiteDB opens a fresh in-memory sqlite database for a test. The handle
// is closed automatically when the test finishes. Callers are expected to run
// their own migrations against it.
func NewSQLiteDB(t *testing.T) *database.DB {
	t.Helper()

	log := logger.New("test", "test")
	db, err := database.NewWithPath(":memory:", log)
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	// Each new connection would see its own empty in-memory database.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
