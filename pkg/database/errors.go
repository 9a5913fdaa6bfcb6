package database

import (
	"strings"

	"github.com/pipetrack/pipetrack-backend/pkg/errors"
)

// IsUniqueViolation reports whether err is a sqlite unique constraint
// violation, optionally scoped to a column ("table.column"). The modernc
// driver surfaces constraint failures as plain error strings, so matching is
// by substring.
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return column == "" || strings.Contains(msg, column)
}

// MapSQLiteError converts a sqlite constraint error to an AppError with a
// meaningful message. Returns nil if the error is not a constraint failure.
func MapSQLiteError(err error) *errors.AppError {
	if err == nil {
		return nil
	}
	msg := err.Error()

	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return errors.Conflict("a record with these values already exists")

	case strings.Contains(msg, "NOT NULL constraint failed"):
		col := "required field"
		if i := strings.Index(msg, "NOT NULL constraint failed: "); i >= 0 {
			col = strings.TrimSpace(msg[i+len("NOT NULL constraint failed: "):])
			if j := strings.IndexAny(col, " ("); j > 0 {
				col = col[:j]
			}
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return errors.BadRequest("referenced record does not exist")

	default:
		return nil
	}
}
