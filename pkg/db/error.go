package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (error code 23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// IsForeignKeyErr reports whether err is a foreign key violation on any of
// the supported dialects.
func IsForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	msg := err.Error()
	switch {
	// PostgreSQL (error code 23503)
	case strings.Contains(msg, "violates foreign key constraint"):
		return true
	// MySQL (error codes 1451, 1452)
	case strings.Contains(msg, "Error 1451"), strings.Contains(msg, "Error 1452"):
		return true
	// SQLite (error code 787)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return true
	}

	return false
}
