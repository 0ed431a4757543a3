// Package sqlxrepos implements the core repositories on PostgreSQL.
package sqlxrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

// pqCode returns the PostgreSQL error code of err and the violated constraint, if any.
func pqCode(err error) (pq.ErrorCode, string) {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return pqErr.Code, pqErr.Constraint
	}
	return "", ""
}

func isUniqueViolation(err error) bool {
	code, _ := pqCode(err)
	return code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

// validID reports whether id can be stored in a UUID column.
// Anything else cannot match a row.
func validID(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func newID() string {
	return uuid.New().String()
}
