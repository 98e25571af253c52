// internal/repository/errors.go
package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateCredential is returned by Register when the username or email
// is already taken. Callers surface it as a user-facing message rather than
// a storage failure.
var ErrDuplicateCredential = errors.New("username or email already exists")

// isUniqueViolation classifies driver-specific unique-constraint errors.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
