package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// isUniqueViolation recognises unique-key violations from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
