package database

import (
	"database/sql"
	"testing"
)

// newTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
