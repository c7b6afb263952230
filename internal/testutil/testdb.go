package testutil

import (
	"database/sql"
	"testing"

	"github.com/averyhollis/fabline/internal/db"
)

// NewTestDB creates an in-memory shop database with the schema applied,
// closed when the test completes. Foreign key enforcement is verified up
// front: alert cascade tests silently pass on a database that never
// deletes anything.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})

	var fk int
	if err := database.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil || fk != 1 {
		t.Fatalf("foreign keys not enforced in test database (fk=%d, err=%v)", fk, err)
	}
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
