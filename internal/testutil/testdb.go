package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planora/internal/db"
)

// NewTestDB opens a migrated in-memory database that lives for the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the production unit of work.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// NewFailingUoW returns a unit of work whose nth write fails with err.
func NewFailingUoW(database *sql.DB, nth int32, err error) db.UnitOfWork {
	return &FailOnNthExecUoW{DB: database, FailOn: nth, Err: err}
}
