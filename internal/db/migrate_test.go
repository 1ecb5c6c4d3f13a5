package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Migrating twice is a no-op.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"goal_preferences", "plan_drafts", "plans", "plan_tasks"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_goal_preferences_user",
		"idx_plan_drafts_user_created",
		"idx_plan_drafts_expires",
		"idx_plans_user",
		"idx_plan_tasks_plan",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite reports "memory"; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestOpenDB_FileDatabaseUsesWAL(t *testing.T) {
	path := t.TempDir() + "/nested/planora.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_PlanConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO plans (user_id, month_year, extraction_confidence, status, generated_at)
		VALUES ('u1', '2025-03', 101, 'CONFIRMED', '2025-03-01T00:00:00Z')`)
	assert.Error(t, err, "confidence above 100 should be rejected")

	_, err = db.Exec(`INSERT INTO plans (user_id, month_year, extraction_confidence, status, generated_at)
		VALUES ('u1', '2025-03', 50, 'ARCHIVED', '2025-03-01T00:00:00Z')`)
	assert.Error(t, err, "unknown status should be rejected")

	res, err := db.Exec(`INSERT INTO plans (user_id, month_year, extraction_confidence, status, generated_at)
		VALUES ('u1', '2025-03', 50, 'CONFIRMED', '2025-03-01T00:00:00Z')`)
	require.NoError(t, err)
	planID, err := res.LastInsertId()
	require.NoError(t, err)
	assert.Positive(t, planID)

	_, err = db.Exec(`INSERT INTO plan_tasks (plan_id, title, due_date, priority) VALUES (?, 't', '2025-03-01', 'Urgent')`, planID)
	assert.Error(t, err, "unknown priority should be rejected")

	_, err = db.Exec(`INSERT INTO plan_tasks (plan_id, title, due_date, priority) VALUES (9999, 't', '2025-03-01', 'High')`)
	assert.Error(t, err, "task for a missing plan should be rejected")
}

func TestMigrate_PlanDeleteCascadesToTasks(t *testing.T) {
	db := openTestDB(t)

	res, err := db.Exec(`INSERT INTO plans (user_id, month_year, generated_at) VALUES ('u1', '2025-03', '2025-03-01T00:00:00Z')`)
	require.NoError(t, err)
	planID, _ := res.LastInsertId()
	_, err = db.Exec(`INSERT INTO plan_tasks (plan_id, title, due_date) VALUES (?, 't', '2025-03-01')`, planID)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM plans WHERE id = ?`, planID)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM plan_tasks`).Scan(&n))
	assert.Equal(t, 0, n)
}
