package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS goal_preferences (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id            TEXT NOT NULL,
		goals_text         TEXT NOT NULL,
		task_complexity    TEXT NOT NULL
		                   CHECK(task_complexity IN ('Simple','Balanced','Ambitious')),
		focus_areas        TEXT NOT NULL DEFAULT '[]',
		weekend_preference TEXT NOT NULL DEFAULT '',
		fixed_commitments  TEXT NOT NULL DEFAULT '[]',
		created_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_goal_preferences_user ON goal_preferences(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS plan_drafts (
		draft_key          TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		plan_data          TEXT NOT NULL,
		metadata           TEXT NOT NULL,
		prompt             TEXT NOT NULL DEFAULT '',
		raw_response       TEXT NOT NULL DEFAULT '',
		goal_preference_id INTEGER REFERENCES goal_preferences(id) ON DELETE SET NULL,
		month_year         TEXT NOT NULL,
		created_at         TEXT NOT NULL,
		expires_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_drafts_user_created ON plan_drafts(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_drafts_expires ON plan_drafts(expires_at)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id                    INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id               TEXT NOT NULL,
		preference_id         INTEGER REFERENCES goal_preferences(id) ON DELETE SET NULL,
		month_year            TEXT NOT NULL,
		ai_prompt             TEXT NOT NULL DEFAULT '',
		ai_response_raw       TEXT NOT NULL DEFAULT '',
		monthly_summary       TEXT NOT NULL DEFAULT '',
		raw_ai_response       TEXT NOT NULL DEFAULT '',
		extraction_confidence INTEGER NOT NULL DEFAULT 0
		                      CHECK(extraction_confidence BETWEEN 0 AND 100),
		extraction_notes      TEXT NOT NULL DEFAULT '',
		status                TEXT NOT NULL DEFAULT 'CONFIRMED'
		                      CHECK(status IN ('DRAFT','CONFIRMED')),
		generated_at          TEXT NOT NULL,
		confirmed_at          TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_user ON plans(user_id, generated_at)`,

	`CREATE TABLE IF NOT EXISTS plan_tasks (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id         INTEGER NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		seq             INTEGER NOT NULL DEFAULT 0,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		due_date        TEXT NOT NULL,
		priority        TEXT NOT NULL DEFAULT 'Low'
		                CHECK(priority IN ('High','Medium','Low')),
		category        TEXT NOT NULL DEFAULT '',
		estimated_hours INTEGER NOT NULL DEFAULT 0 CHECK(estimated_hours >= 0),
		week_number     INTEGER NOT NULL DEFAULT 1,
		day_of_week     TEXT NOT NULL DEFAULT '',
		start_time      TEXT NOT NULL DEFAULT '',
		end_time        TEXT NOT NULL DEFAULT '',
		completed       INTEGER NOT NULL DEFAULT 0,
		completed_at    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_tasks_plan ON plan_tasks(plan_id, seq)`,
}
