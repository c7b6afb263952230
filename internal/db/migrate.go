package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent,
// so Migrate is safe to run on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// The jobs table stores scheduling inputs only. Windows, forecasts, and
// conflict flags are derived on every read and never persisted.
// priorities holds a JSON object (department to rank) and skipped a JSON
// array of department names; both are empty strings when unset.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id             TEXT PRIMARY KEY,
		job_number     TEXT NOT NULL UNIQUE,
		name           TEXT NOT NULL DEFAULT '',
		sales_order    TEXT NOT NULL DEFAULT '',
		product_type   TEXT NOT NULL DEFAULT '',
		points         REAL NOT NULL CHECK(points > 0),
		due_date       TEXT NOT NULL,
		current_dept   TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'PENDING'
		               CHECK(status IN ('PENDING','IN_PROGRESS','COMPLETED','HOLD')),
		priorities     TEXT NOT NULL DEFAULT '',
		no_gaps        INTEGER NOT NULL DEFAULT 0,
		skipped        TEXT NOT NULL DEFAULT '',
		earliest_start TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_due_date ON jobs(due_date)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id                   TEXT PRIMARY KEY,
		job_id               TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		department           TEXT NOT NULL,
		reason               TEXT NOT NULL DEFAULT '',
		estimated_resolution TEXT NOT NULL,
		status               TEXT NOT NULL DEFAULT 'ACTIVE'
		                     CHECK(status IN ('ACTIVE','RESOLVED')),
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_alerts_job ON alerts(job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status)`,
}
