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

func insertTestJob(t *testing.T, db *sql.DB, id, number string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO jobs (id, job_number, points, due_date, created_at, updated_at)
		VALUES (?, ?, 100, '2026-03-06', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`, id, number)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// OpenDB already ran migrations once; re-running must not error.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"jobs", "alerts"}
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
		"idx_jobs_status",
		"idx_jobs_due_date",
		"idx_alerts_job",
		"idx_alerts_status",
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
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite reports "memory" journal mode; WAL only applies to
	// file databases. This verifies OpenDB issues the PRAGMA without error.
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}

func TestMigrate_JobStatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO jobs (id, job_number, points, due_date, status, created_at, updated_at)
		VALUES ('j1', 'WO-1001', 80, '2026-03-06', 'SHIPPED', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	assert.Error(t, err, "unknown status should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO jobs (id, job_number, points, due_date, status, created_at, updated_at)
		VALUES ('j1', 'WO-1001', 80, '2026-03-06', 'HOLD', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_JobPointsCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO jobs (id, job_number, points, due_date, created_at, updated_at)
		VALUES ('j1', 'WO-1001', 0, '2026-03-06', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	assert.Error(t, err, "zero points should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO jobs (id, job_number, points, due_date, created_at, updated_at)
		VALUES ('j1', 'WO-1001', -25, '2026-03-06', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	assert.Error(t, err, "negative points should be rejected by CHECK constraint")
}

func TestMigrate_JobNumberUnique(t *testing.T) {
	db := openTestDB(t)

	insertTestJob(t, db, "j1", "WO-1001")

	_, err := db.Exec(`INSERT INTO jobs (id, job_number, points, due_date, created_at, updated_at)
		VALUES ('j2', 'WO-1001', 50, '2026-04-01', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	assert.Error(t, err, "duplicate job_number should violate the unique constraint")
}

func TestMigrate_AlertStatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)
	insertTestJob(t, db, "j1", "WO-1001")

	_, err := db.Exec(`INSERT INTO alerts (id, job_id, department, estimated_resolution, status, created_at, updated_at)
		VALUES ('a1', 'j1', 'Welding', '2026-02-02', 'SNOOZED', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	assert.Error(t, err, "unknown alert status should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO alerts (id, job_id, department, estimated_resolution, status, created_at, updated_at)
		VALUES ('a1', 'j1', 'Welding', '2026-02-02', 'ACTIVE', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_AlertRequiresExistingJob(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO alerts (id, job_id, department, estimated_resolution, created_at, updated_at)
		VALUES ('a1', 'missing', 'Welding', '2026-02-02', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	assert.Error(t, err, "alert on an unknown job should violate the foreign key")
}

func TestMigrate_DeletingJobCascadesAlerts(t *testing.T) {
	db := openTestDB(t)
	insertTestJob(t, db, "j1", "WO-1001")

	_, err := db.Exec(`INSERT INTO alerts (id, job_id, department, estimated_resolution, created_at, updated_at)
		VALUES ('a1', 'j1', 'Welding', '2026-02-02', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM jobs WHERE id = 'j1'`)
	require.NoError(t, err)

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM alerts WHERE job_id = 'j1'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "alerts should be removed with their job")
}

func TestMigrate_AlertReasonDefaultsEmpty(t *testing.T) {
	db := openTestDB(t)
	insertTestJob(t, db, "j1", "WO-1001")

	_, err := db.Exec(`INSERT INTO alerts (id, job_id, department, estimated_resolution, created_at, updated_at)
		VALUES ('a1', 'j1', 'Welding', '2026-02-02', '2026-01-05T00:00:00Z', '2026-01-05T00:00:00Z')`)
	require.NoError(t, err)

	var reason, status string
	err = db.QueryRow(`SELECT reason, status FROM alerts WHERE id = 'a1'`).Scan(&reason, &status)
	require.NoError(t, err)
	assert.Equal(t, "", reason)
	assert.Equal(t, "ACTIVE", status)
}
