package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/averyhollis/fabline/internal/db"
	"github.com/averyhollis/fabline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp
// directory. Unlike :memory:, a file-backed DB shares state across all
// connections in the pool, which is required to exercise real concurrent
// access under WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that List calls neither
// block nor observe half-written rows while job creates are in flight.
// WAL allows concurrent readers with a single writer, which is the normal
// operating mode for the CLI: one person edits while the board refreshes.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	repo := NewSQLiteJobRepo(database)

	var wg sync.WaitGroup

	// Writer goroutine: create 20 jobs sequentially.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			job := testutil.NewTestJob(fmt.Sprintf("WO-%04d", 2000+i))
			if err := repo.Create(ctx, job); err != nil {
				t.Errorf("writer: create job %d: %v", i, err)
				return
			}
		}
	}()

	// Reader goroutines: list repeatedly while writes happen.
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				jobs, err := repo.List(ctx, false)
				if err != nil {
					t.Errorf("reader %d: list jobs: %v", reader, err)
					return
				}
				// Each snapshot must be internally consistent.
				for _, j := range jobs {
					if j.ID == "" || j.JobNumber == "" {
						t.Errorf("reader %d: got job with empty identifiers", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	jobs, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, jobs, 20, "all writes should be visible once the writer finishes")
}
