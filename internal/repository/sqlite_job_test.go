package repository

import (
	"context"
	"testing"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)
	ctx := context.Background()

	due := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	earliest := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	job := testutil.NewTestJob("WO-1042",
		testutil.WithJobName("Stair rail assembly"),
		testutil.WithSalesOrder("SO-220"),
		testutil.WithProductType("railing"),
		testutil.WithPoints(240),
		testutil.WithDueDate(due),
		testutil.WithCurrentDept(domain.DeptWelding),
		testutil.WithPriority(domain.DeptWelding, 1),
		testutil.WithNoGaps(),
		testutil.WithSkipped(domain.DeptPolishing),
		testutil.WithEarliestStart(earliest),
	)
	require.NoError(t, repo.Create(ctx, job))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)

	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "WO-1042", got.JobNumber)
	assert.Equal(t, "Stair rail assembly", got.Name)
	assert.Equal(t, "SO-220", got.SalesOrder)
	assert.Equal(t, "railing", got.ProductType)
	assert.Equal(t, 240.0, got.Points)
	assert.Equal(t, due, got.DueDate)
	assert.Equal(t, domain.DeptWelding, got.CurrentDept)
	assert.Equal(t, domain.JobInProgress, got.Status)
	assert.Equal(t, map[domain.Department]int{domain.DeptWelding: 1}, got.PriorityByDept)
	assert.True(t, got.NoGaps)
	assert.Equal(t, []domain.Department{domain.DeptPolishing}, got.Skipped)
	require.NotNil(t, got.EarliestStart)
	assert.Equal(t, earliest, *got.EarliestStart)
	assert.WithinDuration(t, job.CreatedAt, got.CreatedAt, time.Second)
	assert.WithinDuration(t, job.UpdatedAt, got.UpdatedAt, time.Second)
}

func TestJobRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)

	_, err := repo.GetByID(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobRepo_GetByNumber_CaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)
	ctx := context.Background()

	job := testutil.NewTestJob("WO-1042")
	require.NoError(t, repo.Create(ctx, job))

	got, err := repo.GetByNumber(ctx, "wo-1042")
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
}

func TestJobRepo_GetByNumber_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)

	_, err := repo.GetByNumber(context.Background(), "WO-9999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobRepo_List_ExcludesCompletedByDefault(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("WO-1001")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("WO-1002",
		testutil.WithJobStatus(domain.JobCompleted))))

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "WO-1001", active[0].JobNumber)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestJobRepo_List_OrderedByDueDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("WO-1003",
		testutil.WithDueDate(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("WO-1001",
		testutil.WithDueDate(time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("WO-1002",
		testutil.WithDueDate(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)))))

	jobs, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "WO-1001", jobs[0].JobNumber)
	assert.Equal(t, "WO-1002", jobs[1].JobNumber)
	assert.Equal(t, "WO-1003", jobs[2].JobNumber)
}

func TestJobRepo_Update_PersistsChanges(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)
	ctx := context.Background()

	job := testutil.NewTestJob("WO-1042")
	require.NoError(t, repo.Create(ctx, job))

	job.Status = domain.JobOnHold
	job.DueDate = time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)
	job.PriorityByDept = map[domain.Department]int{domain.DeptLaser: 2}
	job.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, job))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobOnHold, got.Status)
	assert.Equal(t, job.DueDate, got.DueDate)
	assert.Equal(t, map[domain.Department]int{domain.DeptLaser: 2}, got.PriorityByDept)
}

func TestJobRepo_Delete_RemovesRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)
	ctx := context.Background()

	job := testutil.NewTestJob("WO-1042")
	require.NoError(t, repo.Create(ctx, job))
	require.NoError(t, repo.Delete(ctx, job.ID))

	_, err := repo.GetByID(ctx, job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobRepo_EmptyCollectionsStayNil(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)
	ctx := context.Background()

	job := testutil.NewTestJob("WO-1042")
	require.NoError(t, repo.Create(ctx, job))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PriorityByDept)
	assert.Nil(t, got.Skipped)
	assert.Nil(t, got.EarliestStart)
}

func TestJobRepo_DuplicateNumberRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteJobRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("WO-1042")))
	err := repo.Create(ctx, testutil.NewTestJob("WO-1042"))
	assert.Error(t, err, "job numbers are unique across the shop")
}
