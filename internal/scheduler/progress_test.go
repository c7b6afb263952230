package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/averyhollis/fabline/internal/domain"
)

func progressCase(t *testing.T, status domain.JobStatus, current domain.Department, today time.Time, due time.Time) domain.ProgressStatus {
	t.Helper()
	in := twoDeptInput(today)
	job := pendingJob("job-0001", 80, due)
	job.Status = status
	job.CurrentDept = current

	sched := domain.NewDeptSchedule()
	sched.Set(domain.DeptEngineering, domain.Window{Start: monday, End: tuesday})
	sched.Set(domain.DeptWelding, domain.Window{Start: thursday, End: friday})
	return progressFor(&job, sched, in)
}

func TestProgress_OnTrackInExpectedDepartment(t *testing.T) {
	got := progressCase(t, domain.JobInProgress, domain.DeptEngineering, monday, friday)
	assert.Equal(t, domain.ProgressOnTrack, got)
}

func TestProgress_AheadOfWindow(t *testing.T) {
	got := progressCase(t, domain.JobInProgress, domain.DeptWelding, tuesday, friday)
	assert.Equal(t, domain.ProgressAhead, got, "in Welding while the plan still says Engineering")
}

func TestProgress_PendingBeforeFirstWindow(t *testing.T) {
	got := progressCase(t, domain.JobPending, "", day(2026, 2, 27), friday)
	assert.Equal(t, domain.ProgressOnTrack, got)
}

func TestProgress_PendingAfterWindowOpensIsSlipping(t *testing.T) {
	got := progressCase(t, domain.JobPending, "", monday, friday)
	assert.Equal(t, domain.ProgressSlipping, got, "Engineering opened today and nothing started")
}

func TestProgress_TwoBehindIsStalled(t *testing.T) {
	got := progressCase(t, domain.JobPending, "", thursday, friday)
	assert.Equal(t, domain.ProgressStalled, got, "both windows have opened, job never started")
}

func TestProgress_PastDueNeverReadsOnTrack(t *testing.T) {
	overdue := day(2026, 3, 9) // Monday after the due Friday
	got := progressCase(t, domain.JobInProgress, domain.DeptWelding, overdue, friday)
	assert.Equal(t, domain.ProgressSlipping, got)

	got = progressCase(t, domain.JobPending, "", overdue, friday)
	assert.Equal(t, domain.ProgressStalled, got)
}
