package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averyhollis/fabline/internal/domain"
)

func inProgressJob() domain.Job {
	job := pendingJob("job-0001", 80, friday)
	job.Status = domain.JobInProgress
	job.CurrentDept = domain.DeptWelding
	job.Schedule = domain.NewDeptSchedule()
	job.Schedule.Set(domain.DeptEngineering, domain.Window{Start: day(2026, 2, 23), End: day(2026, 2, 24)})
	job.Schedule.Set(domain.DeptWelding, domain.Window{Start: day(2026, 2, 26), End: day(2026, 2, 27)})
	return job
}

func TestApplyRemaining_AnchorsCurrentDeptAtToday(t *testing.T) {
	in := twoDeptInput(monday)
	got, err := ApplyRemainingSchedule(inProgressJob(), in)
	require.NoError(t, err)

	eng, _ := got.Schedule.Window(domain.DeptEngineering)
	assert.Equal(t, day(2026, 2, 23), eng.Start, "history untouched")

	weld, ok := got.RemainingSchedule.Window(domain.DeptWelding)
	require.True(t, ok)
	assert.False(t, weld.Start.Before(monday), "current department may not start before today")
	assert.Equal(t, friday, weld.End, "still anchored on the due date")

	require.NotNil(t, got.ForecastStart)
	assert.Equal(t, weld.Start, *got.ForecastStart)
	require.NotNil(t, got.ForecastDue)
	assert.Equal(t, friday, *got.ForecastDue)
	assert.False(t, got.RemainingSchedule.Has(domain.DeptEngineering))
}

func TestApplyRemaining_Idempotent(t *testing.T) {
	in := twoDeptInput(monday)
	once, err := ApplyRemainingSchedule(inProgressJob(), in)
	require.NoError(t, err)
	twice, err := ApplyRemainingSchedule(once, in)
	require.NoError(t, err)
	assert.Equal(t, once, twice, "projecting again with the same today must change nothing")
}

func TestApplyRemaining_OverdueWorkForecastsPastDue(t *testing.T) {
	in := twoDeptInput(day(2026, 3, 9)) // Monday after the due Friday
	job := inProgressJob()

	got, err := ApplyRemainingSchedule(job, in)
	require.NoError(t, err)

	weld, _ := got.RemainingSchedule.Window(domain.DeptWelding)
	assert.Equal(t, day(2026, 3, 9), weld.Start, "forward fallback from today")
	assert.Equal(t, day(2026, 3, 10), weld.End)
	require.NotNil(t, got.ForecastDue)
	assert.True(t, got.ForecastDue.After(got.DueDate), "lateness is surfaced, not hidden")
}

func TestApplyRemaining_PendingJobProjectsWholePlan(t *testing.T) {
	in := twoDeptInput(monday)
	got, err := ApplyRemainingSchedule(pendingJob("job-0001", 80, friday), in)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RemainingSchedule.Len())
	assert.Equal(t, got.Schedule.Len(), got.RemainingSchedule.Len())
}

func TestApplyRemaining_CompletedJobUntouched(t *testing.T) {
	in := twoDeptInput(monday)
	job := inProgressJob()
	job.Status = domain.JobCompleted

	got, err := ApplyRemainingSchedule(job, in)
	require.NoError(t, err)
	assert.Equal(t, job.Schedule.Len(), got.Schedule.Len())
	assert.Nil(t, got.ForecastStart)
}

func TestApplyRemaining_RejectsBadJob(t *testing.T) {
	in := twoDeptInput(monday)
	job := inProgressJob()
	job.Points = 0

	_, err := ApplyRemainingSchedule(job, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "points must be positive")
}
