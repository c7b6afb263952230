package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
)

// Two jobs due the same Friday against Engineering's 100-point week: the
// 80-point job anchors the week, the 50-point job has nowhere earlier to go
// and must be flagged instead of silently overrunning.
func TestSchedule_OverCommittedWeekFlagsLowerPriorityJob(t *testing.T) {
	jobA := pendingJob("job-000a", 80, friday)
	jobB := pendingJob("job-000b", 50, friday)
	in := twoDeptInput(monday, jobA, jobB)

	res, err := Schedule(in)
	require.NoError(t, err)
	require.Len(t, res.Jobs, 2)

	a, b := res.Jobs[0], res.Jobs[1]
	require.Equal(t, "job-000a", a.ID)

	assert.False(t, a.SchedulingConflict)
	aEng, _ := a.Schedule.Window(domain.DeptEngineering)
	assert.Equal(t, domain.Window{Start: monday, End: tuesday}, aEng)
	aWeld, _ := a.Schedule.Window(domain.DeptWelding)
	assert.Equal(t, domain.Window{Start: thursday, End: friday}, aWeld)
	require.NotNil(t, a.ScheduledStart)
	assert.Equal(t, monday, *a.ScheduledStart)
	require.NotNil(t, a.ForecastDue)
	assert.Equal(t, friday, *a.ForecastDue)

	assert.True(t, b.SchedulingConflict, "130 points against a 100-point week with no slack")
	bEng, _ := b.Schedule.Window(domain.DeptEngineering)
	assert.Equal(t, domain.Window{Start: monday, End: tuesday}, bEng,
		"no room before today, window stays put")
	assert.Equal(t, []string{"job-000b"}, res.Conflicts)
}

// With slack ahead of the due date the reconciliation pass shifts the
// lower-priority job earlier and never later, so its due date holds.
func TestSchedule_ReconciliationShiftsEarlierOnly(t *testing.T) {
	due := day(2026, 3, 13) // Friday of the second week
	jobA := pendingJob("job-000a", 60, due)
	jobB := pendingJob("job-000b", 60, due)
	in := twoDeptInput(monday, jobA, jobB)
	in.Capacity = capacity.Model{
		ByDept: map[domain.Department]capacity.DeptCapacity{
			domain.DeptEngineering: {BaseWeekly: 100},
			domain.DeptWelding:     {BaseWeekly: 200},
		},
	}

	res, err := Schedule(in)
	require.NoError(t, err)

	a, b := res.Jobs[0], res.Jobs[1]
	assert.False(t, a.SchedulingConflict)
	assert.False(t, b.SchedulingConflict)

	aEng, _ := a.Schedule.Window(domain.DeptEngineering)
	assert.Equal(t, domain.Window{Start: day(2026, 3, 10), End: day(2026, 3, 11)}, aEng)

	bEng, _ := b.Schedule.Window(domain.DeptEngineering)
	assert.Equal(t, domain.Window{Start: day(2026, 3, 6), End: day(2026, 3, 9)}, bEng,
		"shifted back across the weekend until the week fits")

	bWeld, _ := b.Schedule.Window(domain.DeptWelding)
	assert.Equal(t, due, bWeld.End, "due date stays anchored through the shift")
}

func TestSchedule_ExplicitRankBeatsPoints(t *testing.T) {
	small := pendingJob("job-000s", 50, friday, func(j *domain.Job) {
		j.PriorityByDept = map[domain.Department]int{
			domain.DeptEngineering: 1,
			domain.DeptWelding:     1,
		}
	})
	big := pendingJob("job-000b", 80, friday)
	in := twoDeptInput(monday, big, small)

	res, err := Schedule(in)
	require.NoError(t, err)

	var bigOut domain.Job
	for _, j := range res.Jobs {
		if j.ID == "job-000b" {
			bigOut = j
		}
	}
	assert.True(t, bigOut.SchedulingConflict,
		"ranked 50-point job claims the week first, so the 80-point job overflows")
	assert.Equal(t, []string{"job-000b"}, res.Conflicts)
}

func TestSchedule_PlanPastDueIsConflict(t *testing.T) {
	job := pendingJob("job-0001", 200, tuesday)
	in := twoDeptInput(monday, job)

	res, err := Schedule(in)
	require.NoError(t, err)

	got := res.Jobs[0]
	assert.True(t, got.SchedulingConflict)
	require.NotNil(t, got.ForecastDue)
	assert.Equal(t, day(2026, 3, 16), *got.ForecastDue)
	assert.Empty(t, res.CapacityConflicts, "late, but every week fits")
}

func TestSchedule_EarliestStartHoldsUnderPressure(t *testing.T) {
	floor := day(2026, 3, 9)
	a := pendingJob("job-000a", 80, day(2026, 3, 13))
	b := pendingJob("job-000b", 50, day(2026, 3, 13), func(j *domain.Job) {
		j.EarliestStart = &floor
	})
	in := twoDeptInput(monday, a, b)

	res, err := Schedule(in)
	require.NoError(t, err)

	aOut, bOut := res.Jobs[0], res.Jobs[1]
	assert.False(t, aOut.SchedulingConflict)
	assert.True(t, bOut.SchedulingConflict,
		"the floor blocks the only retreat out of the overloaded week")
	assert.Equal(t, []string{"job-000b"}, res.CapacityConflicts)

	bEng, _ := bOut.Schedule.Window(domain.DeptEngineering)
	assert.Equal(t, floor, bEng.Start, "never shifted past the floor")
}

func TestSchedule_CompletedAndHeldPassThrough(t *testing.T) {
	done := pendingJob("job-done", 5000, friday)
	done.Status = domain.JobCompleted
	held := pendingJob("job-held", 5000, friday)
	held.Status = domain.JobOnHold
	active := pendingJob("job-0001", 80, friday)
	in := twoDeptInput(monday, done, held, active)

	res, err := Schedule(in)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Jobs[0].Schedule.Len(), "completed jobs are not placed")
	assert.Equal(t, 0, res.Jobs[1].Schedule.Len(), "held jobs are not placed")
	assert.False(t, res.Jobs[2].SchedulingConflict,
		"inactive points must not consume capacity")
}

func TestSchedule_DoesNotMutateCallerJobs(t *testing.T) {
	job := pendingJob("job-0001", 80, friday)
	in := twoDeptInput(monday, job)

	_, err := Schedule(in)
	require.NoError(t, err)

	assert.Equal(t, 0, in.Jobs[0].Schedule.Len())
	assert.Nil(t, in.Jobs[0].ScheduledStart)
	assert.False(t, in.Jobs[0].SchedulingConflict)
}

func TestSchedule_InProgressJobKeepsHistoryAndRemaining(t *testing.T) {
	job := pendingJob("job-0001", 80, friday)
	job.Status = domain.JobInProgress
	job.CurrentDept = domain.DeptWelding
	job.Schedule = domain.NewDeptSchedule()
	historic := domain.Window{Start: day(2026, 2, 23), End: day(2026, 2, 24)}
	job.Schedule.Set(domain.DeptEngineering, historic)
	in := twoDeptInput(monday, job)

	res, err := Schedule(in)
	require.NoError(t, err)

	got := res.Jobs[0]
	eng, _ := got.Schedule.Window(domain.DeptEngineering)
	assert.Equal(t, historic, eng)

	assert.Equal(t, 1, got.RemainingSchedule.Len(), "only Welding is still ahead")
	weld, ok := got.RemainingSchedule.Window(domain.DeptWelding)
	require.True(t, ok)
	assert.Equal(t, friday, weld.End)

	require.NotNil(t, got.ScheduledStart)
	assert.Equal(t, historic.Start, *got.ScheduledStart)
	require.NotNil(t, got.ForecastStart)
	assert.Equal(t, weld.Start, *got.ForecastStart)
}

func TestSchedule_ValidationRejectsBadInput(t *testing.T) {
	dup1 := pendingJob("job-0001", 80, friday)
	dup2 := pendingJob("job-0001", 60, friday)
	zeroPoints := pendingJob("job-0002", 0, friday)
	pastDue := pendingJob("job-0003", 10, day(2026, 2, 27))
	skipsAll := pendingJob("job-0004", 10, friday, func(j *domain.Job) {
		j.Skipped = []domain.Department{domain.DeptEngineering, domain.DeptWelding}
	})
	in := twoDeptInput(monday, dup1, dup2, zeroPoints, pastDue, skipsAll)

	_, err := Schedule(in)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "schedule validation failed (4 errors)")
	assert.Contains(t, msg, "duplicate ID")
	assert.Contains(t, msg, "points must be positive")
	assert.Contains(t, msg, "before today")
	assert.Contains(t, msg, "skips every pipeline department")
}

func TestSchedule_ValidationRejectsUnknownDepartments(t *testing.T) {
	badSkip := pendingJob("job-0001", 10, friday, func(j *domain.Job) {
		j.Skipped = []domain.Department{"Paint"}
	})
	badRank := pendingJob("job-0002", 10, friday, func(j *domain.Job) {
		j.PriorityByDept = map[domain.Department]int{"Paint": 1}
	})
	badCurrent := pendingJob("job-0003", 10, friday)
	badCurrent.Status = domain.JobInProgress
	badCurrent.CurrentDept = "Paint"
	in := twoDeptInput(monday, badSkip, badRank, badCurrent)

	_, err := Schedule(in)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `skipped department "Paint"`)
	assert.Contains(t, msg, `priority rank names unknown department "Paint"`)
	assert.Contains(t, msg, `current department "Paint"`)
}

func TestSchedule_DeterministicAcrossRuns(t *testing.T) {
	mk := func() Input {
		return twoDeptInput(monday,
			pendingJob("job-000a", 80, friday),
			pendingJob("job-000b", 50, friday),
			pendingJob("job-000c", 125, day(2026, 3, 13)),
		)
	}
	first, err := Schedule(mk())
	require.NoError(t, err)
	second, err := Schedule(mk())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
