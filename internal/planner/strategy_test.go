package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/scheduler"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// March 2026: the 2nd is a Monday, the 6th a Friday. Week keys run
// 2026-W09 (Mar 2-6), 2026-W10 (Mar 9-13), 2026-W11 (Mar 16-20).
var (
	monday      = day(2026, 3, 2)
	friday      = day(2026, 3, 6)
	nextFriday  = day(2026, 3, 13)
	thirdFriday = day(2026, 3, 20)
)

// shopInput builds the Engineering+Welding shop used across these tests:
// both departments at 100 points per week with a 10/20/30 point overtime
// ladder.
func shopInput(today time.Time, jobs ...domain.Job) Input {
	pipeline, _ := domain.NewPipeline([]domain.Department{domain.DeptEngineering, domain.DeptWelding})
	tiers := []capacity.OTTier{
		{Ordinal: 1, Label: "weekday +2h", BonusPoints: 10, Days: "Mon-Fri"},
		{Ordinal: 2, Label: "weekday +4h", BonusPoints: 20, Days: "Mon-Fri"},
		{Ordinal: 3, Label: "saturday shift", BonusPoints: 30, Days: "Sat"},
	}
	return Input{
		Jobs:     jobs,
		Pipeline: pipeline,
		Calendar: calendar.New(nil),
		Capacity: capacity.Model{
			ByDept: map[domain.Department]capacity.DeptCapacity{
				domain.DeptEngineering: {BaseWeekly: 100, Tiers: tiers},
				domain.DeptWelding:     {BaseWeekly: 100, Tiers: tiers},
			},
		},
		Today:   today,
		Options: scheduler.DefaultOptions(),
	}
}

func pendingJob(id string, points float64, due time.Time, mods ...func(*domain.Job)) domain.Job {
	j := domain.Job{
		ID:        id,
		JobNumber: "WO-" + id[len(id)-4:],
		Name:      "Job " + id,
		Points:    points,
		DueDate:   due,
		Status:    domain.JobPending,
	}
	for _, mod := range mods {
		mod(&j)
	}
	return j
}

// engOnly confines a job to Engineering so one department's week fills
// predictably.
func engOnly(j *domain.Job) {
	j.Skipped = []domain.Department{domain.DeptWelding}
}

func TestResolveNewJob_DirectFit(t *testing.T) {
	in := shopInput(monday)
	dec, err := ResolveNewJob(in, pendingJob("job-0001", 80, friday))
	require.NoError(t, err)

	assert.True(t, dec.Success)
	assert.Equal(t, domain.StrategyDirect, dec.Strategy)
	require.NotNil(t, dec.SelectedStart)
	assert.Equal(t, monday, *dec.SelectedStart)
	require.NotNil(t, dec.ForecastDue)
	assert.Equal(t, friday, *dec.ForecastDue)
	assert.Empty(t, dec.MovesApplied)
	assert.Empty(t, dec.OTRequirements)
	assert.Empty(t, dec.JobShifts, "an empty board has nothing to displace")
	assert.Contains(t, dec.Summary, "fits directly")
}

func TestResolveNewJob_MovesBusyWeekOut(t *testing.T) {
	blocker := pendingJob("job-000a", 100, friday, engOnly)
	in := shopInput(monday, blocker)

	dec, err := ResolveNewJob(in, pendingJob("job-000b", 20, friday, engOnly))
	require.NoError(t, err)

	assert.True(t, dec.Success)
	assert.Equal(t, domain.StrategyMoveJobs, dec.Strategy)
	require.Len(t, dec.MovesApplied, 1)
	opt := dec.MovesApplied[0]
	assert.Equal(t, domain.MoveWorkOrder, opt.Scope)
	assert.Equal(t, "job-000a", opt.JobID)
	assert.Equal(t, 1, opt.PushWeeks, "one week clears it, two would be rejected as the worse push")
	assert.Equal(t, nextFriday, opt.NewDueDates["job-000a"])
	assert.Equal(t, domain.RiskModerate, opt.Risk, "the pushed job lands flush against its new date")
	assert.InDelta(t, 100, opt.PointsRelieved, 1e-9)

	require.Len(t, dec.JobShifts, 1)
	assert.Equal(t, "job-000a", dec.JobShifts[0].JobID)
	assert.Equal(t, 5, dec.JobShifts[0].DeltaDays)
	assert.Equal(t, nextFriday, dec.JobShifts[0].NewDue)

	require.NotNil(t, dec.SelectedStart)
	assert.Equal(t, friday, *dec.SelectedStart)
	require.NotEmpty(t, dec.Bottlenecks)
	assert.Equal(t, domain.DeptEngineering, dec.Bottlenecks[0].Department)
	assert.Equal(t, "2026-W09", dec.Bottlenecks[0].Week)
	assert.InDelta(t, 20, dec.Bottlenecks[0].Excess, 1e-9)
}

func TestResolveNewJob_OvertimeWhenMovesCannotClear(t *testing.T) {
	// Three weeks booked wall to wall: pushing any job only relocates the
	// pile-up, so the ladder falls through to overtime.
	in := shopInput(monday,
		pendingJob("job-000a", 100, friday, engOnly),
		pendingJob("job-000b", 100, nextFriday, engOnly),
		pendingJob("job-000c", 100, thirdFriday, engOnly),
	)

	dec, err := ResolveNewJob(in, pendingJob("job-000s", 20, friday, engOnly))
	require.NoError(t, err)

	assert.True(t, dec.Success)
	assert.Equal(t, domain.StrategyOvertime, dec.Strategy)
	assert.Empty(t, dec.MovesApplied)
	require.Len(t, dec.OTRequirements, 1)
	rec := dec.OTRequirements[0]
	assert.Equal(t, domain.DeptEngineering, rec.Department)
	assert.Equal(t, "2026-W09", rec.Week)
	assert.InDelta(t, 20, rec.Excess, 1e-9)
	require.True(t, rec.HasTier)
	assert.InDelta(t, 20, rec.Tier.BonusPoints, 1e-9, "the 10-point tier falls short, the 20-point tier covers")
	assert.InDelta(t, 0, rec.RemainingExcess, 1e-9)

	require.NotNil(t, dec.ForecastDue)
	assert.Equal(t, friday, *dec.ForecastDue)
	assert.Contains(t, dec.Summary, "overtime")
}

func TestResolveNewJob_NoFitNamesTheBlocker(t *testing.T) {
	in := shopInput(monday,
		pendingJob("job-000a", 100, friday, engOnly),
		pendingJob("job-000b", 100, nextFriday, engOnly),
		pendingJob("job-000c", 100, thirdFriday, engOnly),
	)

	// 120 points due Friday cannot fit a week already holding 100, and the
	// top overtime tier only buys 30.
	dec, err := ResolveNewJob(in, pendingJob("job-000s", 120, friday, engOnly))
	require.NoError(t, err)

	assert.False(t, dec.Success)
	assert.Equal(t, domain.StrategyNoFit, dec.Strategy)
	assert.Nil(t, dec.SelectedStart)
	require.NotEmpty(t, dec.Bottlenecks)
	assert.Equal(t, "2026-W09", dec.Bottlenecks[0].Week)
	assert.Contains(t, dec.Reason, "2026-W09")
	assert.Contains(t, dec.Reason, "over capacity even with overtime")
	assert.Contains(t, dec.Summary, "no fit")
}

func TestResolveNewJob_DefaultsCandidateIdentity(t *testing.T) {
	in := shopInput(monday)
	dec, err := ResolveNewJob(in, domain.Job{
		JobNumber: "WO-9000",
		Name:      "Prospect quote",
		Points:    40,
		DueDate:   friday,
	})
	require.NoError(t, err)
	assert.True(t, dec.Success, "a quote candidate needs no ID or status to be evaluated")
	assert.Equal(t, domain.StrategyDirect, dec.Strategy)
}
