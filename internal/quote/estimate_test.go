package quote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/planner"
	"github.com/averyhollis/fabline/internal/scheduler"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// March 2026: the 2nd is a Monday. Week keys run 2026-W09 (Mar 2-6),
// 2026-W10 (Mar 9-13), 2026-W11 (Mar 16-20).
var (
	monday      = day(2026, 3, 2)
	friday      = day(2026, 3, 6)
	nextFriday  = day(2026, 3, 13)
	thirdFriday = day(2026, 3, 20)
)

// shopInput builds the Engineering+Welding shop these tests quote against:
// both departments at 200 points per week, so 40 points move per work day.
func shopInput(today time.Time, jobs ...domain.Job) planner.Input {
	pipeline, _ := domain.NewPipeline([]domain.Department{domain.DeptEngineering, domain.DeptWelding})
	tiers := []capacity.OTTier{
		{Ordinal: 1, Label: "weekday +2h", BonusPoints: 20, Days: "Mon-Fri"},
		{Ordinal: 2, Label: "weekday +4h", BonusPoints: 40, Days: "Mon-Fri"},
		{Ordinal: 3, Label: "saturday shift", BonusPoints: 60, Days: "Sat"},
	}
	return planner.Input{
		Jobs:     jobs,
		Pipeline: pipeline,
		Calendar: calendar.New(nil),
		Capacity: capacity.Model{
			ByDept: map[domain.Department]capacity.DeptCapacity{
				domain.DeptEngineering: {BaseWeekly: 200, Tiers: tiers},
				domain.DeptWelding:     {BaseWeekly: 200, Tiers: tiers},
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

func engOnly(j *domain.Job)  { j.Skipped = []domain.Department{domain.DeptWelding} }
func weldOnly(j *domain.Job) { j.Skipped = []domain.Department{domain.DeptEngineering} }

func TestConvertPoints_BigRocksConvertIndividually(t *testing.T) {
	points, lines, err := ConvertPoints(Request{
		DollarValue: 12000,
		ItemCount:   5,
		ItemValues:  []float64{9000},
	})
	require.NoError(t, err)

	assert.InDelta(t, 80, points, 1e-9)
	require.Len(t, lines, 2)
	assert.Equal(t, "item 1", lines[0].Label)
	assert.InDelta(t, 60, lines[0].Points, 1e-9, "$9,000 at $150/point")
	assert.Equal(t, 1, lines[0].Items)
	assert.Equal(t, "4 item(s) pro-rated", lines[1].Label)
	assert.InDelta(t, 3000, lines[1].Dollars, 1e-9)
	assert.InDelta(t, 20, lines[1].Points, 1e-9)
}

func TestConvertPoints_SmallItemsStayPooled(t *testing.T) {
	// 20 and 10 points respectively, both under the 40-point threshold, so
	// neither earns its own line.
	points, lines, err := ConvertPoints(Request{
		DollarValue: 12000,
		ItemCount:   5,
		ItemValues:  []float64{3000, 1500},
	})
	require.NoError(t, err)

	assert.InDelta(t, 80, points, 1e-9)
	require.Len(t, lines, 1)
	assert.Equal(t, "5 item(s) pro-rated", lines[0].Label)
	assert.InDelta(t, 12000, lines[0].Dollars, 1e-9)
}

func TestConvertPoints_FullyItemized(t *testing.T) {
	points, lines, err := ConvertPoints(Request{
		DollarValue: 13500,
		ItemCount:   2,
		ItemValues:  []float64{7500, 6000},
	})
	require.NoError(t, err)

	assert.InDelta(t, 90, points, 1e-9)
	require.Len(t, lines, 2, "exactly 40 points still counts as a big rock")
	assert.InDelta(t, 50, lines[0].Points, 1e-9)
	assert.InDelta(t, 40, lines[1].Points, 1e-9)
}

func TestConvertPoints_UnitemizedBalance(t *testing.T) {
	points, lines, err := ConvertPoints(Request{
		DollarValue: 10000,
		ItemCount:   1,
		ItemValues:  []float64{9000},
	})
	require.NoError(t, err)

	assert.InDelta(t, 10000.0/150, points, 1e-9)
	require.Len(t, lines, 2)
	assert.Equal(t, "unitemized balance", lines[1].Label)
	assert.InDelta(t, 1000, lines[1].Dollars, 1e-9)
	assert.Equal(t, 0, lines[1].Items)
}

func TestConvertPoints_HonorsOverrides(t *testing.T) {
	points, lines, err := ConvertPoints(Request{
		DollarValue:      10000,
		ItemCount:        2,
		ItemValues:       []float64{6000},
		DollarsPerPoint:  100,
		BigRockThreshold: 50,
	})
	require.NoError(t, err)

	assert.InDelta(t, 100, points, 1e-9)
	require.Len(t, lines, 2)
	assert.InDelta(t, 60, lines[0].Points, 1e-9)
	assert.InDelta(t, 40, lines[1].Points, 1e-9)
}

func TestConvertPoints_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		req  Request
	}{
		{"no dollars", Request{ItemCount: 1}},
		{"no items", Request{DollarValue: 5000}},
		{"more values than items", Request{DollarValue: 5000, ItemCount: 1, ItemValues: []float64{2000, 2000}}},
		{"values exceed total", Request{DollarValue: 5000, ItemCount: 2, ItemValues: []float64{4000, 2000}}},
		{"negative value", Request{DollarValue: 5000, ItemCount: 2, ItemValues: []float64{-100}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ConvertPoints(tc.req)
			assert.Error(t, err)
		})
	}
}

func TestSimulateQuote_RunsForwardFromToday(t *testing.T) {
	in := shopInput(monday)

	est, err := SimulateQuote(in, Request{Name: "stair stringers", DollarValue: 12000, ItemCount: 1})
	require.NoError(t, err)

	// 80 points split 40/40 over the two departments, one work day each,
	// with the buffer day between: Engineering Monday, Welding Wednesday.
	assert.InDelta(t, 80, est.Points, 1e-9)
	require.NotNil(t, est.ScheduledStart)
	assert.Equal(t, monday, *est.ScheduledStart)
	require.NotNil(t, est.EarliestDone)
	assert.Equal(t, day(2026, 3, 4), *est.EarliestDone)
	assert.False(t, est.CapacityConflict)
	assert.Equal(t, "QT-0001", est.Job.JobNumber)
	assert.Contains(t, est.Summary, "earliest completion 2026-03-04")
}

func TestSimulateQuote_LoadedWeeksFlagTheDate(t *testing.T) {
	// 400 points due Friday overflow the backlog into forward placement and
	// fill Engineering's first week solid. The quote's earliest date still
	// comes back, flagged as running through an overloaded week.
	in := shopInput(monday, pendingJob("job-0001", 400, friday))

	est, err := SimulateQuote(in, Request{DollarValue: 12000, ItemCount: 1})
	require.NoError(t, err)

	require.NotNil(t, est.EarliestDone)
	assert.Equal(t, day(2026, 3, 4), *est.EarliestDone)
	assert.True(t, est.CapacityConflict)
	assert.Contains(t, est.Summary, "overloaded")
}

func TestSimulateQuote_RejectsBadRequest(t *testing.T) {
	_, err := SimulateQuote(shopInput(monday), Request{ItemCount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dollar value")
}
