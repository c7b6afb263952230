package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/domain"
)

func TestBlockageAdjustments_SubtractsStuckPointsPerWeek(t *testing.T) {
	cal := calendar.New(nil)
	job := domain.Job{
		ID: "job-0001", JobNumber: "WO-0001", Points: 80, DueDate: friday,
		Status: domain.JobInProgress, CurrentDept: domain.DeptWelding,
	}
	alerts := []domain.SupervisorAlert{
		{
			ID: "alert-0001", JobID: "job-0001", Department: domain.DeptWelding,
			Reason: "waiting on castings", EstimatedResolution: day(2026, 3, 11),
			Status: domain.AlertActive,
		},
		{
			ID: "alert-0002", JobID: "job-0001", Department: domain.DeptWelding,
			EstimatedResolution: friday, Status: domain.AlertResolved,
		},
		{
			ID: "alert-0003", JobID: "job-9999", Department: domain.DeptWelding,
			EstimatedResolution: friday, Status: domain.AlertActive,
		},
	}

	adj, effects := BlockageAdjustments(alerts, []domain.Job{job}, cal, monday)

	require.Len(t, effects, 1, "resolved alerts and unknown jobs are skipped")
	eff := effects[0]
	assert.Equal(t, "alert-0001", eff.AlertID)
	assert.Equal(t, "WO-0001", eff.JobNumber)
	assert.InDelta(t, 80, eff.BlockedPoints, 1e-9)
	assert.Equal(t, []string{"2026-W09", "2026-W10"}, eff.Weeks,
		"blocked through the Wednesday of the second week")

	assert.InDelta(t, -80, adj.For(domain.DeptWelding, "2026-W09"), 1e-9)
	assert.InDelta(t, -80, adj.For(domain.DeptWelding, "2026-W10"), 1e-9)
	assert.InDelta(t, 0, adj.For(domain.DeptWelding, "2026-W11"), 1e-9)
}
