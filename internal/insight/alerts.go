package insight

import (
	"time"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// AlertEffect is one active alert's dent in the plan: the job it pins, where
// it is stuck, and the points withheld from each affected week.
type AlertEffect struct {
	AlertID       string
	JobID         string
	JobNumber     string
	Department    domain.Department
	Reason        string
	Resolution    time.Time
	Weeks         []string
	BlockedPoints float64
}

// AlertImpact aggregates what the active alerts cost the shop this horizon.
type AlertImpact struct {
	ActiveCount   int
	BlockedPoints float64
	Effects       []AlertEffect
	// Adjustments carries the blockages as negative weekly capacity deltas.
	Adjustments capacity.Adjustments
	// AddedOverloads are buckets that only tip over once the blocked points
	// come off the budget.
	AddedOverloads []scheduler.Overload
}

// BlockageAdjustments converts active alerts into negative capacity deltas:
// a stuck job's full points count against its department every week from
// today through the estimated resolution. Alerts naming unknown or
// unschedulable jobs are skipped; the importer reports those, analysis does
// not fail on them.
func BlockageAdjustments(alerts []domain.SupervisorAlert, jobs []domain.Job, cal calendar.Calendar, today time.Time) (capacity.Adjustments, []AlertEffect) {
	adj := make(capacity.Adjustments)
	var effects []AlertEffect
	today = calendar.DateOnly(today)
	for i := range alerts {
		alert := &alerts[i]
		if !alert.Active(today) {
			continue
		}
		job := jobByID(jobs, alert.JobID)
		if job == nil || !job.Schedulable() {
			continue
		}
		eff := AlertEffect{
			AlertID:       alert.ID,
			JobID:         job.ID,
			JobNumber:     job.DisplayID(),
			Department:    alert.Department,
			Reason:        alert.Reason,
			Resolution:    calendar.DateOnly(alert.EstimatedResolution),
			BlockedPoints: job.Points,
		}
		for ws := cal.WeekStart(today); !ws.After(eff.Resolution); ws = ws.AddDate(0, 0, 7) {
			week := cal.WeekKey(ws)
			adj.Add(alert.Department, week, -job.Points)
			eff.Weeks = append(eff.Weeks, week)
		}
		effects = append(effects, eff)
	}
	return adj, effects
}

func jobByID(jobs []domain.Job, id string) *domain.Job {
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i]
		}
	}
	return nil
}
