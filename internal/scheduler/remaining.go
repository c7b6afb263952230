package scheduler

import (
	"fmt"

	"github.com/averyhollis/fabline/internal/domain"
)

// ApplyRemainingSchedule recomputes the forward-looking schedule for one
// job, anchored so the current department starts no earlier than today.
// Departments the job has already cleared keep their windows untouched.
// Only placement runs here, no capacity reconciliation, so the call is
// idempotent: projecting twice with the same today changes nothing.
//
// in.Jobs is not consulted; the projector works on the single job given.
// Completed and held jobs come back unchanged.
func ApplyRemainingSchedule(job domain.Job, in Input) (domain.Job, error) {
	out := job.Clone()
	if !out.Schedulable() {
		return out, nil
	}
	if out.Points <= 0 {
		return domain.Job{}, fmt.Errorf("job %s: points must be positive, got %g", out.DisplayID(), out.Points)
	}
	if out.DueDate.IsZero() {
		return domain.Job{}, fmt.Errorf("job %s: due date is required", out.DisplayID())
	}
	if in.Today.IsZero() {
		return domain.Job{}, fmt.Errorf("today date is required")
	}

	sched, err := placeJob(&out, in)
	if err != nil {
		return domain.Job{}, fmt.Errorf("projecting job %s: %w", out.DisplayID(), err)
	}
	if err := sched.Validate(in.Pipeline, out.Skipped); err != nil {
		return domain.Job{}, fmt.Errorf("schedule invariant violated for job %s: %w", out.DisplayID(), err)
	}

	out.Schedule = sched
	out.RemainingSchedule = remainingOf(&out, sched, in.Pipeline)
	if start, ok := sched.EarliestStart(); ok {
		out.ScheduledStart = &start
	}
	if start, ok := out.RemainingSchedule.EarliestStart(); ok {
		out.ForecastStart = &start
	}
	if end, ok := sched.LatestEnd(); ok {
		out.ForecastDue = &end
	}
	out.Progress = progressFor(&out, sched, in)
	return out, nil
}
