// Package planner turns schedule pressure into remediation decisions:
// due-date moves, overtime recommendations, reschedule suggestions and
// supervisor-alert adjustments. Every entry point is a pure function that
// proposes a change; committing it is the caller's job.
package planner

import (
	"time"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// Input is the shop state a planning call works against.
type Input struct {
	Jobs     []domain.Job
	Pipeline domain.Pipeline
	Calendar calendar.Calendar
	Capacity capacity.Model
	Today    time.Time
	Options  scheduler.Options
}

// run schedules jobs with extra capacity adjustments layered on top of the
// input's own.
func (in Input) run(jobs []domain.Job, adj capacity.Adjustments) (scheduler.Result, error) {
	opts := in.Options
	opts.Adjustments = in.Options.Adjustments.Merge(adj)
	return scheduler.Schedule(scheduler.Input{
		Jobs:     jobs,
		Pipeline: in.Pipeline,
		Calendar: in.Calendar,
		Capacity: in.Capacity,
		Today:    in.Today,
		Options:  opts,
	})
}

// lateSet collects the IDs of schedulable jobs forecast past their due date.
func lateSet(jobs []domain.Job, cal calendar.Calendar) map[string]bool {
	out := make(map[string]bool)
	for i := range jobs {
		if jobs[i].Schedulable() && scheduler.RunsLate(&jobs[i], cal) {
			out[jobs[i].ID] = true
		}
	}
	return out
}

func idSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func findJob(jobs []domain.Job, id string) *domain.Job {
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i]
		}
	}
	return nil
}

// signedWorkDays measures the work-day distance from one date to another,
// negative when to precedes from.
func signedWorkDays(cal calendar.Calendar, from, to time.Time) int {
	if to.After(from) {
		return cal.BusinessDaysBetween(from, to)
	}
	return -cal.BusinessDaysBetween(to, from)
}
