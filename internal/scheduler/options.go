// Package scheduler places jobs on the shop calendar. Placement walks the
// pipeline backward from each due date; reconciliation then fits the placed
// windows under weekly department capacity, shifting jobs earlier and never
// later so due dates stay protected.
package scheduler

import (
	"time"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
)

// Input is one self-contained scheduling request. The scheduler never reads
// the wall clock or mutates the caller's jobs; identical inputs produce
// identical outputs.
type Input struct {
	Jobs     []domain.Job
	Pipeline domain.Pipeline
	Calendar calendar.Calendar
	Capacity capacity.Model
	Today    time.Time
	Options  Options
}

// Options are the tunable placement knobs.
type Options struct {
	// GapDays is the number of idle work days left between one department's
	// window and the next. Jobs flagged NoGaps run back to back regardless.
	GapDays int
	// Adjustments carries signed weekly capacity deltas: overtime grants
	// add points, supervisor blockages subtract them.
	Adjustments capacity.Adjustments
}

// DefaultOptions leaves one buffer work day between departments.
func DefaultOptions() Options {
	return Options{GapDays: 1}
}

// Result is the outcome of one scheduling pass. Jobs preserves input order;
// schedulable jobs come back with populated schedules and flags, the rest
// pass through untouched.
type Result struct {
	Jobs []domain.Job
	// Conflicts lists the IDs of jobs flagged SchedulingConflict, sorted.
	Conflicts []string
	// CapacityConflicts is the subset of Conflicts whose windows could not
	// be shifted under weekly capacity, as opposed to jobs that merely
	// forecast past their due date.
	CapacityConflicts []string
}

func (o Options) gapFor(job *domain.Job) int {
	if job.NoGaps {
		return 0
	}
	if o.GapDays < 0 {
		return 0
	}
	return o.GapDays
}
