package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
)

// spanDays converts a department's slice of the job into whole work days.
// Every visited department takes at least one day on the floor.
func spanDays(points, share, dailyRate float64) int {
	if dailyRate <= 0 {
		return 1
	}
	days := int(math.Ceil(points * share / dailyRate))
	if days < 1 {
		return 1
	}
	return days
}

// placeJob computes the full department schedule for one job.
//
// The walk runs backward from the due date: the last visited department ends
// on the due date (or the nearest prior work day) and each earlier window
// ends gap+1 work days before the next one starts. When the backward result
// would begin before the anchor date the job is replaced forward from the
// anchor instead, letting the final window run past the due date; lateness
// then surfaces through the insight layer rather than being hidden by a
// compressed schedule.
//
// For in-progress jobs the anchor applies to the current department and all
// windows upstream of it are frozen as found on the job.
func placeJob(job *domain.Job, in Input) (domain.DeptSchedule, error) {
	visited := job.EffectiveDepartments(in.Pipeline)
	if len(visited) == 0 {
		return domain.DeptSchedule{}, fmt.Errorf("job %s skips every pipeline department", job.DisplayID())
	}

	remaining := visited
	frozen := domain.NewDeptSchedule()
	if job.Status == domain.JobInProgress {
		idx := -1
		for i, d := range visited {
			if d == job.CurrentDept {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.DeptSchedule{}, fmt.Errorf("job %s is in %s, which it does not visit", job.DisplayID(), job.CurrentDept)
		}
		remaining = visited[idx:]
		for _, d := range visited[:idx] {
			if w, ok := job.Schedule.Window(d); ok {
				frozen.Set(d, w)
			}
		}
	}

	anchor := in.Calendar.NextWorkDay(in.Today)
	if end, ok := frozen.LatestEnd(); ok {
		if after := in.Calendar.AddWorkDays(end, 1); after.After(anchor) {
			anchor = after
		}
	}
	if job.EarliestStart != nil {
		if floor := in.Calendar.NextWorkDay(*job.EarliestStart); floor.After(anchor) {
			anchor = floor
		}
	}
	// Shares stay anchored to the full visited pipeline so a job halfway
	// through the shop does not see its remaining windows inflate.
	shares := in.Capacity.Shares(visited)
	placed, err := placeWindows(remaining, shares, job, anchor, in)
	if err != nil {
		return domain.DeptSchedule{}, err
	}
	for _, dw := range frozen.Ordered(in.Pipeline) {
		placed.Set(dw.Department, dw.Window)
	}
	return placed, nil
}

// placeWindows lays out windows for depts, anchored so the first window
// starts no earlier than anchor.
func placeWindows(depts []domain.Department, shares map[domain.Department]float64, job *domain.Job, anchor time.Time, in Input) (domain.DeptSchedule, error) {
	cal := in.Calendar
	gap := in.Options.gapFor(job)
	spans := make([]int, len(depts))
	for i, d := range depts {
		spans[i] = spanDays(job.Points, shares[d], in.Capacity.DailyRate(d))
	}

	// Backward pass from the due date.
	windows := make([]domain.Window, len(depts))
	end := cal.PriorWorkDay(job.DueDate)
	for i := len(depts) - 1; i >= 0; i-- {
		start := cal.SubWorkDays(end, spans[i]-1)
		windows[i] = domain.Window{Start: start, End: end}
		if i > 0 {
			end = cal.SubWorkDays(start, gap+1)
		}
	}

	// Forward fallback when the plan would start in the past.
	if windows[0].Start.Before(anchor) {
		start := anchor
		for i := range depts {
			endAt := cal.AddWorkDays(start, spans[i]-1)
			windows[i] = domain.Window{Start: start, End: endAt}
			if i+1 < len(depts) {
				start = cal.AddWorkDays(endAt, gap+1)
			}
		}
	}

	placed := domain.NewDeptSchedule()
	for i, d := range depts {
		if !windows[i].Valid() {
			return domain.DeptSchedule{}, fmt.Errorf("job %s: computed %s window ends before it starts", job.DisplayID(), d)
		}
		placed.Set(d, windows[i])
	}
	return placed, nil
}

