package scheduler

import (
	"time"

	"github.com/averyhollis/fabline/internal/domain"
)

// reconcile fits placed windows under weekly department capacity.
//
// Departments are processed in pipeline order so each window's upstream
// boundary is already final when its own department is worked. Within one
// department jobs are taken in canonical priority order; a job whose window
// would overflow a week is shifted earlier, never later, one work day at a
// time. When the window reaches its floor without fitting, the job is marked
// conflicted and left where the walk stopped, so the overload stays visible
// to the load analyzer instead of being absorbed.
func reconcile(jobs []domain.Job, placed map[string]*domain.DeptSchedule, in Input) map[string]bool {
	loads := make(WeekLoads)
	conflicts := make(map[string]bool)

	for _, dept := range in.Pipeline.Departments() {
		for _, ji := range OrderForDept(jobs, dept) {
			job := &jobs[ji]
			if !job.Schedulable() {
				continue
			}
			sched := placed[job.ID]
			if sched == nil {
				continue
			}
			w, ok := sched.Window(dept)
			if !ok {
				continue
			}
			if frozenDept(job, dept, in.Pipeline) {
				// History occupies its weeks but is never moved.
				loads.commit(in.Calendar, dept, w, job.Points)
				continue
			}

			floor := shiftFloor(job, dept, sched, in)
			w, fit := shiftEarlier(w, floor, dept, job.Points, loads, in)
			sched.Set(dept, w)
			if !fit {
				conflicts[job.ID] = true
			}
			loads.commit(in.Calendar, dept, w, job.Points)
		}
	}
	return conflicts
}

// frozenDept reports whether dept is already behind an in-progress job.
func frozenDept(job *domain.Job, dept domain.Department, pipeline domain.Pipeline) bool {
	return job.Status == domain.JobInProgress && pipeline.Before(dept, job.CurrentDept)
}

// shiftFloor is the earliest start a window may be shifted back to: the work
// day after the previous visited department's window, never before today and
// never before the job's earliest-start floor. Compressing the configured
// gap under capacity pressure is allowed; overlapping the upstream
// department is not.
func shiftFloor(job *domain.Job, dept domain.Department, sched *domain.DeptSchedule, in Input) time.Time {
	floor := in.Calendar.NextWorkDay(in.Today)
	if job.EarliestStart != nil {
		if es := in.Calendar.NextWorkDay(*job.EarliestStart); es.After(floor) {
			floor = es
		}
	}
	visited := job.EffectiveDepartments(in.Pipeline)
	for i, d := range visited {
		if d != dept {
			continue
		}
		if i == 0 {
			break
		}
		if prev, ok := sched.Window(visited[i-1]); ok {
			after := in.Calendar.AddWorkDays(prev.End, 1)
			if after.After(floor) {
				floor = after
			}
		}
		break
	}
	return floor
}

// shiftEarlier walks the window back one work day at a time until every week
// it touches fits, or the floor is reached. The returned flag is false when
// no fitting position exists.
func shiftEarlier(w domain.Window, floor time.Time, dept domain.Department, points float64, loads WeekLoads, in Input) (domain.Window, bool) {
	for !loads.fits(in, dept, w, points) {
		if !w.Start.After(floor) {
			return w, false
		}
		w = domain.Window{
			Start: in.Calendar.SubWorkDays(w.Start, 1),
			End:   in.Calendar.SubWorkDays(w.End, 1),
		}
	}
	return w, true
}
