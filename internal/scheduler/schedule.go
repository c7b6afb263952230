package scheduler

import (
	"fmt"
	"sort"

	"github.com/averyhollis/fabline/internal/domain"
)

// Schedule runs the full deterministic pass: validate, place every
// schedulable job backward from its due date, then reconcile the placed
// windows under weekly capacity. Completed and held jobs pass through
// untouched. The caller's job slice is never mutated.
func Schedule(in Input) (Result, error) {
	if errs := validateInput(in); len(errs) > 0 {
		return Result{}, formatValidationErrors(errs)
	}

	jobs := domain.CloneJobs(in.Jobs)
	placed := make(map[string]*domain.DeptSchedule, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		if !job.Schedulable() {
			continue
		}
		sched, err := placeJob(job, in)
		if err != nil {
			return Result{}, fmt.Errorf("placing job %s: %w", job.DisplayID(), err)
		}
		placed[job.ID] = &sched
	}

	conflicts := reconcile(jobs, placed, in)

	var conflictIDs, capacityIDs []string
	for i := range jobs {
		job := &jobs[i]
		sched := placed[job.ID]
		if sched == nil {
			continue
		}
		if err := sched.Validate(in.Pipeline, job.Skipped); err != nil {
			return Result{}, fmt.Errorf("schedule invariant violated for job %s: %w", job.DisplayID(), err)
		}
		job.Schedule = *sched
		job.RemainingSchedule = remainingOf(job, *sched, in.Pipeline)
		if start, ok := sched.EarliestStart(); ok {
			job.ScheduledStart = &start
		}
		if start, ok := job.RemainingSchedule.EarliestStart(); ok {
			job.ForecastStart = &start
		}
		if end, ok := sched.LatestEnd(); ok {
			job.ForecastDue = &end
		}
		job.SchedulingConflict = conflicts[job.ID]
		if job.SchedulingConflict {
			capacityIDs = append(capacityIDs, job.ID)
		}
		// A plan that runs past the due date is just as infeasible as one
		// that overruns capacity.
		if job.ForecastDue != nil && job.ForecastDue.After(in.Calendar.PriorWorkDay(job.DueDate)) {
			job.SchedulingConflict = true
		}
		if job.SchedulingConflict {
			conflictIDs = append(conflictIDs, job.ID)
		}
		job.Progress = progressFor(job, *sched, in)
	}
	sort.Strings(conflictIDs)
	sort.Strings(capacityIDs)
	return Result{Jobs: jobs, Conflicts: conflictIDs, CapacityConflicts: capacityIDs}, nil
}

// remainingOf extracts the forward-looking part of a schedule: everything
// from the current department onward for in-progress jobs, the whole plan
// for pending ones.
func remainingOf(job *domain.Job, sched domain.DeptSchedule, pipeline domain.Pipeline) domain.DeptSchedule {
	if job.Status != domain.JobInProgress {
		return sched.Clone()
	}
	out := domain.NewDeptSchedule()
	for _, dw := range sched.Ordered(pipeline) {
		if pipeline.Before(dw.Department, job.CurrentDept) {
			continue
		}
		out.Set(dw.Department, dw.Window)
	}
	return out
}
