package scheduler

import (
	"fmt"
	"sort"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/domain"
)

// validateInput collects every problem with a scheduling request so callers
// see the full list at once instead of fixing one field per attempt.
func validateInput(in Input) []error {
	var errs []error
	if in.Pipeline.Len() == 0 {
		errs = append(errs, fmt.Errorf("pipeline has no departments"))
	}
	if in.Today.IsZero() {
		errs = append(errs, fmt.Errorf("today date is required"))
	}
	errs = append(errs, in.Capacity.Validate()...)

	today := calendar.DateOnly(in.Today)
	seen := make(map[string]bool, len(in.Jobs))
	for i := range in.Jobs {
		job := &in.Jobs[i]
		label := job.DisplayID()
		if job.ID == "" {
			errs = append(errs, fmt.Errorf("job at position %d has no ID", i+1))
			continue
		}
		if seen[job.ID] {
			errs = append(errs, fmt.Errorf("job %s: duplicate ID", label))
			continue
		}
		seen[job.ID] = true
		if !domain.ValidJobStatuses[string(job.Status)] {
			errs = append(errs, fmt.Errorf("job %s: unknown status %q", label, job.Status))
			continue
		}
		if !job.Schedulable() {
			continue
		}
		if job.Points <= 0 {
			errs = append(errs, fmt.Errorf("job %s: points must be positive, got %g", label, job.Points))
		}
		if job.DueDate.IsZero() {
			errs = append(errs, fmt.Errorf("job %s: due date is required", label))
		} else if job.Status == domain.JobPending && calendar.DateOnly(job.DueDate).Before(today) {
			errs = append(errs, fmt.Errorf("job %s: due date %s is before today", label, job.DueDate.Format("2006-01-02")))
		}
		for _, d := range job.Skipped {
			if !in.Pipeline.Contains(d) {
				errs = append(errs, fmt.Errorf("job %s: skipped department %q is not in the pipeline", label, d))
			}
		}
		if len(job.EffectiveDepartments(in.Pipeline)) == 0 && in.Pipeline.Len() > 0 {
			errs = append(errs, fmt.Errorf("job %s: skips every pipeline department", label))
		}
		if job.Status == domain.JobInProgress {
			if !in.Pipeline.Contains(job.CurrentDept) {
				errs = append(errs, fmt.Errorf("job %s: current department %q is not in the pipeline", label, job.CurrentDept))
			} else if job.SkipsDept(job.CurrentDept) {
				errs = append(errs, fmt.Errorf("job %s: current department %s is on its skip list", label, job.CurrentDept))
			}
		}
		for _, d := range sortedPriorityDepts(job) {
			if !in.Pipeline.Contains(d) {
				errs = append(errs, fmt.Errorf("job %s: priority rank names unknown department %q", label, d))
			}
		}
	}
	return errs
}

func sortedPriorityDepts(job *domain.Job) []domain.Department {
	if len(job.PriorityByDept) == 0 {
		return nil
	}
	out := make([]domain.Department, 0, len(job.PriorityByDept))
	for d := range job.PriorityByDept {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("schedule validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
