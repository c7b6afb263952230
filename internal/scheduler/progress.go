package scheduler

import (
	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/domain"
)

// progressFor classifies how a job tracks against its own schedule by
// comparing the department it is actually in against the department the
// schedule says it should be in today.
//
// Pending jobs count as sitting before the first department. A job past its
// due date with work left never reads better than SLIPPING.
func progressFor(job *domain.Job, sched domain.DeptSchedule, in Input) domain.ProgressStatus {
	today := calendar.DateOnly(in.Today)
	visited := job.EffectiveDepartments(in.Pipeline)

	expected := -1
	for i, d := range visited {
		w, ok := sched.Window(d)
		if !ok {
			continue
		}
		if !w.Start.After(today) {
			expected = i
		}
	}

	actual := -1
	if job.Status == domain.JobInProgress {
		for i, d := range visited {
			if d == job.CurrentDept {
				actual = i
				break
			}
		}
	}

	var status domain.ProgressStatus
	switch diff := actual - expected; {
	case diff > 0:
		status = domain.ProgressAhead
	case diff == 0:
		status = domain.ProgressOnTrack
	case diff == -1:
		status = domain.ProgressSlipping
	default:
		status = domain.ProgressStalled
	}

	if today.After(calendar.DateOnly(job.DueDate)) {
		if status == domain.ProgressAhead || status == domain.ProgressOnTrack {
			status = domain.ProgressSlipping
		} else {
			status = domain.ProgressStalled
		}
	}
	return status
}
