package planner

import (
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
)

// RescheduleSuggestion pairs a proposed due-date change with the schedule
// consequences of accepting it. Current and Suggested hold the job's
// department windows before and after, in pipeline order.
type RescheduleSuggestion struct {
	JobID     string
	JobNumber string
	OldDue    time.Time
	NewDue    time.Time
	Current   []domain.DeptWindow
	Suggested []domain.DeptWindow
	Decision  Decision
}

// SuggestReschedule evaluates moving one job's due date without touching the
// stored backlog. The decision reports whether the new date holds directly,
// needs moves or overtime, or cannot be met.
func SuggestReschedule(in Input, jobID string, newDue time.Time) (RescheduleSuggestion, error) {
	job := findJob(in.Jobs, jobID)
	if job == nil {
		return RescheduleSuggestion{}, fmt.Errorf("job %s not found", jobID)
	}
	if !job.Schedulable() {
		return RescheduleSuggestion{}, fmt.Errorf("job %s is %s and cannot be rescheduled", job.DisplayID(), job.Status)
	}
	if newDue.IsZero() {
		return RescheduleSuggestion{}, fmt.Errorf("new due date is required")
	}

	subject := job.Clone()
	subject.DueDate = newDue
	dec, base, win, err := resolve(in, resolveRequest{subject: subject, replace: true})
	if err != nil {
		return RescheduleSuggestion{}, err
	}

	sug := RescheduleSuggestion{
		JobID:     job.ID,
		JobNumber: job.DisplayID(),
		OldDue:    job.DueDate,
		NewDue:    newDue,
		Decision:  dec,
	}
	if cur := findJob(base.Jobs, jobID); cur != nil {
		sug.Current = cur.Schedule.Ordered(in.Pipeline)
	}
	if dec.Success {
		if next := findJob(win.Jobs, jobID); next != nil {
			sug.Suggested = next.Schedule.Ordered(in.Pipeline)
		}
	}
	return sug, nil
}
