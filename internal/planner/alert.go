package planner

import (
	"fmt"

	"github.com/averyhollis/fabline/internal/domain"
)

// AlertPlan is the remediation proposal for one supervisor alert: where the
// blocked job can resume and what the rest of the backlog gives up for it.
type AlertPlan struct {
	AlertID   string
	JobID     string
	JobNumber string
	Decision  Decision
}

// PlanAlertAdjustment replans around an active blockage. The stuck job's
// remaining work is floored at the first work day after the estimated
// resolution, and the ladder runs with the subject allowed to land late:
// a blockage that blows the due date still deserves a concrete plan rather
// than a refusal.
func PlanAlertAdjustment(in Input, alert domain.SupervisorAlert) (AlertPlan, error) {
	if !alert.Active(in.Today) {
		return AlertPlan{}, fmt.Errorf("alert %s is not active", alert.ID)
	}
	job := findJob(in.Jobs, alert.JobID)
	if job == nil {
		return AlertPlan{}, fmt.Errorf("job %s not found", alert.JobID)
	}
	if !job.Schedulable() {
		return AlertPlan{}, fmt.Errorf("job %s is %s and cannot be replanned", job.DisplayID(), job.Status)
	}
	if job.Status != domain.JobInProgress || job.CurrentDept != alert.Department {
		return AlertPlan{}, fmt.Errorf("job %s is not in progress at %s", job.DisplayID(), alert.Department)
	}

	// Blocked through the resolution date inclusive; work resumes the next
	// work day.
	release := in.Calendar.AddWorkDays(in.Calendar.PriorWorkDay(alert.EstimatedResolution), 1)
	subject := job.Clone()
	subject.EarliestStart = &release

	dec, _, _, err := resolve(in, resolveRequest{
		subject:          subject,
		replace:          true,
		allowSubjectLate: true,
	})
	if err != nil {
		return AlertPlan{}, err
	}
	return AlertPlan{
		AlertID:   alert.ID,
		JobID:     job.ID,
		JobNumber: job.DisplayID(),
		Decision:  dec,
	}, nil
}
