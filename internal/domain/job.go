package domain

import (
	"fmt"
	"regexp"
	"time"
)

var jobNumberPattern = regexp.MustCompile(`^[A-Z]{2,4}-?[0-9]{3,6}$`)

// Job is the unit of work moving through the pipeline. Points are a
// normalized unit of department workload; the due date is the customer
// commitment the scheduler anchors on.
type Job struct {
	ID          string
	JobNumber   string
	Name        string
	SalesOrder  string
	ProductType string
	Points      float64
	DueDate     time.Time
	CurrentDept Department
	Status      JobStatus

	// Scheduling preferences
	PriorityByDept map[Department]int
	NoGaps         bool
	Skipped        []Department
	// EarliestStart floors the job's remaining work: no window may begin
	// before it. Used for material arrival dates and supervisor blockages.
	EarliestStart *time.Time

	// Scheduler outputs
	Schedule           DeptSchedule
	RemainingSchedule  DeptSchedule
	ScheduledStart     *time.Time
	ForecastStart      *time.Time
	ForecastDue        *time.Time
	SchedulingConflict bool
	Progress           ProgressStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateJobNumber checks that JobNumber is non-empty and matches the shop
// numbering format: 2-4 uppercase letters, optional dash, 3-6 digits
// (e.g. WO-1042, FAB20114).
func (j *Job) ValidateJobNumber() error {
	if j.JobNumber == "" {
		return fmt.Errorf("job number is required (use --number flag)")
	}
	if !jobNumberPattern.MatchString(j.JobNumber) {
		return fmt.Errorf("job number %q must be 2-4 uppercase letters then 3-6 digits (e.g. WO-1042)", j.JobNumber)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers JobNumber; if empty it truncates ID to 8 characters.
func (j *Job) DisplayID() string {
	if j.JobNumber != "" {
		return j.JobNumber
	}
	if len(j.ID) >= 8 {
		return j.ID[:8]
	}
	return j.ID
}

// Schedulable reports whether the scheduler should place this job.
// Completed jobs are history; held jobs wait off the board until resumed.
func (j *Job) Schedulable() bool {
	return j.Status == JobPending || j.Status == JobInProgress
}

// Clone returns a deep copy safe to mutate independently.
func (j Job) Clone() Job {
	out := j
	out.Schedule = j.Schedule.Clone()
	out.RemainingSchedule = j.RemainingSchedule.Clone()
	out.Skipped = append([]Department(nil), j.Skipped...)
	if j.PriorityByDept != nil {
		out.PriorityByDept = make(map[Department]int, len(j.PriorityByDept))
		for d, r := range j.PriorityByDept {
			out.PriorityByDept[d] = r
		}
	}
	if j.EarliestStart != nil {
		t := *j.EarliestStart
		out.EarliestStart = &t
	}
	if j.ScheduledStart != nil {
		t := *j.ScheduledStart
		out.ScheduledStart = &t
	}
	if j.ForecastStart != nil {
		t := *j.ForecastStart
		out.ForecastStart = &t
	}
	if j.ForecastDue != nil {
		t := *j.ForecastDue
		out.ForecastDue = &t
	}
	return out
}

// CloneJobs deep-copies a job slice.
func CloneJobs(jobs []Job) []Job {
	out := make([]Job, len(jobs))
	for i := range jobs {
		out[i] = jobs[i].Clone()
	}
	return out
}

// SkipsDept reports whether dept is on the job's skip list.
func (j *Job) SkipsDept(dept Department) bool {
	for _, d := range j.Skipped {
		if d == dept {
			return true
		}
	}
	return false
}

// EffectiveDepartments returns the pipeline departments this job actually
// visits, in pipeline order.
func (j *Job) EffectiveDepartments(pipeline Pipeline) []Department {
	out := make([]Department, 0, pipeline.Len())
	for _, d := range pipeline.Departments() {
		if !j.SkipsDept(d) {
			out = append(out, d)
		}
	}
	return out
}

// MarkInProgress moves a pending job onto the floor in dept.
func (j *Job) MarkInProgress(dept Department, now time.Time) error {
	switch j.Status {
	case JobCompleted:
		return fmt.Errorf("job %s is completed and cannot be restarted", j.DisplayID())
	case JobOnHold:
		return fmt.Errorf("job %s is on hold; resume it first", j.DisplayID())
	}
	j.Status = JobInProgress
	j.CurrentDept = dept
	j.UpdatedAt = now
	return nil
}

// Advance moves an in-progress job to its next pipeline department, or to
// completed when the current department is the last it visits.
func (j *Job) Advance(pipeline Pipeline, now time.Time) error {
	if j.Status != JobInProgress {
		return fmt.Errorf("job %s is %s, not in progress", j.DisplayID(), j.Status)
	}
	next, ok := pipeline.Next(j.CurrentDept)
	for ok && j.SkipsDept(next) {
		next, ok = pipeline.Next(next)
	}
	if !ok {
		return j.MarkCompleted(now)
	}
	j.CurrentDept = next
	j.UpdatedAt = now
	return nil
}

// MarkCompleted closes the job out.
func (j *Job) MarkCompleted(now time.Time) error {
	if j.Status == JobCompleted {
		return nil
	}
	j.Status = JobCompleted
	j.UpdatedAt = now
	return nil
}

// MarkOnHold pulls the job off the schedulable board.
func (j *Job) MarkOnHold(now time.Time) error {
	if j.Status == JobCompleted {
		return fmt.Errorf("job %s is completed and cannot be held", j.DisplayID())
	}
	if j.Status == JobOnHold {
		return nil
	}
	j.Status = JobOnHold
	j.UpdatedAt = now
	return nil
}

// Resume returns a held job to the board. Jobs that had reached the floor
// come back in progress; jobs that had not come back pending.
func (j *Job) Resume(now time.Time) error {
	if j.Status != JobOnHold {
		return fmt.Errorf("job %s is %s, not on hold", j.DisplayID(), j.Status)
	}
	if j.CurrentDept != "" {
		j.Status = JobInProgress
	} else {
		j.Status = JobPending
	}
	j.UpdatedAt = now
	return nil
}
