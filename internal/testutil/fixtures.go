package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/google/uuid"
)

var testJobNumberCounter atomic.Int64

// Date strips the clock from t, leaving midnight UTC. Due dates and
// window boundaries are stored and compared as whole days.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Job options
type JobOption func(*domain.Job)

func WithJobName(name string) JobOption {
	return func(j *domain.Job) {
		j.Name = name
	}
}

func WithSalesOrder(so string) JobOption {
	return func(j *domain.Job) {
		j.SalesOrder = so
	}
}

func WithProductType(pt string) JobOption {
	return func(j *domain.Job) {
		j.ProductType = pt
	}
}

func WithPoints(p float64) JobOption {
	return func(j *domain.Job) {
		j.Points = p
	}
}

func WithDueDate(d time.Time) JobOption {
	return func(j *domain.Job) {
		j.DueDate = Date(d)
	}
}

func WithJobStatus(s domain.JobStatus) JobOption {
	return func(j *domain.Job) {
		j.Status = s
	}
}

func WithCurrentDept(d domain.Department) JobOption {
	return func(j *domain.Job) {
		j.CurrentDept = d
		j.Status = domain.JobInProgress
	}
}

func WithPriority(dept domain.Department, rank int) JobOption {
	return func(j *domain.Job) {
		if j.PriorityByDept == nil {
			j.PriorityByDept = make(map[domain.Department]int)
		}
		j.PriorityByDept[dept] = rank
	}
}

func WithNoGaps() JobOption {
	return func(j *domain.Job) {
		j.NoGaps = true
	}
}

func WithSkipped(depts ...domain.Department) JobOption {
	return func(j *domain.Job) {
		j.Skipped = append(j.Skipped, depts...)
	}
}

func WithEarliestStart(d time.Time) JobOption {
	return func(j *domain.Job) {
		es := Date(d)
		j.EarliestStart = &es
	}
}

// NewTestJob builds a pending job due two months out. Pass "" as the
// number to get a unique generated one.
func NewTestJob(number string, opts ...JobOption) *domain.Job {
	if number == "" {
		number = fmt.Sprintf("WO-%04d", 1000+testJobNumberCounter.Add(1))
	}
	now := time.Now().UTC()
	j := &domain.Job{
		ID:        uuid.New().String(),
		JobNumber: number,
		Name:      "Test Job " + number,
		Points:    100,
		DueDate:   Date(now.AddDate(0, 2, 0)),
		Status:    domain.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Alert options
type AlertOption func(*domain.SupervisorAlert)

func WithReason(r string) AlertOption {
	return func(a *domain.SupervisorAlert) {
		a.Reason = r
	}
}

func WithResolution(d time.Time) AlertOption {
	return func(a *domain.SupervisorAlert) {
		a.EstimatedResolution = Date(d)
	}
}

func WithAlertStatus(s domain.AlertStatus) AlertOption {
	return func(a *domain.SupervisorAlert) {
		a.Status = s
	}
}

// NewTestAlert builds an active alert estimated to clear in a week.
func NewTestAlert(jobID string, dept domain.Department, opts ...AlertOption) *domain.SupervisorAlert {
	now := time.Now().UTC()
	a := &domain.SupervisorAlert{
		ID:                  uuid.New().String(),
		JobID:               jobID,
		Department:          dept,
		Reason:              "material shortage",
		EstimatedResolution: Date(now.AddDate(0, 0, 7)),
		Status:              domain.AlertActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
