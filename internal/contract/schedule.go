package contract

import (
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/scheduler"
)

type ScheduleRequest struct {
	Now              *time.Time
	IncludeCompleted bool
}

// JobScheduleView is one row of the scheduled board: the job, its department
// windows in pipeline order, and the forecast flags the table prints.
type JobScheduleView struct {
	JobID          string
	JobNumber      string
	Name           string
	SalesOrder     string
	ProductType    string
	Points         float64
	Status         domain.JobStatus
	DueDate        time.Time
	Windows        []domain.DeptWindow
	ScheduledStart *time.Time
	ForecastDue    *time.Time
	Conflict       bool
	Late           bool
	DaysLate       int
	Progress       domain.ProgressStatus
}

type ScheduleResponse struct {
	GeneratedAt time.Time
	Today       time.Time
	Jobs        []JobScheduleView
	Overloads   []scheduler.Overload
	Conflicts   []string
	LateCount   int
	TotalPoints float64
	Warnings    []string
}

type ScheduleErrorCode string

const (
	ScheduleErrInvalidInput ScheduleErrorCode = "INVALID_INPUT"
	ScheduleErrInternal     ScheduleErrorCode = "INTERNAL_ERROR"
)

type ScheduleError struct {
	Code    ScheduleErrorCode
	Message string
}

func (e *ScheduleError) Error() string {
	return string(e.Code) + ": " + e.Message
}
