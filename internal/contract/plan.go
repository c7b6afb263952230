package contract

import (
	"time"

	"github.com/averyhollis/fabline/internal/planner"
)

type RescheduleRequest struct {
	JobID  string
	NewDue time.Time
	Now    *time.Time
}

func NewRescheduleRequest(jobID string, newDue time.Time) RescheduleRequest {
	return RescheduleRequest{
		JobID:  jobID,
		NewDue: newDue,
	}
}

type RescheduleResponse struct {
	GeneratedAt time.Time
	Suggestion  planner.RescheduleSuggestion
}

type AlertPlanRequest struct {
	AlertID string
	Now     *time.Time
}

func NewAlertPlanRequest(alertID string) AlertPlanRequest {
	return AlertPlanRequest{AlertID: alertID}
}

type AlertPlanResponse struct {
	GeneratedAt time.Time
	Plan        planner.AlertPlan
}

type PlanErrorCode string

const (
	PlanErrJobNotFound    PlanErrorCode = "JOB_NOT_FOUND"
	PlanErrNotSchedulable PlanErrorCode = "JOB_NOT_SCHEDULABLE"
	PlanErrInvalidDueDate PlanErrorCode = "INVALID_DUE_DATE"
	PlanErrAlertNotFound  PlanErrorCode = "ALERT_NOT_FOUND"
	PlanErrAlertInactive  PlanErrorCode = "ALERT_INACTIVE"
	PlanErrInternal       PlanErrorCode = "INTERNAL_ERROR"
)

type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}
