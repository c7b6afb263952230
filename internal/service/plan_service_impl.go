package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/planner"
	"github.com/averyhollis/fabline/internal/repository"
)

type planService struct {
	jobs     repository.JobRepo
	alerts   repository.AlertRepo
	shop     *Shop
	observer UseCaseObserver
}

func NewPlanService(jobs repository.JobRepo, alerts repository.AlertRepo, shop *Shop, observers ...UseCaseObserver) PlanService {
	return &planService{
		jobs:     jobs,
		alerts:   alerts,
		shop:     shop,
		observer: useCaseObserverOrNoop(observers),
	}
}

// SuggestReschedule evaluates a due-date change for one job without writing
// anything. Guard conditions come back as typed codes so the CLI can print
// them without parsing engine error text.
func (s *planService) SuggestReschedule(ctx context.Context, req contract.RescheduleRequest) (resp *contract.RescheduleResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"job": req.JobID}
	defer func() { observe(ctx, s.observer, "suggest_reschedule", startedAt, err, fields) }()

	if req.NewDue.IsZero() {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalidDueDate, Message: "new due date is required"}
	}

	today := resolveToday(req.Now)
	jobs, alerts, err := loadBacklog(ctx, s.jobs, s.alerts)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInternal, Message: err.Error()}
	}
	job := findBacklogJob(jobs, req.JobID)
	if job == nil {
		return nil, &contract.PlanError{Code: contract.PlanErrJobNotFound, Message: fmt.Sprintf("job %s not found", req.JobID)}
	}
	if !job.Schedulable() {
		return nil, &contract.PlanError{
			Code:    contract.PlanErrNotSchedulable,
			Message: fmt.Sprintf("job %s is %s and cannot be rescheduled", job.DisplayID(), job.Status),
		}
	}

	in := s.shop.plannerInput(jobs, today, s.shop.blockageOptions(jobs, alerts, today, ""))
	sug, err := planner.SuggestReschedule(in, job.ID, req.NewDue)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInternal, Message: err.Error()}
	}

	fields["verdict"] = string(sug.Decision.Strategy)
	return &contract.RescheduleResponse{
		GeneratedAt: time.Now().UTC(),
		Suggestion:  sug,
	}, nil
}

// PlanAlert replans around a supervisor blockage. The subject alert is
// excluded from the blockage adjustments because its effect enters the plan
// as the stuck job's release floor; charging it against capacity too would
// count the same outage twice.
func (s *planService) PlanAlert(ctx context.Context, req contract.AlertPlanRequest) (resp *contract.AlertPlanResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"alert": req.AlertID}
	defer func() { observe(ctx, s.observer, "plan_alert", startedAt, err, fields) }()

	alert, err := s.alerts.GetByID(ctx, req.AlertID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &contract.PlanError{Code: contract.PlanErrAlertNotFound, Message: fmt.Sprintf("alert %s not found", req.AlertID)}
	}
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInternal, Message: err.Error()}
	}

	today := resolveToday(req.Now)
	if !alert.Active(today) {
		return nil, &contract.PlanError{Code: contract.PlanErrAlertInactive, Message: fmt.Sprintf("alert %s is not active", shortID(alert.ID))}
	}

	jobs, alerts, err := loadBacklog(ctx, s.jobs, s.alerts)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInternal, Message: err.Error()}
	}
	job := findBacklogJob(jobs, alert.JobID)
	if job == nil {
		return nil, &contract.PlanError{Code: contract.PlanErrJobNotFound, Message: fmt.Sprintf("job %s not found", alert.JobID)}
	}
	if !job.Schedulable() {
		return nil, &contract.PlanError{
			Code:    contract.PlanErrNotSchedulable,
			Message: fmt.Sprintf("job %s is %s and cannot be replanned", job.DisplayID(), job.Status),
		}
	}
	if job.Status != domain.JobInProgress || job.CurrentDept != alert.Department {
		return nil, &contract.PlanError{
			Code:    contract.PlanErrNotSchedulable,
			Message: fmt.Sprintf("job %s is not in progress at %s", job.DisplayID(), alert.Department),
		}
	}

	in := s.shop.plannerInput(jobs, today, s.shop.blockageOptions(jobs, alerts, today, alert.ID))
	plan, err := planner.PlanAlertAdjustment(in, *alert)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInternal, Message: err.Error()}
	}

	fields["job"] = plan.JobNumber
	fields["verdict"] = string(plan.Decision.Strategy)
	return &contract.AlertPlanResponse{
		GeneratedAt: time.Now().UTC(),
		Plan:        plan,
	}, nil
}

// findBacklogJob resolves a job by ID or, failing that, by work order number.
func findBacklogJob(jobs []domain.Job, ref string) *domain.Job {
	for i := range jobs {
		if jobs[i].ID == ref {
			return &jobs[i]
		}
	}
	for i := range jobs {
		if jobs[i].JobNumber != "" && strings.EqualFold(jobs[i].JobNumber, ref) {
			return &jobs[i]
		}
	}
	return nil
}
