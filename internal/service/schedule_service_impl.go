package service

import (
	"context"
	"time"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/repository"
	"github.com/averyhollis/fabline/internal/scheduler"
)

type scheduleService struct {
	jobs     repository.JobRepo
	alerts   repository.AlertRepo
	shop     *Shop
	observer UseCaseObserver
}

func NewScheduleService(jobs repository.JobRepo, alerts repository.AlertRepo, shop *Shop, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{
		jobs:     jobs,
		alerts:   alerts,
		shop:     shop,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Compute runs a full scheduling pass over the persisted backlog. Active
// supervisor blockages are folded in as weekly capacity reductions before
// placement.
func (s *scheduleService) Compute(ctx context.Context, req contract.ScheduleRequest) (resp *contract.ScheduleResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "schedule", startedAt, err, fields) }()

	today := resolveToday(req.Now)
	jobs, alerts, err := loadBacklog(ctx, s.jobs, s.alerts)
	if err != nil {
		return nil, &contract.ScheduleError{Code: contract.ScheduleErrInternal, Message: err.Error()}
	}

	opts := s.shop.blockageOptions(jobs, alerts, today, "")
	res, err := scheduler.Schedule(scheduler.Input{
		Jobs:     jobs,
		Pipeline: s.shop.Pipeline,
		Calendar: s.shop.Calendar,
		Capacity: s.shop.Capacity,
		Today:    today,
		Options:  opts,
	})
	if err != nil {
		// Schedule only fails on unplaceable input, never on shop state.
		return nil, &contract.ScheduleError{Code: contract.ScheduleErrInvalidInput, Message: err.Error()}
	}

	views := make([]contract.JobScheduleView, 0, len(res.Jobs))
	lateCount := 0
	totalPoints := 0.0
	for i := range res.Jobs {
		j := &res.Jobs[i]
		if j.Status == domain.JobCompleted && !req.IncludeCompleted {
			continue
		}
		view := contract.JobScheduleView{
			JobID:          j.ID,
			JobNumber:      j.JobNumber,
			Name:           j.Name,
			SalesOrder:     j.SalesOrder,
			ProductType:    j.ProductType,
			Points:         j.Points,
			Status:         j.Status,
			DueDate:        j.DueDate,
			Windows:        j.Schedule.Ordered(s.shop.Pipeline),
			ScheduledStart: j.ScheduledStart,
			ForecastDue:    j.ForecastDue,
			Conflict:       j.SchedulingConflict,
			Progress:       j.Progress,
		}
		if j.Schedulable() {
			totalPoints += j.Points
			if scheduler.RunsLate(j, s.shop.Calendar) {
				view.Late = true
				view.DaysLate = scheduler.WorkDaysLate(j, s.shop.Calendar)
				lateCount++
			}
		}
		views = append(views, view)
	}

	loads := scheduler.Loads(res.Jobs, s.shop.Pipeline, s.shop.Calendar)
	overloads := loads.Overloads(s.shop.Pipeline, s.shop.Capacity, opts.Adjustments)

	fields["job_count"] = len(views)
	fields["late_count"] = lateCount
	return &contract.ScheduleResponse{
		GeneratedAt: time.Now().UTC(),
		Today:       today,
		Jobs:        views,
		Overloads:   overloads,
		Conflicts:   res.Conflicts,
		LateCount:   lateCount,
		TotalPoints: totalPoints,
		Warnings:    alertWarnings(alerts, jobs, today),
	}, nil
}
