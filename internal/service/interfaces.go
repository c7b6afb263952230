package service

import (
	"context"
	"time"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/importer"
)

// JobService owns job CRUD and floor lifecycle transitions. Every ref
// argument accepts a work order number or a full job ID.
type JobService interface {
	Create(ctx context.Context, j *domain.Job) error
	Get(ctx context.Context, ref string) (*domain.Job, error)
	List(ctx context.Context, includeCompleted bool) ([]*domain.Job, error)
	Update(ctx context.Context, j *domain.Job) error
	Start(ctx context.Context, ref string, dept domain.Department) error
	Advance(ctx context.Context, ref string) error
	MarkDone(ctx context.Context, ref string) error
	Hold(ctx context.Context, ref string) error
	Resume(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string) error
}

// AlertService owns supervisor alert reporting and resolution. Alert refs
// accept a full alert ID or a unique prefix of one.
type AlertService interface {
	Raise(ctx context.Context, jobRef string, dept domain.Department, reason string, resolution time.Time) (*domain.SupervisorAlert, error)
	Get(ctx context.Context, ref string) (*domain.SupervisorAlert, error)
	List(ctx context.Context, includeResolved bool) ([]*domain.SupervisorAlert, error)
	Resolve(ctx context.Context, ref string) error
}

type ScheduleService interface {
	Compute(ctx context.Context, req contract.ScheduleRequest) (*contract.ScheduleResponse, error)
}

type InsightService interface {
	Analyze(ctx context.Context, req contract.InsightRequest) (*contract.InsightResponse, error)
}

type PlanService interface {
	SuggestReschedule(ctx context.Context, req contract.RescheduleRequest) (*contract.RescheduleResponse, error)
	PlanAlert(ctx context.Context, req contract.AlertPlanRequest) (*contract.AlertPlanResponse, error)
}

type QuoteService interface {
	Estimate(ctx context.Context, req contract.QuoteRequest) (*contract.QuoteResponse, error)
	CheckFeasibility(ctx context.Context, req contract.QuoteRequest) (*contract.FeasibilityResponse, error)
}

// ImportResult holds the outcome of a backlog import.
type ImportResult struct {
	JobCount   int
	AlertCount int
}

type ImportService interface {
	ImportBacklog(ctx context.Context, filePath string) (*ImportResult, error)
	ImportFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
