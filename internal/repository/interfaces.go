package repository

import (
	"context"

	"github.com/averyhollis/fabline/internal/domain"
)

// JobRepo persists scheduling inputs for jobs. Derived fields (windows,
// forecasts, conflict flags, progress) are recomputed on load and are
// never written by any implementation.
type JobRepo interface {
	Create(ctx context.Context, j *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	GetByNumber(ctx context.Context, number string) (*domain.Job, error)
	List(ctx context.Context, includeCompleted bool) ([]*domain.Job, error)
	Update(ctx context.Context, j *domain.Job) error
	Delete(ctx context.Context, id string) error
}

type AlertRepo interface {
	Create(ctx context.Context, a *domain.SupervisorAlert) error
	GetByID(ctx context.Context, id string) (*domain.SupervisorAlert, error)
	List(ctx context.Context) ([]*domain.SupervisorAlert, error)
	ListActive(ctx context.Context) ([]*domain.SupervisorAlert, error)
	ListByJob(ctx context.Context, jobID string) ([]*domain.SupervisorAlert, error)
	Update(ctx context.Context, a *domain.SupervisorAlert) error
	Delete(ctx context.Context, id string) error
}
