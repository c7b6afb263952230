package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/repository"
	"github.com/google/uuid"
)

type jobService struct {
	jobs repository.JobRepo
	shop *Shop
}

func NewJobService(jobs repository.JobRepo, shop *Shop) JobService {
	return &jobService{jobs: jobs, shop: shop}
}

func (s *jobService) Create(ctx context.Context, j *domain.Job) error {
	if err := s.validate(j); err != nil {
		return err
	}
	if j.Status == "" {
		j.Status = domain.JobPending
	}
	if !domain.ValidJobStatuses[string(j.Status)] {
		return fmt.Errorf("unknown status %q", j.Status)
	}
	if j.Status == domain.JobInProgress && !s.shop.Pipeline.Contains(j.CurrentDept) {
		return fmt.Errorf("an in-progress job needs a current department from the pipeline")
	}
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	return s.jobs.Create(ctx, j)
}

// Get resolves a work order number first, then falls back to a full ID.
func (s *jobService) Get(ctx context.Context, ref string) (*domain.Job, error) {
	j, err := s.jobs.GetByNumber(ctx, ref)
	if err == nil {
		return j, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.jobs.GetByID(ctx, ref)
}

func (s *jobService) List(ctx context.Context, includeCompleted bool) ([]*domain.Job, error) {
	return s.jobs.List(ctx, includeCompleted)
}

func (s *jobService) Update(ctx context.Context, j *domain.Job) error {
	if err := s.validate(j); err != nil {
		return err
	}
	j.UpdatedAt = time.Now().UTC()
	return s.jobs.Update(ctx, j)
}

func (s *jobService) Start(ctx context.Context, ref string, dept domain.Department) error {
	if !s.shop.Pipeline.Contains(dept) {
		return fmt.Errorf("department %q is not in the pipeline", dept)
	}
	return s.transition(ctx, ref, func(j *domain.Job, now time.Time) error {
		if j.SkipsDept(dept) {
			return fmt.Errorf("job %s skips %s", j.DisplayID(), dept)
		}
		return j.MarkInProgress(dept, now)
	})
}

func (s *jobService) Advance(ctx context.Context, ref string) error {
	return s.transition(ctx, ref, func(j *domain.Job, now time.Time) error {
		return j.Advance(s.shop.Pipeline, now)
	})
}

func (s *jobService) MarkDone(ctx context.Context, ref string) error {
	return s.transition(ctx, ref, func(j *domain.Job, now time.Time) error {
		return j.MarkCompleted(now)
	})
}

func (s *jobService) Hold(ctx context.Context, ref string) error {
	return s.transition(ctx, ref, func(j *domain.Job, now time.Time) error {
		return j.MarkOnHold(now)
	})
}

func (s *jobService) Resume(ctx context.Context, ref string) error {
	return s.transition(ctx, ref, func(j *domain.Job, now time.Time) error {
		return j.Resume(now)
	})
}

func (s *jobService) Delete(ctx context.Context, ref string) error {
	j, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	return s.jobs.Delete(ctx, j.ID)
}

// transition loads a job, applies a lifecycle change, and persists it.
func (s *jobService) transition(ctx context.Context, ref string, apply func(*domain.Job, time.Time) error) error {
	j, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := apply(j, time.Now().UTC()); err != nil {
		return err
	}
	return s.jobs.Update(ctx, j)
}

func (s *jobService) validate(j *domain.Job) error {
	if err := j.ValidateJobNumber(); err != nil {
		return err
	}
	if j.Points <= 0 {
		return fmt.Errorf("points must be positive, got %g", j.Points)
	}
	if j.DueDate.IsZero() {
		return fmt.Errorf("due date is required")
	}
	if len(j.Skipped) >= s.shop.Pipeline.Len() {
		return fmt.Errorf("cannot skip every department")
	}
	for _, dept := range j.Skipped {
		if !s.shop.Pipeline.Contains(dept) {
			return fmt.Errorf("skipped department %q is not in the pipeline", dept)
		}
	}
	return nil
}
