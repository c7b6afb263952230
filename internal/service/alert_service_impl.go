package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/repository"
	"github.com/google/uuid"
)

type alertService struct {
	alerts repository.AlertRepo
	jobs   repository.JobRepo
	shop   *Shop
}

func NewAlertService(alerts repository.AlertRepo, jobs repository.JobRepo, shop *Shop) AlertService {
	return &alertService{alerts: alerts, jobs: jobs, shop: shop}
}

func (s *alertService) Raise(ctx context.Context, jobRef string, dept domain.Department, reason string, resolution time.Time) (*domain.SupervisorAlert, error) {
	if !s.shop.Pipeline.Contains(dept) {
		return nil, fmt.Errorf("department %q is not in the pipeline", dept)
	}
	if resolution.IsZero() {
		return nil, fmt.Errorf("estimated resolution date is required")
	}
	job, err := s.jobs.GetByNumber(ctx, jobRef)
	if errors.Is(err, repository.ErrNotFound) {
		job, err = s.jobs.GetByID(ctx, jobRef)
	}
	if err != nil {
		return nil, err
	}
	if job.Status == domain.JobCompleted {
		return nil, fmt.Errorf("job %s is completed; nothing to block", job.DisplayID())
	}
	now := time.Now().UTC()
	alert := &domain.SupervisorAlert{
		ID:                  uuid.New().String(),
		JobID:               job.ID,
		Department:          dept,
		Reason:              reason,
		EstimatedResolution: resolution,
		Status:              domain.AlertActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Get resolves an alert by full ID or by a unique ID prefix. Prefixes keep
// the resolve command usable without pasting whole UUIDs.
func (s *alertService) Get(ctx context.Context, ref string) (*domain.SupervisorAlert, error) {
	alert, err := s.alerts.GetByID(ctx, ref)
	if err == nil {
		return alert, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	all, err := s.alerts.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *domain.SupervisorAlert
	for i := range all {
		if !strings.HasPrefix(all[i].ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("alert ref %q is ambiguous", ref)
		}
		match = all[i]
	}
	if match == nil {
		return nil, fmt.Errorf("alert: %w", repository.ErrNotFound)
	}
	return match, nil
}

func (s *alertService) List(ctx context.Context, includeResolved bool) ([]*domain.SupervisorAlert, error) {
	if includeResolved {
		return s.alerts.List(ctx)
	}
	return s.alerts.ListActive(ctx)
}

func (s *alertService) Resolve(ctx context.Context, ref string) error {
	alert, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := alert.Resolve(time.Now().UTC()); err != nil {
		return err
	}
	return s.alerts.Update(ctx, alert)
}
