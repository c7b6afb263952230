package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/config"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/insight"
	"github.com/averyhollis/fabline/internal/planner"
	"github.com/averyhollis/fabline/internal/repository"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// Shop is the configured model every analysis service schedules against:
// pipeline order, work calendar, capacity, placement options, and quote
// rates. Built once at startup and shared read-only.
type Shop struct {
	Pipeline domain.Pipeline
	Calendar calendar.Calendar
	Capacity capacity.Model
	Options  scheduler.Options

	DollarsPerPoint  float64
	BigRockThreshold float64
}

// NewShopFromConfig materializes the shop model from loaded configuration.
func NewShopFromConfig(cfg *config.Config) (*Shop, error) {
	pipeline, err := cfg.ToPipeline()
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}
	cal, err := cfg.ToCalendar()
	if err != nil {
		return nil, fmt.Errorf("building calendar: %w", err)
	}
	return &Shop{
		Pipeline:         pipeline,
		Calendar:         cal,
		Capacity:         cfg.ToCapacityModel(),
		Options:          cfg.ToSchedulerOptions(),
		DollarsPerPoint:  cfg.Quote.DollarsPerPoint,
		BigRockThreshold: cfg.Quote.BigRockThreshold,
	}, nil
}

// DefaultShop returns the stock shop model. The built-in defaults always
// validate, so this cannot fail.
func DefaultShop() *Shop {
	shop, err := NewShopFromConfig(config.Default())
	if err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return shop
}

// plannerInput assembles a planning request over the given backlog.
func (s *Shop) plannerInput(jobs []domain.Job, today time.Time, opts scheduler.Options) planner.Input {
	return planner.Input{
		Jobs:     jobs,
		Pipeline: s.Pipeline,
		Calendar: s.Calendar,
		Capacity: s.Capacity,
		Today:    today,
		Options:  opts,
	}
}

// blockageOptions folds active-alert capacity blockages into the shop
// options. exclude drops one alert by ID, for the plan-alert path where the
// subject alert is modeled as an earliest-start floor instead of a capacity
// dent; both at once would charge the blockage twice.
func (s *Shop) blockageOptions(jobs []domain.Job, alerts []domain.SupervisorAlert, today time.Time, exclude string) scheduler.Options {
	filtered := alerts
	if exclude != "" {
		filtered = make([]domain.SupervisorAlert, 0, len(alerts))
		for _, a := range alerts {
			if a.ID != exclude {
				filtered = append(filtered, a)
			}
		}
	}
	adj, _ := insight.BlockageAdjustments(filtered, jobs, s.Calendar, today)
	opts := s.Options
	opts.Adjustments = s.Options.Adjustments.Merge(adj)
	return opts
}

// resolveToday returns the date an analysis anchors on: the request override
// when given, else the wall clock, truncated to midnight UTC so results stay
// stable across the working day.
func resolveToday(override *time.Time) time.Time {
	if override != nil {
		return calendar.DateOnly(*override)
	}
	return calendar.DateOnly(time.Now().UTC())
}

// loadBacklog reads the whole backlog including completed jobs; the engine
// passes over what it cannot schedule.
func loadBacklog(ctx context.Context, jobs repository.JobRepo, alerts repository.AlertRepo) ([]domain.Job, []domain.SupervisorAlert, error) {
	jobPtrs, err := jobs.List(ctx, true)
	if err != nil {
		return nil, nil, fmt.Errorf("loading jobs: %w", err)
	}
	alertPtrs, err := alerts.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading alerts: %w", err)
	}
	backlog := make([]domain.Job, len(jobPtrs))
	for i, j := range jobPtrs {
		backlog[i] = *j
	}
	blockages := make([]domain.SupervisorAlert, len(alertPtrs))
	for i, a := range alertPtrs {
		blockages[i] = *a
	}
	return backlog, blockages, nil
}

// alertWarnings reports active alerts the analysis skips: ones naming jobs
// that no longer exist or are off the schedulable board.
func alertWarnings(alerts []domain.SupervisorAlert, jobs []domain.Job, today time.Time) []string {
	byID := make(map[string]*domain.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}
	var warnings []string
	for i := range alerts {
		a := &alerts[i]
		if !a.Active(today) {
			continue
		}
		job, ok := byID[a.JobID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("alert %s names missing job %s; ignored", shortID(a.ID), a.JobID))
			continue
		}
		if !job.Schedulable() {
			warnings = append(warnings, fmt.Sprintf("alert %s names %s job %s; ignored",
				shortID(a.ID), strings.ToLower(string(job.Status)), job.DisplayID()))
		}
	}
	return warnings
}

// shortID truncates a UUID for display in messages.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
