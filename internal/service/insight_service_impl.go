package service

import (
	"context"
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/insight"
	"github.com/averyhollis/fabline/internal/repository"
)

type insightService struct {
	jobs     repository.JobRepo
	alerts   repository.AlertRepo
	shop     *Shop
	observer UseCaseObserver
}

func NewInsightService(jobs repository.JobRepo, alerts repository.AlertRepo, shop *Shop, observers ...UseCaseObserver) InsightService {
	return &insightService{
		jobs:     jobs,
		alerts:   alerts,
		shop:     shop,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Analyze runs the full diagnostic pass. Alerts go in raw: the insight
// engine prices their capacity impact itself, so the scheduler options here
// stay unadjusted to keep the blockage cost visible as a separate line.
func (s *insightService) Analyze(ctx context.Context, req contract.InsightRequest) (resp *contract.InsightResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "insights", startedAt, err, fields) }()

	today := resolveToday(req.Now)
	jobs, alerts, err := loadBacklog(ctx, s.jobs, s.alerts)
	if err != nil {
		return nil, fmt.Errorf("loading backlog: %w", err)
	}

	insights, err := insight.Analyze(insight.Input{
		Jobs:               jobs,
		Alerts:             alerts,
		Pipeline:           s.shop.Pipeline,
		Calendar:           s.shop.Calendar,
		Capacity:           s.shop.Capacity,
		Today:              today,
		Options:            s.shop.Options,
		SplitByProductType: req.SplitByProductType,
		HorizonWeeks:       req.HorizonWeeks,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing schedule: %w", err)
	}

	fields["job_count"] = insights.Summary.TotalJobs
	fields["late_count"] = insights.Summary.LateCount
	fields["bottleneck_count"] = insights.Summary.BottleneckCount
	return &contract.InsightResponse{
		GeneratedAt: time.Now().UTC(),
		Insights:    insights,
		Warnings:    alertWarnings(alerts, jobs, today),
	}, nil
}
