package service

import (
	"context"
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/quote"
	"github.com/averyhollis/fabline/internal/repository"
)

type quoteService struct {
	jobs     repository.JobRepo
	alerts   repository.AlertRepo
	shop     *Shop
	observer UseCaseObserver
}

func NewQuoteService(jobs repository.JobRepo, alerts repository.AlertRepo, shop *Shop, observers ...UseCaseObserver) QuoteService {
	return &quoteService{
		jobs:     jobs,
		alerts:   alerts,
		shop:     shop,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Estimate prices the request and simulates it against the live backlog for
// the earliest achievable completion date.
func (s *quoteService) Estimate(ctx context.Context, req contract.QuoteRequest) (resp *contract.QuoteResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"dollars": req.DollarValue}
	defer func() { observe(ctx, s.observer, "quote_estimate", startedAt, err, fields) }()

	r := s.quoteRequest(req)
	// Conversion validates the priced request; running it up front separates
	// caller mistakes from simulation failures.
	if _, _, convErr := quote.ConvertPoints(r); convErr != nil {
		return nil, &contract.QuoteError{Code: contract.QuoteErrInvalidRequest, Message: convErr.Error()}
	}

	today := resolveToday(req.Now)
	jobs, alerts, err := loadBacklog(ctx, s.jobs, s.alerts)
	if err != nil {
		return nil, &contract.QuoteError{Code: contract.QuoteErrInternal, Message: err.Error()}
	}

	in := s.shop.plannerInput(jobs, today, s.shop.blockageOptions(jobs, alerts, today, ""))
	est, err := quote.SimulateQuote(in, r)
	if err != nil {
		return nil, &contract.QuoteError{Code: contract.QuoteErrInternal, Message: err.Error()}
	}

	fields["points"] = est.Points
	return &contract.QuoteResponse{
		GeneratedAt: time.Now().UTC(),
		Estimate:    est,
	}, nil
}

// CheckFeasibility answers whether the quoted work can land by the target
// date, walking the same accept / move / overtime / reject ladder used for
// real jobs.
func (s *quoteService) CheckFeasibility(ctx context.Context, req contract.QuoteRequest) (resp *contract.FeasibilityResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"dollars": req.DollarValue}
	defer func() { observe(ctx, s.observer, "quote_feasibility", startedAt, err, fields) }()

	if req.TargetDate == nil || req.TargetDate.IsZero() {
		return nil, &contract.QuoteError{Code: contract.QuoteErrInvalidTarget, Message: "target date is required"}
	}
	today := resolveToday(req.Now)
	if req.TargetDate.Before(today) {
		return nil, &contract.QuoteError{
			Code: contract.QuoteErrInvalidTarget,
			Message: fmt.Sprintf("target date %s is before today %s",
				req.TargetDate.Format("2006-01-02"), today.Format("2006-01-02")),
		}
	}

	r := s.quoteRequest(req)
	if _, _, convErr := quote.ConvertPoints(r); convErr != nil {
		return nil, &contract.QuoteError{Code: contract.QuoteErrInvalidRequest, Message: convErr.Error()}
	}

	jobs, alerts, err := loadBacklog(ctx, s.jobs, s.alerts)
	if err != nil {
		return nil, &contract.QuoteError{Code: contract.QuoteErrInternal, Message: err.Error()}
	}

	in := s.shop.plannerInput(jobs, today, s.shop.blockageOptions(jobs, alerts, today, ""))
	chk, err := quote.CheckFeasibility(in, r, *req.TargetDate)
	if err != nil {
		return nil, &contract.QuoteError{Code: contract.QuoteErrInternal, Message: err.Error()}
	}

	fields["verdict"] = string(chk.Verdict)
	return &contract.FeasibilityResponse{
		GeneratedAt: time.Now().UTC(),
		Check:       chk,
	}, nil
}

// quoteRequest maps the request onto the engine type, filling the shop's
// configured rates where the caller gave none.
func (s *quoteService) quoteRequest(req contract.QuoteRequest) quote.Request {
	r := quote.Request{
		Name:             req.Name,
		ProductType:      req.ProductType,
		DollarValue:      req.DollarValue,
		ItemCount:        req.ItemCount,
		ItemValues:       req.ItemValues,
		Skipped:          req.Skipped,
		DollarsPerPoint:  req.DollarsPerPoint,
		BigRockThreshold: req.BigRockThreshold,
	}
	if r.DollarsPerPoint <= 0 {
		r.DollarsPerPoint = s.shop.DollarsPerPoint
	}
	if r.BigRockThreshold <= 0 {
		r.BigRockThreshold = s.shop.BigRockThreshold
	}
	return r
}
