// Package quote prices prospective work and answers whether the shop can
// take it. Dollars become points, points become a synthesized job, and the
// job runs through the real scheduler against the live backlog, so a quote
// is judged by the same machinery that runs the floor.
package quote

import (
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/planner"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// Shop defaults for the dollars-to-points conversion, overridable per
// request and normally supplied from config.
const (
	DefaultDollarsPerPoint  = 150
	DefaultBigRockThreshold = 40
)

// Request describes the prospective job being priced.
type Request struct {
	Name        string
	ProductType string
	// DollarValue is the total quoted price.
	DollarValue float64
	// ItemCount is how many line items the quote covers.
	ItemCount int
	// ItemValues optionally prices individual line items, in item order.
	// Items worth enough points on their own convert one by one; everything
	// else pro-rates out of the remaining dollar value.
	ItemValues []float64
	// Skipped lists pipeline departments the work would not visit.
	Skipped []domain.Department

	// DollarsPerPoint and BigRockThreshold override the shop defaults when
	// positive.
	DollarsPerPoint  float64
	BigRockThreshold float64
}

// PointLine is one row of the conversion breakdown.
type PointLine struct {
	Label   string
	Dollars float64
	Items   int
	Points  float64
}

// Estimate is the outcome of simulating a quote against the backlog.
type Estimate struct {
	Points          float64
	DollarsPerPoint float64
	Breakdown       []PointLine
	// Job is the synthesized candidate with its simulated schedule.
	Job            domain.Job
	ScheduledStart *time.Time
	// EarliestDone is the soonest the pipeline finishes the work given the
	// current backlog and department gaps.
	EarliestDone *time.Time
	// CapacityConflict reports that the earliest placement runs through
	// weeks already over budget, so the date needs moves or overtime to hold.
	CapacityConflict bool
	Summary          string
}

func (r Request) validate() error {
	if r.DollarValue <= 0 {
		return fmt.Errorf("quote dollar value must be positive")
	}
	if r.ItemCount < 1 {
		return fmt.Errorf("quote needs at least one item")
	}
	if len(r.ItemValues) > r.ItemCount {
		return fmt.Errorf("%d item values given for %d items", len(r.ItemValues), r.ItemCount)
	}
	sum := 0.0
	for i, v := range r.ItemValues {
		if v <= 0 {
			return fmt.Errorf("item %d value must be positive", i+1)
		}
		sum += v
	}
	if sum > r.DollarValue+1e-9 {
		return fmt.Errorf("item values total $%.2f, more than the $%.2f quote", sum, r.DollarValue)
	}
	return nil
}

func (r Request) rate() float64 {
	if r.DollarsPerPoint > 0 {
		return r.DollarsPerPoint
	}
	return DefaultDollarsPerPoint
}

func (r Request) threshold() float64 {
	if r.BigRockThreshold > 0 {
		return r.BigRockThreshold
	}
	return DefaultBigRockThreshold
}

// ConvertPoints turns the quote's dollars into schedulable points. Items
// priced at or above the big-rock threshold convert one by one; the dollars
// left over spread evenly across the remaining items.
func ConvertPoints(r Request) (float64, []PointLine, error) {
	if err := r.validate(); err != nil {
		return 0, nil, err
	}
	rate, threshold := r.rate(), r.threshold()

	var lines []PointLine
	total := 0.0
	restDollars := r.DollarValue
	restItems := r.ItemCount
	for i, v := range r.ItemValues {
		pts := v / rate
		if pts < threshold {
			continue
		}
		lines = append(lines, PointLine{
			Label:   fmt.Sprintf("item %d", i+1),
			Dollars: v,
			Items:   1,
			Points:  pts,
		})
		total += pts
		restDollars -= v
		restItems--
	}
	if restDollars > 1e-9 {
		line := PointLine{Dollars: restDollars, Items: restItems, Points: restDollars / rate}
		if restItems > 0 {
			line.Label = fmt.Sprintf("%d item(s) pro-rated", restItems)
		} else {
			line.Label = "unitemized balance"
		}
		lines = append(lines, line)
		total += line.Points
	}
	return total, lines, nil
}

// synthJob builds the temporary job a simulation schedules. The ID stays
// fixed so result lookups and ladder exclusions can find it.
func synthJob(r Request, points float64, due time.Time) domain.Job {
	name := r.Name
	if name == "" {
		name = "quoted work"
	}
	return domain.Job{
		ID:          "quote",
		JobNumber:   "QT-0001",
		Name:        name,
		ProductType: r.ProductType,
		Points:      points,
		DueDate:     due,
		Status:      domain.JobPending,
		Skipped:     append([]domain.Department(nil), r.Skipped...),
	}
}

// SimulateQuote prices the request and schedules the resulting job against
// the current backlog with the tightest possible due date, which forces the
// placement forward from today. The forecast that comes back is therefore
// the earliest completion the pipeline allows; whether the covered weeks
// have the capacity to honor it is reported separately.
func SimulateQuote(in planner.Input, r Request) (Estimate, error) {
	points, lines, err := ConvertPoints(r)
	if err != nil {
		return Estimate{}, err
	}

	job := synthJob(r, points, in.Calendar.NextWorkDay(in.Today))
	trial := append(domain.CloneJobs(in.Jobs), job)
	res, err := scheduler.Schedule(scheduler.Input{
		Jobs:     trial,
		Pipeline: in.Pipeline,
		Calendar: in.Calendar,
		Capacity: in.Capacity,
		Today:    in.Today,
		Options:  in.Options,
	})
	if err != nil {
		return Estimate{}, fmt.Errorf("simulating quote schedule: %w", err)
	}

	var sim *domain.Job
	for i := range res.Jobs {
		if res.Jobs[i].ID == job.ID {
			sim = &res.Jobs[i]
			break
		}
	}
	if sim == nil {
		return Estimate{}, fmt.Errorf("quote job missing from schedule result")
	}

	est := Estimate{
		Points:          points,
		DollarsPerPoint: r.rate(),
		Breakdown:       lines,
		Job:             sim.Clone(),
	}
	if sim.ForecastStart != nil {
		t := *sim.ForecastStart
		est.ScheduledStart = &t
	} else if sim.ScheduledStart != nil {
		t := *sim.ScheduledStart
		est.ScheduledStart = &t
	}
	if sim.ForecastDue != nil {
		t := *sim.ForecastDue
		est.EarliestDone = &t
	}
	for _, id := range res.CapacityConflicts {
		if id == job.ID {
			est.CapacityConflict = true
		}
	}
	est.Summary = estimateSummary(est)
	return est, nil
}

func estimateSummary(est Estimate) string {
	s := fmt.Sprintf("%.0f points at $%.0f/point", est.Points, est.DollarsPerPoint)
	if est.EarliestDone != nil {
		s += ", earliest completion " + est.EarliestDone.Format("2006-01-02")
	}
	if est.CapacityConflict {
		s += " (runs through overloaded weeks)"
	}
	return s
}
