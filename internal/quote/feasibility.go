package quote

import (
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/planner"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// FeasibilityCheck is the answer to "can we promise this date": a single
// verdict plus the detail behind whichever remediation tier produced it.
type FeasibilityCheck struct {
	Verdict    domain.Verdict
	TargetDate time.Time
	Points     float64
	Breakdown  []PointLine

	SelectedStart *time.Time
	ForecastDue   *time.Time
	// Bottlenecks are the overloaded department-weeks that blocked taking
	// the work as-is.
	Bottlenecks []scheduler.Overload
	// MoveOptions lists the due-date pushes an ACCEPT_WITH_MOVES relies on.
	MoveOptions []planner.MoveOption
	// OTRequirements lists the overtime an ACCEPT_WITH_OT relies on.
	OTRequirements []planner.OTRecommendation
	JobShifts      []planner.JobShift
	Reason         string
	Summary        string
}

// CheckFeasibility prices the request and walks the remediation ladder
// against the caller's target date: take it as-is, take it after moving
// other due dates, take it with overtime, or turn it down.
func CheckFeasibility(in planner.Input, r Request, target time.Time) (FeasibilityCheck, error) {
	if target.IsZero() {
		return FeasibilityCheck{}, fmt.Errorf("target date is required")
	}
	if target.Before(in.Today) {
		return FeasibilityCheck{}, fmt.Errorf("target date %s is before today %s",
			target.Format("2006-01-02"), in.Today.Format("2006-01-02"))
	}
	points, lines, err := ConvertPoints(r)
	if err != nil {
		return FeasibilityCheck{}, err
	}

	dec, err := planner.ResolveNewJob(in, synthJob(r, points, target))
	if err != nil {
		return FeasibilityCheck{}, fmt.Errorf("checking feasibility: %w", err)
	}

	chk := FeasibilityCheck{
		Verdict:        verdictFor(dec.Strategy),
		TargetDate:     target,
		Points:         points,
		Breakdown:      lines,
		SelectedStart:  dec.SelectedStart,
		ForecastDue:    dec.ForecastDue,
		Bottlenecks:    dec.Bottlenecks,
		MoveOptions:    dec.MovesApplied,
		OTRequirements: dec.OTRequirements,
		JobShifts:      dec.JobShifts,
		Reason:         dec.Reason,
	}
	chk.Summary = feasibilitySummary(chk)
	return chk, nil
}

func verdictFor(s domain.Strategy) domain.Verdict {
	switch s {
	case domain.StrategyDirect:
		return domain.VerdictAccept
	case domain.StrategyMoveJobs:
		return domain.VerdictAcceptWithMoves
	case domain.StrategyOvertime:
		return domain.VerdictAcceptWithOT
	}
	return domain.VerdictReject
}

func feasibilitySummary(chk FeasibilityCheck) string {
	finish := "?"
	if chk.ForecastDue != nil {
		finish = chk.ForecastDue.Format("2006-01-02")
	}
	switch chk.Verdict {
	case domain.VerdictAccept:
		return fmt.Sprintf("accept: fits as-is, finish %s", finish)
	case domain.VerdictAcceptWithMoves:
		pushed := 0
		for _, opt := range chk.MoveOptions {
			pushed += len(opt.NewDueDates)
		}
		return fmt.Sprintf("accept with moves: push %d job(s) out, finish %s", pushed, finish)
	case domain.VerdictAcceptWithOT:
		return fmt.Sprintf("accept with overtime in %d department-week(s), finish %s",
			len(chk.OTRequirements), finish)
	}
	return "reject: " + chk.Reason
}
