package insight

import (
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/planner"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// defaultHorizonWeeks bounds the daily load table when the caller does not.
const defaultHorizonWeeks = 6

// Input is the shop state one analysis runs against.
type Input struct {
	Jobs     []domain.Job
	Alerts   []domain.SupervisorAlert
	Pipeline domain.Pipeline
	Calendar calendar.Calendar
	Capacity capacity.Model
	Today    time.Time
	Options  scheduler.Options
	// SplitByProductType adds per-product-type breakdowns to bottlenecks.
	SplitByProductType bool
	// HorizonWeeks bounds the load table; zero means defaultHorizonWeeks.
	HorizonWeeks int
}

// LateJob is one job forecast past its due date, with the department most
// likely responsible.
type LateJob struct {
	JobID       string
	JobNumber   string
	Name        string
	DueDate     time.Time
	ForecastDue time.Time
	DaysLate    int
	// Department is the first pipeline stage whose window sits in an
	// overloaded week; when no window does, the job's first stage.
	Department domain.Department
	// ForecastWithOT is the completion date once recommended overtime is
	// granted; LateWithOT says whether even that leaves the job late.
	ForecastWithOT *time.Time
	LateWithOT     bool
}

// Projection is the schedule's shape under a hypothetical remedy.
type Projection struct {
	LateCount     int
	LateJobs      []string
	Overloads     []scheduler.Overload
	ConflictCount int
}

// Summary carries the counters the CLI prints up top.
type Summary struct {
	TotalJobs       int
	ScheduledJobs   int
	TotalPoints     float64
	LateCount       int
	BottleneckCount int
	ActiveAlerts    int
}

// ScheduleInsights is the full analysis: the scheduled backlog, what is
// late, where the weeks overflow, what could be done about it, and what the
// remedies would buy.
type ScheduleInsights struct {
	Jobs              []domain.Job
	LateJobs          []LateJob
	Bottlenecks       []Bottleneck
	MoveOptions       []planner.MoveOption
	OTRecommendations []planner.OTRecommendation
	AfterMoves        Projection
	AfterMovesAndOT   Projection
	AlertImpact       AlertImpact
	Summary           Summary
}

// Analyze schedules the backlog and derives every insight from that one
// deterministic snapshot.
func Analyze(in Input) (ScheduleInsights, error) {
	res, err := scheduler.Schedule(in.schedInput(in.Jobs, nil))
	if err != nil {
		return ScheduleInsights{}, fmt.Errorf("scheduling backlog: %w", err)
	}

	loads := scheduler.Loads(res.Jobs, in.Pipeline, in.Calendar)
	baseOver := loads.Overloads(in.Pipeline, in.Capacity, in.Options.Adjustments)

	horizon := in.HorizonWeeks
	if horizon <= 0 {
		horizon = defaultHorizonWeeks
	}
	from := calendar.DateOnly(in.Today)
	daily := DailyLoads(res.Jobs, in.Pipeline, in.Calendar, from, from.AddDate(0, 0, 7*horizon))
	bottlenecks := DetectBottlenecks(daily.Weekly(in.Pipeline, in.Calendar), in.Capacity, in.SplitByProductType)

	pi := planner.Input{
		Jobs:     in.Jobs,
		Pipeline: in.Pipeline,
		Calendar: in.Calendar,
		Capacity: in.Capacity,
		Today:    in.Today,
		Options:  in.Options,
	}
	moveOpts, err := planner.MoveOptions(pi)
	if err != nil {
		return ScheduleInsights{}, fmt.Errorf("evaluating move options: %w", err)
	}
	recs := planner.OTRecommendations(baseOver, in.Capacity)

	// One trial with overtime alone, for the per-job recovery column.
	otRes := res
	otAdj := planner.OTAdjustments(recs)
	if len(otAdj) > 0 {
		if otRes, err = scheduler.Schedule(in.schedInput(in.Jobs, otAdj)); err != nil {
			return ScheduleInsights{}, fmt.Errorf("projecting overtime: %w", err)
		}
	}

	lateJobs := collectLateJobs(in, res, otRes, baseOver)

	movedJobs, afterMoves, err := in.projectAfterMoves(res, moveOpts)
	if err != nil {
		return ScheduleInsights{}, err
	}
	afterBoth, err := in.projectWithOT(movedJobs)
	if err != nil {
		return ScheduleInsights{}, err
	}

	blockAdj, effects := BlockageAdjustments(in.Alerts, res.Jobs, in.Calendar, in.Today)
	impact := AlertImpact{ActiveCount: len(effects), Effects: effects, Adjustments: blockAdj}
	for _, eff := range effects {
		impact.BlockedPoints += eff.BlockedPoints
	}
	if len(blockAdj) > 0 {
		reduced := loads.Overloads(in.Pipeline, in.Capacity, in.Options.Adjustments.Merge(blockAdj))
		impact.AddedOverloads = subtractOverloads(reduced, baseOver)
	}

	out := ScheduleInsights{
		Jobs:              res.Jobs,
		LateJobs:          lateJobs,
		Bottlenecks:       bottlenecks,
		MoveOptions:       moveOpts,
		OTRecommendations: recs,
		AfterMoves:        afterMoves,
		AfterMovesAndOT:   afterBoth,
		AlertImpact:       impact,
	}
	out.Summary = summarize(res, out)
	return out, nil
}

func (in Input) schedInput(jobs []domain.Job, adj capacity.Adjustments) scheduler.Input {
	opts := in.Options
	opts.Adjustments = in.Options.Adjustments.Merge(adj)
	return scheduler.Input{
		Jobs:     jobs,
		Pipeline: in.Pipeline,
		Calendar: in.Calendar,
		Capacity: in.Capacity,
		Today:    in.Today,
		Options:  opts,
	}
}

// collectLateJobs walks the scheduled backlog in input order and explains
// each late job.
func collectLateJobs(in Input, res, otRes scheduler.Result, baseOver []scheduler.Overload) []LateJob {
	overloaded := make(map[string]bool, len(baseOver))
	for _, o := range baseOver {
		overloaded[string(o.Department)+"|"+o.Week] = true
	}
	withOT := make(map[string]*domain.Job, len(otRes.Jobs))
	for i := range otRes.Jobs {
		withOT[otRes.Jobs[i].ID] = &otRes.Jobs[i]
	}

	var out []LateJob
	for i := range res.Jobs {
		job := &res.Jobs[i]
		if !job.Schedulable() || !scheduler.RunsLate(job, in.Calendar) {
			continue
		}
		lj := LateJob{
			JobID:       job.ID,
			JobNumber:   job.DisplayID(),
			Name:        job.Name,
			DueDate:     job.DueDate,
			ForecastDue: *job.ForecastDue,
			DaysLate:    scheduler.WorkDaysLate(job, in.Calendar),
			Department:  culpableDept(in, job, overloaded),
		}
		if after := withOT[job.ID]; after != nil && after.ForecastDue != nil {
			t := *after.ForecastDue
			lj.ForecastWithOT = &t
			lj.LateWithOT = scheduler.RunsLate(after, in.Calendar)
		}
		out = append(out, lj)
	}
	return out
}

// culpableDept names the first pipeline stage whose window crosses an
// overloaded week.
func culpableDept(in Input, job *domain.Job, overloaded map[string]bool) domain.Department {
	ordered := job.Schedule.Ordered(in.Pipeline)
	for _, dw := range ordered {
		for d := dw.Window.Start; !d.After(dw.Window.End); d = d.AddDate(0, 0, 1) {
			if overloaded[string(dw.Department)+"|"+in.Calendar.WeekKey(d)] {
				return dw.Department
			}
		}
	}
	if len(ordered) > 0 {
		return ordered[0].Department
	}
	return ""
}

// projectAfterMoves applies move options greedily, keeping each only when it
// does not worsen the late or conflict counts, and projects the result.
func (in Input) projectAfterMoves(base scheduler.Result, opts []planner.MoveOption) ([]domain.Job, Projection, error) {
	cur := in.Jobs
	best := base
	for _, opt := range opts {
		trialJobs := planner.ApplyMove(cur, opt)
		trial, err := scheduler.Schedule(in.schedInput(trialJobs, nil))
		if err != nil {
			return nil, Projection{}, fmt.Errorf("projecting moves: %w", err)
		}
		if lateCount(trial, in) <= lateCount(best, in) && len(trial.Conflicts) <= len(best.Conflicts) {
			cur, best = trialJobs, trial
		}
	}
	return cur, in.project(best), nil
}

// projectWithOT grants the overtime the moved schedule still needs and
// projects once more.
func (in Input) projectWithOT(jobs []domain.Job) (Projection, error) {
	res, err := scheduler.Schedule(in.schedInput(jobs, nil))
	if err != nil {
		return Projection{}, fmt.Errorf("projecting moves with overtime: %w", err)
	}
	over := scheduler.Loads(res.Jobs, in.Pipeline, in.Calendar).
		Overloads(in.Pipeline, in.Capacity, in.Options.Adjustments)
	otAdj := planner.OTAdjustments(planner.OTRecommendations(over, in.Capacity))
	if len(otAdj) > 0 {
		if res, err = scheduler.Schedule(in.schedInput(jobs, otAdj)); err != nil {
			return Projection{}, fmt.Errorf("projecting moves with overtime: %w", err)
		}
		return in.projectAdjusted(res, otAdj), nil
	}
	return in.project(res), nil
}

func (in Input) project(res scheduler.Result) Projection {
	return in.projectAdjusted(res, nil)
}

func (in Input) projectAdjusted(res scheduler.Result, adj capacity.Adjustments) Projection {
	p := Projection{ConflictCount: len(res.Conflicts)}
	for i := range res.Jobs {
		job := &res.Jobs[i]
		if job.Schedulable() && scheduler.RunsLate(job, in.Calendar) {
			p.LateCount++
			p.LateJobs = append(p.LateJobs, job.ID)
		}
	}
	p.Overloads = scheduler.Loads(res.Jobs, in.Pipeline, in.Calendar).
		Overloads(in.Pipeline, in.Capacity, in.Options.Adjustments.Merge(adj))
	return p
}

func lateCount(res scheduler.Result, in Input) int {
	n := 0
	for i := range res.Jobs {
		if res.Jobs[i].Schedulable() && scheduler.RunsLate(&res.Jobs[i], in.Calendar) {
			n++
		}
	}
	return n
}

// subtractOverloads returns the buckets in cur that are absent from base.
func subtractOverloads(cur, base []scheduler.Overload) []scheduler.Overload {
	seen := make(map[string]bool, len(base))
	for _, o := range base {
		seen[string(o.Department)+"|"+o.Week] = true
	}
	var out []scheduler.Overload
	for _, o := range cur {
		if !seen[string(o.Department)+"|"+o.Week] {
			out = append(out, o)
		}
	}
	return out
}

func summarize(res scheduler.Result, s ScheduleInsights) Summary {
	sum := Summary{
		TotalJobs:       len(res.Jobs),
		LateCount:       len(s.LateJobs),
		BottleneckCount: len(s.Bottlenecks),
		ActiveAlerts:    s.AlertImpact.ActiveCount,
	}
	for i := range res.Jobs {
		if res.Jobs[i].Schedulable() {
			sum.ScheduledJobs++
			sum.TotalPoints += res.Jobs[i].Points
		}
	}
	return sum
}
