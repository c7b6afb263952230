package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// Decision is the outcome of one remediation ladder run: direct fit, fit
// after due-date moves, fit with overtime, or no fit at all. The planner
// never applies a decision; the caller commits whatever it accepts.
type Decision struct {
	Success       bool
	Strategy      domain.Strategy
	SelectedStart *time.Time
	ForecastDue   *time.Time
	// Bottlenecks are the overloaded buckets that blocked the direct tier.
	Bottlenecks []scheduler.Overload
	// MovesApplied lists the due-date pushes the move_jobs tier relies on.
	MovesApplied []MoveOption
	// JobShifts records how other jobs' start dates move under the winning
	// schedule, non-zero work-day deltas only.
	JobShifts      []JobShift
	OTRequirements []OTRecommendation
	Reason         string
	Summary        string
}

// JobShift is one bystander's displacement: how many work days its start
// moves, and its new due date when a move pushed it.
type JobShift struct {
	JobID     string
	JobNumber string
	DeltaDays int
	NewDue    time.Time
}

// resolveRequest parameterizes the ladder: the subject job carrying the due
// date to satisfy, whether it replaces a stored job or joins the backlog,
// external capacity deltas, and whether the subject itself may run late
// (alert planning accepts lateness, quoting does not).
type resolveRequest struct {
	subject          domain.Job
	replace          bool
	adj              capacity.Adjustments
	allowSubjectLate bool
}

// resolve walks direct, move_jobs, ot and stops at the first tier that
// produces a clean schedule. It returns the baseline and winning schedule
// runs alongside the decision so callers can render before/after views.
func resolve(in Input, req resolveRequest) (Decision, scheduler.Result, scheduler.Result, error) {
	base, err := in.run(in.Jobs, req.adj)
	if err != nil {
		return Decision{}, scheduler.Result{}, scheduler.Result{}, fmt.Errorf("scheduling current backlog: %w", err)
	}
	baseLate := lateSet(base.Jobs, in.Calendar)
	baseCap := idSet(base.CapacityConflicts)

	trialJobs, err := withSubject(in.Jobs, req)
	if err != nil {
		return Decision{}, scheduler.Result{}, scheduler.Result{}, err
	}

	direct, err := in.run(trialJobs, req.adj)
	if err != nil {
		return Decision{}, scheduler.Result{}, scheduler.Result{}, fmt.Errorf("evaluating direct fit: %w", err)
	}
	if ladderFits(in, direct, req, baseLate, baseCap) {
		return decide(in, base, direct, req, domain.StrategyDirect, nil, nil), base, direct, nil
	}

	effAdj := in.Options.Adjustments.Merge(req.adj)
	bottlenecks := scheduler.Loads(direct.Jobs, in.Pipeline, in.Calendar).
		Overloads(in.Pipeline, in.Capacity, effAdj)

	opts, err := moveOptionsAgainst(in, trialJobs, direct, req.adj, map[string]bool{req.subject.ID: true})
	if err != nil {
		return Decision{}, scheduler.Result{}, scheduler.Result{}, fmt.Errorf("evaluating moves: %w", err)
	}
	cur := trialJobs
	var applied []MoveOption
	for _, opt := range opts {
		cur = ApplyMove(cur, opt)
		applied = append(applied, opt)
		res, err := in.run(cur, req.adj)
		if err != nil {
			return Decision{}, scheduler.Result{}, scheduler.Result{}, fmt.Errorf("evaluating moves: %w", err)
		}
		if ladderFits(in, res, req, baseLate, baseCap) {
			d := decide(in, base, res, req, domain.StrategyMoveJobs, applied, nil)
			d.Bottlenecks = bottlenecks
			return d, base, res, nil
		}
	}

	recs := OTRecommendations(bottlenecks, in.Capacity)
	otAdj := req.adj.Merge(OTAdjustments(recs))
	ot, err := in.run(trialJobs, otAdj)
	if err != nil {
		return Decision{}, scheduler.Result{}, scheduler.Result{}, fmt.Errorf("evaluating overtime: %w", err)
	}
	if len(recs) > 0 && ladderFits(in, ot, req, baseLate, baseCap) {
		d := decide(in, base, ot, req, domain.StrategyOvertime, nil, recs)
		d.Bottlenecks = bottlenecks
		return d, base, ot, nil
	}

	d := Decision{
		Strategy:       domain.StrategyNoFit,
		Bottlenecks:    bottlenecks,
		OTRequirements: recs,
		Reason:         noFitReason(in, ot, req, otAdj),
	}
	d.Summary = "no fit: " + d.Reason
	return d, base, ot, nil
}

// ResolveNewJob runs the remediation ladder for a job not yet in the
// backlog, answering whether the shop can take it by its due date and what
// it would cost the rest of the board.
func ResolveNewJob(in Input, job domain.Job) (Decision, error) {
	if job.ID == "" {
		job.ID = "candidate"
	}
	if job.Status == "" {
		job.Status = domain.JobPending
	}
	dec, _, _, err := resolve(in, resolveRequest{subject: job, replace: false})
	return dec, err
}

// withSubject splices the subject into a cloned backlog.
func withSubject(jobs []domain.Job, req resolveRequest) ([]domain.Job, error) {
	out := domain.CloneJobs(jobs)
	if !req.replace {
		return append(out, req.subject.Clone()), nil
	}
	for i := range out {
		if out[i].ID == req.subject.ID {
			out[i] = req.subject.Clone()
			return out, nil
		}
	}
	return nil, fmt.Errorf("job %s not found", req.subject.ID)
}

// ladderFits accepts a trial schedule when the subject lands clean and no
// bystander is worse off than in the baseline. Jobs whose due dates a move
// pushed are judged against their new dates.
func ladderFits(in Input, res scheduler.Result, req resolveRequest, baseLate, baseCap map[string]bool) bool {
	subject := findJob(res.Jobs, req.subject.ID)
	if subject == nil {
		return false
	}
	capNow := idSet(res.CapacityConflicts)
	if capNow[subject.ID] {
		return false
	}
	if !req.allowSubjectLate && scheduler.RunsLate(subject, in.Calendar) {
		return false
	}
	for i := range res.Jobs {
		job := &res.Jobs[i]
		if job.ID == subject.ID {
			continue
		}
		if capNow[job.ID] && !baseCap[job.ID] {
			return false
		}
		if scheduler.RunsLate(job, in.Calendar) && !baseLate[job.ID] {
			return false
		}
	}
	return true
}

func decide(in Input, base, win scheduler.Result, req resolveRequest, strat domain.Strategy, applied []MoveOption, recs []OTRecommendation) Decision {
	subject := findJob(win.Jobs, req.subject.ID)
	d := Decision{
		Success:        true,
		Strategy:       strat,
		MovesApplied:   applied,
		OTRequirements: recs,
	}
	// The actionable start is when the remaining work begins, not where a
	// frozen history window sits.
	if subject.ForecastStart != nil {
		t := *subject.ForecastStart
		d.SelectedStart = &t
	} else if subject.ScheduledStart != nil {
		t := *subject.ScheduledStart
		d.SelectedStart = &t
	}
	if subject.ForecastDue != nil {
		t := *subject.ForecastDue
		d.ForecastDue = &t
	}
	d.JobShifts = shiftsBetween(in, base, win, req.subject.ID, applied)
	d.Summary = summarize(subject, d)
	return d
}

// shiftsBetween diffs every bystander's start date between the baseline and
// winning schedules, largest displacement first.
func shiftsBetween(in Input, base, win scheduler.Result, subjectID string, applied []MoveOption) []JobShift {
	newDues := make(map[string]time.Time)
	for _, opt := range applied {
		for id, due := range opt.NewDueDates {
			newDues[id] = due
		}
	}
	before := make(map[string]*domain.Job, len(base.Jobs))
	for i := range base.Jobs {
		before[base.Jobs[i].ID] = &base.Jobs[i]
	}

	var out []JobShift
	for i := range win.Jobs {
		job := &win.Jobs[i]
		if job.ID == subjectID {
			continue
		}
		prev, ok := before[job.ID]
		if !ok || prev.ScheduledStart == nil || job.ScheduledStart == nil {
			continue
		}
		delta := signedWorkDays(in.Calendar, *prev.ScheduledStart, *job.ScheduledStart)
		if delta == 0 {
			continue
		}
		shift := JobShift{JobID: job.ID, JobNumber: job.DisplayID(), DeltaDays: delta}
		if due, pushed := newDues[job.ID]; pushed {
			shift.NewDue = due
		}
		out = append(out, shift)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := absDays(out[i].DeltaDays), absDays(out[j].DeltaDays)
		if ai != aj {
			return ai > aj
		}
		return out[i].JobID < out[j].JobID
	})
	return out
}

func absDays(d int) int {
	if d < 0 {
		return -d
	}
	return d
}

func summarize(subject *domain.Job, d Decision) string {
	start, finish := fmtDay(d.SelectedStart), fmtDay(d.ForecastDue)
	switch d.Strategy {
	case domain.StrategyDirect:
		return fmt.Sprintf("%s fits directly: start %s, finish %s", subject.DisplayID(), start, finish)
	case domain.StrategyMoveJobs:
		pushed := 0
		weeks := 0
		for _, opt := range d.MovesApplied {
			pushed += len(opt.NewDueDates)
			if opt.PushWeeks > weeks {
				weeks = opt.PushWeeks
			}
		}
		return fmt.Sprintf("%s fits after pushing %d job(s) out up to %d week(s): start %s, finish %s",
			subject.DisplayID(), pushed, weeks, start, finish)
	case domain.StrategyOvertime:
		return fmt.Sprintf("%s fits with overtime in %d department-week(s): start %s, finish %s",
			subject.DisplayID(), len(d.OTRequirements), start, finish)
	}
	return d.Summary
}

func fmtDay(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format("2006-01-02")
}

// noFitReason names the proximate blocker: the worst bucket still over
// capacity under maximum overtime, or the timeline itself.
func noFitReason(in Input, last scheduler.Result, req resolveRequest, otAdj capacity.Adjustments) string {
	effAdj := in.Options.Adjustments.Merge(otAdj)
	remaining := scheduler.Loads(last.Jobs, in.Pipeline, in.Calendar).
		Overloads(in.Pipeline, in.Capacity, effAdj)
	if len(remaining) > 0 {
		worst := remaining[0]
		for _, o := range remaining[1:] {
			if o.Excess > worst.Excess {
				worst = o
			}
		}
		return fmt.Sprintf("%s %s stays %.0f points over capacity even with overtime",
			worst.Department, worst.Week, worst.Excess)
	}
	if subject := findJob(last.Jobs, req.subject.ID); subject != nil && scheduler.RunsLate(subject, in.Calendar) {
		return fmt.Sprintf("forecast %s runs %d work days past due %s",
			subject.ForecastDue.Format("2006-01-02"),
			scheduler.WorkDaysLate(subject, in.Calendar),
			in.Calendar.PriorWorkDay(subject.DueDate).Format("2006-01-02"))
	}
	return "no feasible placement under the given constraints"
}
