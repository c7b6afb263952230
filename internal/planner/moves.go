package planner

import (
	"math"
	"sort"
	"time"

	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// maxPushWeeks caps how far a move option may push a due date. Customers
// absorb a week or two; anything past that is a renegotiation, not a move.
const maxPushWeeks = 2

// safeSlackDays is the minimum on-time margin, in work days, a pushed job
// must keep against its new due date to rate the move safe.
const safeSlackDays = 5

// MoveOption is one candidate due-date push: a single work order or every
// job on a shared sales order, moved out one or two weeks.
type MoveOption struct {
	Scope      domain.MoveScope
	JobID      string // work-order scope
	JobNumber  string
	SalesOrder string // sales-order scope
	PushWeeks  int
	// NewDueDates maps every pushed job to its proposed due date.
	NewDueDates map[string]time.Time
	// PointsRelieved is the load drained out of currently overloaded
	// (department, week) buckets by this push.
	PointsRelieved float64
	Risk           domain.RiskLevel
	// LateJobsRecovered lists jobs late today that come back on time once
	// the relieved capacity is reclaimed, sorted by ID.
	LateJobsRecovered []string
}

func (o MoveOption) key() string {
	if o.Scope == domain.MoveSalesOrder {
		return "so|" + o.SalesOrder
	}
	return "wo|" + o.JobID
}

// MoveOptions evaluates pushing each job, and each multi-job sales order,
// out by one or two weeks against the current schedule. Only options that
// relieve overloaded weeks or recover late jobs are returned, the best push
// per candidate, strongest first.
func MoveOptions(in Input) ([]MoveOption, error) {
	base, err := in.run(in.Jobs, nil)
	if err != nil {
		return nil, err
	}
	return moveOptionsAgainst(in, in.Jobs, base, nil, nil)
}

type moveCandidate struct {
	scope   domain.MoveScope
	id      string // job ID or sales order
	number  string
	members map[string]bool
}

// moveCandidates lists every movable unit: schedulable jobs one by one, and
// sales orders grouping two or more of them. Excluded IDs never move.
func moveCandidates(jobs []domain.Job, exclude map[string]bool) []moveCandidate {
	var out []moveCandidate
	bySO := make(map[string][]int)
	for i := range jobs {
		job := &jobs[i]
		if !job.Schedulable() || exclude[job.ID] {
			continue
		}
		out = append(out, moveCandidate{
			scope:   domain.MoveWorkOrder,
			id:      job.ID,
			number:  job.DisplayID(),
			members: map[string]bool{job.ID: true},
		})
		if job.SalesOrder != "" {
			bySO[job.SalesOrder] = append(bySO[job.SalesOrder], i)
		}
	}
	orders := make([]string, 0, len(bySO))
	for so, members := range bySO {
		if len(members) >= 2 {
			orders = append(orders, so)
		}
	}
	sort.Strings(orders)
	for _, so := range orders {
		members := make(map[string]bool, len(bySO[so]))
		for _, i := range bySO[so] {
			members[jobs[i].ID] = true
		}
		out = append(out, moveCandidate{scope: domain.MoveSalesOrder, id: so, number: so, members: members})
	}
	return out
}

// moveOptionsAgainst evaluates candidates against an already-computed
// baseline, layering adj on top of the input's own adjustments.
func moveOptionsAgainst(in Input, jobs []domain.Job, base scheduler.Result, adj capacity.Adjustments, exclude map[string]bool) ([]MoveOption, error) {
	effAdj := in.Options.Adjustments.Merge(adj)
	baseLoads := scheduler.Loads(base.Jobs, in.Pipeline, in.Calendar)
	baseOver := baseLoads.Overloads(in.Pipeline, in.Capacity, effAdj)
	baseLate := lateSet(base.Jobs, in.Calendar)
	if len(baseOver) == 0 && len(baseLate) == 0 {
		return nil, nil
	}
	baseCap := idSet(base.CapacityConflicts)

	best := make(map[string]MoveOption)
	var keys []string
	for _, cand := range moveCandidates(jobs, exclude) {
		for push := 1; push <= maxPushWeeks; push++ {
			opt, ok, err := evaluateMove(in, jobs, adj, cand, push, baseLoads, baseOver, baseLate, baseCap)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			cur, seen := best[opt.key()]
			if !seen {
				keys = append(keys, opt.key())
			}
			if !seen || betterMove(opt, cur) {
				best[opt.key()] = opt
			}
		}
	}

	out := make([]MoveOption, 0, len(best))
	for _, k := range keys {
		out = append(out, best[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if betterMove(out[i], out[j]) {
			return true
		}
		if betterMove(out[j], out[i]) {
			return false
		}
		return out[i].key() < out[j].key()
	})
	return out, nil
}

// evaluateMove prices one candidate at one push distance. The option is
// viable only when every pushed job stays clean against its new due date and
// no bystander gets worse.
func evaluateMove(in Input, jobs []domain.Job, adj capacity.Adjustments, cand moveCandidate, push int, baseLoads scheduler.WeekLoads, baseOver []scheduler.Overload, baseLate, baseCap map[string]bool) (MoveOption, bool, error) {
	trial := domain.CloneJobs(jobs)
	newDues := make(map[string]time.Time, len(cand.members))
	for i := range trial {
		if cand.members[trial[i].ID] {
			trial[i].DueDate = trial[i].DueDate.AddDate(0, 0, 7*push)
			newDues[trial[i].ID] = trial[i].DueDate
		}
	}

	res, err := in.run(trial, adj)
	if err != nil {
		return MoveOption{}, false, err
	}
	lateAfter := lateSet(res.Jobs, in.Calendar)
	capAfter := idSet(res.CapacityConflicts)

	minSlack := math.MaxInt
	for i := range res.Jobs {
		job := &res.Jobs[i]
		if cand.members[job.ID] {
			if lateAfter[job.ID] || capAfter[job.ID] {
				return MoveOption{}, false, nil
			}
			if job.ForecastDue != nil {
				slack := signedWorkDays(in.Calendar, *job.ForecastDue, in.Calendar.PriorWorkDay(job.DueDate))
				if slack < minSlack {
					minSlack = slack
				}
			}
			continue
		}
		if lateAfter[job.ID] && !baseLate[job.ID] {
			return MoveOption{}, false, nil
		}
		if capAfter[job.ID] && !baseCap[job.ID] {
			return MoveOption{}, false, nil
		}
	}

	var recovered []string
	for id := range baseLate {
		if !lateAfter[id] && !cand.members[id] {
			recovered = append(recovered, id)
		}
	}
	sort.Strings(recovered)

	trialLoads := scheduler.Loads(res.Jobs, in.Pipeline, in.Calendar)
	relieved := 0.0
	for _, o := range baseOver {
		if d := baseLoads.Points(o.Department, o.Week) - trialLoads.Points(o.Department, o.Week); d > 0 {
			relieved += d
		}
	}
	if relieved <= 1e-9 && len(recovered) == 0 {
		return MoveOption{}, false, nil
	}

	risk := domain.RiskModerate
	if minSlack >= safeSlackDays {
		risk = domain.RiskSafe
	}
	opt := MoveOption{
		Scope:             cand.scope,
		PushWeeks:         push,
		NewDueDates:       newDues,
		PointsRelieved:    relieved,
		Risk:              risk,
		LateJobsRecovered: recovered,
	}
	if cand.scope == domain.MoveSalesOrder {
		opt.SalesOrder = cand.id
	} else {
		opt.JobID = cand.id
		opt.JobNumber = cand.number
	}
	return opt, true, nil
}

// betterMove ranks options: most late jobs recovered, then most points
// relieved, then the safer risk, then the gentler push. Risk outranks push
// distance so a two-week push that lands with real slack beats a one-week
// push that lands flush.
func betterMove(a, b MoveOption) bool {
	if len(a.LateJobsRecovered) != len(b.LateJobsRecovered) {
		return len(a.LateJobsRecovered) > len(b.LateJobsRecovered)
	}
	if a.PointsRelieved != b.PointsRelieved {
		return a.PointsRelieved > b.PointsRelieved
	}
	if a.Risk != b.Risk {
		return a.Risk == domain.RiskSafe
	}
	return a.PushWeeks < b.PushWeeks
}

// ApplyMove returns jobs with the option's due-date pushes applied.
func ApplyMove(jobs []domain.Job, opt MoveOption) []domain.Job {
	out := domain.CloneJobs(jobs)
	for i := range out {
		if due, ok := opt.NewDueDates[out[i].ID]; ok {
			out[i].DueDate = due
		}
	}
	return out
}
