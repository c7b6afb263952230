package scheduler

import (
	"sort"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
)

// weekPortion is one week's prorated slice of a window's points.
type weekPortion struct {
	week   string
	points float64
}

// weekPortions spreads a window's full point value across the weeks it
// touches, prorated by the share of the window's work days falling in each
// week. Portions come back in ascending week order.
func weekPortions(cal calendar.Calendar, w domain.Window, points float64) []weekPortion {
	total := cal.WorkDaysInclusive(w.Start, w.End)
	if total == 0 {
		// Degenerate window (all holidays); charge it whole to its start week.
		return []weekPortion{{week: cal.WeekKey(w.Start), points: points}}
	}
	daily := points / float64(total)
	var out []weekPortion
	for monday := cal.WeekStart(w.Start); !monday.After(w.End); monday = monday.AddDate(0, 0, 7) {
		sunday := monday.AddDate(0, 0, 6)
		lo, hi := w.Start, w.End
		if monday.After(lo) {
			lo = monday
		}
		if sunday.Before(hi) {
			hi = sunday
		}
		if days := cal.WorkDaysInclusive(lo, hi); days > 0 {
			out = append(out, weekPortion{week: cal.WeekKey(monday), points: daily * float64(days)})
		}
	}
	return out
}

// WeekLoads tracks points committed to each (department, week) bucket.
type WeekLoads map[domain.Department]map[string]float64

// Loads aggregates the scheduled windows of every schedulable job into
// weekly department buckets, using the same proration the reconciliation
// pass charges with.
func Loads(jobs []domain.Job, pipeline domain.Pipeline, cal calendar.Calendar) WeekLoads {
	loads := make(WeekLoads)
	for i := range jobs {
		job := &jobs[i]
		if !job.Schedulable() {
			continue
		}
		for _, dw := range job.Schedule.Ordered(pipeline) {
			loads.commit(cal, dw.Department, dw.Window, job.Points)
		}
	}
	return loads
}

// Points returns the committed load for (dept, week), zero when none.
func (l WeekLoads) Points(dept domain.Department, week string) float64 {
	return l[dept][week]
}

// Weeks returns dept's loaded week keys in ascending order.
func (l WeekLoads) Weeks(dept domain.Department) []string {
	weeks := make([]string, 0, len(l[dept]))
	for w := range l[dept] {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)
	return weeks
}

func (l WeekLoads) add(dept domain.Department, week string, pts float64) {
	byWeek, ok := l[dept]
	if !ok {
		byWeek = make(map[string]float64)
		l[dept] = byWeek
	}
	byWeek[week] += pts
}

func (l WeekLoads) get(dept domain.Department, week string) float64 {
	return l[dept][week]
}

// commit charges a window's prorated points to dept's weekly buckets.
func (l WeekLoads) commit(cal calendar.Calendar, dept domain.Department, w domain.Window, points float64) {
	for _, p := range weekPortions(cal, w, points) {
		l.add(dept, p.week, p.points)
	}
}

// fits reports whether adding the window keeps every touched week within
// capacity, given what is already committed.
func (l WeekLoads) fits(in Input, dept domain.Department, w domain.Window, points float64) bool {
	for _, p := range weekPortions(in.Calendar, w, points) {
		budget := in.Capacity.WeekCapacity(dept, p.week, in.Options.Adjustments)
		if l.get(dept, p.week)+p.points > budget+loadEpsilon {
			return false
		}
	}
	return true
}

const loadEpsilon = 1e-9

// Overload is one (department, week) bucket carrying more load than its
// adjusted budget allows.
type Overload struct {
	Department domain.Department
	Week       string
	Load       float64
	Budget     float64
	Excess     float64
}

// Overloads lists every bucket over budget, departments in pipeline order
// and weeks ascending within each.
func (l WeekLoads) Overloads(pipeline domain.Pipeline, model capacity.Model, adj capacity.Adjustments) []Overload {
	var out []Overload
	for _, dept := range pipeline.Departments() {
		for _, week := range l.Weeks(dept) {
			load := l.get(dept, week)
			budget := model.WeekCapacity(dept, week, adj)
			if load > budget+loadEpsilon {
				out = append(out, Overload{
					Department: dept,
					Week:       week,
					Load:       load,
					Budget:     budget,
					Excess:     load - budget,
				})
			}
		}
	}
	return out
}

// RunsLate reports whether the job's forecast completion misses its due
// date. Jobs without a forecast never count as late.
func RunsLate(job *domain.Job, cal calendar.Calendar) bool {
	if job.ForecastDue == nil || job.DueDate.IsZero() {
		return false
	}
	return job.ForecastDue.After(cal.PriorWorkDay(job.DueDate))
}

// WorkDaysLate counts how many work days past its due-date anchor the job's
// forecast lands, zero for on-time jobs.
func WorkDaysLate(job *domain.Job, cal calendar.Calendar) int {
	if !RunsLate(job, cal) {
		return 0
	}
	return cal.BusinessDaysBetween(cal.PriorWorkDay(job.DueDate), *job.ForecastDue)
}
