// Package insight reads a scheduled backlog and reports where it hurts:
// daily and weekly load tables, bottlenecked department-weeks, late jobs
// with the department that made them late, and the capacity dent left by
// active supervisor alerts. Everything here is read-only analysis; the
// remediation choices live in the planner package.
package insight

import (
	"sort"
	"time"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
)

// LoadTable holds prorated points per (department, work day) over a date
// range, with a product-type breakdown per cell.
type LoadTable struct {
	From time.Time
	To   time.Time

	points map[domain.Department]map[time.Time]float64
	byType map[domain.Department]map[time.Time]map[string]float64
}

// DailyLoads spreads every scheduled window's points evenly across its work
// days and collects the cells falling inside [from, to]. A window is charged
// the job's full point value: capacity is per department, so a 100-point job
// in Welding is 100 points of Welding work.
func DailyLoads(jobs []domain.Job, pipeline domain.Pipeline, cal calendar.Calendar, from, to time.Time) LoadTable {
	t := LoadTable{
		From:   calendar.DateOnly(from),
		To:     calendar.DateOnly(to),
		points: make(map[domain.Department]map[time.Time]float64),
		byType: make(map[domain.Department]map[time.Time]map[string]float64),
	}
	for i := range jobs {
		job := &jobs[i]
		if !job.Schedulable() {
			continue
		}
		for _, dw := range job.Schedule.Ordered(pipeline) {
			days := cal.WorkDaysInclusive(dw.Window.Start, dw.Window.End)
			if days == 0 {
				t.add(dw.Department, dw.Window.Start, job.ProductType, job.Points)
				continue
			}
			perDay := job.Points / float64(days)
			for d := dw.Window.Start; !d.After(dw.Window.End); d = d.AddDate(0, 0, 1) {
				if cal.IsWorkDay(d) {
					t.add(dw.Department, d, job.ProductType, perDay)
				}
			}
		}
	}
	return t
}

func (t *LoadTable) add(dept domain.Department, day time.Time, productType string, pts float64) {
	day = calendar.DateOnly(day)
	if day.Before(t.From) || day.After(t.To) {
		return
	}
	if t.points[dept] == nil {
		t.points[dept] = make(map[time.Time]float64)
		t.byType[dept] = make(map[time.Time]map[string]float64)
	}
	t.points[dept][day] += pts
	if t.byType[dept][day] == nil {
		t.byType[dept][day] = make(map[string]float64)
	}
	t.byType[dept][day][productType] += pts
}

// Points returns the load booked for dept on day.
func (t LoadTable) Points(dept domain.Department, day time.Time) float64 {
	return t.points[dept][calendar.DateOnly(day)]
}

// Days returns every day carrying load, ascending.
func (t LoadTable) Days() []time.Time {
	seen := make(map[time.Time]bool)
	for _, byDay := range t.points {
		for d := range byDay {
			seen[d] = true
		}
	}
	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// WeekLoad is one (department, week) rollup of the daily table.
type WeekLoad struct {
	Department domain.Department
	Week       string
	Points     float64
	ByType     map[string]float64
}

// Weekly rolls the table up to week granularity, departments in pipeline
// order and weeks ascending within each department.
func (t LoadTable) Weekly(pipeline domain.Pipeline, cal calendar.Calendar) []WeekLoad {
	var out []WeekLoad
	for _, dept := range pipeline.Departments() {
		byWeek := make(map[string]*WeekLoad)
		var weeks []string
		for day, pts := range t.points[dept] {
			week := cal.WeekKey(day)
			wl, ok := byWeek[week]
			if !ok {
				wl = &WeekLoad{Department: dept, Week: week, ByType: make(map[string]float64)}
				byWeek[week] = wl
				weeks = append(weeks, week)
			}
			wl.Points += pts
			for ptype, tp := range t.byType[dept][day] {
				wl.ByType[ptype] += tp
			}
		}
		sort.Strings(weeks)
		for _, week := range weeks {
			out = append(out, *byWeek[week])
		}
	}
	return out
}

// TypeLoad is one product type's share of a bucket, for breakdown displays.
type TypeLoad struct {
	ProductType string
	Points      float64
}

// Bottleneck is a week where a department's booked load exceeds its base
// weekly capacity.
type Bottleneck struct {
	Department domain.Department
	Week       string
	Load       float64
	Capacity   float64
	Excess     float64
	// ByProductType breaks the load down when requested, heaviest first.
	ByProductType []TypeLoad
}

// DetectBottlenecks compares weekly rollups against base capacity. The
// returned slice keeps the rollup order: pipeline position, then week.
func DetectBottlenecks(weekly []WeekLoad, model capacity.Model, splitByType bool) []Bottleneck {
	var out []Bottleneck
	for _, wl := range weekly {
		budget := model.WeeklyCapacity(wl.Department)
		if wl.Points <= budget+1e-9 {
			continue
		}
		b := Bottleneck{
			Department: wl.Department,
			Week:       wl.Week,
			Load:       wl.Points,
			Capacity:   budget,
			Excess:     wl.Points - budget,
		}
		if splitByType {
			b.ByProductType = typeBreakdown(wl.ByType)
		}
		out = append(out, b)
	}
	return out
}

func typeBreakdown(byType map[string]float64) []TypeLoad {
	out := make([]TypeLoad, 0, len(byType))
	for ptype, pts := range byType {
		out = append(out, TypeLoad{ProductType: ptype, Points: pts})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ProductType < out[j].ProductType
	})
	return out
}
