package domain

import (
	"fmt"
	"time"
)

// Window is an inclusive range of calendar dates (UTC midnight) during which
// a job occupies one department. Start is the first work day, End the last.
type Window struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the window's end does not precede its start.
func (w Window) Valid() bool { return !w.End.Before(w.Start) }

// Contains reports whether day falls inside the window, endpoints included.
func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// DeptSchedule holds one window per scheduled department. A department with
// no entry is distinct from one scheduled to a single-day window: absence
// means "not yet placed" and every read reports it explicitly.
type DeptSchedule struct {
	windows map[Department]Window
}

// NewDeptSchedule returns an empty schedule ready for Set calls.
func NewDeptSchedule() DeptSchedule {
	return DeptSchedule{windows: make(map[Department]Window)}
}

// Window returns the window placed for dept, if any.
func (s DeptSchedule) Window(dept Department) (Window, bool) {
	w, ok := s.windows[dept]
	return w, ok
}

func (s DeptSchedule) Has(dept Department) bool {
	_, ok := s.windows[dept]
	return ok
}

func (s DeptSchedule) Len() int { return len(s.windows) }

// Set places or replaces the window for dept.
func (s *DeptSchedule) Set(dept Department, w Window) {
	if s.windows == nil {
		s.windows = make(map[Department]Window)
	}
	s.windows[dept] = w
}

// Delete removes the window for dept, if present.
func (s *DeptSchedule) Delete(dept Department) {
	delete(s.windows, dept)
}

// Clone returns an independent copy of the schedule.
func (s DeptSchedule) Clone() DeptSchedule {
	out := DeptSchedule{windows: make(map[Department]Window, len(s.windows))}
	for d, w := range s.windows {
		out.windows[d] = w
	}
	return out
}

// Ordered returns the scheduled (department, window) pairs in pipeline order.
// Scheduled departments outside the pipeline are omitted.
func (s DeptSchedule) Ordered(pipeline Pipeline) []DeptWindow {
	out := make([]DeptWindow, 0, len(s.windows))
	for _, d := range pipeline.Departments() {
		if w, ok := s.windows[d]; ok {
			out = append(out, DeptWindow{Department: d, Window: w})
		}
	}
	return out
}

// DeptWindow pairs a department with its placed window.
type DeptWindow struct {
	Department Department
	Window     Window
}

// EarliestStart returns the earliest window start across all departments.
func (s DeptSchedule) EarliestStart() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, w := range s.windows {
		if !found || w.Start.Before(earliest) {
			earliest = w.Start
			found = true
		}
	}
	return earliest, found
}

// LatestEnd returns the latest window end across all departments.
func (s DeptSchedule) LatestEnd() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, w := range s.windows {
		if !found || w.End.After(latest) {
			latest = w.End
			found = true
		}
	}
	return latest, found
}

// Validate checks the structural invariants of a placed schedule: every
// window must have start <= end, and for consecutive scheduled departments
// in pipeline order the later window must not start before the earlier one
// ends. Departments in skipped are expected to be absent.
func (s DeptSchedule) Validate(pipeline Pipeline, skipped []Department) error {
	skip := make(map[Department]bool, len(skipped))
	for _, d := range skipped {
		skip[d] = true
	}
	var prev *DeptWindow
	for _, d := range pipeline.Departments() {
		if skip[d] {
			if s.Has(d) {
				return fmt.Errorf("department %s is marked skipped but has a window", d)
			}
			continue
		}
		w, ok := s.windows[d]
		if !ok {
			continue
		}
		if !w.Valid() {
			return fmt.Errorf("department %s window ends %s before it starts %s",
				d, w.End.Format("2006-01-02"), w.Start.Format("2006-01-02"))
		}
		if prev != nil && w.Start.Before(prev.Window.End) {
			return fmt.Errorf("department %s starts %s before %s ends %s",
				d, w.Start.Format("2006-01-02"), prev.Department, prev.Window.End.Format("2006-01-02"))
		}
		dw := DeptWindow{Department: d, Window: w}
		prev = &dw
	}
	return nil
}
