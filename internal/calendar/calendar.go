// Package calendar is the single source of truth for work-day arithmetic.
// Every other package routes date math through it so that "what counts as a
// work day" has exactly one answer.
package calendar

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Calendar answers work-day questions for one shop: Monday through Friday,
// minus configured holidays. Values are immutable after New.
type Calendar struct {
	holidays map[string]bool
}

// New builds a calendar from the shop's holiday list. Times are reduced to
// their UTC date.
func New(holidays []time.Time) Calendar {
	h := make(map[string]bool, len(holidays))
	for _, d := range holidays {
		h[DateOnly(d).Format(dayLayout)] = true
	}
	return Calendar{holidays: h}
}

// DateOnly truncates t to UTC midnight. All calendar math operates on these
// normalized values.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWorkDay reports whether d is a working day: a weekday that is not a
// configured holiday.
func (c Calendar) IsWorkDay(d time.Time) bool {
	d = DateOnly(d)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays[d.Format(dayLayout)]
}

// AddWorkDays advances d by n work days, skipping weekends and holidays.
// Negative n walks backward; AddWorkDays(d, -n) equals SubWorkDays(d, n).
// n of zero returns d unchanged apart from date normalization.
func (c Calendar) AddWorkDays(d time.Time, n int) time.Time {
	if n < 0 {
		return c.SubWorkDays(d, -n)
	}
	d = DateOnly(d)
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, 1)
		for !c.IsWorkDay(d) {
			d = d.AddDate(0, 0, 1)
		}
	}
	return d
}

// SubWorkDays walks d backward by n work days.
func (c Calendar) SubWorkDays(d time.Time, n int) time.Time {
	if n < 0 {
		return c.AddWorkDays(d, -n)
	}
	d = DateOnly(d)
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, -1)
		for !c.IsWorkDay(d) {
			d = d.AddDate(0, 0, -1)
		}
	}
	return d
}

// BusinessDaysBetween counts the work days strictly after a, up to and
// including b. It returns zero when b is on or before a.
func (c Calendar) BusinessDaysBetween(a, b time.Time) int {
	a, b = DateOnly(a), DateOnly(b)
	if !b.After(a) {
		return 0
	}
	n := 0
	for d := a.AddDate(0, 0, 1); !d.After(b); d = d.AddDate(0, 0, 1) {
		if c.IsWorkDay(d) {
			n++
		}
	}
	return n
}

// WorkDaysInclusive counts the work days in [a, b], endpoints included.
// It returns zero when b is before a.
func (c Calendar) WorkDaysInclusive(a, b time.Time) int {
	a, b = DateOnly(a), DateOnly(b)
	if b.Before(a) {
		return 0
	}
	n := 0
	for d := a; !d.After(b); d = d.AddDate(0, 0, 1) {
		if c.IsWorkDay(d) {
			n++
		}
	}
	return n
}

// PriorWorkDay returns d itself when d is a work day, otherwise the nearest
// work day before it.
func (c Calendar) PriorWorkDay(d time.Time) time.Time {
	d = DateOnly(d)
	for !c.IsWorkDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// NextWorkDay returns d itself when d is a work day, otherwise the nearest
// work day after it.
func (c Calendar) NextWorkDay(d time.Time) time.Time {
	d = DateOnly(d)
	for !c.IsWorkDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// WeekStart returns the Monday of d's week.
func (c Calendar) WeekStart(d time.Time) time.Time {
	d = DateOnly(d)
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

// WeekKey identifies d's Monday-starting week, e.g. "2026-W07". A week
// belongs to the year its Monday falls in, so the week containing Jan 1 keys
// under the old year whenever its Monday does. Keys are zero-padded and sort
// lexicographically in chronological order.
func (c Calendar) WeekKey(d time.Time) string {
	monday := c.WeekStart(d)
	week := 1 + (monday.YearDay()-1)/7
	return fmt.Sprintf("%d-W%02d", monday.Year(), week)
}

// WeekOf returns the Monday for a key produced by WeekKey.
func (c Calendar) WeekOf(key string) (time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(key, "%d-W%d", &year, &week); err != nil {
		return time.Time{}, fmt.Errorf("parse week key %q: %w", key, err)
	}
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("week key %q out of range", key)
	}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	firstMonday := c.WeekStart(jan1)
	if firstMonday.Year() < year {
		firstMonday = firstMonday.AddDate(0, 0, 7)
	}
	return firstMonday.AddDate(0, 0, (week-1)*7), nil
}
