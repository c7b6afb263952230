// Package capacity models what each department can absorb in a week: a base
// point budget plus an ordered ladder of overtime tiers that buy extra points
// at increasing cost.
package capacity

import (
	"fmt"
	"sort"

	"github.com/averyhollis/fabline/internal/domain"
)

// OTTier is one rung of a department's overtime ladder. Lower ordinals are
// cheaper and tried first; weekday-hour extensions are configured before
// Saturday tiers so recommendations prefer them.
type OTTier struct {
	Ordinal     int
	Label       string
	BonusPoints float64
	Days        string
}

// DeptCapacity carries one department's weekly numbers.
type DeptCapacity struct {
	// BaseWeekly is the regular-hours point budget per week.
	BaseWeekly float64
	// DailyRate converts points to work days. Zero means BaseWeekly / 5.
	DailyRate float64
	// Share is the fraction of a job's points this department works.
	// Shares are renormalized over the departments a job actually visits.
	Share float64
	Tiers []OTTier
}

// Model is the injected capacity configuration for the whole shop.
type Model struct {
	ByDept map[domain.Department]DeptCapacity
	// DefaultWeekly applies to departments without an explicit entry.
	DefaultWeekly float64
}

// WeeklyCapacity returns dept's base point budget for one week.
func (m Model) WeeklyCapacity(dept domain.Department) float64 {
	if dc, ok := m.ByDept[dept]; ok && dc.BaseWeekly > 0 {
		return dc.BaseWeekly
	}
	return m.DefaultWeekly
}

// DailyRate returns how many points dept works through per work day.
func (m Model) DailyRate(dept domain.Department) float64 {
	if dc, ok := m.ByDept[dept]; ok && dc.DailyRate > 0 {
		return dc.DailyRate
	}
	return m.WeeklyCapacity(dept) / 5
}

// Tiers returns dept's overtime ladder sorted by ordinal.
func (m Model) Tiers(dept domain.Department) []OTTier {
	dc, ok := m.ByDept[dept]
	if !ok || len(dc.Tiers) == 0 {
		return nil
	}
	tiers := append([]OTTier(nil), dc.Tiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Ordinal < tiers[j].Ordinal })
	return tiers
}

// TierFor picks the cheapest tier whose bonus clears excess. When even the
// top tier falls short it is returned with the points still uncovered; ok is
// false only when the department has no tiers at all.
func (m Model) TierFor(dept domain.Department, excess float64) (tier OTTier, remaining float64, ok bool) {
	tiers := m.Tiers(dept)
	if len(tiers) == 0 {
		return OTTier{}, excess, false
	}
	for _, t := range tiers {
		if t.BonusPoints >= excess {
			return t, 0, true
		}
	}
	top := tiers[len(tiers)-1]
	return top, excess - top.BonusPoints, true
}

// Shares returns each visited department's fraction of a job's points,
// renormalized so the visited shares sum to 1. Departments with no
// configured share split the unconfigured remainder evenly; if nothing is
// configured the split is uniform.
func (m Model) Shares(visited []domain.Department) map[domain.Department]float64 {
	out := make(map[domain.Department]float64, len(visited))
	if len(visited) == 0 {
		return out
	}
	total := 0.0
	unset := 0
	for _, d := range visited {
		s := m.ByDept[d].Share
		if s > 0 {
			total += s
		} else {
			unset++
		}
	}
	if total <= 0 {
		for _, d := range visited {
			out[d] = 1.0 / float64(len(visited))
		}
		return out
	}
	// Unconfigured departments take an average-sized slice before the
	// renormalization pass.
	fill := total / float64(len(visited)-unset)
	sum := 0.0
	for _, d := range visited {
		s := m.ByDept[d].Share
		if s <= 0 {
			s = fill
		}
		out[d] = s
		sum += s
	}
	for _, d := range visited {
		out[d] /= sum
	}
	return out
}

// Validate rejects models a schedule run cannot safely use.
func (m Model) Validate() []error {
	var errs []error
	if m.DefaultWeekly < 0 {
		errs = append(errs, fmt.Errorf("default weekly capacity must not be negative"))
	}
	depts := make([]domain.Department, 0, len(m.ByDept))
	for d := range m.ByDept {
		depts = append(depts, d)
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i] < depts[j] })
	for _, d := range depts {
		dc := m.ByDept[d]
		if dc.BaseWeekly < 0 {
			errs = append(errs, fmt.Errorf("%s: weekly capacity must not be negative", d))
		}
		if dc.BaseWeekly == 0 && m.DefaultWeekly == 0 {
			errs = append(errs, fmt.Errorf("%s: no weekly capacity and no default to fall back on", d))
		}
		if dc.Share < 0 {
			errs = append(errs, fmt.Errorf("%s: share must not be negative", d))
		}
		seen := make(map[int]bool, len(dc.Tiers))
		for _, t := range dc.Tiers {
			if t.BonusPoints <= 0 {
				errs = append(errs, fmt.Errorf("%s: OT tier %d must grant positive bonus points", d, t.Ordinal))
			}
			if seen[t.Ordinal] {
				errs = append(errs, fmt.Errorf("%s: duplicate OT tier ordinal %d", d, t.Ordinal))
			}
			seen[t.Ordinal] = true
		}
	}
	return errs
}

// Adjustments holds signed per-week capacity deltas keyed by department and
// week key. Overtime grants add points; supervisor blockages subtract them.
type Adjustments map[domain.Department]map[string]float64

// Add accumulates delta onto the (dept, week) bucket.
func (a Adjustments) Add(dept domain.Department, week string, delta float64) {
	byWeek, ok := a[dept]
	if !ok {
		byWeek = make(map[string]float64)
		a[dept] = byWeek
	}
	byWeek[week] += delta
}

// For returns the accumulated delta for (dept, week), zero when none.
func (a Adjustments) For(dept domain.Department, week string) float64 {
	return a[dept][week]
}

// Clone returns an independent copy.
func (a Adjustments) Clone() Adjustments {
	out := make(Adjustments, len(a))
	for d, byWeek := range a {
		cp := make(map[string]float64, len(byWeek))
		for w, v := range byWeek {
			cp[w] = v
		}
		out[d] = cp
	}
	return out
}

// Merge sums two adjustment sets into a new one, touching neither. When b
// is empty a is returned as is.
func (a Adjustments) Merge(b Adjustments) Adjustments {
	if len(b) == 0 {
		return a
	}
	out := a.Clone()
	for dept, byWeek := range b {
		for week, delta := range byWeek {
			out.Add(dept, week, delta)
		}
	}
	return out
}

// WeekCapacity is the usable point budget for (dept, week) after applying
// adjustments. It never reports below zero.
func (m Model) WeekCapacity(dept domain.Department, week string, adj Adjustments) float64 {
	budget := m.WeeklyCapacity(dept) + adj.For(dept, week)
	if budget < 0 {
		return 0
	}
	return budget
}
