package planner

import (
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/scheduler"
)

// OTRecommendation pairs an overloaded (department, week) with the cheapest
// overtime tier that clears it. RemainingExcess stays positive when even the
// top tier, or a department with no tiers at all, cannot cover the overload.
type OTRecommendation struct {
	Department      domain.Department
	Week            string
	Excess          float64
	Tier            capacity.OTTier
	HasTier         bool
	RemainingExcess float64
}

// OTRecommendations picks a tier for every overloaded bucket. Tier ladders
// are ordered so weekday-hour extensions come before Saturday additions.
func OTRecommendations(overloads []scheduler.Overload, model capacity.Model) []OTRecommendation {
	out := make([]OTRecommendation, 0, len(overloads))
	for _, o := range overloads {
		rec := OTRecommendation{Department: o.Department, Week: o.Week, Excess: o.Excess}
		tier, remaining, ok := model.TierFor(o.Department, o.Excess)
		rec.RemainingExcess = remaining
		if ok {
			rec.Tier = tier
			rec.HasTier = true
		}
		out = append(out, rec)
	}
	return out
}

// OTAdjustments converts recommendations into the weekly capacity deltas the
// scheduler consumes.
func OTAdjustments(recs []OTRecommendation) capacity.Adjustments {
	adj := make(capacity.Adjustments)
	for _, r := range recs {
		if r.HasTier {
			adj.Add(r.Department, r.Week, r.Tier.BonusPoints)
		}
	}
	return adj
}
