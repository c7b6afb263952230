package formatter

import (
	"fmt"
	"strings"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/insight"
	"github.com/averyhollis/fabline/internal/planner"
)

// FormatInsights formats the full analysis: summary counters, late jobs,
// bottlenecks, alert impact, remediation options, and what each remedy
// would buy.
func FormatInsights(resp *contract.InsightResponse) string {
	ins := resp.Insights
	var b strings.Builder

	b.WriteString(insightSummary(ins.Summary))

	if len(ins.LateJobs) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Late jobs") + "\n")
		b.WriteString(LateJobTable(ins.LateJobs))
	}

	if len(ins.Bottlenecks) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Bottlenecks") + "\n")
		b.WriteString(BottleneckTable(ins.Bottlenecks))
	}

	if ins.AlertImpact.ActiveCount > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Supervisor alerts") + "\n")
		b.WriteString(alertImpact(ins.AlertImpact))
	}

	if len(ins.MoveOptions) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Move options") + "\n")
		b.WriteString(MoveOptionTable(ins.MoveOptions))
	}

	if len(ins.OTRecommendations) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Overtime") + "\n")
		b.WriteString(OTTable(ins.OTRecommendations))
	}

	if len(ins.MoveOptions) > 0 || len(ins.OTRecommendations) > 0 {
		b.WriteString("\n")
		b.WriteString(projectionLines(ins))
	}

	for _, w := range resp.Warnings {
		b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
	}

	return RenderBox("Shop insights", b.String())
}

func insightSummary(s insight.Summary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s scheduled (%s points)\n",
		Plural(s.ScheduledJobs, "job"), PointsStr(s.TotalPoints)))

	late := StyleGreen.Render("0 late")
	if s.LateCount > 0 {
		late = StyleRed.Render(Plural(s.LateCount, "late job"))
	}
	bn := StyleGreen.Render("no bottlenecks")
	if s.BottleneckCount > 0 {
		bn = StyleYellow.Render(Plural(s.BottleneckCount, "bottleneck"))
	}
	b.WriteString(fmt.Sprintf("%s, %s", late, bn))
	if s.ActiveAlerts > 0 {
		b.WriteString(fmt.Sprintf(", %s", StyleYellow.Render(Plural(s.ActiveAlerts, "active alert"))))
	}
	b.WriteString("\n")
	return b.String()
}

// LateJobTable renders forecast-late jobs with the department most likely
// responsible and whether overtime alone recovers them.
func LateJobTable(late []insight.LateJob) string {
	headers := []string{"JOB", "NAME", "DUE", "FORECAST", "DAYS", "BOTTLENECK", "WITH OT"}
	rows := make([][]string, 0, len(late))
	for _, lj := range late {
		withOT := Dim("--")
		if lj.ForecastWithOT != nil {
			if lj.LateWithOT {
				withOT = StyleRed.Render(DateStr(*lj.ForecastWithOT) + " still late")
			} else {
				withOT = StyleGreen.Render(DateStr(*lj.ForecastWithOT) + " on time")
			}
		}
		rows = append(rows, []string{
			Bold(lj.JobNumber),
			Truncate(lj.Name, 24),
			DateStr(lj.DueDate),
			StyleRed.Render(DateStr(lj.ForecastDue)),
			fmt.Sprintf("+%d", lj.DaysLate),
			string(lj.Department),
			withOT,
		})
	}
	return Table{Headers: headers, Rows: rows, RightAlign: []int{4}}.Render()
}

// BottleneckTable renders overloaded department weeks with a load bar and,
// when the analysis split by product type, a per-type breakdown underneath.
func BottleneckTable(bns []insight.Bottleneck) string {
	headers := []string{"DEPT", "WEEK", "LOAD", "CAPACITY", "OVER", ""}
	rows := make([][]string, 0, len(bns))
	for _, bn := range bns {
		rows = append(rows, []string{
			string(bn.Department),
			bn.Week,
			PointsStr(bn.Load),
			PointsStr(bn.Capacity),
			StyleRed.Render("+" + PointsStr(bn.Excess)),
			RenderLoadBar(bn.Load, bn.Capacity, loadBarWidth),
		})
	}

	var b strings.Builder
	b.WriteString(Table{Headers: headers, Rows: rows, RightAlign: []int{2, 3, 4}}.Render())

	// Per-product-type breakdown prints below the table when requested.
	for _, bn := range bns {
		if len(bn.ByProductType) == 0 {
			continue
		}
		parts := make([]string, 0, len(bn.ByProductType))
		for _, tl := range bn.ByProductType {
			label := tl.ProductType
			if label == "" {
				label = "untyped"
			}
			parts = append(parts, fmt.Sprintf("%s %s", label, PointsStr(tl.Points)))
		}
		b.WriteString(Dim(fmt.Sprintf("  %s %s: %s", bn.Department, bn.Week, strings.Join(parts, ", "))) + "\n")
	}
	return b.String()
}

func alertImpact(ai insight.AlertImpact) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s blocking %s points of capacity\n",
		Plural(ai.ActiveCount, "active alert"), StyleRed.Render(PointsStr(ai.BlockedPoints))))
	for _, e := range ai.Effects {
		b.WriteString(fmt.Sprintf("  %s stuck in %s until %s: %s (%s pts/wk over %s)\n",
			Bold(e.JobNumber), e.Department, DateStr(e.Resolution),
			Truncate(e.Reason, 40), PointsStr(e.BlockedPoints), Plural(len(e.Weeks), "week")))
	}
	if len(ai.AddedOverloads) > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("  blockages tip %s over budget",
			Plural(len(ai.AddedOverloads), "extra week"))) + "\n")
	}
	return b.String()
}

// MoveOptionTable renders due-date push options, safest first.
func MoveOptionTable(opts []planner.MoveOption) string {
	headers := []string{"SCOPE", "TARGET", "PUSH", "RELIEVES", "RISK", "RECOVERS"}
	rows := make([][]string, 0, len(opts))
	for _, o := range opts {
		rows = append(rows, []string{
			string(o.Scope),
			moveTarget(o),
			fmt.Sprintf("%dw", o.PushWeeks),
			PointsStr(o.PointsRelieved),
			RiskTag(o.Risk),
			moveRecovers(o),
		})
	}
	return Table{Headers: headers, Rows: rows, RightAlign: []int{3}}.Render()
}

func moveTarget(o planner.MoveOption) string {
	if o.SalesOrder != "" {
		return fmt.Sprintf("%s (%s)", Bold(o.SalesOrder), Plural(len(o.NewDueDates), "job"))
	}
	return Bold(o.JobNumber)
}

func moveRecovers(o planner.MoveOption) string {
	if len(o.LateJobsRecovered) == 0 {
		return Dim("--")
	}
	return StyleGreen.Render(Plural(len(o.LateJobsRecovered), "late job"))
}

// OTTable renders overtime recommendations per overloaded bucket.
func OTTable(recs []planner.OTRecommendation) string {
	headers := []string{"DEPT", "WEEK", "EXCESS", "TIER", "COVERS", "LEFT OVER"}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		tier := StyleRed.Render("none fits")
		covers := Dim("--")
		if r.HasTier {
			tier = r.Tier.Label
			if tier == "" {
				tier = fmt.Sprintf("tier %d", r.Tier.Ordinal)
			}
			covers = "+" + PointsStr(r.Tier.BonusPoints)
		}
		left := Dim("--")
		if r.RemainingExcess > 0 {
			left = StyleRed.Render(PointsStr(r.RemainingExcess))
		}
		rows = append(rows, []string{
			string(r.Department),
			r.Week,
			PointsStr(r.Excess),
			tier,
			covers,
			left,
		})
	}
	return Table{Headers: headers, Rows: rows, RightAlign: []int{2}}.Render()
}

func projectionLines(ins insight.ScheduleInsights) string {
	var b strings.Builder
	base := ins.Summary.LateCount
	b.WriteString(fmt.Sprintf("After moves: %s. After moves and overtime: %s.\n",
		projectionDelta(base, ins.AfterMoves),
		projectionDelta(base, ins.AfterMovesAndOT)))
	return b.String()
}

func projectionDelta(base int, p insight.Projection) string {
	s := fmt.Sprintf("%d late → %d late", base, p.LateCount)
	if p.LateCount < base {
		return StyleGreen.Render(s)
	}
	if p.LateCount > base {
		return StyleRed.Render(s)
	}
	return Dim(s)
}
