package formatter

import (
	"fmt"
	"strings"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/planner"
)

// FormatReschedule formats a what-if due date change: the window shift side
// by side, then the decision that backs it.
func FormatReschedule(resp *contract.RescheduleResponse) string {
	s := resp.Suggestion
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s due %s → %s\n\n",
		Bold(s.JobNumber), DateStr(s.OldDue), Bold(DateStr(s.NewDue))))
	b.WriteString(windowDiff(s.Current, s.Suggested))
	b.WriteString("\n")
	b.WriteString(renderDecision(s.Decision))

	return RenderBox("Reschedule "+s.JobNumber, b.String())
}

// FormatAlertPlan formats the recovery plan computed around an active
// supervisor blockage.
func FormatAlertPlan(resp *contract.AlertPlanResponse) string {
	p := resp.Plan
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Replanning %s around alert %s\n\n",
		Bold(p.JobNumber), TruncID(p.AlertID)))
	b.WriteString(renderDecision(p.Decision))

	return RenderBox("Alert plan", b.String())
}

// windowDiff prints current and suggested department windows in pipeline
// order, marking rows that moved.
func windowDiff(current, suggested []domain.DeptWindow) string {
	sugByDept := make(map[domain.Department]domain.Window, len(suggested))
	for _, dw := range suggested {
		sugByDept[dw.Department] = dw.Window
	}

	headers := []string{"DEPT", "CURRENT", "SUGGESTED", ""}
	rows := make([][]string, 0, len(current))
	seen := make(map[domain.Department]bool, len(current))
	for _, dw := range current {
		seen[dw.Department] = true
		sug, ok := sugByDept[dw.Department]
		sugStr := Dim("--")
		mark := ""
		if ok {
			sugStr = WindowStr(sug)
			if !sug.Start.Equal(dw.Window.Start) || !sug.End.Equal(dw.Window.End) {
				mark = StyleYellow.Render("moved")
			}
		}
		rows = append(rows, []string{string(dw.Department), WindowStr(dw.Window), sugStr, mark})
	}
	for _, dw := range suggested {
		if !seen[dw.Department] {
			rows = append(rows, []string{string(dw.Department), Dim("--"), WindowStr(dw.Window), StyleGreen.Render("new")})
		}
	}

	return RenderTable(headers, rows)
}

// renderDecision prints the planning ladder outcome shared by reschedule
// suggestions, alert plans, and feasibility checks.
func renderDecision(d planner.Decision) string {
	var b strings.Builder

	verdict := StyleRed.Render("✖ cannot be met")
	if d.Success {
		verdict = StyleGreen.Render("✔ workable")
	}
	b.WriteString(fmt.Sprintf("%s via %s\n", verdict, StrategyLabel(d.Strategy)))

	if d.SelectedStart != nil || d.ForecastDue != nil {
		b.WriteString(fmt.Sprintf("Start %s, finish %s\n", DatePtr(d.SelectedStart), DatePtr(d.ForecastDue)))
	}

	if len(d.Bottlenecks) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Blocking weeks") + "\n")
		b.WriteString(OverloadTable(d.Bottlenecks))
	}
	if len(d.MovesApplied) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Moves applied") + "\n")
		b.WriteString(MoveOptionTable(d.MovesApplied))
	}
	if len(d.OTRequirements) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Overtime required") + "\n")
		b.WriteString(OTTable(d.OTRequirements))
	}
	if len(d.JobShifts) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Knock-on shifts") + "\n")
		b.WriteString(jobShiftTable(d.JobShifts))
	}

	if d.Reason != "" {
		b.WriteString("\n" + StyleRed.Render(d.Reason) + "\n")
	}
	if d.Summary != "" {
		b.WriteString("\n" + Dim(d.Summary) + "\n")
	}

	return b.String()
}

func jobShiftTable(shifts []planner.JobShift) string {
	headers := []string{"JOB", "START SHIFT", "NEW DUE"}
	rows := make([][]string, 0, len(shifts))
	for _, s := range shifts {
		delta := fmt.Sprintf("+%d work days", s.DeltaDays)
		if s.DeltaDays < 0 {
			delta = StyleGreen.Render(fmt.Sprintf("%d work days", s.DeltaDays))
		} else {
			delta = StyleYellow.Render(delta)
		}
		due := Dim("unchanged")
		if !s.NewDue.IsZero() {
			due = DateStr(s.NewDue)
		}
		rows = append(rows, []string{Bold(s.JobNumber), delta, due})
	}
	return RenderTable(headers, rows)
}
