package formatter

import (
	"fmt"
	"strings"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/quote"
)

// FormatQuote formats a quote simulation: the point conversion breakdown and
// the earliest completion the current backlog allows.
func FormatQuote(resp *contract.QuoteResponse) string {
	est := resp.Estimate
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s points at %s per point\n\n",
		Bold(PointsStr(est.Points)), Dollars(est.DollarsPerPoint)))
	b.WriteString(breakdownTable(est.Breakdown))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Earliest start  %s\n", DatePtr(est.ScheduledStart)))
	b.WriteString(fmt.Sprintf("Earliest done   %s\n", DatePtr(est.EarliestDone)))
	if est.CapacityConflict {
		b.WriteString(StyleYellow.Render("Runs through overloaded weeks; holding this date needs moves or overtime.") + "\n")
	}
	if est.Summary != "" {
		b.WriteString("\n" + Dim(est.Summary) + "\n")
	}

	return RenderBox("Quote estimate", b.String())
}

// FormatFeasibility formats a target-date check: the verdict up top, then
// whatever the planning ladder needed to get there.
func FormatFeasibility(resp *contract.FeasibilityResponse) string {
	chk := resp.Check
	var b strings.Builder

	b.WriteString(VerdictBadge(chk.Verdict) + "\n\n")
	b.WriteString(fmt.Sprintf("Target    %s\n", Bold(DateStr(chk.TargetDate))))
	b.WriteString(fmt.Sprintf("Points    %s\n", PointsStr(chk.Points)))
	b.WriteString(fmt.Sprintf("Start     %s\n", DatePtr(chk.SelectedStart)))
	b.WriteString(fmt.Sprintf("Forecast  %s\n", DatePtr(chk.ForecastDue)))

	if len(chk.Breakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Point conversion") + "\n")
		b.WriteString(breakdownTable(chk.Breakdown))
	}
	if len(chk.Bottlenecks) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Blocking weeks") + "\n")
		b.WriteString(OverloadTable(chk.Bottlenecks))
	}
	if len(chk.MoveOptions) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Moves required") + "\n")
		b.WriteString(MoveOptionTable(chk.MoveOptions))
	}
	if len(chk.OTRequirements) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Overtime required") + "\n")
		b.WriteString(OTTable(chk.OTRequirements))
	}
	if len(chk.JobShifts) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Knock-on shifts") + "\n")
		b.WriteString(jobShiftTable(chk.JobShifts))
	}

	if chk.Reason != "" {
		b.WriteString("\n" + StyleRed.Render(chk.Reason) + "\n")
	}
	if chk.Summary != "" {
		b.WriteString("\n" + Dim(chk.Summary) + "\n")
	}

	return RenderBox("Feasibility", b.String())
}

// breakdownTable renders the dollars-to-points conversion lines: big rocks
// item by item, the pro-rated remainder as one row.
func breakdownTable(lines []quote.PointLine) string {
	headers := []string{"LINE", "DOLLARS", "ITEMS", "POINTS"}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			l.Label,
			Dollars(l.Dollars),
			fmt.Sprintf("%d", l.Items),
			Bold(PointsStr(l.Points)),
		})
	}
	return Table{Headers: headers, Rows: rows, RightAlign: []int{1, 2, 3}}.Render()
}
