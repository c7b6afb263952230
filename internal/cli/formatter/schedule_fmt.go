package formatter

import (
	"fmt"
	"strings"

	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/scheduler"
)

const loadBarWidth = 12

// FormatSchedule formats a ScheduleResponse into the board table, the
// overload rollup, and any warnings.
func FormatSchedule(resp *contract.ScheduleResponse) string {
	var b strings.Builder

	if len(resp.Jobs) == 0 {
		b.WriteString(Dim("The backlog is empty. Add jobs with `fabline jobs add` or import a file.") + "\n")
	} else {
		b.WriteString(scheduleTable(resp.Jobs))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s, %s points on the books, %d late\n",
			Plural(len(resp.Jobs), "job"), PointsStr(resp.TotalPoints), resp.LateCount))
	}

	if len(resp.Overloads) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Overloaded weeks") + "\n")
		b.WriteString(OverloadTable(resp.Overloads))
	}

	if len(resp.Conflicts) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleRed.Render(fmt.Sprintf("%s could not be placed cleanly", Plural(len(resp.Conflicts), "job"))) + "\n")
	}

	for _, w := range resp.Warnings {
		b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
	}

	return RenderBox("Schedule — "+DateStr(resp.Today), b.String())
}

func scheduleTable(jobs []contract.JobScheduleView) string {
	headers := []string{"JOB", "NAME", "PTS", "DUE", "START", "FINISH", "STATUS", ""}
	rows := make([][]string, 0, len(jobs))

	for _, j := range jobs {
		rows = append(rows, []string{
			Bold(j.JobNumber),
			Truncate(j.Name, 28),
			PointsStr(j.Points),
			DueStr(j.DueDate, j.Late, j.DaysLate),
			DatePtr(j.ScheduledStart),
			DatePtr(j.ForecastDue),
			StatusPill(j.Status),
			scheduleFlags(j),
		})
	}

	return Table{Headers: headers, Rows: rows, RightAlign: []int{2}}.Render()
}

// scheduleFlags builds the trailing annotation column: placement conflicts
// and floor progress for running jobs.
func scheduleFlags(j contract.JobScheduleView) string {
	var flags []string
	if j.Conflict {
		flags = append(flags, StyleRed.Render("conflict"))
	}
	if j.Status == domain.JobInProgress && j.Progress != "" {
		flags = append(flags, ProgressPill(j.Progress))
	}
	return strings.Join(flags, " ")
}

// OverloadTable renders overloaded department-weeks with a load bar.
func OverloadTable(overloads []scheduler.Overload) string {
	headers := []string{"DEPT", "WEEK", "LOAD", "BUDGET", "OVER", ""}
	rows := make([][]string, 0, len(overloads))
	for _, o := range overloads {
		rows = append(rows, []string{
			string(o.Department),
			o.Week,
			PointsStr(o.Load),
			PointsStr(o.Budget),
			StyleRed.Render("+" + PointsStr(o.Excess)),
			RenderLoadBar(o.Load, o.Budget, loadBarWidth),
		})
	}
	return Table{Headers: headers, Rows: rows, RightAlign: []int{2, 3, 4}}.Render()
}
