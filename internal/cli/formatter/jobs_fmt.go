package formatter

import (
	"fmt"
	"strings"

	"github.com/averyhollis/fabline/internal/domain"
)

// FormatJobList formats the backlog table for `jobs list`.
func FormatJobList(jobs []*domain.Job) string {
	headers := []string{"NUMBER", "NAME", "PTS", "DUE", "DEPT", "STATUS"}
	rows := make([][]string, 0, len(jobs))

	var inProgress, onHold int
	for _, j := range jobs {
		dept := Dim("--")
		if j.CurrentDept != "" {
			dept = string(j.CurrentDept)
		}
		switch j.Status {
		case domain.JobInProgress:
			inProgress++
		case domain.JobOnHold:
			onHold++
		}
		rows = append(rows, []string{
			Bold(j.JobNumber),
			Truncate(j.Name, 32),
			PointsStr(j.Points),
			DateStr(j.DueDate),
			dept,
			StatusPill(j.Status),
		})
	}

	var b strings.Builder
	b.WriteString(Table{Headers: headers, Rows: rows, RightAlign: []int{2}}.Render())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s, %d in progress, %d on hold\n",
		Plural(len(jobs), "job"), inProgress, onHold))
	return b.String()
}

// FormatAlertList formats supervisor alerts for `alerts list`. jobNumbers
// maps job IDs to work order numbers for display.
func FormatAlertList(alerts []*domain.SupervisorAlert, jobNumbers map[string]string) string {
	headers := []string{"ID", "JOB", "DEPT", "REASON", "RESOLVES", "STATUS"}
	rows := make([][]string, 0, len(alerts))

	for _, a := range alerts {
		number := jobNumbers[a.JobID]
		if number == "" {
			number = a.JobID
		}
		status := StyleYellow.Render("● active")
		if a.Status == domain.AlertResolved {
			status = Dim("✔ resolved")
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			Bold(number),
			string(a.Department),
			Truncate(a.Reason, 40),
			DateStr(a.EstimatedResolution),
			status,
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")
	b.WriteString(Plural(len(alerts), "alert") + "\n")
	return b.String()
}
