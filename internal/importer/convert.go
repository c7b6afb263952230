package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/averyhollis/fabline/internal/domain"
)

// Backlog holds the converted import: the work orders plus the supervisor
// alerts that reference them.
type Backlog struct {
	Jobs   []domain.Job
	Alerts []domain.SupervisorAlert
}

// Convert transforms a validated ImportSchema into domain objects ready for
// persistence. Call ValidateImportSchema first; Convert assumes the schema
// is valid.
func Convert(schema *ImportSchema) (*Backlog, error) {
	now := time.Now().UTC()

	refMap := make(map[string]string) // ref or job_number -> job ID

	jobs := make([]domain.Job, 0, len(schema.Jobs))
	for _, j := range schema.Jobs {
		due, err := time.Parse("2006-01-02", j.DueDate)
		if err != nil {
			return nil, fmt.Errorf("parsing due_date for %q: %w", j.JobNumber, err)
		}

		id := uuid.New().String()
		refMap[j.JobNumber] = id
		if j.Ref != "" {
			refMap[j.Ref] = id
		}

		status := j.Status
		if status == "" {
			status = string(domain.JobPending)
		}

		var priorities map[domain.Department]int
		if len(j.Priorities) > 0 {
			priorities = make(map[domain.Department]int, len(j.Priorities))
			for dept, rank := range j.Priorities {
				priorities[domain.Department(dept)] = rank
			}
		}

		skipped := make([]domain.Department, 0, len(j.Skipped))
		for _, s := range j.Skipped {
			skipped = append(skipped, domain.Department(s))
		}
		if len(skipped) == 0 {
			skipped = nil
		}

		jobs = append(jobs, domain.Job{
			ID:             id,
			JobNumber:      j.JobNumber,
			Name:           j.Name,
			SalesOrder:     j.SalesOrder,
			ProductType:    j.ProductType,
			Points:         j.Points,
			DueDate:        due,
			CurrentDept:    domain.Department(j.CurrentDept),
			Status:         domain.JobStatus(status),
			PriorityByDept: priorities,
			NoGaps:         j.NoGaps,
			Skipped:        skipped,
			EarliestStart:  parseOptionalDate(j.EarliestStart),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	alerts := make([]domain.SupervisorAlert, 0, len(schema.Alerts))
	for _, a := range schema.Alerts {
		jobID, ok := refMap[a.JobRef]
		if !ok {
			return nil, fmt.Errorf("job_ref %q not found for alert", a.JobRef)
		}
		resolution, err := time.Parse("2006-01-02", a.EstimatedResolution)
		if err != nil {
			return nil, fmt.Errorf("parsing estimated_resolution for alert on %q: %w", a.JobRef, err)
		}
		alerts = append(alerts, domain.SupervisorAlert{
			ID:                  uuid.New().String(),
			JobID:               jobID,
			Department:          domain.Department(a.Department),
			Reason:              a.Reason,
			EstimatedResolution: resolution,
			Status:              domain.AlertActive,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}
	if len(alerts) == 0 {
		alerts = nil
	}

	return &Backlog{Jobs: jobs, Alerts: alerts}, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
