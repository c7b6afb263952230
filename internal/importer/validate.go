package importer

import (
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema, pipeline domain.Pipeline) []error {
	var errs []error

	jobRefs := make(map[string]string) // ref or job_number -> status
	errs = append(errs, validateJobs(schema.Jobs, pipeline, jobRefs)...)
	errs = append(errs, validateAlerts(schema.Alerts, pipeline, jobRefs)...)

	return errs
}

func validateJobs(jobs []JobImport, pipeline domain.Pipeline, jobRefs map[string]string) []error {
	var errs []error

	if len(jobs) == 0 {
		errs = append(errs, fmt.Errorf("jobs: at least one job is required"))
	}

	for i, j := range jobs {
		prefix := fmt.Sprintf("jobs[%d]", i)

		if j.JobNumber == "" {
			errs = append(errs, fmt.Errorf("%s.job_number is required", prefix))
		} else if _, dup := jobRefs[j.JobNumber]; dup {
			errs = append(errs, fmt.Errorf("%s.job_number: duplicate %q", prefix, j.JobNumber))
		} else {
			jobRefs[j.JobNumber] = j.Status
		}
		if j.Ref != "" && j.Ref != j.JobNumber {
			if _, dup := jobRefs[j.Ref]; dup {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate %q", prefix, j.Ref))
			} else {
				jobRefs[j.Ref] = j.Status
			}
		}

		if j.Points <= 0 {
			errs = append(errs, fmt.Errorf("%s.points must be positive", prefix))
		}

		if j.DueDate == "" {
			errs = append(errs, fmt.Errorf("%s.due_date is required", prefix))
		} else if _, err := time.Parse("2006-01-02", j.DueDate); err != nil {
			errs = append(errs, fmt.Errorf("%s.due_date: invalid date format %q (expected YYYY-MM-DD)", prefix, j.DueDate))
		}

		if j.Status != "" && !domain.ValidJobStatuses[j.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, j.Status))
		}

		if j.CurrentDept != "" && !pipeline.Contains(domain.Department(j.CurrentDept)) {
			errs = append(errs, fmt.Errorf("%s.current_department: %q is not in the pipeline", prefix, j.CurrentDept))
		}
		if j.Status == string(domain.JobInProgress) && j.CurrentDept == "" {
			errs = append(errs, fmt.Errorf("%s: in-progress jobs must name a current_department", prefix))
		}

		skipped := make(map[string]bool, len(j.Skipped))
		for _, s := range j.Skipped {
			if !pipeline.Contains(domain.Department(s)) {
				errs = append(errs, fmt.Errorf("%s.skipped_departments: %q is not in the pipeline", prefix, s))
				continue
			}
			if skipped[s] {
				errs = append(errs, fmt.Errorf("%s.skipped_departments: %q listed twice", prefix, s))
			}
			skipped[s] = true
		}
		if len(skipped) >= pipeline.Len() {
			errs = append(errs, fmt.Errorf("%s: cannot skip every department", prefix))
		}
		if j.CurrentDept != "" && skipped[j.CurrentDept] {
			errs = append(errs, fmt.Errorf("%s: current_department %q cannot also be skipped", prefix, j.CurrentDept))
		}

		for dept := range j.Priorities {
			if !pipeline.Contains(domain.Department(dept)) {
				errs = append(errs, fmt.Errorf("%s.priorities: %q is not in the pipeline", prefix, dept))
			}
		}

		if j.EarliestStart != nil && *j.EarliestStart != "" {
			if _, err := time.Parse("2006-01-02", *j.EarliestStart); err != nil {
				errs = append(errs, fmt.Errorf("%s.earliest_start: invalid date format %q (expected YYYY-MM-DD)", prefix, *j.EarliestStart))
			}
		}
	}

	return errs
}

func validateAlerts(alerts []AlertImport, pipeline domain.Pipeline, jobRefs map[string]string) []error {
	var errs []error

	for i, a := range alerts {
		prefix := fmt.Sprintf("alerts[%d]", i)

		if a.JobRef == "" {
			errs = append(errs, fmt.Errorf("%s.job_ref is required", prefix))
		} else if status, ok := jobRefs[a.JobRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.job_ref: %q not found in jobs", prefix, a.JobRef))
		} else if status == string(domain.JobCompleted) {
			errs = append(errs, fmt.Errorf("%s.job_ref: job %q is completed and cannot be blocked", prefix, a.JobRef))
		}

		if a.Department == "" {
			errs = append(errs, fmt.Errorf("%s.department is required", prefix))
		} else if !pipeline.Contains(domain.Department(a.Department)) {
			errs = append(errs, fmt.Errorf("%s.department: %q is not in the pipeline", prefix, a.Department))
		}

		if a.EstimatedResolution == "" {
			errs = append(errs, fmt.Errorf("%s.estimated_resolution is required", prefix))
		} else if _, err := time.Parse("2006-01-02", a.EstimatedResolution); err != nil {
			errs = append(errs, fmt.Errorf("%s.estimated_resolution: invalid date format %q (expected YYYY-MM-DD)", prefix, a.EstimatedResolution))
		}
	}

	return errs
}
