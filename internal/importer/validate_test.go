package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/averyhollis/fabline/internal/domain"
)

func ptrStr(s string) *string { return &s }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Jobs: []JobImport{
			{JobNumber: "WO-1001", Points: 80, DueDate: "2026-03-06"},
		},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	errs := ValidateImportSchema(validMinimalSchema(), domain.DefaultPipeline())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	schema := &ImportSchema{
		Jobs: []JobImport{
			{
				Ref:         "panel",
				JobNumber:   "WO-1001",
				Name:        "control panel",
				SalesOrder:  "SO-500",
				ProductType: "enclosure",
				Points:      120,
				DueDate:     "2026-03-13",
				CurrentDept: "Welding",
				Status:      "IN_PROGRESS",
				Priorities:  map[string]int{"Welding": 1},
				Skipped:     []string{"Polishing"},
			},
			{
				JobNumber:     "WO-1002",
				Points:        60,
				DueDate:       "2026-03-20",
				NoGaps:        true,
				EarliestStart: ptrStr("2026-03-09"),
			},
		},
		Alerts: []AlertImport{
			{JobRef: "panel", Department: "Welding", Reason: "fixture cracked", EstimatedResolution: "2026-03-04"},
		},
	}
	errs := ValidateImportSchema(schema, domain.DefaultPipeline())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_JobErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *ImportSchema)
		wantMsg string
	}{
		{"missing job_number", func(s *ImportSchema) { s.Jobs[0].JobNumber = "" }, "jobs[0].job_number is required"},
		{"zero points", func(s *ImportSchema) { s.Jobs[0].Points = 0 }, "jobs[0].points must be positive"},
		{"negative points", func(s *ImportSchema) { s.Jobs[0].Points = -5 }, "jobs[0].points must be positive"},
		{"missing due_date", func(s *ImportSchema) { s.Jobs[0].DueDate = "" }, "jobs[0].due_date is required"},
		{"bad due_date", func(s *ImportSchema) { s.Jobs[0].DueDate = "03/06/2026" }, "invalid date format"},
		{"bad status", func(s *ImportSchema) { s.Jobs[0].Status = "WAITING" }, `status: invalid value "WAITING"`},
		{"unknown department", func(s *ImportSchema) { s.Jobs[0].CurrentDept = "Paintshop" }, `"Paintshop" is not in the pipeline`},
		{"in progress without dept", func(s *ImportSchema) { s.Jobs[0].Status = "IN_PROGRESS" }, "must name a current_department"},
		{"unknown skipped dept", func(s *ImportSchema) { s.Jobs[0].Skipped = []string{"Paintshop"} }, `skipped_departments: "Paintshop" is not in the pipeline`},
		{"bad earliest_start", func(s *ImportSchema) { s.Jobs[0].EarliestStart = ptrStr("soon") }, "earliest_start: invalid date format"},
		{"unknown priority dept", func(s *ImportSchema) { s.Jobs[0].Priorities = map[string]int{"Paintshop": 1} }, `priorities: "Paintshop" is not in the pipeline`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validMinimalSchema()
			tc.mutate(s)
			errs := ValidateImportSchema(s, domain.DefaultPipeline())
			assert.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tc.wantMsg)
		})
	}
}

func TestValidateImportSchema_EmptyJobs(t *testing.T) {
	errs := ValidateImportSchema(&ImportSchema{}, domain.DefaultPipeline())
	assert.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "at least one job is required")
}

func TestValidateImportSchema_DuplicateJobNumber(t *testing.T) {
	s := validMinimalSchema()
	s.Jobs = append(s.Jobs, JobImport{JobNumber: "WO-1001", Points: 40, DueDate: "2026-03-13"})

	errs := ValidateImportSchema(s, domain.DefaultPipeline())
	assert.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), `jobs[1].job_number: duplicate "WO-1001"`)
}

func TestValidateImportSchema_SkipEveryDepartment(t *testing.T) {
	pipeline, err := domain.NewPipeline([]domain.Department{"Engineering", "Welding"})
	assert.NoError(t, err)

	s := validMinimalSchema()
	s.Jobs[0].Skipped = []string{"Engineering", "Welding"}

	errs := ValidateImportSchema(s, pipeline)
	assert.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "cannot skip every department")
}

func TestValidateImportSchema_SkippedCurrentDepartment(t *testing.T) {
	s := validMinimalSchema()
	s.Jobs[0].Status = "IN_PROGRESS"
	s.Jobs[0].CurrentDept = "Welding"
	s.Jobs[0].Skipped = []string{"Welding"}

	errs := ValidateImportSchema(s, domain.DefaultPipeline())
	assert.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), `current_department "Welding" cannot also be skipped`)
}

func TestValidateImportSchema_AlertErrors(t *testing.T) {
	base := func() *ImportSchema {
		s := validMinimalSchema()
		s.Alerts = []AlertImport{
			{JobRef: "WO-1001", Department: "Welding", EstimatedResolution: "2026-03-04"},
		}
		return s
	}

	tests := []struct {
		name    string
		mutate  func(s *ImportSchema)
		wantMsg string
	}{
		{"missing job_ref", func(s *ImportSchema) { s.Alerts[0].JobRef = "" }, "alerts[0].job_ref is required"},
		{"unknown job_ref", func(s *ImportSchema) { s.Alerts[0].JobRef = "WO-9999" }, `"WO-9999" not found in jobs`},
		{"missing department", func(s *ImportSchema) { s.Alerts[0].Department = "" }, "alerts[0].department is required"},
		{"unknown department", func(s *ImportSchema) { s.Alerts[0].Department = "Paintshop" }, `"Paintshop" is not in the pipeline`},
		{"missing resolution", func(s *ImportSchema) { s.Alerts[0].EstimatedResolution = "" }, "estimated_resolution is required"},
		{"bad resolution", func(s *ImportSchema) { s.Alerts[0].EstimatedResolution = "next week" }, "invalid date format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base()
			tc.mutate(s)
			errs := ValidateImportSchema(s, domain.DefaultPipeline())
			assert.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tc.wantMsg)
		})
	}
}

func TestValidateImportSchema_AlertOnCompletedJob(t *testing.T) {
	s := validMinimalSchema()
	s.Jobs[0].Status = "COMPLETED"
	s.Alerts = []AlertImport{
		{JobRef: "WO-1001", Department: "Welding", EstimatedResolution: "2026-03-04"},
	}

	errs := ValidateImportSchema(s, domain.DefaultPipeline())
	assert.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "completed and cannot be blocked")
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	s := &ImportSchema{
		Jobs: []JobImport{
			{JobNumber: "", Points: 0, DueDate: ""},
		},
	}
	errs := ValidateImportSchema(s, domain.DefaultPipeline())
	assert.Len(t, errs, 3)
}
