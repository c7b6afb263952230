package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for backlog import.
type ImportSchema struct {
	Jobs   []JobImport   `json:"jobs"`
	Alerts []AlertImport `json:"alerts,omitempty"`
}

// JobImport defines one work order in the import file.
type JobImport struct {
	// Ref is an optional file-local handle for alert back-references;
	// alerts may also reference the job_number directly.
	Ref           string         `json:"ref,omitempty"`
	JobNumber     string         `json:"job_number"`
	Name          string         `json:"name,omitempty"`
	SalesOrder    string         `json:"sales_order,omitempty"`
	ProductType   string         `json:"product_type,omitempty"`
	Points        float64        `json:"points"`
	DueDate       string         `json:"due_date"`
	CurrentDept   string         `json:"current_department,omitempty"`
	Status        string         `json:"status,omitempty"`
	Priorities    map[string]int `json:"priorities,omitempty"`
	NoGaps        bool           `json:"no_gaps,omitempty"`
	Skipped       []string       `json:"skipped_departments,omitempty"`
	EarliestStart *string        `json:"earliest_start,omitempty"`
}

// AlertImport defines a supervisor alert in the import file.
type AlertImport struct {
	JobRef              string `json:"job_ref"`
	Department          string `json:"department"`
	Reason              string `json:"reason,omitempty"`
	EstimatedResolution string `json:"estimated_resolution"`
}

// LoadImportSchema reads and parses a backlog import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
