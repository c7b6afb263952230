package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// encodeDepartments serializes a department list to JSON for a text column.
// An empty list becomes the empty string, not "[]".
func encodeDepartments(depts []domain.Department) (string, error) {
	if len(depts) == 0 {
		return "", nil
	}
	b, err := json.Marshal(depts)
	if err != nil {
		return "", fmt.Errorf("encoding departments: %w", err)
	}
	return string(b), nil
}

// decodeDepartments parses a JSON department list from a text column.
func decodeDepartments(s string) ([]domain.Department, error) {
	if s == "" {
		return nil, nil
	}
	var depts []domain.Department
	if err := json.Unmarshal([]byte(s), &depts); err != nil {
		return nil, fmt.Errorf("decoding departments: %w", err)
	}
	return depts, nil
}

// encodePriorities serializes a department-to-rank map to JSON for a text
// column. An empty map becomes the empty string.
func encodePriorities(p map[domain.Department]int) (string, error) {
	if len(p) == 0 {
		return "", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding priorities: %w", err)
	}
	return string(b), nil
}

// decodePriorities parses a JSON department-to-rank map from a text column.
func decodePriorities(s string) (map[domain.Department]int, error) {
	if s == "" {
		return nil, nil
	}
	var p map[domain.Department]int
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("decoding priorities: %w", err)
	}
	return p, nil
}
