package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/averyhollis/fabline/internal/db"
	"github.com/averyhollis/fabline/internal/domain"
)

const dateLayout = "2006-01-02"

// jobColumns is the canonical SELECT column list for jobs.
const jobColumns = `id, job_number, name, sales_order, product_type, points,
		due_date, current_dept, status, priorities, no_gaps, skipped,
		earliest_start, created_at, updated_at`

// SQLiteJobRepo implements JobRepo using a SQLite database.
type SQLiteJobRepo struct {
	db db.DBTX
}

// NewSQLiteJobRepo creates a repo bound to conn, which may be a *sql.DB or
// a transaction handed out by UnitOfWork.WithinTx.
func NewSQLiteJobRepo(conn db.DBTX) *SQLiteJobRepo {
	return &SQLiteJobRepo{db: conn}
}

func (r *SQLiteJobRepo) Create(ctx context.Context, j *domain.Job) error {
	priorities, err := encodePriorities(j.PriorityByDept)
	if err != nil {
		return err
	}
	skipped, err := encodeDepartments(j.Skipped)
	if err != nil {
		return err
	}
	query := `INSERT INTO jobs (id, job_number, name, sales_order, product_type, points,
		due_date, current_dept, status, priorities, no_gaps, skipped,
		earliest_start, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		j.ID,
		j.JobNumber,
		j.Name,
		j.SalesOrder,
		j.ProductType,
		j.Points,
		j.DueDate.Format(dateLayout),
		string(j.CurrentDept),
		string(j.Status),
		priorities,
		boolToInt(j.NoGaps),
		skipped,
		nullableTimeToString(j.EarliestStart, dateLayout),
		j.CreatedAt.Format(time.RFC3339),
		j.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

func (r *SQLiteJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	return j, nil
}

// GetByNumber looks a job up by its work order number, case-insensitively.
func (r *SQLiteJobRepo) GetByNumber(ctx context.Context, number string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE UPPER(job_number) = UPPER(?)`
	row := r.db.QueryRowContext(ctx, query, number)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	return j, nil
}

func (r *SQLiteJobRepo) List(ctx context.Context, includeCompleted bool) ([]*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	if !includeCompleted {
		query += ` WHERE status != 'COMPLETED'`
	}
	query += ` ORDER BY due_date, job_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

func (r *SQLiteJobRepo) Update(ctx context.Context, j *domain.Job) error {
	priorities, err := encodePriorities(j.PriorityByDept)
	if err != nil {
		return err
	}
	skipped, err := encodeDepartments(j.Skipped)
	if err != nil {
		return err
	}
	query := `UPDATE jobs SET job_number = ?, name = ?, sales_order = ?, product_type = ?,
		points = ?, due_date = ?, current_dept = ?, status = ?, priorities = ?,
		no_gaps = ?, skipped = ?, earliest_start = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		j.JobNumber,
		j.Name,
		j.SalesOrder,
		j.ProductType,
		j.Points,
		j.DueDate.Format(dateLayout),
		string(j.CurrentDept),
		string(j.Status),
		priorities,
		boolToInt(j.NoGaps),
		skipped,
		nullableTimeToString(j.EarliestStart, dateLayout),
		j.UpdatedAt.Format(time.RFC3339),
		j.ID,
	)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	return nil
}

func (r *SQLiteJobRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM jobs WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows so one populate path serves both.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*domain.Job, error) {
	var j domain.Job
	var dueDateStr, currentDept, statusStr string
	var prioritiesStr, skippedStr string
	var createdAtStr, updatedAtStr string
	var earliestStr sql.NullString
	var noGaps int

	err := s.Scan(
		&j.ID, &j.JobNumber, &j.Name, &j.SalesOrder, &j.ProductType, &j.Points,
		&dueDateStr, &currentDept, &statusStr, &prioritiesStr, &noGaps, &skippedStr,
		&earliestStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	j.CurrentDept = domain.Department(currentDept)
	j.Status = domain.JobStatus(statusStr)
	j.NoGaps = intToBool(noGaps)
	j.EarliestStart = parseNullableTime(earliestStr, dateLayout)

	var parseErr error
	j.DueDate, parseErr = time.Parse(dateLayout, dueDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing due_date: %w", parseErr)
	}
	j.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	j.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	j.PriorityByDept, parseErr = decodePriorities(prioritiesStr)
	if parseErr != nil {
		return nil, parseErr
	}
	j.Skipped, parseErr = decodeDepartments(skippedStr)
	if parseErr != nil {
		return nil, parseErr
	}

	return &j, nil
}
