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

// alertColumns is the canonical SELECT column list for alerts.
const alertColumns = `id, job_id, department, reason, estimated_resolution,
		status, created_at, updated_at`

// SQLiteAlertRepo implements AlertRepo using a SQLite database.
type SQLiteAlertRepo struct {
	db db.DBTX
}

// NewSQLiteAlertRepo creates a repo bound to conn, which may be a *sql.DB
// or a transaction handed out by UnitOfWork.WithinTx.
func NewSQLiteAlertRepo(conn db.DBTX) *SQLiteAlertRepo {
	return &SQLiteAlertRepo{db: conn}
}

func (r *SQLiteAlertRepo) Create(ctx context.Context, a *domain.SupervisorAlert) error {
	query := `INSERT INTO alerts (id, job_id, department, reason, estimated_resolution,
		status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.JobID,
		string(a.Department),
		a.Reason,
		a.EstimatedResolution.Format(dateLayout),
		string(a.Status),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return nil
}

func (r *SQLiteAlertRepo) GetByID(ctx context.Context, id string) (*domain.SupervisorAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("alert: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning alert: %w", err)
	}
	return a, nil
}

func (r *SQLiteAlertRepo) List(ctx context.Context) ([]*domain.SupervisorAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *SQLiteAlertRepo) ListActive(ctx context.Context) ([]*domain.SupervisorAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE status = 'ACTIVE' ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *SQLiteAlertRepo) ListByJob(ctx context.Context, jobID string) ([]*domain.SupervisorAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE job_id = ? ORDER BY created_at`
	return r.list(ctx, query, jobID)
}

func (r *SQLiteAlertRepo) Update(ctx context.Context, a *domain.SupervisorAlert) error {
	query := `UPDATE alerts SET department = ?, reason = ?, estimated_resolution = ?,
		status = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(a.Department),
		a.Reason,
		a.EstimatedResolution.Format(dateLayout),
		string(a.Status),
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating alert: %w", err)
	}
	return nil
}

func (r *SQLiteAlertRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM alerts WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting alert: %w", err)
	}
	return nil
}

func (r *SQLiteAlertRepo) list(ctx context.Context, query string, args ...any) ([]*domain.SupervisorAlert, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.SupervisorAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alerts: %w", err)
	}
	return alerts, nil
}

func scanAlert(s scanner) (*domain.SupervisorAlert, error) {
	var a domain.SupervisorAlert
	var dept, statusStr string
	var resolutionStr, createdAtStr, updatedAtStr string

	err := s.Scan(
		&a.ID, &a.JobID, &dept, &a.Reason, &resolutionStr,
		&statusStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	a.Department = domain.Department(dept)
	a.Status = domain.AlertStatus(statusStr)

	var parseErr error
	a.EstimatedResolution, parseErr = time.Parse(dateLayout, resolutionStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing estimated_resolution: %w", parseErr)
	}
	a.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	a.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &a, nil
}
