package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aura-academy/portal/services/task-service/internal/models"
)

type jobRunRepository struct {
	db *sql.DB
}

// NewJobRunRepository creates a new job run repository
func NewJobRunRepository(db *sql.DB) *jobRunRepository {
	return &jobRunRepository{db: db}
}

// Create inserts a job run record
func (r *jobRunRepository) Create(ctx context.Context, run *models.JobRun) error {
	query := `
		INSERT INTO job_runs (job, ` + "`status`" + `, processed, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, run.Job, run.Status, run.Processed, run.Error, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to create job run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = int(id)
	return nil
}

// GetAll retrieves a paginated list of job runs, newest first, optionally for one job
func (r *jobRunRepository) GetAll(ctx context.Context, page, count int, job string) ([]models.JobRun, error) {
	whereClause := ""
	var args []any
	if job != "" {
		whereClause = "WHERE job = ?"
		args = append(args, job)
	}

	offset := (page - 1) * count
	query := fmt.Sprintf(`
		SELECT id, job, `+"`status`"+`, processed, COALESCE(error, ''), started_at, finished_at
		FROM job_runs
		%s
		ORDER BY started_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, whereClause)
	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query job runs: %w", err)
	}
	defer rows.Close()

	runs := []models.JobRun{}
	for rows.Next() {
		var run models.JobRun
		if err := rows.Scan(&run.ID, &run.Job, &run.Status, &run.Processed, &run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return runs, nil
}
