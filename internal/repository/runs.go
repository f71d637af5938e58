package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// RunRepository persists report run summaries for auditability.
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository with the provided database
// pool.
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun inserts one completed run summary.
func (r *RunRepository) SaveRun(ctx context.Context, run entities.RunSummary) error {
	query := `
		INSERT INTO report_runs (
			id, started_at, finished_at, courses_total, courses_failed,
			rows_emitted, learners_dropped
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		run.RunID,
		run.StartedAt,
		run.FinishedAt,
		run.CoursesTotal,
		run.CoursesFailed,
		run.RowsEmitted,
		run.LearnersDropped,
	)
	if err != nil {
		return fmt.Errorf("save run summary: %w", err)
	}

	return nil
}
