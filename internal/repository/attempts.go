package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// AttemptRepository provides access to raw assessment attempt rows in the
// database.
type AttemptRepository struct {
	db *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository with the provided
// database pool.
func NewAttemptRepository(db *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// ListByBatch returns every attempt recorded for a course batch, across all
// learners and contents. Ordering is stable so repeated runs aggregate
// identically.
func (r *AttemptRepository) ListByBatch(ctx context.Context, courseID, batchID string) ([]entities.AssessmentAttempt, error) {
	query := `
		SELECT course_id, batch_id, content_id, attempt_id, user_id,
		       total_score, total_max_score, grand_total
		FROM assessment_attempts
		WHERE course_id = $1 AND batch_id = $2
		ORDER BY user_id, content_id, attempt_id
	`

	rows, err := r.db.Query(ctx, query, courseID, batchID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []entities.AssessmentAttempt
	for rows.Next() {
		var att entities.AssessmentAttempt
		if err := rows.Scan(
			&att.CourseID,
			&att.BatchID,
			&att.ContentID,
			&att.AttemptID,
			&att.LearnerID,
			&att.TotalScore,
			&att.TotalMaxScore,
			&att.GrandTotal,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}

	return attempts, nil
}
