package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// EnrollmentRepository provides access to course enrollment data in the
// database.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository with the
// provided database pool.
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListBatches returns the distinct (course, batch) pairs with at least one
// active enrollment; these define the scope of a report run.
func (r *EnrollmentRepository) ListBatches(ctx context.Context) ([]entities.CourseBatch, error) {
	query := `
		SELECT DISTINCT course_id, batch_id
		FROM user_enrolments
		WHERE active = true
		ORDER BY course_id, batch_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list course batches: %w", err)
	}
	defer rows.Close()

	var batches []entities.CourseBatch
	for rows.Next() {
		var cb entities.CourseBatch
		if err := rows.Scan(&cb.CourseID, &cb.BatchID); err != nil {
			return nil, fmt.Errorf("scan course batch: %w", err)
		}
		batches = append(batches, cb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course batches: %w", err)
	}

	return batches, nil
}

// ListByBatch returns the enrollment records for one course batch, including
// the learner and batch metadata the report carries through unchanged.
func (r *EnrollmentRepository) ListByBatch(ctx context.Context, courseID, batchID string) ([]entities.Enrollment, error) {
	query := `
		SELECT course_id, batch_id, user_id,
		       COALESCE(user_name, ''), COALESCE(state, ''), COALESCE(district, ''),
		       COALESCE(enrolled_date, ''), COALESCE(completed_date, ''),
		       COALESCE(certificate_status, ''), COALESCE(collection_name, ''),
		       COALESCE(batch_name, '')
		FROM user_enrolments
		WHERE course_id = $1 AND batch_id = $2 AND active = true
		ORDER BY user_id
	`

	rows, err := r.db.Query(ctx, query, courseID, batchID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []entities.Enrollment
	for rows.Next() {
		var enr entities.Enrollment
		if err := rows.Scan(
			&enr.CourseID,
			&enr.BatchID,
			&enr.LearnerID,
			&enr.UserName,
			&enr.State,
			&enr.District,
			&enr.EnrolledDate,
			&enr.CompletedDate,
			&enr.CertificateStatus,
			&enr.CourseName,
			&enr.BatchName,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}

	return enrollments, nil
}
