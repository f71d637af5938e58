package service

import (
	"context"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// HierarchyRepository loads course hierarchy documents from the content store.
type HierarchyRepository interface {
	Get(ctx context.Context, courseID string) (*entities.HierarchyNode, error)
}

// CounterRepository exposes completed-unit counters from the counter store.
// A missing counter reads as zero, never as an error.
type CounterRepository interface {
	CompletedCounts(ctx context.Context, batchID, learnerID string, activityIDs []string) (map[string]int, error)
}

// AttemptRepository lists raw assessment attempts for a course batch.
type AttemptRepository interface {
	ListByBatch(ctx context.Context, courseID, batchID string) ([]entities.AssessmentAttempt, error)
}

// EnrollmentRepository lists enrollments and the course batches to report on.
type EnrollmentRepository interface {
	ListBatches(ctx context.Context) ([]entities.CourseBatch, error)
	ListByBatch(ctx context.Context, courseID, batchID string) ([]entities.Enrollment, error)
}

// RunRepository persists report run summaries.
type RunRepository interface {
	SaveRun(ctx context.Context, run entities.RunSummary) error
}

// ReportWriter emits the finished wide table for one course batch and returns
// the location it was written to.
type ReportWriter interface {
	Write(courseID, batchID string, rows []*entities.WideRow) (string, error)
}
