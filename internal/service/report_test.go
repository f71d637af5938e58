package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

type fakeHierarchyRepo struct {
	docs map[string]*entities.HierarchyNode
}

func (f *fakeHierarchyRepo) Get(_ context.Context, courseID string) (*entities.HierarchyNode, error) {
	doc, ok := f.docs[courseID]
	if !ok {
		return nil, errors.New("hierarchy document not found")
	}
	return doc, nil
}

type fakeCounterRepo struct {
	// counts[batchID][learnerID][activityID]
	counts map[string]map[string]map[string]int
}

func (f *fakeCounterRepo) CompletedCounts(_ context.Context, batchID, learnerID string, activityIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(activityIDs))
	for _, id := range activityIDs {
		out[id] = f.counts[batchID][learnerID][id]
	}
	return out, nil
}

type fakeAttemptRepo struct {
	attempts map[string][]entities.AssessmentAttempt // key courseID/batchID
}

func (f *fakeAttemptRepo) ListByBatch(_ context.Context, courseID, batchID string) ([]entities.AssessmentAttempt, error) {
	return f.attempts[courseID+"/"+batchID], nil
}

type fakeEnrollmentRepo struct {
	batches     []entities.CourseBatch
	enrollments map[string][]entities.Enrollment // key courseID/batchID
}

func (f *fakeEnrollmentRepo) ListBatches(_ context.Context) ([]entities.CourseBatch, error) {
	return f.batches, nil
}

func (f *fakeEnrollmentRepo) ListByBatch(_ context.Context, courseID, batchID string) ([]entities.Enrollment, error) {
	return f.enrollments[courseID+"/"+batchID], nil
}

type fakeRunRepo struct {
	saved []entities.RunSummary
}

func (f *fakeRunRepo) SaveRun(_ context.Context, run entities.RunSummary) error {
	f.saved = append(f.saved, run)
	return nil
}

type fakeWriter struct {
	written map[string][]*entities.WideRow // key courseID/batchID
}

func (f *fakeWriter) Write(courseID, batchID string, rows []*entities.WideRow) (string, error) {
	if f.written == nil {
		f.written = make(map[string][]*entities.WideRow)
	}
	f.written[courseID+"/"+batchID] = rows
	return "reports/report-" + courseID + "-" + batchID + ".csv", nil
}

func enrollment(learner string) entities.Enrollment {
	return entities.Enrollment{
		CourseID:          "c1",
		BatchID:           "b1",
		LearnerID:         learner,
		UserName:          "Learner " + learner,
		State:             "KA",
		District:          "Bengaluru",
		EnrolledDate:      "2026-01-05",
		CompletedDate:     "",
		CertificateStatus: "N",
		CourseName:        "Algebra Basics",
		BatchName:         "Batch One",
	}
}

func newRunFixture() (*ReportService, *fakeWriter, *fakeRunRepo) {
	four := 4
	ten := 10
	hierarchy := &fakeHierarchyRepo{docs: map[string]*entities.HierarchyNode{
		"c1": {
			Identifier:     "c1",
			MimeType:       entities.CollectionMimeType,
			Visibility:     entities.DefaultVisibility,
			ContentType:    "Course",
			LeafNodesCount: &ten,
			Children: []*entities.HierarchyNode{
				{
					Identifier:     "m1",
					MimeType:       entities.CollectionMimeType,
					Visibility:     entities.DefaultVisibility,
					ContentType:    "Course",
					LeafNodesCount: &four,
				},
			},
		},
	}}

	counters := &fakeCounterRepo{counts: map[string]map[string]map[string]int{
		"b1": {
			"u1": {"c1": 5, "m1": 4},
		},
	}}

	attempts := &fakeAttemptRepo{attempts: map[string][]entities.AssessmentAttempt{
		"c1/b1": {
			attempt("u1", "content-a", "a1", 5, 5, "5/5"),
			attempt("u1", "content-b", "a2", 3, 5, "3/5"),
			// u3 has scores but no enrollment: must be dropped, not crash.
			attempt("u3", "content-a", "a3", 2, 5, "2/5"),
		},
	}}

	enrollments := &fakeEnrollmentRepo{
		batches: []entities.CourseBatch{
			{CourseID: "c1", BatchID: "b1"},
			{CourseID: "missing-course", BatchID: "b2"},
		},
		enrollments: map[string][]entities.Enrollment{
			"c1/b1": {enrollment("u1")},
		},
	}

	writer := &fakeWriter{}
	runs := &fakeRunRepo{}
	svc := NewReportService(hierarchy, counters, attempts, enrollments, runs, writer, zap.NewNop())
	return svc, writer, runs
}

func TestRunProducesWideRows(t *testing.T) {
	svc, writer, _ := newRunFixture()

	run, err := svc.Run(context.Background())
	require.NoError(t, err)

	rows := writer.written["c1/b1"]
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "b1", row.Value(entities.ColBatchID))
	assert.Equal(t, "Batch One", row.Value(entities.ColBatchName))
	assert.Equal(t, "c1", row.Value(entities.ColCollectionID))
	assert.Equal(t, "Algebra Basics", row.Value(entities.ColCollectionName))
	assert.Equal(t, "u1", row.Value(entities.ColUserUUID))
	assert.Equal(t, "Learner u1", row.Value(entities.ColUserName))
	assert.Equal(t, "50", row.Value(entities.ColProgress))
	assert.Equal(t, "80%", row.Value(entities.ColTotalScore))
	assert.Equal(t, "100", row.Value("m1 - Progress"))
	assert.Equal(t, "100", row.Value("content-a - Score"))
	assert.Equal(t, "60", row.Value("content-b - Score"))

	assert.Equal(t, 1, run.RowsEmitted)
}

func TestRunScopesFailuresPerCourse(t *testing.T) {
	svc, writer, runs := newRunFixture()

	run, err := svc.Run(context.Background())
	require.NoError(t, err)

	// The course with the missing hierarchy fails alone; c1 still reports.
	assert.Equal(t, 2, run.CoursesTotal)
	assert.Equal(t, 1, run.CoursesFailed)
	assert.Len(t, writer.written, 1)

	require.Len(t, runs.saved, 1)
	assert.Equal(t, run.RunID, runs.saved[0].RunID)
	assert.NotEmpty(t, run.RunID)
}

func TestRunCountsDroppedLearners(t *testing.T) {
	svc, _, _ := newRunFixture()

	run, err := svc.Run(context.Background())
	require.NoError(t, err)

	// u3 attempted assessments without progress data (not enrolled).
	assert.Equal(t, 1, run.LearnersDropped)
}

func TestRunCancelledContext(t *testing.T) {
	svc, _, _ := newRunFixture()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
