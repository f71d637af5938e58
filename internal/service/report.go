package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// ReportService runs one progress report batch: per course batch it flattens
// the hierarchy, derives completion percentages, aggregates assessment
// scores, pivots everything into wide rows, attaches enrollment metadata and
// hands the table to the writer. Failures are scoped per course: one bad
// course never aborts its siblings.
type ReportService struct {
	hierarchyRepo  HierarchyRepository
	counterRepo    CounterRepository
	attemptRepo    AttemptRepository
	enrollmentRepo EnrollmentRepository
	runRepo        RunRepository
	writer         ReportWriter

	flattener  *HierarchyFlattener
	completion *CompletionCalculator
	scores     *ScoreAggregator
	pivot      *PivotBuilder

	logger *zap.Logger
}

func NewReportService(
	hierarchyRepo HierarchyRepository,
	counterRepo CounterRepository,
	attemptRepo AttemptRepository,
	enrollmentRepo EnrollmentRepository,
	runRepo RunRepository,
	writer ReportWriter,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		hierarchyRepo:  hierarchyRepo,
		counterRepo:    counterRepo,
		attemptRepo:    attemptRepo,
		enrollmentRepo: enrollmentRepo,
		runRepo:        runRepo,
		writer:         writer,
		flattener:      NewHierarchyFlattener(),
		completion:     NewCompletionCalculator(logger),
		scores:         NewScoreAggregator(logger),
		pivot:          NewPivotBuilder(logger),
		logger:         logger,
	}
}

// Run executes one full report run over every course batch the enrollment
// store knows about and returns the run summary.
func (s *ReportService) Run(ctx context.Context) (entities.RunSummary, error) {
	run := entities.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	batches, err := s.enrollmentRepo.ListBatches(ctx)
	if err != nil {
		return run, fmt.Errorf("list course batches: %w", err)
	}
	run.CoursesTotal = len(batches)

	s.logger.Info("report run started",
		zap.String("run_id", run.RunID),
		zap.Int("course_batches", len(batches)),
	)

	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		emitted, dropped, err := s.processBatch(ctx, batch)
		if err != nil {
			run.CoursesFailed++
			s.logger.Error("course batch failed",
				zap.String("run_id", run.RunID),
				zap.String("course_id", batch.CourseID),
				zap.String("batch_id", batch.BatchID),
				zap.Error(err),
			)
			continue
		}
		run.RowsEmitted += emitted
		run.LearnersDropped += dropped
	}

	run.FinishedAt = time.Now().UTC()

	if s.runRepo != nil {
		if err := s.runRepo.SaveRun(ctx, run); err != nil {
			s.logger.Error("failed to persist run summary",
				zap.String("run_id", run.RunID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("report run finished",
		zap.String("run_id", run.RunID),
		zap.Int("courses_total", run.CoursesTotal),
		zap.Int("courses_failed", run.CoursesFailed),
		zap.Int("rows_emitted", run.RowsEmitted),
		zap.Int("learners_dropped", run.LearnersDropped),
		zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)),
	)

	return run, nil
}

// processBatch produces the wide report table for a single course batch.
func (s *ReportService) processBatch(ctx context.Context, batch entities.CourseBatch) (emitted, dropped int, err error) {
	root, err := s.hierarchyRepo.Get(ctx, batch.CourseID)
	if err != nil {
		return 0, 0, fmt.Errorf("load hierarchy: %w", err)
	}
	flat := s.flattener.Flatten(root)

	enrollments, err := s.enrollmentRepo.ListByBatch(ctx, batch.CourseID, batch.BatchID)
	if err != nil {
		return 0, 0, fmt.Errorf("list enrollments: %w", err)
	}

	progressRows, err := s.buildProgressRows(ctx, batch, flat, enrollments)
	if err != nil {
		return 0, 0, err
	}

	attempts, err := s.attemptRepo.ListByBatch(ctx, batch.CourseID, batch.BatchID)
	if err != nil {
		return 0, 0, fmt.Errorf("list attempts: %w", err)
	}
	scoreRows := s.scores.Aggregate(attempts)

	result := s.pivot.Pivot(progressRows, scoreRows)
	dropped = result.Dropped

	rows, droppedByEnrollment := s.attachEnrollments(batch, result.Rows, enrollments)
	dropped += droppedByEnrollment

	if len(rows) == 0 {
		s.logger.Info("no report rows for course batch",
			zap.String("course_id", batch.CourseID),
			zap.String("batch_id", batch.BatchID),
		)
		return 0, dropped, nil
	}

	path, err := s.writer.Write(batch.CourseID, batch.BatchID, rows)
	if err != nil {
		return 0, dropped, fmt.Errorf("write report: %w", err)
	}

	s.logger.Info("course batch report written",
		zap.String("course_id", batch.CourseID),
		zap.String("batch_id", batch.BatchID),
		zap.Int("rows", len(rows)),
		zap.String("path", path),
	)

	return len(rows), dropped, nil
}

// buildProgressRows joins the flattened leaf counts against each enrolled
// learner's activity counters. A course without modules yields a single row
// per learner with an empty module id.
func (s *ReportService) buildProgressRows(
	ctx context.Context,
	batch entities.CourseBatch,
	flat entities.FlattenedCourse,
	enrollments []entities.Enrollment,
) ([]entities.ProgressRow, error) {
	courseLeaves := leafCountInt(flat.LeafCount)

	activityIDs := make([]string, 0, len(flat.Modules)+1)
	activityIDs = append(activityIDs, batch.CourseID)
	for _, module := range flat.Modules {
		activityIDs = append(activityIDs, module.ID)
	}

	rows := make([]entities.ProgressRow, 0, len(enrollments))
	for _, enr := range enrollments {
		counts, err := s.counterRepo.CompletedCounts(ctx, batch.BatchID, enr.LearnerID, activityIDs)
		if err != nil {
			return nil, fmt.Errorf("completed counts for learner %s: %w", enr.LearnerID, err)
		}

		completionPct := s.completion.Percent(counts[batch.CourseID], courseLeaves)

		if len(flat.Modules) == 0 {
			rows = append(rows, entities.ProgressRow{
				CourseID:      batch.CourseID,
				BatchID:       batch.BatchID,
				LearnerID:     enr.LearnerID,
				CompletionPct: completionPct,
			})
			continue
		}

		for _, module := range flat.Modules {
			rows = append(rows, entities.ProgressRow{
				CourseID:      batch.CourseID,
				BatchID:       batch.BatchID,
				LearnerID:     enr.LearnerID,
				CompletionPct: completionPct,
				ModuleID:      module.ID,
				ModulePct:     s.completion.Percent(counts[module.ID], leafCountInt(module.LeafCount)),
			})
		}
	}

	return rows, nil
}

// attachEnrollments inner-joins pivoted rows with enrollment metadata and
// lays out the final rows: fixed columns in report order first, dynamic
// columns after.
func (s *ReportService) attachEnrollments(
	batch entities.CourseBatch,
	pivoted []*entities.WideRow,
	enrollments []entities.Enrollment,
) ([]*entities.WideRow, int) {
	byLearner := make(map[string]entities.Enrollment, len(enrollments))
	for _, enr := range enrollments {
		byLearner[enr.LearnerID] = enr
	}

	dropped := 0
	rows := make([]*entities.WideRow, 0, len(pivoted))
	for _, row := range pivoted {
		enr, ok := byLearner[row.LearnerID]
		if !ok {
			dropped++
			s.logger.Warn("pivoted learner missing enrollment",
				zap.String("course_id", batch.CourseID),
				zap.String("batch_id", batch.BatchID),
				zap.String("learner_id", row.LearnerID),
			)
			continue
		}

		final := entities.NewWideRow(row.CourseID, row.BatchID, row.LearnerID)
		final.Set(entities.ColBatchID, enr.BatchID)
		final.Set(entities.ColBatchName, enr.BatchName)
		final.Set(entities.ColCollectionID, enr.CourseID)
		final.Set(entities.ColCollectionName, enr.CourseName)
		final.Set(entities.ColUserUUID, enr.LearnerID)
		final.Set(entities.ColUserName, enr.UserName)
		final.Set(entities.ColState, enr.State)
		final.Set(entities.ColDistrict, enr.District)
		final.Set(entities.ColEnrolmentDate, enr.EnrolledDate)
		final.Set(entities.ColCompletionDate, enr.CompletedDate)
		final.Set(entities.ColCertificateStatus, enr.CertificateStatus)
		final.Set(entities.ColProgress, row.Value(entities.ColProgress))
		final.Set(entities.ColTotalScore, row.Value(entities.ColTotalScore))
		for _, col := range row.Columns() {
			if col == entities.ColProgress || col == entities.ColTotalScore {
				continue
			}
			final.Set(col, row.Value(col))
		}
		rows = append(rows, final)
	}

	return rows, dropped
}

// leafCountInt parses a string-encoded leaf count, treating anything
// unparseable as zero.
func leafCountInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
