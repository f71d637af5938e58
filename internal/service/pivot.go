package service

import (
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// PivotBuilder reshapes tall per-content score rows and per-module progress
// rows into one wide row per (course, batch, learner).
type PivotBuilder struct {
	logger *zap.Logger
}

func NewPivotBuilder(logger *zap.Logger) *PivotBuilder {
	return &PivotBuilder{logger: logger}
}

type rowKey struct {
	courseID  string
	batchID   string
	learnerID string
}

// PivotResult carries the reshaped rows plus the count of learners dropped by
// the inner join between the two inputs.
type PivotResult struct {
	Rows    []*entities.WideRow
	Dropped int
}

// Pivot builds one wide row per (course, batch, learner) present in BOTH
// inputs. Learners present in only one side are dropped, inner-join style;
// the drop count is reported so the run summary can surface the loss.
//
// Row order and column order within a row are deterministic for identical
// inputs: rows sort by key, dynamic columns keep first-observation order.
func (b *PivotBuilder) Pivot(progressRows []entities.ProgressRow, scoreRows []entities.ScoreRow) PivotResult {
	scoreSide := b.pivotScores(scoreRows)
	progressSide := b.pivotProgress(progressRows)

	keys := make([]rowKey, 0, len(progressSide))
	for key := range progressSide {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].courseID != keys[j].courseID {
			return keys[i].courseID < keys[j].courseID
		}
		if keys[i].batchID != keys[j].batchID {
			return keys[i].batchID < keys[j].batchID
		}
		return keys[i].learnerID < keys[j].learnerID
	})

	dropped := 0
	rows := make([]*entities.WideRow, 0, len(keys))
	for _, key := range keys {
		scoreRow, ok := scoreSide[key]
		if !ok {
			dropped++
			b.logDrop(key, "no score data")
			continue
		}
		progressRow := progressSide[key]

		merged := entities.NewWideRow(key.courseID, key.batchID, key.learnerID)
		merged.Set(entities.ColProgress, progressRow.Value(entities.ColProgress))
		merged.Set(entities.ColTotalScore, scoreRow.Value(entities.ColTotalScore))
		for _, col := range scoreRow.Columns() {
			if col != entities.ColTotalScore {
				merged.Set(col, scoreRow.Value(col))
			}
		}
		for _, col := range progressRow.Columns() {
			if col != entities.ColProgress {
				merged.Set(col, progressRow.Value(col))
			}
		}
		rows = append(rows, merged)
	}

	// Score-side learners with no progress counterpart are dropped too.
	for key := range scoreSide {
		if _, ok := progressSide[key]; !ok {
			dropped++
			b.logDrop(key, "no progress data")
		}
	}

	return PivotResult{Rows: rows, Dropped: dropped}
}

// pivotScores folds score rows into one partial wide row per key: the
// course-wide aggregate as Total Score plus a dynamic column per content id.
// First value wins on duplicate content ids.
func (b *PivotBuilder) pivotScores(scoreRows []entities.ScoreRow) map[rowKey]*entities.WideRow {
	out := make(map[rowKey]*entities.WideRow)
	for _, row := range scoreRows {
		key := rowKey{courseID: row.CourseID, batchID: row.BatchID, learnerID: row.LearnerID}
		wide, ok := out[key]
		if !ok {
			wide = entities.NewWideRow(row.CourseID, row.BatchID, row.LearnerID)
			wide.Set(entities.ColTotalScore, row.CourseScorePct)
			out[key] = wide
		}
		wide.Set(row.ContentID+entities.ScoreColumnSuffix, strconv.Itoa(row.ContentPct))
	}
	return out
}

// pivotProgress folds progress rows into one partial wide row per key: the
// course completion percentage plus a dynamic column per module id. First
// value wins on duplicate module ids.
func (b *PivotBuilder) pivotProgress(progressRows []entities.ProgressRow) map[rowKey]*entities.WideRow {
	out := make(map[rowKey]*entities.WideRow)
	for _, row := range progressRows {
		key := rowKey{courseID: row.CourseID, batchID: row.BatchID, learnerID: row.LearnerID}
		wide, ok := out[key]
		if !ok {
			wide = entities.NewWideRow(row.CourseID, row.BatchID, row.LearnerID)
			wide.Set(entities.ColProgress, strconv.Itoa(row.CompletionPct))
			out[key] = wide
		}
		if row.ModuleID != "" {
			wide.Set(row.ModuleID+entities.ProgressColumnSuffix, strconv.Itoa(row.ModulePct))
		}
	}
	return out
}

func (b *PivotBuilder) logDrop(key rowKey, reason string) {
	if b.logger == nil {
		return
	}
	b.logger.Warn("learner dropped from report",
		zap.String("course_id", key.courseID),
		zap.String("batch_id", key.batchID),
		zap.String("learner_id", key.learnerID),
		zap.String("reason", reason),
	)
}
