package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// ScoreAggregator combines assessment attempts into per-content score rows.
type ScoreAggregator struct {
	logger *zap.Logger
}

func NewScoreAggregator(logger *zap.Logger) *ScoreAggregator {
	return &ScoreAggregator{logger: logger}
}

type scoreKey struct {
	learnerID string
	batchID   string
	courseID  string
}

// Aggregate partitions attempts by (learner, batch, course) and emits one
// ScoreRow per distinct content a learner attempted.
//
// The partition key omits the content id: the aggregate
// percentage divides the learner's summed score by the learner's summed max
// score across every attempt in the course, so each content row of the same
// learner carries the identical course-wide value. The per-content percentage
// comes from the attempt's own GrandTotal fraction instead; on duplicate
// content ids the first attempt wins.
func (a *ScoreAggregator) Aggregate(attempts []entities.AssessmentAttempt) []entities.ScoreRow {
	type partition struct {
		sumScore    float64
		sumMaxScore float64
		contentIDs  []string
		contentPct  map[string]int
	}

	partitions := make(map[scoreKey]*partition)
	order := make([]scoreKey, 0)

	for _, att := range attempts {
		key := scoreKey{learnerID: att.LearnerID, batchID: att.BatchID, courseID: att.CourseID}
		p, ok := partitions[key]
		if !ok {
			p = &partition{contentPct: make(map[string]int)}
			partitions[key] = p
			order = append(order, key)
		}

		p.sumScore += att.TotalScore
		p.sumMaxScore += att.TotalMaxScore

		if _, seen := p.contentPct[att.ContentID]; !seen {
			p.contentIDs = append(p.contentIDs, att.ContentID)
			p.contentPct[att.ContentID] = a.contentPercent(att)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].courseID != order[j].courseID {
			return order[i].courseID < order[j].courseID
		}
		if order[i].batchID != order[j].batchID {
			return order[i].batchID < order[j].batchID
		}
		return order[i].learnerID < order[j].learnerID
	})

	rows := make([]entities.ScoreRow, 0, len(attempts))
	for _, key := range order {
		p := partitions[key]
		coursePct := a.courseWidePercent(key, p.sumScore, p.sumMaxScore)
		for _, contentID := range p.contentIDs {
			rows = append(rows, entities.ScoreRow{
				CourseID:       key.courseID,
				BatchID:        key.batchID,
				LearnerID:      key.learnerID,
				ContentID:      contentID,
				CourseScorePct: coursePct,
				ContentPct:     p.contentPct[contentID],
			})
		}
	}

	return rows
}

// courseWidePercent renders ceil(sumScore * 100 / sumMaxScore) with a
// trailing percent marker. The value is not clamped: a sum above the max is
// a data anomaly worth surfacing, not hiding.
func (a *ScoreAggregator) courseWidePercent(key scoreKey, sumScore, sumMaxScore float64) string {
	if sumMaxScore <= 0 {
		if a.logger != nil {
			a.logger.Warn("zero max score sum, reporting 0%",
				zap.String("course_id", key.courseID),
				zap.String("batch_id", key.batchID),
				zap.String("learner_id", key.learnerID),
			)
		}
		return "0%"
	}
	pct := int(math.Ceil(sumScore * 100 / sumMaxScore))
	return fmt.Sprintf("%d%%", pct)
}

// contentPercent derives the attempt's individual percentage from its
// GrandTotal "x/y" fraction. Malformed fractions and zero denominators yield
// 0 with a diagnostic; the row itself is kept.
func (a *ScoreAggregator) contentPercent(att entities.AssessmentAttempt) int {
	parts := strings.SplitN(att.GrandTotal, "/", 2)
	if len(parts) != 2 {
		a.warnGrandTotal(att)
		return 0
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		a.warnGrandTotal(att)
		return 0
	}
	maxScore, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || maxScore <= 0 {
		a.warnGrandTotal(att)
		return 0
	}

	return int(math.Ceil(score * 100 / maxScore))
}

func (a *ScoreAggregator) warnGrandTotal(att entities.AssessmentAttempt) {
	if a.logger == nil {
		return
	}
	a.logger.Warn("unusable grand total on attempt",
		zap.String("attempt_id", att.AttemptID),
		zap.String("content_id", att.ContentID),
		zap.String("grand_total", att.GrandTotal),
	)
}
