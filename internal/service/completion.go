package service

import "go.uber.org/zap"

// CompletionCalculator derives capped completion percentages from completed
// and total leaf counts.
type CompletionCalculator struct {
	logger *zap.Logger
}

func NewCompletionCalculator(logger *zap.Logger) *CompletionCalculator {
	return &CompletionCalculator{logger: logger}
}

// Percent returns the completion percentage in [0, 100].
//
// A completed count at or above the leaf count saturates at 100; otherwise
// the result is floor(completed * 100 / leafCount). A zero leaf count cannot
// feed the division, so it is reported as 0% with a diagnostic instead of
// faulting the batch.
func (c *CompletionCalculator) Percent(completed, leafCount int) int {
	if completed < 0 {
		completed = 0
	}
	if leafCount <= 0 {
		if c.logger != nil {
			c.logger.Warn("zero leaf count, reporting 0%",
				zap.Int("completed", completed),
				zap.Int("leaf_count", leafCount),
			)
		}
		return 0
	}
	if completed >= leafCount {
		return 100
	}
	return completed * 100 / leafCount
}
