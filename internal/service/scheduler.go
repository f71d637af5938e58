package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the report job on a cron schedule, or once immediately when
// no schedule is configured.
type Scheduler struct {
	reports  *ReportService
	schedule string
	logger   *zap.Logger
}

func NewScheduler(reports *ReportService, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reports:  reports,
		schedule: schedule,
		logger:   logger,
	}
}

// Start blocks until the context is cancelled (scheduled mode) or the single
// run completes (one-shot mode).
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		_, err := s.reports.Run(ctx)
		return err
	}

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Info("cron triggered: starting report run")
		if _, err := s.reports.Run(ctx); err != nil {
			s.logger.Error("report run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("report scheduler started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	c.Stop()
	s.logger.Info("report scheduler stopped")
	return nil
}
