// Package jobs runs the scheduled background work for the contract
// API, currently the recurring expiration alert sweep.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps a cron runner. Jobs are registered once at startup;
// there is no runtime add or remove. Overlapping runs of the same job
// are skipped and panics inside a job are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates an idle scheduler. Call Start after registering jobs.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		logger: logger,
	}
}

// AddJob registers a job under the given cron expression. The
// expression uses the six-field form with a leading seconds field, or
// a descriptor such as "@daily" or "@every 1h".
func (s *Scheduler) AddJob(name, cronExpr string, job func()) error {
	_, err := s.cron.AddFunc(cronExpr, func() {
		start := time.Now()
		s.logger.Info("running scheduled job", zap.String("job", name))
		job()
		s.logger.Info("scheduled job finished",
			zap.String("job", name),
			zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.logger.Info("scheduled job registered",
		zap.String("job", name),
		zap.String("schedule", cronExpr))
	return nil
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler")
	s.cron.Start()
}

// Stop stops scheduling new runs. The returned context is done once
// in-flight jobs have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}
