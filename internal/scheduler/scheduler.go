// Package scheduler runs the forecast pipeline on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Runner is the unit of work the scheduler triggers.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler drives periodic pipeline runs. Runs are singleton: a tick
// that fires while the previous run is still in flight is skipped rather
// than stacked.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler that invokes runner every interval.
func New(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		interval:  interval,
		logger:    logger,
	}
}

// Start runs the pipeline once immediately, then schedules it at the
// configured interval. The background jobs use ctx, so cancelling it
// aborts an in-flight run.
func (s *Scheduler) Start(ctx context.Context) error {
	job := func() {
		if err := s.runner.Run(ctx); err != nil {
			s.logger.Error("scheduled forecast run failed", "error", err)
		}
	}

	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(job)
	if err != nil {
		return err
	}

	s.logger.Info("scheduler started", "interval", s.interval)
	s.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
