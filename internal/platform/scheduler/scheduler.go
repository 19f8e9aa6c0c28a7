// Package scheduler runs jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work. It receives the scheduler's context,
// which is canceled when the scheduler stops.
type Job func(ctx context.Context)

// Scheduler manages cron tasks.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a Scheduler whose specs may include an optional seconds field.
// Overlapping runs of the same job are skipped rather than queued.
func NewScheduler(ctx context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	c := cron.New(
		cron.WithParser(cron.NewParser(
			cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor,
		)),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &Scheduler{cron: c, ctx: ctx, cancel: cancel}
}

// Register adds job under the given name and cron spec.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() {
		slog.Info("scheduled job started", "job", name)
		job(s.ctx)
		slog.Info("scheduled job finished", "job", name)
	}); err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	slog.Info("scheduled job registered", "job", name, "spec", spec)
	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

// Start starts the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started")
}

// Stop cancels running jobs' context and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}
