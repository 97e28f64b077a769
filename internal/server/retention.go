package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes estimates older than a cutoff.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionScheduler prunes the estimate history on a cron schedule.
type RetentionScheduler struct {
	pruner        Pruner
	retentionDays int
	schedule      string
	onPrune       func(deleted int64, err error)
	now           func() time.Time

	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewRetentionScheduler returns a scheduler that deletes estimates older
// than retentionDays whenever schedule fires. onPrune may be nil.
func NewRetentionScheduler(p Pruner, retentionDays int, schedule string, logger *slog.Logger, onPrune func(int64, error)) *RetentionScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionScheduler{
		pruner:        p,
		retentionDays: retentionDays,
		schedule:      schedule,
		onPrune:       onPrune,
		now:           time.Now,
		cron:          cron.New(),
		logger:        logger.With("component", "retention"),
	}
}

// Start registers the prune job and starts the cron runner. An empty
// schedule or a non-positive retention disables pruning. The scheduler
// stops when ctx is cancelled.
//
// Common schedules:
//   - "0 3 * * *"   daily at 3 AM
//   - "0 */6 * * *" every 6 hours
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" || s.retentionDays <= 0 {
		s.logger.Info("retention disabled", "schedule", s.schedule, "retention_days", s.retentionDays)
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.PruneNow(ctx) }); err != nil {
		return fmt.Errorf("scheduling pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("retention scheduler started", "schedule", s.schedule, "retention_days", s.retentionDays)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// PruneNow runs one pruning pass immediately.
func (s *RetentionScheduler) PruneNow(ctx context.Context) int64 {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.pruner.PruneBefore(ctx, cutoff)
	if s.onPrune != nil {
		s.onPrune(deleted, err)
	}
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return 0
	}
	if deleted > 0 {
		s.logger.Info("scheduled pruning completed", "deleted_count", deleted, "cutoff", cutoff)
	} else {
		s.logger.Debug("scheduled pruning completed, no estimates deleted")
	}
	return deleted
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning reports whether the cron runner is active.
func (s *RetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled prune, or nil when not scheduled.
func (s *RetentionScheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
