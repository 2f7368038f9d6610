package sync

import (
	"context"
	"time"

	"pantrysync/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// SchedulerConfig holds the periodic sync cadence and retry policy.
type SchedulerConfig struct {
	// Interval between periodic sync passes.
	Interval time.Duration

	// RetryInitialInterval seeds the exponential backoff used when a pass
	// fails with a transient error (offline, server error, timeout).
	RetryInitialInterval time.Duration

	// RetryMaxElapsed caps how long one failed pass keeps retrying before
	// giving up until the next periodic tick.
	RetryMaxElapsed time.Duration
}

// DefaultSchedulerConfig returns the default cadence.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:             15 * time.Minute,
		RetryInitialInterval: 5 * time.Second,
		RetryMaxElapsed:      2 * time.Minute,
	}
}

// Scheduler triggers periodic sync passes for one user. The orchestrator
// itself exposes no timer; the cadence and the backoff policy on transient
// failures live here.
type Scheduler struct {
	orch   *Orchestrator
	userID string
	cfg    SchedulerConfig
	logger zerolog.Logger
}

// NewScheduler creates a periodic sync scheduler.
func NewScheduler(orch *Orchestrator, userID string, cfg SchedulerConfig, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		orch:   orch,
		userID: userID,
		cfg:    cfg,
		logger: logger.With().Str("component", "sync-scheduler").Logger(),
	}
}

// Run blocks, syncing once immediately and then on every interval tick,
// until ctx is cancelled. Transient failures are retried with exponential
// backoff and jitter inside the tick; permanent failures wait for the next
// tick.
func (s *Scheduler) Run(ctx context.Context) {
	s.syncWithRetry(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncWithRetry(ctx)
		}
	}
}

func (s *Scheduler) syncWithRetry(ctx context.Context) {
	operation := func() error {
		_, err := s.orch.SyncRemote(ctx, s.userID)
		if err == nil {
			return nil
		}
		switch model.RemoteKindOf(err) {
		case model.RemoteNoInternet, model.RemoteServerError, model.RemoteTimeout:
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.RetryInitialInterval
	bo.MaxElapsedTime = s.cfg.RetryMaxElapsed

	notify := func(err error, next time.Duration) {
		s.logger.Debug().Err(err).Dur("retry_in", next).Msg("sync failed, backing off")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify); err != nil {
		s.logger.Warn().Err(err).Msg("sync incomplete, waiting for next interval")
	}
}
