package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pantrysync/internal/config"
	"pantrysync/internal/database"
	"pantrysync/internal/model"
	"pantrysync/internal/remote"
	"pantrysync/internal/service"
	"pantrysync/internal/store"
	"pantrysync/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("user_id", cfg.UserID).Msg("starting pantrysync daemon")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the durable local store
	db, err := store.Open(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer db.Close()

	localPantry := store.NewPantryStore(db, logger)
	localInsight := store.NewInsightStore(db, logger)

	// Initialize remote store connection pool. The pool connects lazily so
	// startup succeeds while offline.
	pool, err := database.NewPool(ctx, cfg.Remote, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize remote store: %w", err)
	}
	defer pool.Close()

	if err := remote.EnsureSchema(ctx, pool); err != nil {
		logger.Warn().Err(err).Msg("remote schema not verified, continuing offline")
	}

	remotePantry := remote.NewPantryStore(pool, logger)
	remoteInsight := remote.NewInsightStore(pool, logger)

	// Initialize the sync orchestrator
	orch := sync.NewOrchestrator(
		sync.NewSyncer[model.PantryItem](localPantry, remotePantry, logger.With().Str("syncer", "pantry").Logger()),
		sync.NewSyncer[model.InsightItem](localInsight, remoteInsight, logger.With().Str("syncer", "insight").Logger()),
		logger,
	)

	userID := func() string { return cfg.UserID }

	// Initialize services
	pantrySvc := service.NewPantryService(localPantry, remotePantry, localInsight, remoteInsight, orch, userID, logger)
	insightSvc := service.NewInsightService(localInsight, remoteInsight, userID, logger)

	if expiring, err := pantrySvc.ExpiringSoon(ctx, 3); err == nil {
		logger.Info().Int("count", len(expiring)).Msg("items expiring within 3 days")
	}
	if insights, err := insightSvc.List(ctx); err == nil {
		logger.Info().Int("count", len(insights)).Msg("insight records tracked")
	}

	// Run the periodic sync scheduler until shutdown
	scheduler := sync.NewScheduler(orch, cfg.UserID, sync.SchedulerConfig{
		Interval:             cfg.Sync.Interval,
		RetryInitialInterval: cfg.Sync.RetryInitialInterval,
		RetryMaxElapsed:      cfg.Sync.RetryMaxElapsed,
	}, logger)

	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(schedulerDone)
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	logger.Info().
		Str("signal", sig.String()).
		Msg("shutdown signal received, stopping scheduler")

	cancel()
	<-schedulerDone

	logger.Info().Msg("shutdown completed")
	return nil
}
