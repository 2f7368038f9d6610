package sync

import (
	"context"
	"sync"
	"time"

	"pantrysync/internal/model"

	"github.com/rs/zerolog"
)

// Orchestrator drives both record-type syncers under a per-user lock so
// overlapping SyncRemote calls for the same user serialize instead of racing
// two push phases over the same dirty set.
type Orchestrator struct {
	pantry  *Syncer[model.PantryItem]
	insight *Syncer[model.InsightItem]
	logger  zerolog.Logger

	mu       sync.Mutex
	users    map[string]*sync.Mutex
	lastSync map[string]time.Time
}

// NewOrchestrator creates the sync orchestrator.
func NewOrchestrator(
	pantry *Syncer[model.PantryItem],
	insight *Syncer[model.InsightItem],
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		pantry:   pantry,
		insight:  insight,
		logger:   logger.With().Str("component", "sync").Logger(),
		users:    make(map[string]*sync.Mutex),
		lastSync: make(map[string]time.Time),
	}
}

// SyncRemote runs one full sync pass (pantry then insights) for the user.
// Calls for the same user are serialized; the second caller waits for the
// first to finish and then runs its own pass.
func (o *Orchestrator) SyncRemote(ctx context.Context, userID string) (Result, error) {
	lock := o.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	result, err := o.pantry.Sync(ctx, userID)
	if err != nil {
		o.logger.Warn().Err(err).Str("user_id", userID).Msg("pantry sync incomplete")
		return result, err
	}

	insightResult, err := o.insight.Sync(ctx, userID)
	result = result.merge(insightResult)
	if err != nil {
		o.logger.Warn().Err(err).Str("user_id", userID).Msg("insight sync incomplete")
		return result, err
	}

	o.mu.Lock()
	o.lastSync[userID] = time.Now()
	o.mu.Unlock()

	o.logger.Info().
		Str("user_id", userID).
		Int("pushed", result.Pushed).
		Int("failed", result.Failed).
		Int("pulled", result.Pulled).
		Dur("duration", result.Duration).
		Msg("sync complete")

	return result, nil
}

// LastSync returns when the user's last fully successful sync finished.
func (o *Orchestrator) LastSync(userID string) (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	t, ok := o.lastSync[userID]
	return t, ok
}

func (o *Orchestrator) userLock(userID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.users[userID]
	if !ok {
		lock = &sync.Mutex{}
		o.users[userID] = lock
	}
	return lock
}
