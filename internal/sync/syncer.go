// Package sync implements push-then-pull reconciliation between the local
// and remote record stores with last-writer-wins conflict resolution.
package sync

import (
	"context"
	"time"

	"pantrysync/internal/model"

	"github.com/rs/zerolog"
)

// LocalStore is the slice of the local store contract the syncer needs.
type LocalStore[T model.Record] interface {
	Unsynced(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, item T, synced bool) error
	Reconcile(ctx context.Context, serverItems []T) error
}

// RemoteStore is the slice of the remote store contract the syncer needs.
type RemoteStore[T model.Record] interface {
	Update(ctx context.Context, userID string, item T) error
	GetAll(ctx context.Context, userID string) ([]T, error)
}

// Result reports the outcome of one sync pass.
type Result struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Pushed counts dirty records confirmed by the remote store.
	Pushed int
	// Failed counts dirty records whose individual push failed; they stay
	// dirty and are retried on the next pass.
	Failed int
	// Pulled is the size of the server snapshot merged during the pull phase.
	Pulled int
}

func (r Result) merge(other Result) Result {
	r.Pushed += other.Pushed
	r.Failed += other.Failed
	r.Pulled += other.Pulled
	if other.EndTime.After(r.EndTime) {
		r.EndTime = other.EndTime
	}
	r.Duration = r.EndTime.Sub(r.StartTime)
	return r
}

// Syncer reconciles one record type between a local and a remote store.
// Invoking Sync is always safe to repeat: records already in sync are
// untouched, so a failed pass is retried by simply calling it again.
type Syncer[T model.Record] struct {
	local  LocalStore[T]
	remote RemoteStore[T]
	logger zerolog.Logger
}

// NewSyncer creates a syncer over the two store contracts.
func NewSyncer[T model.Record](local LocalStore[T], remote RemoteStore[T], logger zerolog.Logger) *Syncer[T] {
	return &Syncer[T]{local: local, remote: remote, logger: logger}
}

// Sync runs one push-then-pull pass for the given user.
//
// Push phase: every dirty record is sent with update (upsert) semantics so a
// retried push after a partial failure cannot race a prior create into a
// conflict. Each confirmed record is marked synced immediately, so a
// cancellation mid-push loses nothing: confirmed records are clean, the rest
// stay dirty. A single record's failure is logged and skipped; a NO_INTERNET
// failure aborts the rest of the phase since no further remote call can
// succeed.
//
// Pull phase: the full authoritative server set is fetched and merged into
// the local store as one atomic reconcile batch.
//
// Pushing before pulling minimises the window in which a newer local edit
// could be overwritten by a stale server snapshot.
func (s *Syncer[T]) Sync(ctx context.Context, userID string) (result Result, err error) {
	result = Result{StartTime: time.Now()}
	defer func() {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
	}()

	dirty, err := s.local.Unsynced(ctx)
	if err != nil {
		return result, err
	}

	for _, item := range dirty {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.remote.Update(ctx, userID, item); err != nil {
			result.Failed++
			if model.IsRemoteKind(err, model.RemoteNoInternet) {
				s.logger.Warn().
					Str("id", item.Key()).
					Int("pushed", result.Pushed).
					Msg("offline, aborting push phase")
				return result, err
			}
			s.logger.Warn().Err(err).Str("id", item.Key()).Msg("failed to push record, keeping dirty")
			continue
		}

		// Confirmed by the remote store; persist the clean flag before
		// touching the next record.
		if err := s.local.Upsert(ctx, item, true); err != nil {
			return result, err
		}
		result.Pushed++
	}

	serverItems, err := s.remote.GetAll(ctx, userID)
	if err != nil {
		return result, err
	}

	if err := s.local.Reconcile(ctx, serverItems); err != nil {
		return result, err
	}
	result.Pulled = len(serverItems)

	s.logger.Debug().
		Int("pushed", result.Pushed).
		Int("failed", result.Failed).
		Int("pulled", result.Pulled).
		Msg("sync pass complete")

	return result, nil
}
