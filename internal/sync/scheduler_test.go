package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"pantrysync/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRemote fails the first failures GetAll calls with the given kind,
// then behaves like the wrapped fake.
type flakyRemote[T model.Record] struct {
	*fakeRemote[T]
	failures int
	kind     model.RemoteErrorKind
	calls    int
}

func (f *flakyRemote[T]) GetAll(ctx context.Context, userID string) ([]T, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, model.NewRemoteError(f.kind, "getAll", errors.New("injected failure"))
	}
	return f.fakeRemote.GetAll(ctx, userID)
}

func testSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:             time.Hour, // never ticks inside a test
		RetryInitialInterval: time.Millisecond,
		RetryMaxElapsed:      time.Second,
	}
}

func TestScheduler_RetriesTransientFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	remote := &flakyRemote[model.PantryItem]{
		fakeRemote: newFakeRemote[model.PantryItem](),
		failures:   2,
		kind:       model.RemoteServerError,
	}
	orch := newTestOrchestrator(remote)
	sched := NewScheduler(orch, "user-1", testSchedulerConfig(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		_, ok := orch.LastSync("user-1")
		return ok
	}, 2*time.Second, 5*time.Millisecond, "transient failures should be retried until the pass succeeds")

	assert.Equal(t, 3, remote.calls)

	cancel()
	<-done
}

func TestScheduler_DoesNotRetryPermanentFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	remote := &flakyRemote[model.PantryItem]{
		fakeRemote: newFakeRemote[model.PantryItem](),
		failures:   100,
		kind:       model.RemoteUnauthorized,
	}
	orch := newTestOrchestrator(remote)
	sched := NewScheduler(orch, "user-1", testSchedulerConfig(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(ctx)
	}()

	// Give the first (and only) attempt time to run and fail.
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, remote.calls, "an auth failure is not transient and must not be retried")
	_, ok := orch.LastSync("user-1")
	assert.False(t, ok)
}
