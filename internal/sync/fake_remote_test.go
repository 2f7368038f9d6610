package sync

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pantrysync/internal/model"
)

// fakeRemote is an in-memory remote store used to exercise full sync passes
// against a real local store without a network.
type fakeRemote[T model.Record] struct {
	mu    sync.Mutex
	items map[string]map[string]T // userID -> id -> record

	// offline makes every call fail with NO_INTERNET.
	offline bool
	// failIDs makes Update fail with SERVER_ERROR for the listed ids.
	failIDs map[string]bool

	updates int
	getAlls int
}

func newFakeRemote[T model.Record]() *fakeRemote[T] {
	return &fakeRemote[T]{
		items:   make(map[string]map[string]T),
		failIDs: make(map[string]bool),
	}
}

func (f *fakeRemote[T]) Update(ctx context.Context, userID string, item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.offline {
		return model.NewRemoteError(model.RemoteNoInternet, "update", errors.New("network unreachable"))
	}
	if f.failIDs[item.Key()] {
		return model.NewRemoteError(model.RemoteServerError, "update", errors.New("injected failure"))
	}
	if f.items[userID] == nil {
		f.items[userID] = make(map[string]T)
	}
	f.items[userID][item.Key()] = item
	return nil
}

func (f *fakeRemote[T]) GetAll(ctx context.Context, userID string) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getAlls++
	if f.offline {
		return nil, model.NewRemoteError(model.RemoteNoInternet, "getAll", errors.New("network unreachable"))
	}
	out := make([]T, 0, len(f.items[userID]))
	for _, item := range f.items[userID] {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (f *fakeRemote[T]) setOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

// seed stores a record directly, bypassing the failure switches.
func (f *fakeRemote[T]) seed(userID string, item T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items[userID] == nil {
		f.items[userID] = make(map[string]T)
	}
	f.items[userID][item.Key()] = item
}

func (f *fakeRemote[T]) delete(userID, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items[userID], id)
}

func (f *fakeRemote[T]) get(userID, id string) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[userID][id]
	return item, ok
}
