package service

import (
	"context"

	"pantrysync/internal/model"
	"pantrysync/internal/store"

	"github.com/stretchr/testify/mock"
)

// MockLocal is a mock implementation of store.LocalStore[T].
type MockLocal[T model.Record] struct {
	mock.Mock
}

func (m *MockLocal[T]) Upsert(ctx context.Context, item T, synced bool) error {
	args := m.Called(ctx, item, synced)
	return args.Error(0)
}

func (m *MockLocal[T]) Get(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockLocal[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockLocal[T]) ListFiltered(ctx context.Context, f store.Filter) ([]T, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockLocal[T]) Unsynced(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockLocal[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocal[T]) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLocal[T]) Reconcile(ctx context.Context, serverItems []T) error {
	args := m.Called(ctx, serverItems)
	return args.Error(0)
}

func (m *MockLocal[T]) Watch(ctx context.Context, f store.Filter) (*store.Subscription[T], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Subscription[T]), args.Error(1)
}

// MockRemote is a mock implementation of remote.Store[T].
type MockRemote[T model.Record] struct {
	mock.Mock
}

func (m *MockRemote[T]) Create(ctx context.Context, userID string, item T) error {
	args := m.Called(ctx, userID, item)
	return args.Error(0)
}

func (m *MockRemote[T]) Get(ctx context.Context, userID, id string) (T, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		var zero T
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRemote[T]) GetAll(ctx context.Context, userID string) ([]T, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRemote[T]) Update(ctx context.Context, userID string, item T) error {
	args := m.Called(ctx, userID, item)
	return args.Error(0)
}

func (m *MockRemote[T]) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockRemote[T]) DeleteAll(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
