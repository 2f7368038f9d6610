package service

import (
	"context"
	"errors"
	"testing"

	"pantrysync/internal/model"
	"pantrysync/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInsightFixture() (InsightService, *MockLocal[model.InsightItem], *MockRemote[model.InsightItem]) {
	local := new(MockLocal[model.InsightItem])
	remote := new(MockRemote[model.InsightItem])
	svc := NewInsightService(local, remote, func() string { return testUserID }, zerolog.Nop())
	return svc, local, remote
}

func TestInsightListByStatus(t *testing.T) {
	ctx := context.Background()
	svc, local, _ := newInsightFixture()

	want := []model.InsightItem{{ID: "a", Status: model.StatusWasted}}
	local.On("ListFiltered", ctx, mock.MatchedBy(func(f store.Filter) bool {
		return f.Status != nil && *f.Status == model.StatusWasted
	})).Return(want, nil)

	got, err := svc.ListByStatus(ctx, model.StatusWasted)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	local.AssertExpectations(t)
}

func TestInsightDeleteItem_RemoteFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	svc, local, remote := newInsightFixture()

	local.On("Delete", ctx, "a").Return(nil)
	remote.On("Delete", ctx, testUserID, "a").
		Return(model.NewRemoteError(model.RemoteNoInternet, "delete", errors.New("offline")))

	require.NoError(t, svc.DeleteItem(ctx, "a"))
	local.AssertExpectations(t)
	remote.AssertExpectations(t)
}

func TestInsightDeleteItem_LocalFailureSkipsRemote(t *testing.T) {
	ctx := context.Background()
	svc, local, remote := newInsightFixture()

	local.On("Delete", ctx, "ghost").
		Return(model.NewLocalError(model.LocalNotFound, "delete", nil))

	err := svc.DeleteItem(ctx, "ghost")

	require.Error(t, err)
	remote.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
