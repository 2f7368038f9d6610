package service

import (
	"context"
	"errors"
	"testing"

	"pantrysync/internal/model"
	"pantrysync/internal/store"
	"pantrysync/internal/sync"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

type pantryFixture struct {
	svc           PantryService
	local         *MockLocal[model.PantryItem]
	remote        *MockRemote[model.PantryItem]
	insightLocal  *MockLocal[model.InsightItem]
	insightRemote *MockRemote[model.InsightItem]
}

func newPantryFixture() *pantryFixture {
	f := &pantryFixture{
		local:         new(MockLocal[model.PantryItem]),
		remote:        new(MockRemote[model.PantryItem]),
		insightLocal:  new(MockLocal[model.InsightItem]),
		insightRemote: new(MockRemote[model.InsightItem]),
	}
	orch := sync.NewOrchestrator(
		sync.NewSyncer[model.PantryItem](f.local, f.remote, zerolog.Nop()),
		sync.NewSyncer[model.InsightItem](f.insightLocal, f.insightRemote, zerolog.Nop()),
		zerolog.Nop(),
	)
	f.svc = NewPantryService(
		f.local, f.remote, f.insightLocal, f.insightRemote,
		orch, func() string { return testUserID }, zerolog.Nop(),
	)
	return f
}

func (f *pantryFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.local.AssertExpectations(t)
	f.remote.AssertExpectations(t)
	f.insightLocal.AssertExpectations(t)
	f.insightRemote.AssertExpectations(t)
}

func validItem() model.PantryItem {
	return model.PantryItem{
		Name:     "Milk",
		Quantity: 1,
		Location: model.LocationFridge,
	}
}

func TestCreateItem_AssignsIDAndPushesImmediately(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	f.local.On("Upsert", ctx, mock.AnythingOfType("model.PantryItem"), false).Return(nil)
	f.remote.On("Create", ctx, testUserID, mock.AnythingOfType("model.PantryItem")).Return(nil)
	f.local.On("Upsert", ctx, mock.AnythingOfType("model.PantryItem"), true).Return(nil)

	created, err := f.svc.CreateItem(ctx, validItem())

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Positive(t, created.UpdatedAt)
	assert.True(t, created.IsSynced)
	f.assertExpectations(t)
}

func TestCreateItem_KeepsCallerSuppliedID(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	f.local.On("Upsert", ctx, mock.Anything, false).Return(nil)
	f.remote.On("Create", ctx, testUserID, mock.Anything).Return(nil)
	f.local.On("Upsert", ctx, mock.Anything, true).Return(nil)

	item := validItem()
	item.ID = "fixed-id"
	created, err := f.svc.CreateItem(ctx, item)

	require.NoError(t, err)
	assert.Equal(t, "fixed-id", created.ID)
}

func TestCreateItem_OfflineLeavesItemDirty(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	f.local.On("Upsert", ctx, mock.Anything, false).Return(nil)
	f.remote.On("Create", ctx, testUserID, mock.Anything).
		Return(model.NewRemoteError(model.RemoteNoInternet, "create", errors.New("offline")))

	created, err := f.svc.CreateItem(ctx, validItem())

	// A failed push is not an error: the write is durable locally and the
	// next sync pass will deliver it.
	require.NoError(t, err)
	assert.False(t, created.IsSynced)
	f.local.AssertNotCalled(t, "Upsert", ctx, mock.Anything, true)
}

func TestCreateItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.PantryItem)
	}{
		{"missing name", func(i *model.PantryItem) { i.Name = "" }},
		{"zero quantity", func(i *model.PantryItem) { i.Quantity = 0 }},
		{"negative quantity", func(i *model.PantryItem) { i.Quantity = -2 }},
		{"bad location", func(i *model.PantryItem) { i.Location = "GARAGE" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPantryFixture()
			item := validItem()
			tt.mutate(&item)

			_, err := f.svc.CreateItem(context.Background(), item)

			require.Error(t, err)
			f.local.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateItem_StampsNewUpdatedAt(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	existing := validItem()
	existing.ID = "milk-1"
	existing.UpdatedAt = 100

	f.local.On("Get", ctx, "milk-1").Return(&existing, nil)
	f.local.On("Upsert", ctx, mock.MatchedBy(func(i model.PantryItem) bool {
		return i.UpdatedAt > 100
	}), false).Return(nil)
	f.remote.On("Update", ctx, testUserID, mock.Anything).Return(nil)
	f.local.On("Upsert", ctx, mock.Anything, true).Return(nil)

	item := existing
	item.Quantity = 2
	updated, err := f.svc.UpdateItem(ctx, item)

	require.NoError(t, err)
	assert.Greater(t, updated.UpdatedAt, int64(100))
	assert.True(t, updated.IsSynced)
	f.assertExpectations(t)
}

func TestUpdateItem_UnknownIDFails(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	f.local.On("Get", ctx, "ghost").Return(nil, nil)

	item := validItem()
	item.ID = "ghost"
	_, err := f.svc.UpdateItem(ctx, item)

	require.Error(t, err)
	assert.True(t, model.IsLocalKind(err, model.LocalNotFound))
	f.local.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteItem_RemoteFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	f.local.On("Delete", ctx, "milk-1").Return(nil)
	f.remote.On("Delete", ctx, testUserID, "milk-1").
		Return(model.NewRemoteError(model.RemoteNoInternet, "delete", errors.New("offline")))

	err := f.svc.DeleteItem(ctx, "milk-1")

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestDeleteItem_LocalNotFoundPropagates(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	f.local.On("Delete", ctx, "ghost").
		Return(model.NewLocalError(model.LocalNotFound, "delete", nil))

	err := f.svc.DeleteItem(ctx, "ghost")

	require.Error(t, err)
	assert.True(t, model.IsLocalKind(err, model.LocalNotFound))
	f.remote.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestMoveToInsights_CopiesHealthSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	item := validItem()
	item.ID = "milk-1"
	item.ImageURL = "https://img.example/milk.png"
	item.Unit = "l"
	item.Health = model.Health{
		NutriScore: "B",
		NovaGroup:  1,
		Allergens:  []string{"milk"},
	}

	f.local.On("Get", ctx, "milk-1").Return(&item, nil)
	f.insightLocal.On("Upsert", ctx, mock.AnythingOfType("model.InsightItem"), false).Return(nil)
	f.local.On("Delete", ctx, "milk-1").Return(nil)
	f.insightRemote.On("Create", ctx, testUserID, mock.AnythingOfType("model.InsightItem")).Return(nil)
	f.insightLocal.On("Upsert", ctx, mock.AnythingOfType("model.InsightItem"), true).Return(nil)
	f.remote.On("Delete", ctx, testUserID, "milk-1").Return(nil)

	insight, err := f.svc.MoveToInsights(ctx, "milk-1", model.StatusConsumed)

	require.NoError(t, err)
	assert.Equal(t, "milk-1", insight.ID)
	assert.Equal(t, model.StatusConsumed, insight.Status)
	assert.Equal(t, model.Today(), insight.ActionDate)
	assert.Equal(t, item.Health, insight.Health)
	assert.Positive(t, insight.UpdatedAt)
	f.assertExpectations(t)
}

func TestMoveToInsights_InvalidStatus(t *testing.T) {
	f := newPantryFixture()

	_, err := f.svc.MoveToInsights(context.Background(), "milk-1", "EATEN")

	require.Error(t, err)
	f.local.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestMoveToInsights_RemotePushFailureKeepsInsightDirty(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	item := validItem()
	item.ID = "milk-1"

	f.local.On("Get", ctx, "milk-1").Return(&item, nil)
	f.insightLocal.On("Upsert", ctx, mock.Anything, false).Return(nil)
	f.local.On("Delete", ctx, "milk-1").Return(nil)
	f.insightRemote.On("Create", ctx, testUserID, mock.Anything).
		Return(model.NewRemoteError(model.RemoteNoInternet, "create", errors.New("offline")))
	f.remote.On("Delete", ctx, testUserID, "milk-1").
		Return(model.NewRemoteError(model.RemoteNoInternet, "delete", errors.New("offline")))

	insight, err := f.svc.MoveToInsights(ctx, "milk-1", model.StatusWasted)

	require.NoError(t, err)
	assert.Equal(t, model.StatusWasted, insight.Status)
	f.insightLocal.AssertNotCalled(t, "Upsert", ctx, mock.Anything, true)
}

func TestSearch_PassesFilterThrough(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	loc := model.LocationFreezer
	want := []model.PantryItem{validItem()}
	f.local.On("ListFiltered", ctx, store.Filter{Query: "pea", Location: &loc}).Return(want, nil)

	got, err := f.svc.Search(ctx, "pea", &loc)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExpiringSoon_ClampsNegativeWindow(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	f.local.On("ListFiltered", ctx, mock.MatchedBy(func(fl store.Filter) bool {
		return fl.ExpiringWithinDays != nil && *fl.ExpiringWithinDays == 0
	})).Return([]model.PantryItem{}, nil)

	_, err := f.svc.ExpiringSoon(ctx, -5)

	require.NoError(t, err)
	f.local.AssertExpectations(t)
}

func TestSyncRemote_RunsFullPass(t *testing.T) {
	ctx := context.Background()
	f := newPantryFixture()

	f.local.On("Unsynced", ctx).Return([]model.PantryItem{}, nil)
	f.remote.On("GetAll", ctx, testUserID).Return([]model.PantryItem{}, nil)
	f.local.On("Reconcile", ctx, []model.PantryItem{}).Return(nil)
	f.insightLocal.On("Unsynced", ctx).Return([]model.InsightItem{}, nil)
	f.insightRemote.On("GetAll", ctx, testUserID).Return([]model.InsightItem{}, nil)
	f.insightLocal.On("Reconcile", ctx, []model.InsightItem{}).Return(nil)

	result, err := f.svc.SyncRemote(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Pushed)
	f.assertExpectations(t)
}
