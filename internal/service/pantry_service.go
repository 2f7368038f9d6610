package service

import (
	"context"
	"fmt"

	"pantrysync/internal/model"
	"pantrysync/internal/remote"
	"pantrysync/internal/store"
	"pantrysync/internal/sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// pantryService implements PantryService.
type pantryService struct {
	local         store.LocalStore[model.PantryItem]
	remote        remote.Store[model.PantryItem]
	insightLocal  store.LocalStore[model.InsightItem]
	insightRemote remote.Store[model.InsightItem]
	orch          *sync.Orchestrator
	userID        UserIDFunc
	logger        zerolog.Logger
}

// NewPantryService creates a new pantry service.
func NewPantryService(
	local store.LocalStore[model.PantryItem],
	rem remote.Store[model.PantryItem],
	insightLocal store.LocalStore[model.InsightItem],
	insightRemote remote.Store[model.InsightItem],
	orch *sync.Orchestrator,
	userID UserIDFunc,
	logger zerolog.Logger,
) PantryService {
	return &pantryService{
		local:         local,
		remote:        rem,
		insightLocal:  insightLocal,
		insightRemote: insightRemote,
		orch:          orch,
		userID:        userID,
		logger:        logger.With().Str("service", "pantry").Logger(),
	}
}

// CreateItem stores a new pantry item locally and attempts an immediate push.
func (s *pantryService) CreateItem(ctx context.Context, item model.PantryItem) (model.PantryItem, error) {
	if err := validateItem(item); err != nil {
		return model.PantryItem{}, err
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.UpdatedAt = model.NowMillis()

	// Durable dirty write first: the item must survive even if the push
	// below never reaches the server.
	if err := s.local.Upsert(ctx, item, false); err != nil {
		return model.PantryItem{}, err
	}

	if err := s.remote.Create(ctx, s.userID(), item); err != nil {
		s.logger.Debug().Err(err).Str("id", item.ID).Msg("immediate push failed, item stays dirty")
		return item, nil
	}
	if err := s.local.Upsert(ctx, item, true); err != nil {
		return model.PantryItem{}, err
	}
	item.IsSynced = true

	return item, nil
}

// UpdateItem replaces an existing item, stamping a new updatedAt.
func (s *pantryService) UpdateItem(ctx context.Context, item model.PantryItem) (model.PantryItem, error) {
	if item.ID == "" {
		return model.PantryItem{}, fmt.Errorf("item id is required")
	}
	if err := validateItem(item); err != nil {
		return model.PantryItem{}, err
	}

	existing, err := s.local.Get(ctx, item.ID)
	if err != nil {
		return model.PantryItem{}, err
	}
	if existing == nil {
		return model.PantryItem{}, model.NewLocalError(model.LocalNotFound, "update", nil)
	}

	item.UpdatedAt = model.NowMillis()

	if err := s.local.Upsert(ctx, item, false); err != nil {
		return model.PantryItem{}, err
	}

	if err := s.remote.Update(ctx, s.userID(), item); err != nil {
		s.logger.Debug().Err(err).Str("id", item.ID).Msg("immediate push failed, item stays dirty")
		return item, nil
	}
	if err := s.local.Upsert(ctx, item, true); err != nil {
		return model.PantryItem{}, err
	}
	item.IsSynced = true

	return item, nil
}

// DeleteItem removes an item locally and best-effort remotely. The remote
// delete is idempotent, so retrying after a failure is always safe.
func (s *pantryService) DeleteItem(ctx context.Context, id string) error {
	if err := s.local.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.remote.Delete(ctx, s.userID(), id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("remote delete failed")
	}

	return nil
}

// MoveToInsights transitions a pantry item into the insight set. The health
// snapshot is copied at this moment; the pantry record is removed so the two
// sets stay disjoint.
func (s *pantryService) MoveToInsights(ctx context.Context, id string, status model.InsightStatus) (model.InsightItem, error) {
	if !status.Valid() {
		return model.InsightItem{}, fmt.Errorf("invalid insight status %q", status)
	}

	item, err := s.local.Get(ctx, id)
	if err != nil {
		return model.InsightItem{}, err
	}
	if item == nil {
		return model.InsightItem{}, model.NewLocalError(model.LocalNotFound, "moveToInsights", nil)
	}

	insight := model.InsightItem{
		ID:         item.ID,
		Name:       item.Name,
		ImageURL:   item.ImageURL,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
		Status:     status,
		ActionDate: model.Today(),
		Health:     item.Health,
		UpdatedAt:  model.NowMillis(),
	}

	// The insight write lands before the pantry delete so a crash between
	// the two cannot lose the record entirely.
	if err := s.insightLocal.Upsert(ctx, insight, false); err != nil {
		return model.InsightItem{}, err
	}
	if err := s.local.Delete(ctx, id); err != nil {
		return model.InsightItem{}, err
	}

	userID := s.userID()
	if err := s.insightRemote.Create(ctx, userID, insight); err != nil {
		s.logger.Debug().Err(err).Str("id", id).Msg("immediate insight push failed, stays dirty")
	} else if err := s.insightLocal.Upsert(ctx, insight, true); err != nil {
		return model.InsightItem{}, err
	}
	if err := s.remote.Delete(ctx, userID, id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("remote pantry delete failed")
	}

	return insight, nil
}

// GetItem retrieves one item by id.
func (s *pantryService) GetItem(ctx context.Context, id string) (*model.PantryItem, error) {
	return s.local.Get(ctx, id)
}

// Search queries the local pantry set.
func (s *pantryService) Search(ctx context.Context, query string, location *model.StorageLocation) ([]model.PantryItem, error) {
	return s.local.ListFiltered(ctx, store.Filter{Query: query, Location: location})
}

// ExpiringSoon returns items expiring within the inclusive day window.
func (s *pantryService) ExpiringSoon(ctx context.Context, withinDays int) ([]model.PantryItem, error) {
	if withinDays < 0 {
		withinDays = 0
	}
	return s.local.ListFiltered(ctx, store.Filter{ExpiringWithinDays: &withinDays})
}

// WatchAll returns a live subscription over the full pantry set.
func (s *pantryService) WatchAll(ctx context.Context) (*store.Subscription[model.PantryItem], error) {
	return s.local.Watch(ctx, store.Filter{})
}

// SyncRemote runs one full sync pass for the current user.
func (s *pantryService) SyncRemote(ctx context.Context) (sync.Result, error) {
	return s.orch.SyncRemote(ctx, s.userID())
}

func validateItem(item model.PantryItem) error {
	if item.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("item quantity must be positive")
	}
	if !item.Location.Valid() {
		return fmt.Errorf("invalid storage location %q", item.Location)
	}
	return nil
}
