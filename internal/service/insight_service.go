package service

import (
	"context"

	"pantrysync/internal/model"
	"pantrysync/internal/remote"
	"pantrysync/internal/store"

	"github.com/rs/zerolog"
)

// insightService implements InsightService.
type insightService struct {
	local  store.LocalStore[model.InsightItem]
	remote remote.Store[model.InsightItem]
	userID UserIDFunc
	logger zerolog.Logger
}

// NewInsightService creates a new insight service.
func NewInsightService(
	local store.LocalStore[model.InsightItem],
	rem remote.Store[model.InsightItem],
	userID UserIDFunc,
	logger zerolog.Logger,
) InsightService {
	return &insightService{
		local:  local,
		remote: rem,
		userID: userID,
		logger: logger.With().Str("service", "insight").Logger(),
	}
}

// List returns all insight items.
func (s *insightService) List(ctx context.Context) ([]model.InsightItem, error) {
	return s.local.List(ctx)
}

// ListByStatus returns insight items with the given status.
func (s *insightService) ListByStatus(ctx context.Context, status model.InsightStatus) ([]model.InsightItem, error) {
	return s.local.ListFiltered(ctx, store.Filter{Status: &status})
}

// DeleteItem removes an insight locally and best-effort remotely.
func (s *insightService) DeleteItem(ctx context.Context, id string) error {
	if err := s.local.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.remote.Delete(ctx, s.userID(), id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("remote delete failed")
	}

	return nil
}

// Watch returns a live subscription over the full insight set.
func (s *insightService) Watch(ctx context.Context) (*store.Subscription[model.InsightItem], error) {
	return s.local.Watch(ctx, store.Filter{})
}
