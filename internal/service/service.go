// Package service composes the local store, remote store and sync
// orchestrator into the read/write/sync API consumed by the application.
package service

import (
	"context"

	"pantrysync/internal/model"
	"pantrysync/internal/store"
	"pantrysync/internal/sync"
)

// UserIDFunc supplies the current user's id. It is provided by the external
// auth collaborator.
type UserIDFunc func() string

// PantryService defines operations over the pantry record set. All writes
// land locally first and are pushed to the remote store opportunistically;
// a failed push leaves the record dirty for the next sync pass.
type PantryService interface {
	// CreateItem stores a new pantry item, assigning its id and updatedAt.
	CreateItem(ctx context.Context, item model.PantryItem) (model.PantryItem, error)

	// UpdateItem replaces an existing item and stamps a new updatedAt.
	UpdateItem(ctx context.Context, item model.PantryItem) (model.PantryItem, error)

	// DeleteItem removes an item locally and best-effort remotely.
	DeleteItem(ctx context.Context, id string) error

	// MoveToInsights derives an insight record from a pantry item, freezing
	// its health snapshot, and removes the item from the pantry set.
	MoveToInsights(ctx context.Context, id string, status model.InsightStatus) (model.InsightItem, error)

	// GetItem retrieves one item by id, (nil, nil) when absent.
	GetItem(ctx context.Context, id string) (*model.PantryItem, error)

	// Search matches an all-numeric query against the exact barcode and any
	// other query against a case-insensitive name substring, optionally
	// restricted to one storage location.
	Search(ctx context.Context, query string, location *model.StorageLocation) ([]model.PantryItem, error)

	// ExpiringSoon returns items with expiryDate <= today + withinDays,
	// including already-expired items.
	ExpiringSoon(ctx context.Context, withinDays int) ([]model.PantryItem, error)

	// WatchAll returns a live subscription over the full pantry set.
	WatchAll(ctx context.Context) (*store.Subscription[model.PantryItem], error)

	// SyncRemote runs one full push-then-pull sync pass for the user.
	SyncRemote(ctx context.Context) (sync.Result, error)
}

// InsightService defines operations over the insight record set.
type InsightService interface {
	// List returns all insight items.
	List(ctx context.Context) ([]model.InsightItem, error)

	// ListByStatus returns insight items with the given status.
	ListByStatus(ctx context.Context, status model.InsightStatus) ([]model.InsightItem, error)

	// DeleteItem removes an insight locally and best-effort remotely.
	DeleteItem(ctx context.Context, id string) error

	// Watch returns a live subscription over the full insight set.
	Watch(ctx context.Context) (*store.Subscription[model.InsightItem], error)
}
