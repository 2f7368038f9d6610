package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pantrysync/internal/model"

	"github.com/rs/zerolog"
)

// LocalStore defines the contract of the durable local record store.
type LocalStore[T model.Record] interface {
	// Upsert inserts or replaces a record by id, setting its synced flag to
	// exactly the supplied value.
	Upsert(ctx context.Context, item T, synced bool) error

	// Get retrieves a record by id. Returns (nil, nil) when absent.
	Get(ctx context.Context, id string) (*T, error)

	// List returns all records in insertion order.
	List(ctx context.Context) ([]T, error)

	// ListFiltered returns records matching the filter in insertion order.
	ListFiltered(ctx context.Context, f Filter) ([]T, error)

	// Unsynced returns all records whose latest write has not been confirmed
	// by the remote store.
	Unsynced(ctx context.Context) ([]T, error)

	// Delete removes a record by id. Returns a NOT_FOUND local error when
	// the id does not exist.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error

	// Reconcile merges the authoritative server snapshot into the local
	// table with last-writer-wins semantics, as a single atomic batch.
	Reconcile(ctx context.Context, serverItems []T) error

	// Watch returns a live subscription delivering the current snapshot for
	// the filter immediately and a fresh snapshot after every committed
	// mutation, coalesced to latest-only.
	Watch(ctx context.Context, f Filter) (*Subscription[T], error)
}

// Filter selects a subset of records. Zero value matches everything.
type Filter struct {
	// Query routes by content: a fully numeric string matches the exact
	// barcode, anything else matches a case-insensitive name substring.
	Query string

	// Location restricts pantry items to one storage location.
	Location *model.StorageLocation

	// ExpiringWithinDays matches pantry items with
	// expiryDate <= today + N days, including already-expired items.
	ExpiringWithinDays *int

	// Status restricts insight items to one status.
	Status *model.InsightStatus
}

// table binds a record type to its SQLite table.
type table[T model.Record] struct {
	name    string
	columns []string
	args    func(item T, synced bool) ([]any, error)
	scan    func(row rowScanner) (T, error)
	where   func(f Filter) (string, []any)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Store is a SQLite-backed LocalStore implementation, generic over the two
// record types via a table binding.
type Store[T model.Record] struct {
	db     *sql.DB
	tbl    table[T]
	logger zerolog.Logger
	subs   *subscribers[T]
}

// NewPantryStore creates the local store for pantry items.
func NewPantryStore(db *sql.DB, logger zerolog.Logger) *Store[model.PantryItem] {
	return newStore(db, pantryTable(), logger.With().Str("store", "pantry").Logger())
}

// NewInsightStore creates the local store for insight items.
func NewInsightStore(db *sql.DB, logger zerolog.Logger) *Store[model.InsightItem] {
	return newStore(db, insightTable(), logger.With().Str("store", "insight").Logger())
}

func newStore[T model.Record](db *sql.DB, tbl table[T], logger zerolog.Logger) *Store[T] {
	return &Store[T]{
		db:     db,
		tbl:    tbl,
		logger: logger,
		subs:   newSubscribers[T](),
	}
}

// Upsert inserts or replaces a record by id with the given synced flag.
func (s *Store[T]) Upsert(ctx context.Context, item T, synced bool) error {
	args, err := s.tbl.args(item, synced)
	if err != nil {
		return model.NewLocalError(model.LocalUnknown, "upsert", err)
	}

	if _, err := s.db.ExecContext(ctx, s.upsertSQL(), args...); err != nil {
		s.logger.Error().Err(err).Str("id", item.Key()).Msg("failed to upsert record")
		return mapLocalErr("upsert", err)
	}

	s.publish(ctx)
	return nil
}

// Get retrieves a record by id, returning (nil, nil) when it does not exist.
func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?",
		strings.Join(s.tbl.columns, ", "), s.tbl.name)

	item, err := s.tbl.scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("id", id).Msg("failed to query record")
		return nil, mapLocalErr("get", err)
	}

	return &item, nil
}

// List returns all records in insertion order.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	return s.ListFiltered(ctx, Filter{})
}

// ListFiltered returns records matching the filter in insertion order.
func (s *Store[T]) ListFiltered(ctx context.Context, f Filter) ([]T, error) {
	where, args := s.tbl.where(f)

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(s.tbl.columns, ", "), s.tbl.name)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY rowid"

	return s.queryItems(ctx, "list", query, args...)
}

// Unsynced returns all records with a pending local write.
func (s *Store[T]) Unsynced(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_synced = 0",
		strings.Join(s.tbl.columns, ", "), s.tbl.name)
	return s.queryItems(ctx, "unsynced", query)
}

// Delete removes a record by id.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tbl.name), id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to delete record")
		return mapLocalErr("delete", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return mapLocalErr("delete", err)
	}
	if affected == 0 {
		return model.NewLocalError(model.LocalNotFound, "delete", nil)
	}

	s.publish(ctx)
	return nil
}

// DeleteAll removes every record from the table.
func (s *Store[T]) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", s.tbl.name)); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete all records")
		return mapLocalErr("deleteAll", err)
	}

	s.publish(ctx)
	return nil
}

// Reconcile merges the authoritative server snapshot into the local table as
// one atomic transaction:
//
//   - present only remotely            -> insert locally, synced
//   - present only locally, synced     -> deleted remotely, delete locally
//   - present only locally, unsynced   -> pending local creation, keep
//   - present on both                  -> strictly newer remote overwrites
//     local; ties favour local
func (s *Store[T]) Reconcile(ctx context.Context, serverItems []T) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapLocalErr("reconcile", err)
	}
	defer tx.Rollback()

	type localState struct {
		updatedAt int64
		synced    bool
	}

	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf("SELECT id, updated_at, is_synced FROM %s", s.tbl.name))
	if err != nil {
		return mapLocalErr("reconcile", err)
	}

	local := make(map[string]localState)
	for rows.Next() {
		var id string
		var st localState
		if err := rows.Scan(&id, &st.updatedAt, &st.synced); err != nil {
			rows.Close()
			return mapLocalErr("reconcile", err)
		}
		local[id] = st
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return mapLocalErr("reconcile", err)
	}
	rows.Close()

	remoteIDs := make(map[string]struct{}, len(serverItems))

	for _, item := range serverItems {
		remoteIDs[item.Key()] = struct{}{}

		st, exists := local[item.Key()]
		if exists && st.updatedAt >= item.LastUpdated() {
			// Local is newer or identical: either already in sync or an
			// unsynced local edit awaiting push.
			continue
		}

		args, err := s.tbl.args(item, true)
		if err != nil {
			return model.NewLocalError(model.LocalUnknown, "reconcile", err)
		}
		if _, err := tx.ExecContext(ctx, s.upsertSQL(), args...); err != nil {
			return mapLocalErr("reconcile", err)
		}
	}

	for id, st := range local {
		if _, onRemote := remoteIDs[id]; onRemote {
			continue
		}
		if !st.synced {
			// Pending local creation not yet confirmed remotely.
			continue
		}
		// Synced locally but absent from the server snapshot: deleted by
		// another device.
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tbl.name), id); err != nil {
			return mapLocalErr("reconcile", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mapLocalErr("reconcile", err)
	}

	s.logger.Debug().Int("server_items", len(serverItems)).Msg("reconcile committed")
	s.publish(ctx)
	return nil
}

// upsertSQL builds the INSERT ... ON CONFLICT statement for the bound table.
func (s *Store[T]) upsertSQL() string {
	placeholders := make([]string, len(s.tbl.columns))
	updates := make([]string, 0, len(s.tbl.columns)-1)
	for i, col := range s.tbl.columns {
		placeholders[i] = "?"
		if col != "id" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
		}
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		s.tbl.name,
		strings.Join(s.tbl.columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

func (s *Store[T]) queryItems(ctx context.Context, op, query string, args ...any) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query records")
		return nil, mapLocalErr(op, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := s.tbl.scan(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to scan record row")
			return nil, mapLocalErr(op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapLocalErr(op, err)
	}

	return items, nil
}
