// Package remote implements the authoritative cloud record store on
// PostgreSQL. All operations are scoped by userId and never retry
// internally; retry policy belongs to the sync orchestrator.
package remote

import (
	"context"
	"fmt"
	"strings"

	"pantrysync/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store defines the remote CRUD contract for one record type.
type Store[T model.Record] interface {
	// Create inserts a new record, failing with a CONFLICT remote error if
	// the id already exists for this user.
	Create(ctx context.Context, userID string, item T) error

	// Get retrieves a record, failing with NOT_FOUND when absent.
	Get(ctx context.Context, userID, id string) (T, error)

	// GetAll returns the user's full authoritative record set.
	GetAll(ctx context.Context, userID string) ([]T, error)

	// Update upserts a record by id unconditionally. The engine resolves
	// conflicts before this is called; the transport layer itself is
	// last-write-wins.
	Update(ctx context.Context, userID string, item T) error

	// Delete removes a record. Deleting a non-existent id is not an error.
	Delete(ctx context.Context, userID, id string) error

	// DeleteAll removes every record belonging to the user.
	DeleteAll(ctx context.Context, userID string) error
}

// pgTable binds a record type to its PostgreSQL table.
type pgTable[T model.Record] struct {
	// columns excludes user_id, which is always the first bound argument.
	name    string
	columns []string
	args    func(item T) ([]any, error)
	scan    func(row rowScanner) (T, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// pgStore is a PostgreSQL-backed Store implementation.
type pgStore[T model.Record] struct {
	pool   *pgxpool.Pool
	tbl    pgTable[T]
	logger zerolog.Logger
}

// NewPantryStore creates the remote store for pantry items.
func NewPantryStore(pool *pgxpool.Pool, logger zerolog.Logger) Store[model.PantryItem] {
	return &pgStore[model.PantryItem]{
		pool:   pool,
		tbl:    remotePantryTable(),
		logger: logger.With().Str("remote", "pantry").Logger(),
	}
}

// NewInsightStore creates the remote store for insight items.
func NewInsightStore(pool *pgxpool.Pool, logger zerolog.Logger) Store[model.InsightItem] {
	return &pgStore[model.InsightItem]{
		pool:   pool,
		tbl:    remoteInsightTable(),
		logger: logger.With().Str("remote", "insight").Logger(),
	}
}

func (s *pgStore[T]) Create(ctx context.Context, userID string, item T) error {
	args, err := s.tbl.args(item)
	if err != nil {
		return model.NewRemoteError(model.RemoteSerialization, "create", err)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (user_id, %s) VALUES (%s)",
		s.tbl.name,
		strings.Join(s.tbl.columns, ", "),
		placeholders(len(s.tbl.columns)+1),
	)

	if _, err := s.pool.Exec(ctx, query, prepend(userID, args)...); err != nil {
		s.logger.Error().Err(err).Str("id", item.Key()).Msg("failed to create remote record")
		return mapRemoteErr("create", err)
	}

	return nil
}

func (s *pgStore[T]) Get(ctx context.Context, userID, id string) (T, error) {
	var zero T

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE user_id = $1 AND id = $2",
		strings.Join(s.tbl.columns, ", "), s.tbl.name,
	)

	item, err := s.tbl.scan(s.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return zero, model.NewRemoteError(model.RemoteNotFound, "get", err)
		}
		s.logger.Error().Err(err).Str("id", id).Msg("failed to query remote record")
		return zero, mapRemoteErr("get", err)
	}

	return item, nil
}

func (s *pgStore[T]) GetAll(ctx context.Context, userID string) ([]T, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE user_id = $1 ORDER BY id",
		strings.Join(s.tbl.columns, ", "), s.tbl.name,
	)

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query remote records")
		return nil, mapRemoteErr("getAll", err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := s.tbl.scan(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to scan remote record row")
			return nil, mapRemoteErr("getAll", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapRemoteErr("getAll", err)
	}

	return items, nil
}

func (s *pgStore[T]) Update(ctx context.Context, userID string, item T) error {
	args, err := s.tbl.args(item)
	if err != nil {
		return model.NewRemoteError(model.RemoteSerialization, "update", err)
	}

	updates := make([]string, 0, len(s.tbl.columns)-1)
	for _, col := range s.tbl.columns {
		if col != "id" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (user_id, %s) VALUES (%s) ON CONFLICT (user_id, id) DO UPDATE SET %s",
		s.tbl.name,
		strings.Join(s.tbl.columns, ", "),
		placeholders(len(s.tbl.columns)+1),
		strings.Join(updates, ", "),
	)

	if _, err := s.pool.Exec(ctx, query, prepend(userID, args)...); err != nil {
		s.logger.Error().Err(err).Str("id", item.Key()).Msg("failed to update remote record")
		return mapRemoteErr("update", err)
	}

	return nil
}

func (s *pgStore[T]) Delete(ctx context.Context, userID, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1 AND id = $2", s.tbl.name)

	if _, err := s.pool.Exec(ctx, query, userID, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to delete remote record")
		return mapRemoteErr("delete", err)
	}

	return nil
}

func (s *pgStore[T]) DeleteAll(ctx context.Context, userID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", s.tbl.name)

	if _, err := s.pool.Exec(ctx, query, userID); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete remote records")
		return mapRemoteErr("deleteAll", err)
	}

	return nil
}

// placeholders returns "$1, $2, ..., $n".
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

func prepend(userID string, args []any) []any {
	return append([]any{userID}, args...)
}
