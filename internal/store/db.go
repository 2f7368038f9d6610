// Package store implements the durable local record store on SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the local SQLite database under dataDir
// and ensures the schema exists. The connection is configured for a single
// writer with WAL mode so concurrent readers are not blocked during sync.
func Open(dataDir string, logger zerolog.Logger) (*sql.DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "pantrysync.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; serialize all access through one
	// connection so transactions never contend with each other.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Str("path", dbPath).Msg("local store opened")

	return db, nil
}

// EnsureSchema creates the record tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS pantry_items (
		id               TEXT PRIMARY KEY CHECK (id <> ''),
		barcode          TEXT NOT NULL DEFAULT '',
		name             TEXT NOT NULL DEFAULT '',
		brand            TEXT NOT NULL DEFAULT '',
		image_url        TEXT NOT NULL DEFAULT '',
		thumb_url        TEXT NOT NULL DEFAULT '',
		quantity         REAL NOT NULL DEFAULT 0,
		unit             TEXT NOT NULL DEFAULT '',
		packaging_size   TEXT NOT NULL DEFAULT '',
		expiry_date      TEXT NOT NULL DEFAULT '',
		purchase_date    TEXT NOT NULL DEFAULT '',
		open_date        TEXT,
		storage_location TEXT NOT NULL DEFAULT 'PANTRY',
		nutri_score      TEXT NOT NULL DEFAULT '',
		nova_group       INTEGER NOT NULL DEFAULT 0,
		eco_score        TEXT NOT NULL DEFAULT '',
		allergens        TEXT NOT NULL DEFAULT 'null',
		labels           TEXT NOT NULL DEFAULT 'null',
		energy_kcal      REAL,
		fat              REAL,
		saturated_fat    REAL,
		carbohydrates    REAL,
		sugars           REAL,
		fiber            REAL,
		proteins         REAL,
		salt             REAL,
		updated_at       INTEGER NOT NULL,
		is_synced        INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_pantry_items_unsynced ON pantry_items (is_synced);
	CREATE INDEX IF NOT EXISTS idx_pantry_items_expiry ON pantry_items (expiry_date);

	CREATE TABLE IF NOT EXISTS insight_items (
		id          TEXT PRIMARY KEY CHECK (id <> ''),
		name        TEXT NOT NULL DEFAULT '',
		image_url   TEXT NOT NULL DEFAULT '',
		quantity    REAL NOT NULL DEFAULT 0,
		unit        TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		action_date TEXT NOT NULL DEFAULT '',
		nutri_score TEXT NOT NULL DEFAULT '',
		nova_group  INTEGER NOT NULL DEFAULT 0,
		eco_score   TEXT NOT NULL DEFAULT '',
		allergens   TEXT NOT NULL DEFAULT 'null',
		labels      TEXT NOT NULL DEFAULT 'null',
		updated_at  INTEGER NOT NULL,
		is_synced   INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_insight_items_unsynced ON insight_items (is_synced);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
