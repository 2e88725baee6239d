package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumahq/luma/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/luma.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.luma.
func Init(baseDir string) (*sql.DB, error) {
	// Create base directory with restricted permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	// Open database with pragmas in connection string (applies to all connections)
	dbPath := filepath.Join(baseDir, "luma.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify WAL mode is active
	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	// Run migrations (this creates the file if it doesn't exist)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
// Call after Init if you need to tune pool behavior for contention.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS captures (
		  id                  TEXT PRIMARY KEY,
		  user_id             TEXT,
		  created_at          INTEGER NOT NULL,
		  mood_id             TEXT NOT NULL,
		  mood_name           TEXT NOT NULL DEFAULT '',
		  note                TEXT,
		  image_ref           TEXT NOT NULL DEFAULT '',
		  tags_json           TEXT,
		  include_in_insights INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_captures_user_created
		ON captures(user_id, created_at);

		CREATE TABLE IF NOT EXISTS albums (
		  id         TEXT PRIMARY KEY,
		  user_id    TEXT,
		  name       TEXT NOT NULL,
		  created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS album_captures (
		  album_id   TEXT NOT NULL,
		  capture_id TEXT NOT NULL,
		  added_at   INTEGER NOT NULL,
		  PRIMARY KEY (album_id, capture_id)
		);

		CREATE INDEX IF NOT EXISTS idx_album_captures_capture
		ON album_captures(capture_id);

		CREATE TABLE IF NOT EXISTS insight_snapshots (
		  id                TEXT PRIMARY KEY,
		  user_id           TEXT NOT NULL,
		  kind              TEXT NOT NULL,
		  period_key        TEXT NOT NULL,
		  period_start      INTEGER NOT NULL,
		  period_end        INTEGER NOT NULL,
		  generated_at      INTEGER NOT NULL,
		  included_ids_json TEXT NOT NULL,
		  narrative         TEXT NOT NULL,
		  request_id        TEXT,
		  UNIQUE (user_id, kind, period_key)
		);

		CREATE TABLE IF NOT EXISTS daily_flows (
		  user_id     TEXT NOT NULL,
		  day_key     TEXT NOT NULL,
		  flow_json   TEXT NOT NULL,
		  computed_at INTEGER NOT NULL,
		  PRIMARY KEY (user_id, day_key)
		);

		CREATE TABLE IF NOT EXISTS monthly_summaries (
		  user_id        TEXT NOT NULL,
		  month_key      TEXT NOT NULL,
		  phrase         TEXT,
		  reasoning      TEXT,
		  total_captures INTEGER NOT NULL,
		  generated_at   INTEGER NOT NULL,
		  PRIMARY KEY (user_id, month_key)
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
