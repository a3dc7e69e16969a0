package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/futig/resource-assistant/internal/config"
	pkgRetry "github.com/futig/resource-assistant/internal/pkg/retry"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS action_steps (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT    NOT NULL,
	description TEXT    NOT NULL,
	details     TEXT    NOT NULL DEFAULT '',
	completed   INTEGER NOT NULL DEFAULT 0,
	step_order  INTEGER NOT NULL DEFAULT 999,
	difficulty  TEXT    NOT NULL DEFAULT 'medium',
	focus_area  TEXT    NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_action_steps_user_order ON action_steps(user_id, step_order, id);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT    NOT NULL,
	content    TEXT    NOT NULL,
	is_bot     INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_user ON chat_messages(user_id, id);
`

// SQLiteDB is the embedded storage shared by the SQLite repositories
type SQLiteDB struct {
	db    *sql.DB
	retry *pkgRetry.RetryConfig
}

// OpenSQLite opens (creating if needed) the database file and applies the schema
func OpenSQLite(ctx context.Context, cfg config.SQLiteConfig) (*SQLiteDB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		cfg.Path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen < 1 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	retryCfg := cfg.Retry
	if retryCfg.Attempts == 0 {
		retryCfg = *pkgRetry.DefaultRetryConfig()
	}

	return &SQLiteDB{db: db, retry: &retryCfg}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// withRetry reruns fn while SQLite reports lock contention
func (s *SQLiteDB) withRetry(ctx context.Context, fn func() error) error {
	return pkgRetry.Do(ctx, s.retry, isSQLiteConflictError, fn)
}

// isSQLiteConflictError reports SQLITE_BUSY and "database is locked" errors
func isSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
