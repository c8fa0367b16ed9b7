package database

import (
	"database/sql"
	"fmt"
)

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		phone_digits      TEXT NOT NULL DEFAULT '',
		enrollment_month  TEXT NOT NULL,
		enrollment_day    INTEGER,
		sequence_in_month INTEGER NOT NULL DEFAULT 1,
		status_by_month   JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_enrollment ON clients (enrollment_month, sequence_in_month)`,
	`CREATE TABLE IF NOT EXISTS users (
		id          BIGSERIAL PRIMARY KEY,
		telegram_id BIGINT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		role        TEXT NOT NULL CHECK (role IN ('ADMIN', 'ASSISTANT')),
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS notification_runs (
		id         BIGSERIAL PRIMARY KEY,
		run_date   TEXT NOT NULL,
		kind       TEXT NOT NULL,
		delivered  INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (run_date, kind)
	)`,
}

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		phone_digits      TEXT NOT NULL DEFAULT '',
		enrollment_month  TEXT NOT NULL,
		enrollment_day    INTEGER,
		sequence_in_month INTEGER NOT NULL DEFAULT 1,
		status_by_month   TEXT NOT NULL DEFAULT '{}',
		created_at        TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_enrollment ON clients (enrollment_month, sequence_in_month)`,
	`CREATE TABLE IF NOT EXISTS users (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		telegram_id INTEGER NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		role        TEXT NOT NULL CHECK (role IN ('ADMIN', 'ASSISTANT')),
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS notification_runs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_date   TEXT NOT NULL,
		kind       TEXT NOT NULL,
		delivered  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (run_date, kind)
	)`,
}

// Migrate runs all schema migrations. Every statement is idempotent, so it
// is safe on each start.
func Migrate(db *sql.DB, d Dialect) error {
	stmts := postgresMigrations
	if d == SQLite {
		stmts = sqliteMigrations
	}
	for i, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d (%s): %w", i, d, err)
		}
	}
	return nil
}
