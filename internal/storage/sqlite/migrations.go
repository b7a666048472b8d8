package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

func createMigrationsTable(ctx context.Context, db *sql.DB) error {
	statement, err := db.PrepareContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
					version INTEGER PRIMARY KEY,
					applied_at INTEGER NOT NULL
			)
	`)
	if err != nil {
		return err
	}
	defer statement.Close()
	_, err = statement.ExecContext(ctx)
	return err
}

// ApplyMigrations brings the schema up to the current version. Each pending
// migration runs in its own transaction together with its version bump.
func (s *sqliteStorage) ApplyMigrations(ctx context.Context, logger *logger.Logger) error {
	if err := createMigrationsTable(ctx, s.db); err != nil {
		return &storage.TransportError{Op: "migrate", Err: fmt.Errorf("failed to create migrations table: %w", err)}
	}

	currentVersion := 0
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return &storage.TransportError{Op: "migrate", Err: fmt.Errorf("failed to get current schema version: %w", err)}
	}

	migrations := []struct {
		name string
		up   func(*sql.Tx) error
	}{
		{
			name: "Create users table",
			up: func(tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, `
					CREATE TABLE IF NOT EXISTS users
					(
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					username TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					admin INTEGER NOT NULL DEFAULT 0,
					created_at INTEGER NOT NULL
					)
				`)
				return err
			},
		},
		{
			name: "Create records table",
			up: func(tx *sql.Tx) error {
				// AUTOINCREMENT keeps the id watermark in
				// sqlite_sequence, so deleted ids are never reused,
				// not even across restarts.
				_, err := tx.ExecContext(ctx, `
					CREATE TABLE IF NOT EXISTS records
					(
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					amount TEXT NOT NULL,
					category TEXT NOT NULL,
					category_key TEXT NOT NULL,
					date TEXT NOT NULL,
					note TEXT NOT NULL DEFAULT '',
					user_id INTEGER NOT NULL,
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
					)
				`)
				return err
			},
		},
		{
			name: "Create sessions table",
			up: func(tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, `
					CREATE TABLE IF NOT EXISTS sessions
					(
					id TEXT PRIMARY KEY,
					user_id INTEGER NOT NULL,
					expires_at INTEGER NOT NULL,
					created_at INTEGER NOT NULL,
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
					)
				`)
				return err
			},
		},
		{
			name: "Index records on user and date",
			up: func(tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, `
					CREATE INDEX IF NOT EXISTS idx_records_user_date ON records(user_id, date)
				`)
				if err != nil {
					return err
				}
				_, err = tx.ExecContext(ctx, `
					CREATE INDEX IF NOT EXISTS idx_records_category_key ON records(category_key)
				`)
				return err
			},
		},
	}

	for i, migration := range migrations {
		version := i + 1
		if version <= currentVersion {
			continue
		}

		logger.Info("Applying migration", "version", version, "name", migration.name)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return &storage.TransportError{Op: "migrate", Err: fmt.Errorf("failed to begin transaction: %w", err)}
		}

		if err = migration.up(tx); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				return &storage.TransportError{Op: "migrate", Err: rErr}
			}
			return &storage.TransportError{Op: "migrate", Err: fmt.Errorf("migration %q failed: %w", migration.name, err)}
		}

		if _, err = tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().Unix()); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				return &storage.TransportError{Op: "migrate", Err: rErr}
			}
			return &storage.TransportError{Op: "migrate", Err: fmt.Errorf("failed to record migration version: %w", err)}
		}

		if err = tx.Commit(); err != nil {
			return &storage.TransportError{Op: "migrate", Err: fmt.Errorf("failed to commit migration: %w", err)}
		}
	}

	return nil
}
