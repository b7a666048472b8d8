package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// import sqlite driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/storage"
)

type sqliteStorage struct {
	db *sql.DB
}

// New opens the sqlite ledger store described by dbConfig. Record ids come
// from AUTOINCREMENT, so allocation is atomic under concurrent writers and
// deleted ids are never handed out again.
func New(dbConfig config.DBConfig) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dbConfig.Source)
	if err != nil {
		return nil, &storage.TransportError{Op: "open", Err: err}
	}

	if dbConfig.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}

	if dbConfig.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}

	if dbConfig.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Second)
	}

	ctx := context.Background()

	// Enable foreign key constraints
	if _, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, &storage.TransportError{Op: "open", Err: err}
	}

	if dbConfig.JournalMode != "" {
		if _, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA journal_mode = %s", dbConfig.JournalMode)); err != nil {
			return nil, &storage.TransportError{Op: "open", Err: fmt.Errorf("failed to set journal_mode: %w", err)}
		}
	}

	if dbConfig.Synchronous != "" {
		if _, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA synchronous = %s", dbConfig.Synchronous)); err != nil {
			return nil, &storage.TransportError{Op: "open", Err: fmt.Errorf("failed to set synchronous: %w", err)}
		}
	}

	if dbConfig.BusyTimeout > 0 {
		if _, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", dbConfig.BusyTimeout)); err != nil {
			return nil, &storage.TransportError{Op: "open", Err: fmt.Errorf("failed to set busy_timeout: %w", err)}
		}
	}

	if dbConfig.CacheSize != 0 {
		if _, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA cache_size = %d", dbConfig.CacheSize)); err != nil {
			return nil, &storage.TransportError{Op: "open", Err: fmt.Errorf("failed to set cache_size: %w", err)}
		}
	}

	return &sqliteStorage{db: db}, nil
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
