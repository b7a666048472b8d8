package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spendlog/spendlog/internal/storage"
)

func (s *sqliteStorage) CreateUser(ctx context.Context, username, passwordHash string) (storage.User, error) {
	createdAt := time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, admin, created_at) VALUES (?, ?, 0, ?)`,
		username, passwordHash, createdAt.Unix())
	if err != nil {
		return nil, &storage.TransportError{Op: "create user", Err: fmt.Errorf("failed to create user: %w", err)}
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return nil, &storage.TransportError{Op: "create user", Err: fmt.Errorf("failed to get user id: %w", err)}
	}

	return storage.NewUser(userID, username, passwordHash, false, createdAt), nil
}

func (s *sqliteStorage) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, admin, created_at
		FROM users
		WHERE username = ?
	`, username)

	return userFromRow(row.Scan)
}

func (s *sqliteStorage) GetUserByID(ctx context.Context, id int64) (storage.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, admin, created_at
		FROM users
		WHERE id = ?
	`, id)

	return userFromRow(row.Scan)
}

func (s *sqliteStorage) SetAdmin(ctx context.Context, userID int64, admin bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET admin = ?
		WHERE id = ?
	`, boolToInt(admin), userID)
	if err != nil {
		return &storage.TransportError{Op: "set admin", Err: err}
	}

	return requireRowsAffected(result, "set admin")
}

func (s *sqliteStorage) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE admin = 1`)
	if err := row.Scan(&count); err != nil {
		return 0, &storage.TransportError{Op: "count admins", Err: err}
	}
	return count, nil
}

func userFromRow(scan func(dest ...any) error) (storage.User, error) {
	var id int64
	var username string
	var passwordHash string
	var admin int
	var createdAt int64

	if err := scan(&id, &username, &passwordHash, &admin, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, &storage.TransportError{Op: "scan user", Err: err}
	}

	return storage.NewUser(id, username, passwordHash, admin != 0, time.Unix(createdAt, 0)), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
