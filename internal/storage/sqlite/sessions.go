package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/spendlog/spendlog/internal/storage"
)

func (s *sqliteStorage) CreateSession(
	ctx context.Context,
	userID int64,
	sessionID string,
	expiresAt time.Time,
) (storage.Session, error) {
	createdAt := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, userID, expiresAt.Unix(), createdAt.Unix())
	if err != nil {
		return nil, &storage.TransportError{Op: "create session", Err: err}
	}

	return storage.NewSession(sessionID, userID, expiresAt, createdAt), nil
}

func (s *sqliteStorage) GetSession(ctx context.Context, sessionID string) (storage.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`, sessionID)

	var id string
	var userID int64
	var expiresAt int64
	var createdAt int64

	if err := row.Scan(&id, &userID, &expiresAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, &storage.TransportError{Op: "scan session", Err: err}
	}

	return storage.NewSession(id, userID, time.Unix(expiresAt, 0), time.Unix(createdAt, 0)), nil
}

func (s *sqliteStorage) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return &storage.TransportError{Op: "delete session", Err: err}
	}

	return requireRowsAffected(result, "delete session")
}

func (s *sqliteStorage) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, &storage.TransportError{Op: "delete expired sessions", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, &storage.TransportError{Op: "delete expired sessions", Err: err}
	}

	return affected, nil
}
