// Package auth is the identity provider for multi-user backends: password
// hashing, session issuance, and resolution of a session token into the
// visibility scope the store understands. The store remains the system of
// record; nothing is cached here.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spendlog/spendlog/internal/storage"
)

const (
	minPasswordLength = 8
	sessionIDLength   = 32
)

// ErrInvalidCredentials is returned on a bad username/password pair. It is
// deliberately indistinguishable between the two cases.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Store is what the identity provider needs from the backend.
type Store interface {
	storage.UserStorage
	storage.SessionStorage
}

type Service struct {
	store           Store
	sessionDuration time.Duration
}

func NewService(store Store, sessionDuration time.Duration) *Service {
	return &Service{
		store:           store,
		sessionDuration: sessionDuration,
	}
}

// SignUp creates a user with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, username, password string) (storage.User, error) {
	if username == "" {
		return nil, &storage.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(password) < minPasswordLength {
		return nil, &storage.ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters long", minPasswordLength),
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.CreateUser(ctx, username, string(hashedPassword))
}

// SignIn verifies the credentials and issues a fresh session.
func (s *Service) SignIn(ctx context.Context, username, password string) (storage.Session, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		var notFound *storage.NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.sessionDuration)
	return s.store.CreateSession(ctx, user.ID(), sessionID, expiresAt)
}

// SignOut invalidates the session. Unknown sessions are not an error.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	err := s.store.DeleteSession(ctx, sessionID)

	var notFound *storage.NotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// Resolve turns a session token into the caller's scope. Expired sessions
// are deleted and reported as not found.
func (s *Service) Resolve(ctx context.Context, sessionID string) (storage.Scope, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return storage.Scope{}, err
	}

	if time.Now().After(session.ExpiresAt()) {
		_ = s.store.DeleteSession(ctx, sessionID)
		return storage.Scope{}, &storage.NotFoundError{}
	}

	return s.ScopeFor(ctx, session.UserID())
}

// ScopeFor builds the scope for a known user id, consulting the admin flag.
func (s *Service) ScopeFor(ctx context.Context, userID int64) (storage.Scope, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return storage.Scope{}, err
	}

	return storage.Scope{UserID: user.ID(), Admin: user.Admin()}, nil
}

// RequireAdmin gates operations that act outside the caller's own records.
func RequireAdmin(scope storage.Scope) error {
	if !scope.Admin {
		return &storage.AuthorizationError{}
	}
	return nil
}

func generateSessionID() (string, error) {
	bytes := make([]byte, sessionIDLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
