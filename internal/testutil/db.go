package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/storage"
	"github.com/spendlog/spendlog/internal/storage/csvfile"
	"github.com/spendlog/spendlog/internal/storage/sqlite"
)

// SetupTestStorage returns a migrated in-memory sqlite store.
func SetupTestStorage(t *testing.T) storage.Storage {
	t.Helper()

	s, err := sqlite.New(config.DBConfig{Source: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test storage: %v", err)
	}

	if err := s.ApplyMigrations(context.Background(), TestLogger(t)); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close test storage: %v", err)
		}
	})

	return s
}

// SetupTestUser creates a user and returns its scope.
func SetupTestUser(t *testing.T, s storage.Storage, username string) storage.Scope {
	t.Helper()

	users, ok := s.(storage.UserStorage)
	if !ok {
		t.Fatalf("storage %T does not support users", s)
	}

	user, err := users.CreateUser(context.Background(), username, "test-hash")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return storage.Scope{UserID: user.ID()}
}

// SetupTestCSVStorage returns a migrated csv store backed by a temp dir.
func SetupTestCSVStorage(t *testing.T) storage.Storage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storage.csv")
	s := csvfile.New(path)

	if err := s.ApplyMigrations(context.Background(), TestLogger(t)); err != nil {
		t.Fatalf("Failed to initialize csv storage: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close csv storage: %v", err)
		}
	})

	return s
}
