package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/storage"
	"github.com/spendlog/spendlog/internal/testutil"
)

func TestSetAdminBootstrap(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	store := s.(auth.Store)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)

	// No admin exists yet, so the first grant needs no privilege.
	require.NoError(t, setAdmin(ctx, store, storage.Scope{}, "alice", true))

	granted, err := store.GetUserByID(ctx, alice.ID())
	require.NoError(t, err)
	assert.True(t, granted.Admin())

	// From here on grants are gated on the caller being an admin.
	var authz *storage.AuthorizationError
	err = setAdmin(ctx, store, storage.Scope{UserID: bob.ID()}, "bob", true)
	assert.ErrorAs(t, err, &authz)

	err = setAdmin(ctx, store, storage.Scope{UserID: alice.ID(), Admin: true}, "bob", true)
	assert.NoError(t, err)
}

func TestRevokeAdminIsNeverUnauthenticated(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	store := s.(auth.Store)
	ctx := context.Background()

	_, err := store.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)

	var authz *storage.AuthorizationError
	err = setAdmin(ctx, store, storage.Scope{}, "alice", false)
	assert.ErrorAs(t, err, &authz)
}
