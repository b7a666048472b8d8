package users

import (
	"context"
	"flag"
	"fmt"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

type usersCommand struct {
	create   string
	password string
	grant    string
	revoke   string
}

func NewCommand() cli.Command {
	return &usersCommand{}
}

func (c *usersCommand) Description() string {
	return "Manages user accounts on a multi-user backend"
}

func (c *usersCommand) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.create, "create", "", "username to create")
	fset.StringVar(&c.password, "password", "", "password for the new user")
	fset.StringVar(&c.grant, "grant-admin", "", "username to grant admin privilege")
	fset.StringVar(&c.revoke, "revoke-admin", "", "username to revoke admin privilege")
}

func (c *usersCommand) Run(
	ctx context.Context,
	conf *config.Config,
	s storage.Storage,
	scope storage.Scope,
	_ *logger.Logger,
) error {
	store, ok := s.(auth.Store)
	if !ok {
		return fmt.Errorf("the configured backend does not support user accounts")
	}

	switch {
	case c.create != "":
		return c.createUser(ctx, conf, store)
	case c.grant != "":
		return setAdmin(ctx, store, scope, c.grant, true)
	case c.revoke != "":
		return setAdmin(ctx, store, scope, c.revoke, false)
	default:
		return &storage.ValidationError{
			Field:  "users",
			Reason: "requires -create, -grant-admin or -revoke-admin",
		}
	}
}

func (c *usersCommand) createUser(ctx context.Context, conf *config.Config, store auth.Store) error {
	service := auth.NewService(store, conf.SessionDuration())

	user, err := service.SignUp(ctx, c.create, c.password)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (id %d)\n", user.Username(), user.ID())
	return nil
}

// setAdmin changes another account's privilege, so it is gated on the
// caller being an admin. The one exception is bootstrap: while the backend
// has no admin at all, the first grant goes through unauthenticated.
func setAdmin(
	ctx context.Context,
	store auth.Store,
	scope storage.Scope,
	username string,
	admin bool,
) error {
	if err := auth.RequireAdmin(scope); err != nil {
		admins, countErr := store.CountAdmins(ctx)
		if countErr != nil {
			return countErr
		}
		if admins > 0 || !admin {
			return err
		}
	}

	user, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := store.SetAdmin(ctx, user.ID(), admin); err != nil {
		return err
	}

	if admin {
		fmt.Printf("Granted admin to %s\n", username)
	} else {
		fmt.Printf("Revoked admin from %s\n", username)
	}

	return nil
}
