package login

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

type loginCommand struct {
	user     string
	password string
}

func NewCommand() cli.Command {
	return &loginCommand{}
}

func (c *loginCommand) Description() string {
	return "Signs in and stores the session token for later invocations"
}

func (c *loginCommand) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.user, "user", "", "username to sign in as")
	fset.StringVar(&c.password, "password", "", "password")
}

func (c *loginCommand) Run(
	ctx context.Context,
	conf *config.Config,
	s storage.Storage,
	_ storage.Scope,
	_ *logger.Logger,
) error {
	store, ok := s.(auth.Store)
	if !ok {
		return fmt.Errorf("the configured backend does not support user accounts")
	}

	if c.user == "" {
		return &storage.ValidationError{Field: "user", Reason: "a username is required"}
	}

	service := auth.NewService(store, conf.SessionDuration())

	session, err := service.SignIn(ctx, c.user, c.password)
	if err != nil {
		return err
	}

	if err := auth.SaveToken(conf.Auth.SessionFile, session.ID()); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s, session valid until %s\n",
		c.user, session.ExpiresAt().Format("2006-01-02 15:04"))
	return nil
}
