package logout

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

type logoutCommand struct{}

func NewCommand() cli.Command {
	return &logoutCommand{}
}

func (c *logoutCommand) Description() string {
	return "Invalidates the stored session and removes its token"
}

func (c *logoutCommand) SetFlags(_ *flag.FlagSet) {}

func (c *logoutCommand) Run(
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

	token, err := auth.LoadToken(conf.Auth.SessionFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("Not signed in")
			return nil
		}
		return err
	}

	service := auth.NewService(store, conf.SessionDuration())
	if err := service.SignOut(ctx, token); err != nil {
		return err
	}

	if err := auth.RemoveToken(conf.Auth.SessionFile); err != nil {
		return err
	}

	fmt.Println("Signed out")
	return nil
}
