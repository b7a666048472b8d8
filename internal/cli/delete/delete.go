package delete

import (
	"context"
	"flag"
	"fmt"

	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

type deleteCommand struct {
	id int64
}

func NewCommand() cli.Command {
	return &deleteCommand{}
}

func (c *deleteCommand) Description() string {
	return "Deletes an expense by id"
}

func (c *deleteCommand) SetFlags(fset *flag.FlagSet) {
	fset.Int64Var(&c.id, "id", 0, "id of the expense to delete")
}

func (c *deleteCommand) Run(
	ctx context.Context,
	_ *config.Config,
	s storage.Storage,
	scope storage.Scope,
	_ *logger.Logger,
) error {
	if c.id <= 0 {
		return &storage.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}

	if err := s.DeleteRecord(ctx, scope, c.id); err != nil {
		return err
	}

	fmt.Printf("Deleted expense %d\n", c.id)
	return nil
}
