package update

import (
	"context"
	"flag"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

type updateCommand struct {
	id       int64
	amount   string
	category string
	date     string
	note     string
}

func NewCommand() cli.Command {
	return &updateCommand{}
}

func (c *updateCommand) Description() string {
	return "Overwrites the mutable fields of an expense"
}

func (c *updateCommand) SetFlags(fset *flag.FlagSet) {
	fset.Int64Var(&c.id, "id", 0, "id of the expense to update")
	fset.StringVar(&c.amount, "amount", "", "new amount, ex: 12.50")
	fset.StringVar(&c.category, "category", "", "new category")
	fset.StringVar(&c.date, "date", "", "new date (YYYY-MM-DD)")
	fset.StringVar(&c.note, "note", "", "new note")
}

func (c *updateCommand) Run(
	ctx context.Context,
	_ *config.Config,
	s storage.Storage,
	scope storage.Scope,
	_ *logger.Logger,
) error {
	if c.id <= 0 {
		return &storage.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}

	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return &storage.ValidationError{Field: "amount", Reason: "must be a decimal number"}
	}

	date, err := storage.ParseDate(c.date)
	if err != nil {
		return err
	}

	if err := s.UpdateRecord(ctx, scope, c.id, amount, c.category, date, c.note); err != nil {
		return err
	}

	fmt.Printf("Updated expense %d\n", c.id)
	return nil
}
