package add

import (
	"context"
	"flag"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
	"github.com/spendlog/spendlog/internal/util"
)

type addCommand struct {
	amount   string
	category string
	date     string
	note     string
}

func NewCommand() cli.Command {
	return &addCommand{}
}

func (c *addCommand) Description() string {
	return "Records a new expense"
}

func (c *addCommand) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.amount, "amount", "", "expense amount, ex: 12.50")
	fset.StringVar(&c.category, "category", "", "expense category")
	fset.StringVar(&c.date, "date", "", "expense date (YYYY-MM-DD)")
	fset.StringVar(&c.note, "note", "", "optional note")
}

func (c *addCommand) Run(
	ctx context.Context,
	_ *config.Config,
	s storage.Storage,
	scope storage.Scope,
	_ *logger.Logger,
) error {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return &storage.ValidationError{Field: "amount", Reason: "must be a decimal number"}
	}

	date, err := storage.ParseDate(c.date)
	if err != nil {
		return err
	}

	record, err := s.InsertRecord(ctx, scope, amount, c.category, date, c.note)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded expense %d: %s %s on %s\n",
		record.ID(),
		util.ColorOutput(util.FormatAmount(record.Amount()), "red"),
		record.Category(),
		record.Date().Format(storage.DateFormat))

	return nil
}
