package search

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/cli/list"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

type searchCommand struct {
	category string
	from     string
	to       string
}

func NewCommand() cli.Command {
	return &searchCommand{}
}

func (c *searchCommand) Description() string {
	return "Filters expenses by category or by an inclusive date range"
}

func (c *searchCommand) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.category, "category", "", "category to match (case-insensitive)")
	fset.StringVar(&c.from, "from", "", "range start (YYYY-MM-DD)")
	fset.StringVar(&c.to, "to", "", "range end (YYYY-MM-DD)")
}

func (c *searchCommand) Run(
	ctx context.Context,
	_ *config.Config,
	s storage.Storage,
	scope storage.Scope,
	_ *logger.Logger,
) error {
	var records []storage.Record
	var err error

	switch {
	case c.category != "":
		records, err = s.GetRecordsByCategory(ctx, scope, c.category)
	case c.from != "" || c.to != "":
		records, err = c.searchRange(ctx, s, scope)
	default:
		return &storage.ValidationError{Field: "search", Reason: "requires -category or -from/-to"}
	}

	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No expenses found")
		return nil
	}

	list.Print(os.Stdout, records)
	return nil
}

func (c *searchCommand) searchRange(
	ctx context.Context,
	s storage.Storage,
	scope storage.Scope,
) ([]storage.Record, error) {
	start, err := storage.ParseDate(c.from)
	if err != nil {
		return nil, err
	}

	end, err := storage.ParseDate(c.to)
	if err != nil {
		return nil, err
	}

	return s.GetRecordsFromDateRange(ctx, scope, start, end)
}
