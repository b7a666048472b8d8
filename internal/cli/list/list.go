package list

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
	"github.com/spendlog/spendlog/internal/util"
)

type listCommand struct {
	dateDesc bool
}

func NewCommand() cli.Command {
	return &listCommand{}
}

func (c *listCommand) Description() string {
	return "Lists the expenses visible to the current user"
}

func (c *listCommand) SetFlags(fset *flag.FlagSet) {
	fset.BoolVar(&c.dateDesc, "desc", false, "order by date, newest first")
}

func (c *listCommand) Run(
	ctx context.Context,
	_ *config.Config,
	s storage.Storage,
	scope storage.Scope,
	_ *logger.Logger,
) error {
	var records []storage.Record
	var err error

	if c.dateDesc {
		records, err = s.GetRecordsByDateDesc(ctx, scope)
	} else {
		records, err = s.GetRecords(ctx, scope)
	}
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No expenses found")
		return nil
	}

	Print(os.Stdout, records)
	return nil
}

// Print renders records as an aligned table.
func Print(out *os.File, records []storage.Record) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAMOUNT\tCATEGORY\tDATE\tNOTE")

	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.ID(),
			util.ColorOutput(util.FormatAmount(r.Amount()), "red"),
			r.Category(),
			r.Date().Format(storage.DateFormat),
			r.Note())
	}

	w.Flush()
}
