package export

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	internalExport "github.com/spendlog/spendlog/internal/export"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

type exportCommand struct {
	output string
}

func NewCommand() cli.Command {
	return &exportCommand{}
}

func (c *exportCommand) Description() string {
	return "Writes the visible expenses as CSV"
}

func (c *exportCommand) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.output, "o", "", "output file (default stdout)")
}

func (c *exportCommand) Run(
	ctx context.Context,
	_ *config.Config,
	s storage.Storage,
	scope storage.Scope,
	_ *logger.Logger,
) error {
	records, err := s.GetRecords(ctx, scope)
	if err != nil {
		return err
	}

	out := os.Stdout
	if c.output != "" {
		file, fileErr := os.Create(c.output)
		if fileErr != nil {
			return &storage.TransportError{Op: "export", Err: fileErr}
		}
		defer file.Close()
		out = file
	}

	if err := internalExport.Write(out, records); err != nil {
		return &storage.TransportError{Op: "export", Err: err}
	}

	if c.output != "" {
		fmt.Printf("Exported %d expenses to %s\n", len(records), c.output)
	}

	return nil
}
