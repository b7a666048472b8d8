package importcmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/export"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

type importCommand struct {
	input string
}

func NewCommand() cli.Command {
	return &importCommand{}
}

func (c *importCommand) Description() string {
	return "Imports expenses from a CSV file into the configured store"
}

func (c *importCommand) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.input, "i", "", "CSV file to import")
}

// Run inserts every row of the input file as a fresh record. Ids are
// reassigned by the store; the file's ids are ignored.
func (c *importCommand) Run(
	ctx context.Context,
	_ *config.Config,
	s storage.Storage,
	scope storage.Scope,
	logger *logger.Logger,
) error {
	if c.input == "" {
		return &storage.ValidationError{Field: "input", Reason: "an input file is required"}
	}

	file, err := os.Open(c.input)
	if err != nil {
		return &storage.TransportError{Op: "import", Err: err}
	}
	defer file.Close()

	records, err := export.Read(file, scope.UserID)
	if err != nil {
		return &storage.ValidationError{Field: "input", Reason: err.Error()}
	}

	imported := 0
	for _, r := range records {
		if _, err := s.InsertRecord(ctx, scope, r.Amount(), r.Category(), r.Date(), r.Note()); err != nil {
			logger.Error("failed to import record", "source_id", r.ID(), "error", err)
			return err
		}
		imported++
	}

	fmt.Printf("Imported %d expenses from %s\n", imported, c.input)
	return nil
}
