package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

// Command is one CLI subcommand. The dispatcher in main wires flags, opens
// the configured store, resolves the caller's scope and hands everything
// to Run.
type Command interface {
	SetFlags(fset *flag.FlagSet)
	Description() string
	Run(ctx context.Context, conf *config.Config, s storage.Storage, scope storage.Scope, logger *logger.Logger) error
}

// UserMessage maps an error to what the user should see. Validation
// failures are specific and correctable; not-found and authorization both
// collapse to a generic message so record existence is never leaked;
// transport failures get a generic retry message while the cause goes to
// the log.
func UserMessage(err error, logger *logger.Logger) string {
	var validation *storage.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}

	var notFound *storage.NotFoundError
	var authorization *storage.AuthorizationError
	if errors.As(err, &notFound) || errors.As(err, &authorization) {
		return "no such record"
	}

	var transport *storage.TransportError
	if errors.As(err, &transport) {
		logger.Error("storage failure", "op", transport.Op, "error", transport.Err)
		return "storage is unavailable, try again"
	}

	return err.Error()
}
