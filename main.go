package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/backend"
	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/cli/add"
	"github.com/spendlog/spendlog/internal/cli/delete"
	"github.com/spendlog/spendlog/internal/cli/export"
	importCmd "github.com/spendlog/spendlog/internal/cli/import"
	"github.com/spendlog/spendlog/internal/cli/list"
	"github.com/spendlog/spendlog/internal/cli/login"
	"github.com/spendlog/spendlog/internal/cli/logout"
	"github.com/spendlog/spendlog/internal/cli/report"
	"github.com/spendlog/spendlog/internal/cli/search"
	"github.com/spendlog/spendlog/internal/cli/update"
	"github.com/spendlog/spendlog/internal/cli/users"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

var configPath string

var subcommands = map[string]cli.Command{
	"add":    add.NewCommand(),
	"list":   list.NewCommand(),
	"update": update.NewCommand(),
	"delete": delete.NewCommand(),
	"search": search.NewCommand(),
	"report": report.NewCommand(),
	"export": export.NewCommand(),
	"import": importCmd.NewCommand(),
	"users":  users.NewCommand(),
	"login":  login.NewCommand(),
	"logout": logout.NewCommand(),
}

// anonymousCommands run without a resolved session: signing in itself, and
// account management during initial setup.
var anonymousCommands = map[string]bool{
	"login":  true,
	"logout": true,
	"users":  true,
}

var subcommandsFlagSets = map[string]*flag.FlagSet{}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("subcommand is required\n")
		printUsage()

		os.Exit(1)
	}

	for c, cLogic := range subcommands {
		fset := flag.NewFlagSet(c, flag.ExitOnError)
		fset.StringVar(&configPath, "c", "spendlog.toml", "Configuration file")

		cLogic.SetFlags(fset)

		subcommandsFlagSets[c] = fset
	}

	commandName := os.Args[1]
	command, ok := subcommands[commandName]
	if !ok {
		if strings.Contains(commandName, "help") {
			printHelp()

			os.Exit(0)
		}
		log.Fatalf("unsupported command %s. \nUse 'help' command to print information about supported commands\n", commandName)
	}

	if err := subcommandsFlagSets[commandName].Parse(os.Args[2:]); err != nil {
		log.Fatalf("Unable to parse flags: %s", err.Error())
	}

	conf, err := config.Parse(configPath)
	if err != nil {
		log.Fatalf("Unable to parse the configuration: %s", err.Error())
	}

	appLogger := logger.New(conf.Logger)

	s, err := backend.Open(conf)
	if err != nil {
		appLogger.Fatal("Unable to open storage", "error", err.Error())
	}

	ctx := context.Background()

	if err = s.ApplyMigrations(ctx, appLogger); err != nil {
		appLogger.Fatal("Unable to prepare storage", "error", err.Error())
	}

	scope, err := resolveScope(ctx, conf, s)
	if err != nil {
		if errors.Is(err, errNotSignedIn) && anonymousCommands[commandName] {
			scope = storage.Scope{}
		} else if errors.Is(err, errNotSignedIn) {
			fmt.Fprintln(os.Stderr, err.Error())

			_ = s.Close()
			os.Exit(1)
		} else {
			appLogger.Fatal("Unable to resolve session", "error", err.Error())
		}
	}

	if err = command.Run(ctx, conf, s, scope, appLogger); err != nil {
		fmt.Fprintln(os.Stderr, cli.UserMessage(err, appLogger))

		_ = s.Close()
		os.Exit(1)
	}

	if err = s.Close(); err != nil {
		appLogger.Error("Error closing storage", "error", err)
		os.Exit(1)
	}
}

var errNotSignedIn = errors.New("not signed in: run 'spendlog login'")

// resolveScope turns the stored session token into the caller's visibility
// scope. The csv backend has no accounts, so it always gets the implicit
// scope; on a multi-user backend a missing, expired or revoked session
// yields errNotSignedIn. Stale tokens are cleaned up on the way.
func resolveScope(ctx context.Context, conf *config.Config, s storage.Storage) (storage.Scope, error) {
	store, ok := s.(auth.Store)
	if !ok {
		return storage.ImplicitScope, nil
	}

	token, err := auth.LoadToken(conf.Auth.SessionFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return storage.Scope{}, errNotSignedIn
		}
		return storage.Scope{}, err
	}

	service := auth.NewService(store, conf.SessionDuration())

	scope, err := service.Resolve(ctx, token)
	if err != nil {
		var notFound *storage.NotFoundError
		if errors.As(err, &notFound) {
			_ = auth.RemoveToken(conf.Auth.SessionFile)
			return storage.Scope{}, errNotSignedIn
		}
		return storage.Scope{}, err
	}

	return scope, nil
}

func printHelp() {
	printUsage()

	names := maps.Keys(subcommands)
	sort.Strings(names)

	for _, c := range names {
		fmt.Printf("subcommand <%s>: %s\n", c, subcommands[c].Description())
		subcommandsFlagSets[c].PrintDefaults()
		fmt.Println()
	}
}

func printUsage() {
	fmt.Printf("usage: spendlog <subcommand> [flags]\n\n")
}
