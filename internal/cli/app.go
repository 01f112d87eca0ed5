// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the command-line interface of pkgview.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/janderssonse/pkgview/internal/config"
	"github.com/janderssonse/pkgview/internal/listmodel"
	"github.com/janderssonse/pkgview/internal/tui"
)

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess      = 0  // Operation completed successfully
	ExitGeneralError = 1  // Generic failure (catch-all)
	ExitUsageError   = 2  // Invalid command line usage
	ExitConfigError  = 3  // Configuration file error
	ExitNotFound     = 5  // Package or catalog not found
	ExitSystemError  = 12 // System call failed
	ExitAborted      = 14 // User declined a confirmation
	ExitWarnings     = 64 // Operation partially succeeded
)

// ErrNoCatalog is returned when no catalog snapshot was given.
var ErrNoCatalog = errors.New("no catalog: pass --catalog or set PKGVIEW_CATALOG")

// ExitError carries a specific exit code out of a command action.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// CLI wires the catalog, configuration and list layer behind commands.
type CLI struct {
	app *cli.Command

	verbose     bool
	plain       bool
	noColor     bool
	yes         bool
	configPath  string
	catalogPath string

	cfg    *config.Config
	logger *slog.Logger
}

// New creates the pkgview command tree.
func New() *CLI {
	app := &CLI{}

	app.app = &cli.Command{
		Name:    "pkgview",
		Usage:   "Browse and mark packages from a catalog snapshot",
		Suggest: true,
		Description: `Interactive package list over a catalog snapshot.

Without a subcommand pkgview opens the TUI. Use "list" for scriptable
output and "mark" to stage actions from the command line.

EXAMPLES:
  pkgview --catalog status.toml
  pkgview list --limit 'upgradable ~sadmin'
  pkgview mark install zsh emacs`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "show debug messages on stderr",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "plain text output without headers, for scripts",
				Destination: &app.plain,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "disable row highlighting",
				Destination: &app.noColor,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "automatically answer yes to all prompts",
				Destination: &app.yes,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "configuration file path",
				Destination: &app.configPath,
			},
			&cli.StringFlag{
				Name:        "catalog",
				Aliases:     []string{"c"},
				Usage:       "catalog snapshot to load (TOML)",
				Sources:     cli.EnvVars("PKGVIEW_CATALOG"),
				Destination: &app.catalogPath,
			},
		},
		Before: app.before,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return app.runTUI(ctx)
		},
		Commands: []*cli.Command{
			app.createTUICommand(),
			app.createListCommand(),
			app.createMarkCommand(),
			app.createConfigCommand(),
		},
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

func (app *CLI) before(ctx context.Context, _ *cli.Command) (context.Context, error) {
	level := slog.LevelWarn
	if app.verbose {
		level = slog.LevelDebug
	}

	app.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	path := app.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return ctx, NewExitError(ExitConfigError, "loading configuration", err)
	}

	if app.noColor {
		cfg.NoColor = true
	}

	app.cfg = cfg

	return ctx, nil
}

// openCatalog loads the snapshot named by --catalog or PKGVIEW_CATALOG.
func (app *CLI) openCatalog() (*catalog.Catalog, error) {
	if app.catalogPath == "" {
		return nil, NewExitError(ExitConfigError, ErrNoCatalog.Error(), nil)
	}

	cat, err := catalog.LoadTOML(app.catalogPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewExitError(ExitNotFound, "catalog not found", err)
		}

		return nil, NewExitError(ExitConfigError, "loading catalog", err)
	}

	return cat, nil
}

func (app *CLI) createTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Open the interactive package list (default)",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return app.runTUI(ctx)
		},
	}
}

func (app *CLI) runTUI(ctx context.Context) error {
	cat, err := app.openCatalog()
	if err != nil {
		return err
	}

	defer cat.Close()

	if err := tui.New(cat, app.cfg, app.logger).Run(ctx); err != nil {
		return NewExitError(ExitSystemError, "running TUI", err)
	}

	return nil
}

// generatorFor maps a configured grouping mode to its list generator.
func generatorFor(grouping string) listmodel.GeneratorFactory {
	switch grouping {
	case config.GroupingSections:
		return listmodel.NewSectionGenerator
	case config.GroupingStatus:
		return listmodel.NewStatusGenerator
	default:
		return listmodel.NewFlatGenerator
	}
}
