// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	cli "github.com/urfave/cli/v3"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/janderssonse/pkgview/internal/config"
	"github.com/janderssonse/pkgview/internal/console"
	"github.com/janderssonse/pkgview/internal/listmodel"
	"github.com/janderssonse/pkgview/internal/undo"
)

// createListCommand creates the non-interactive list command.
func (app *CLI) createListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the packages matching a limit",
		Description: `Builds the same list the TUI shows and prints it.

LIMIT TERMS (space separated, all must match):
  all installed notinstalled upgradable broken held virtual
  ~s<section>   section equals <section>
  !<term>       negate a term
  <word>        name contains <word>

EXAMPLES:
  pkgview list --limit upgradable
  pkgview list --group sections --limit '~sadmin !held'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "limit expression (default from configuration)",
			},
			&cli.StringFlag{
				Name:    "group",
				Aliases: []string{"g"},
				Usage:   "grouping mode: flat, sections, status",
			},
		},
		Action: app.runList,
	}
}

func (app *CLI) runList(ctx context.Context, cmd *cli.Command) error {
	cat, err := app.openCatalog()
	if err != nil {
		return err
	}

	defer cat.Close()

	limit := cmd.String("limit")
	if !cmd.IsSet("limit") {
		limit = app.cfg.DefaultLimit
	}

	pred, err := listmodel.CompileLimit(limit)
	if err != nil {
		return NewExitError(ExitUsageError, "bad limit expression", err)
	}

	grouping := cmd.String("group")
	if grouping == "" {
		grouping = app.cfg.Grouping
	}

	switch grouping {
	case config.GroupingFlat, config.GroupingSections, config.GroupingStatus:
	default:
		return NewExitError(ExitUsageError, "bad grouping mode "+grouping, config.ErrUnknownGrouping)
	}

	store, err := app.buildStore(ctx, cat, generatorFor(grouping), pred)
	if err != nil {
		return err
	}

	printer := &console.Printer{Plain: app.plain}
	if err := printer.PrintStore(os.Stdout, store); err != nil {
		return NewExitError(ExitSystemError, "writing list", err)
	}

	return nil
}

// buildStore runs one background build to completion.
func (app *CLI) buildStore(ctx context.Context, cat *catalog.Catalog, factory listmodel.GeneratorFactory, pred listmodel.Predicate) (*listmodel.Store, error) {
	builder := listmodel.NewBuilder(cat, listmodel.NewFormatter(), app.logger)
	build := builder.Build(ctx, factory, pred)

	result, ok := <-build.Done()
	if !ok {
		return nil, NewExitError(ExitAborted, "interrupted", ctx.Err())
	}

	if result.Err != nil {
		return nil, NewExitError(ExitGeneralError, "building list", result.Err)
	}

	if result.Skipped > 0 {
		app.logger.Warn("skipped inconsistent catalog entries", "count", result.Skipped)
	}

	return result.Store, nil
}

// createMarkCommand creates the command staging actions without the TUI.
func (app *CLI) createMarkCommand() *cli.Command {
	return &cli.Command{
		Name:      "mark",
		Usage:     "Stage an action for the named packages",
		ArgsUsage: "<install|remove|purge|keep|hold> <package>...",
		Description: `Applies one action to each named package and prints the resulting
pending changes grouped by status. Purge asks for confirmation
unless --yes is given.`,
		Action: app.runMark,
	}
}

func (app *CLI) runMark(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return NewExitError(ExitUsageError, "usage: pkgview mark <action> <package>...", nil)
	}

	action, err := listmodel.ParseAction(args[0])
	if err != nil {
		return NewExitError(ExitUsageError, "unknown action "+args[0], err)
	}

	cat, err := app.openCatalog()
	if err != nil {
		return err
	}

	defer cat.Close()

	rows, err := app.resolveRows(cat, args[1:])
	if err != nil {
		return err
	}

	if action == listmodel.ActionPurge && !app.yes {
		confirmed, err := confirmPurge(len(rows))
		if err != nil {
			return NewExitError(ExitSystemError, "reading confirmation", err)
		}

		if !confirmed {
			return NewExitError(ExitAborted, "aborted", nil)
		}
	}

	marker := listmodel.NewMarker(cat, undo.NewHistory(), app.logger)

	applied, applyErr := marker.Apply(action, rows)
	if applyErr != nil {
		fmt.Fprintln(os.Stderr, applyErr.Error())
	}

	if applied > 0 {
		if err := app.printPending(ctx, cat); err != nil {
			return err
		}
	}

	switch {
	case applyErr != nil && applied == 0:
		return NewExitError(ExitGeneralError, "nothing marked", applyErr)
	case applyErr != nil:
		return NewExitError(ExitWarnings, "partially marked", applyErr)
	}

	return nil
}

// resolveRows turns package names into bare rows the marker can act on.
func (app *CLI) resolveRows(cat *catalog.Catalog, names []string) ([]*listmodel.Row, error) {
	formatter := listmodel.NewFormatter()
	rows := make([]*listmodel.Row, 0, len(names))

	var missing []string

	for _, name := range names {
		entry, err := cat.Entry(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}

		attrs, err := formatter.FillRow(entry, false)
		if err != nil {
			return nil, NewExitError(ExitGeneralError, "formatting "+name, err)
		}

		rows = append(rows, listmodel.NewRow(attrs, entry))
	}

	if len(missing) > 0 {
		return nil, NewExitError(ExitNotFound,
			"unknown package(s): "+strings.Join(missing, ", "), nil)
	}

	return rows, nil
}

// printPending prints the packages with a staged selection, grouped by status.
func (app *CLI) printPending(ctx context.Context, cat *catalog.Catalog) error {
	pending := func(e catalog.Entry) bool {
		return e.Pkg.Selection().State != catalog.SelectedNone
	}

	store, err := app.buildStore(ctx, cat, listmodel.NewStatusGenerator, pending)
	if err != nil {
		return err
	}

	printer := &console.Printer{Plain: app.plain}

	return printer.PrintStore(os.Stdout, store)
}

func confirmPurge(count int) (bool, error) {
	confirmed := false

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Purge %d package(s)?", count)).
			Description("Purging also stages removal of configuration files.").
			Value(&confirmed),
	))

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

// createConfigCommand creates the configuration maintenance command.
func (app *CLI) createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or initialize the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "path",
				Usage: "Print the configuration file path",
				Action: func(_ context.Context, _ *cli.Command) error {
					path := app.configPath
					if path == "" {
						path = config.DefaultPath()
					}

					fmt.Println(path)

					return nil
				},
			},
			{
				Name:  "init",
				Usage: "Write a configuration file with the defaults",
				Action: func(_ context.Context, _ *cli.Command) error {
					path := app.configPath
					if path == "" {
						path = config.DefaultPath()
					}

					if err := config.Save(path, config.Default()); err != nil {
						return NewExitError(ExitConfigError, "writing configuration", err)
					}

					fmt.Println("wrote", path)

					return nil
				},
			},
		},
	}
}
