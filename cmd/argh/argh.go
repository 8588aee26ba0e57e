// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argh/pkg/cli"
	"github.com/yeetrun/argh/pkg/help"
	"github.com/yeetrun/argh/pkg/resolve"
	"github.com/yeetrun/argh/pkg/schema"
	"github.com/yeetrun/argh/pkg/schemafile"
	"github.com/yeetrun/argh/pkg/tui"
)

// version is set at link time with -X main.version=...
var version = "dev"

const (
	schemaEnv       = "ARGH_SCHEMA"
	lookupProgName  = "argh"
	exitInputError  = 1
	exitSchemaError = 2
)

type globalFlagsParsed struct {
	Schema  string `flag:"schema" help:"Schema file, .toml or .yaml (ARGH_SCHEMA)"`
	NoColor bool   `flag:"no-color" help:"Disable colored output"`
	Width   int    `flag:"width" help:"Wrap help for this many columns (default: terminal width)"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

// app carries the state shared by every command handler.
type app struct {
	flags globalFlagsParsed
	// tokens are the user arguments after the first "--". argh never
	// interprets them itself.
	tokens []string

	stdout io.Writer
	color  tui.Colorizer
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Everything after "--" belongs to the schema, so yargs must never see
	// it: it would route "-h" in the tokens to argh's own help.
	own, tokens, _ := cli.SplitArgsAtDoubleDash(args)
	globalFlags, remaining, err := parseGlobalFlags(own)
	if err != nil {
		printCLIError(stderr, tui.Colorizer{}, err)
		return exitInputError
	}
	if globalFlags.Schema == "" {
		globalFlags.Schema = os.Getenv(schemaEnv)
	}
	a := &app{
		flags:  globalFlags,
		tokens: tokens,
		stdout: stdout,
		color:  tui.NewColorizer(os.Stderr, !globalFlags.NoColor),
	}
	if err := yargs.RunSubcommands(ctx, remaining, cli.HelpConfig(), globalFlagsParsed{}, a.handlers()); err != nil {
		printCLIError(stderr, a.color, err)
		return exitCode(err)
	}
	return 0
}

func (a *app) handlers() map[string]yargs.SubcommandHandler {
	return map[string]yargs.SubcommandHandler{
		cli.CommandResolve: a.handleResolve,
		cli.CommandUsage:   a.handleUsage,
		cli.CommandLookup:  a.handleLookup,
		cli.CommandCheck:   a.handleCheck,
		cli.CommandVersion: a.handleVersion,
	}
}

func exitCode(err error) int {
	if errors.Is(err, schema.ErrSchema) {
		return exitSchemaError
	}
	return exitInputError
}

// loadSchema reads the schema named by --schema or ARGH_SCHEMA, falling
// back to the nearest argh.toml / argh.yaml above the working directory.
func (a *app) loadSchema() (*schemafile.Document, *schema.Registry, error) {
	path := a.flags.Schema
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, err
		}
		path, err = schemafile.Find(cwd)
		if err != nil {
			return nil, nil, fmt.Errorf("%w; pass --schema or set %s", err, schemaEnv)
		}
	}
	doc, err := schemafile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	reg, err := doc.Registry()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, reg, nil
}

func (a *app) handleResolve(ctx context.Context, args []string) error {
	flags, rest, err := cli.ParseResolve(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments %q; put tokens after --", rest)
	}
	doc, reg, err := a.loadSchema()
	if err != nil {
		return err
	}
	tokens := append([]string{doc.Name}, a.tokens...)
	cfg, err := resolve.Resolve(reg, tokens)
	if err != nil {
		return usageError{err: err, usage: help.Usage(reg, doc.Name)}
	}
	return writeConfig(a.stdout, reg, cfg, flags.Format)
}

func (a *app) handleUsage(ctx context.Context, args []string) error {
	rest, err := cli.ParseNoFlags(cli.CommandUsage, args)
	if err != nil {
		return err
	}
	if err := cli.RequireArgsExactly(cli.CommandUsage, rest, 0); err != nil {
		return err
	}
	doc, reg, err := a.loadSchema()
	if err != nil {
		return err
	}
	opts, err := doc.HelpOptions()
	if err != nil {
		return err
	}
	opts = help.Fit(reg, opts, a.width())

	ver, err := doc.ProgramVersion()
	if err != nil {
		return err
	}
	if ver != nil {
		fmt.Fprintf(a.stdout, "%s %s\n", doc.Name, ver)
	}
	if doc.Description != "" {
		fmt.Fprintln(a.stdout, doc.Description)
	}
	if ver != nil || doc.Description != "" {
		fmt.Fprintln(a.stdout)
	}
	fmt.Fprint(a.stdout, help.Format(reg, doc.Name, opts))
	return nil
}

// width is the column budget for help output: --width if set, else the
// terminal width of stdout, else 0 (no limit).
func (a *app) width() int {
	if a.flags.Width > 0 {
		return a.flags.Width
	}
	f, ok := a.stdout.(*os.File)
	if !ok {
		return 0
	}
	cols, err := tui.Width(f)
	if err != nil {
		log.Printf("failed to read terminal size: %v", err)
		return 0
	}
	return cols
}

// handleLookup probes the tokens for a single key. The key is the first
// token after "--" so that argh's own flags and help never claim it.
func (a *app) handleLookup(ctx context.Context, args []string) error {
	rest, err := cli.ParseNoFlags(cli.CommandLookup, args)
	if err != nil {
		return err
	}
	if err := cli.RequireArgsExactly(cli.CommandLookup, rest, 0); err != nil {
		return err
	}
	if len(a.tokens) == 0 {
		return errors.New("'lookup' needs a key: argh lookup -- KEY [TOKENS...]")
	}
	key, tokens := a.tokens[0], a.tokens[1:]
	probe := resolve.Lookup(append([]string{lookupProgName}, tokens...), key)
	fmt.Fprintln(a.stdout, probe)
	return nil
}

func (a *app) handleCheck(ctx context.Context, args []string) error {
	rest, err := cli.ParseNoFlags(cli.CommandCheck, args)
	if err != nil {
		return err
	}
	if err := cli.RequireArgsExactly(cli.CommandCheck, rest, 0); err != nil {
		return err
	}
	doc, reg, err := a.loadSchema()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FIELD\tTYPE\tREQUIRED\tPOSITION\tALIASES")
	for _, f := range reg.DisplayOrder() {
		pos := "-"
		if p, ok := f.Position(); ok {
			pos = fmt.Sprint(p)
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", f.Name, f.Type.Name(), f.Required, pos, f.PrettyName())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: %d fields\n", doc.Name, reg.Len())
	return nil
}

func (a *app) handleVersion(ctx context.Context, args []string) error {
	flags, _, err := cli.ParseVersion(args)
	if err != nil {
		return err
	}
	if flags.JSON {
		fmt.Fprintln(a.stdout, asJSON(map[string]string{
			"version": version,
			"go":      runtime.Version(),
		}))
		return nil
	}
	fmt.Fprintf(a.stdout, "argh %s (%s)\n", version, runtime.Version())
	return nil
}

// usageError decorates a resolution failure with the schema's usage line.
type usageError struct {
	err   error
	usage string
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func (e usageError) usageHint() string { return e.usage }

type usageHinter interface {
	usageHint() string
}

func printCLIError(w io.Writer, c tui.Colorizer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", c.Wrap(tui.StyleError, "error:"), strings.TrimSpace(err.Error()))
	var hint usageHinter
	if errors.As(err, &hint) {
		if usage := hint.usageHint(); usage != "" {
			fmt.Fprintln(w, c.Wrap(tui.StyleDim, usage))
		}
	}
}
