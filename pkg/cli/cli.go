// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"slices"

	"github.com/shayne/yargs"
)

const (
	CommandResolve = "resolve"
	CommandUsage   = "usage"
	CommandLookup  = "lookup"
	CommandCheck   = "check"
	CommandVersion = "version"
)

// Output formats accepted by resolve --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

var formats = []string{FormatText, FormatJSON, FormatYAML, FormatTOML}

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
}

var commandInfos = map[string]CommandInfo{
	CommandResolve: {Name: CommandResolve, Description: "Resolve tokens against the schema and print the configuration", Usage: "[--format=text|json|yaml|toml] -- TOKENS...", Examples: []string{
		"argh --schema app.toml resolve -- ./in.txt -V --template=base",
		"argh resolve --format=json -- ./in.txt",
	}, Aliases: []string{"r"}},
	CommandUsage: {Name: CommandUsage, Description: "Print the help text the schema produces", Examples: []string{"argh --schema app.yaml usage"}},
	CommandLookup: {Name: CommandLookup, Description: "Probe tokens for a single key without using the schema", Usage: "-- KEY [TOKENS...]", Examples: []string{
		"argh lookup -- --verbose --verbose",
		"argh lookup -- --out --out=a.txt",
	}},
	CommandCheck:   {Name: CommandCheck, Description: "Validate the schema and list its fields in display order"},
	CommandVersion: {Name: CommandVersion, Description: "Show argh's version", Usage: "[--json]"},
}

// CommandNames returns the command names, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(commandInfos))
	for name := range commandInfos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func CommandInfos() map[string]CommandInfo {
	return commandInfos
}

// HelpConfig returns the yargs help metadata for argh.
func HelpConfig() yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo, len(commandInfos))
	for name, info := range commandInfos {
		subcommands[name] = toSubCommandInfo(name, info)
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "argh",
			Description: "Resolve and document command-line arguments from a declarative schema",
			Examples: []string{
				"argh --schema app.toml usage",
				"argh --schema app.toml resolve -- ./in.txt -V",
			},
		},
		SubCommands: subcommands,
	}
}

func toSubCommandInfo(name string, info CommandInfo) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: info.Description,
		Usage:       info.Usage,
		Examples:    info.Examples,
		Hidden:      info.Hidden,
		Aliases:     info.Aliases,
	}
}

type ResolveFlags struct {
	Format string
}

type VersionFlags struct {
	JSON bool
}

type resolveFlagsParsed struct {
	Format string `flag:"format" short:"f" default:"text"`
}

type versionFlagsParsed struct {
	JSON bool `flag:"json"`
}

type noFlags struct{}

// ParseResolve parses the resolve command's own arguments. args may start
// with the command name.
func ParseResolve(args []string) (ResolveFlags, []string, error) {
	parsed, err := parseFlags[resolveFlagsParsed](stripCommand(CommandResolve, args))
	if err != nil {
		return ResolveFlags{}, nil, err
	}
	if !slices.Contains(formats, parsed.Flags.Format) {
		return ResolveFlags{}, nil, fmt.Errorf("unknown format %q (want one of %v)", parsed.Flags.Format, formats)
	}
	return ResolveFlags{Format: parsed.Flags.Format}, parsed.Args, nil
}

func ParseVersion(args []string) (VersionFlags, []string, error) {
	parsed, err := parseFlags[versionFlagsParsed](stripCommand(CommandVersion, args))
	if err != nil {
		return VersionFlags{}, nil, err
	}
	return VersionFlags{JSON: parsed.Flags.JSON}, parsed.Args, nil
}

// ParseNoFlags parses the arguments of a command that takes no flags.
func ParseNoFlags(cmd string, args []string) ([]string, error) {
	parsed, err := parseFlags[noFlags](stripCommand(cmd, args))
	if err != nil {
		return nil, err
	}
	return parsed.Args, nil
}

type parsedFlags[T any] struct {
	Flags T
	Args  []string
}

func parseFlags[T any](args []string) (parsedFlags[T], error) {
	result, err := yargs.ParseFlags[T](args)
	if err != nil {
		return parsedFlags[T]{}, err
	}
	argsOut := append([]string{}, result.Args...)
	if len(result.RemainingArgs) > 0 {
		argsOut = append(argsOut, result.RemainingArgs...)
	}
	return parsedFlags[T]{Flags: result.Flags, Args: argsOut}, nil
}

func stripCommand(cmd string, args []string) []string {
	if len(args) > 0 && (args[0] == cmd || slices.Contains(commandInfos[cmd].Aliases, args[0])) {
		return args[1:]
	}
	return args
}

// SplitArgsAtDoubleDash splits args at the first "--". The separator itself
// is dropped; ok reports whether it was present.
func SplitArgsAtDoubleDash(args []string) (before, after []string, ok bool) {
	i := slices.Index(args, "--")
	if i < 0 {
		return args, nil, false
	}
	return args[:i], args[i+1:], true
}

func RequireArgsExactly(subcmd string, args []string, count int) error {
	if len(args) != count {
		return fmt.Errorf("'%s' requires exactly %d argument(s), got %d", subcmd, count, len(args))
	}
	return nil
}
