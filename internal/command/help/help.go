package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/command"
	"github.com/keshon/bsplit/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "help" }
func (c *Command) Short() string     { return "H" }
func (c *Command) Aliases() []string { return []string{"h", "?"} }
func (c *Command) Usage() string     { return "help [command [subcommand]]" }
func (c *Command) Brief() string     { return "Show help for commands" }
func (c *Command) Help() string {
	return `Display help information for commands.

Usage:
  help                  List all commands.
  help <name>           Show detailed help for a specific command.
  help session start    Show help for a subcommand.`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) > 0 {
		return runCommandHelp(ctx, ctx.Args)
	}
	return runListAllCommands(ctx)
}

// runCommandHelp shows detailed help for a specific command
func runCommandHelp(ctx *command.Context, path []string) error {
	lowered := make([]string, len(path))
	for i, p := range path {
		lowered[i] = strings.ToLower(p)
	}
	node, rest, err := ctx.Tree.Resolve(lowered)
	if err != nil || len(rest) > 0 {
		return fmt.Errorf("unknown command: %s", strings.Join(path, " "))
	}
	cmd := node.Cmd
	w := ctx.Stdout

	if usage := cmd.Usage(); usage != "" {
		fmt.Fprintf(w, "Usage: %s\n\n", usage)
	}
	fmt.Fprintf(w, "%s\n", cmd.Help())

	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(w, "\nAliases: %s\n", strings.Join(aliases, ", "))
	}

	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.Flags(fs)
	if usages := fs.FlagUsages(); usages != "" {
		fmt.Fprintf(w, "\nFlags:\n%s", usages)
	}

	if subs := cmd.Subcommands(); len(subs) > 0 {
		fmt.Fprintln(w, "\nSubcommands:")
		listCommands(ctx, subs)
	}
	return nil
}

// runListAllCommands lists all commands in a Git-style layout
func runListAllCommands(ctx *command.Context) error {
	fmt.Fprint(ctx.Stdout, "Available commands:\n\n")
	listCommands(ctx, ctx.Tree.TopLevel())
	fmt.Fprintln(ctx.Stdout, "\nGlobal flags: --config <file>, -v/--verbose")
	fmt.Fprintln(ctx.Stdout, "Type 'help <command>' to see detailed information about a specific command.")
	return nil
}

func listCommands(ctx *command.Context, commands []command.Command) {
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})

	longest := 0
	for _, cmd := range commands {
		if l := len(cmd.Name()); l > longest {
			longest = l
		}
	}

	for _, cmd := range commands {
		name := cmd.Name()
		desc := cmd.Brief()
		if desc == "" {
			desc = "-"
		}

		padding := strings.Repeat(" ", longest-len(name)+2)
		fmt.Fprintf(ctx.Stdout, "  %s%s%s\n", name, padding, desc)
	}
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
