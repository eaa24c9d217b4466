package command

import (
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/config"
	"github.com/keshon/bsplit/internal/fs"
)

// Command represents a cli command
type Command interface {
	Name() string
	Short() string
	Aliases() []string
	Usage() string
	Brief() string
	Help() string
	Subcommands() []Command
	Flags(fs *pflag.FlagSet)
	Run(ctx *Context) error
}

// Context represents a cli context
type Context struct {
	Args   []string
	Flags  *pflag.FlagSet
	Config *config.Config
	Logger *slog.Logger
	FS     fs.FS
	Stdout io.Writer
	Stderr io.Writer

	// Tree is the tree the command was resolved from.
	Tree *CommandTree
}

// ArgCount checks that ctx carries between lo and hi positional arguments.
// A negative hi means no upper bound.
func ArgCount(ctx *Context, cmd Command, lo, hi int) error {
	n := len(ctx.Args)
	if n < lo || (hi >= 0 && n > hi) {
		return &UsageError{Usage: cmd.Usage()}
	}
	return nil
}

// UsageError reports a wrong invocation.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string { return "usage: " + e.Usage }

// Size returns the value of a config.ByteSize flag and whether it was set.
func (ctx *Context) Size(name string) (int64, bool) {
	f := ctx.Flags.Lookup(name)
	if f == nil {
		return 0, false
	}
	v, ok := f.Value.(*config.ByteSize)
	if !ok {
		return 0, false
	}
	return int64(*v), f.Changed
}
