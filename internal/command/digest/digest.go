package digest

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/command"
	"github.com/keshon/bsplit/internal/digest"
	"github.com/keshon/bsplit/internal/middleware"
	"github.com/keshon/bsplit/internal/util"
)

type Command struct{}

func (c *Command) Name() string      { return "digest" }
func (c *Command) Short() string     { return "D" }
func (c *Command) Aliases() []string { return []string{"sum"} }
func (c *Command) Usage() string     { return "digest <file>... [--hash <algorithm>]" }
func (c *Command) Brief() string     { return "Print file digests" }
func (c *Command) Help() string {
	return fmt.Sprintf(`Print the hex digest of each file, one "<digest>  <file>" line per file.
Use the output as --digest for merge.

Algorithms: %s`, strings.Join(digest.Algorithms(), ", "))
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.String("hash", "", "digest algorithm (default: hash from config)")
}

func (c *Command) Run(ctx *command.Context) error {
	if err := command.ArgCount(ctx, c, 1, -1); err != nil {
		return err
	}
	algo, _ := ctx.Flags.GetString("hash")
	if algo == "" {
		algo = ctx.Config.Hash
	}
	d, err := digest.New(algo)
	if err != nil {
		return err
	}

	idx := make([]int, len(ctx.Args))
	for i := range idx {
		idx[i] = i
	}
	sums := make([]string, len(ctx.Args))
	err = util.Parallel(idx, util.WorkerCount(), func(i int) error {
		sum, err := d.File(ctx.FS, ctx.Args[i])
		sums[i] = sum
		return err
	})
	if err != nil {
		return err
	}

	for i, path := range ctx.Args {
		fmt.Fprintf(ctx.Stdout, "%s  %s\n", sums[i], path)
	}
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
