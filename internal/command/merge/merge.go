package merge

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/chunk"
	"github.com/keshon/bsplit/internal/command"
	"github.com/keshon/bsplit/internal/digest"
	"github.com/keshon/bsplit/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "merge" }
func (c *Command) Short() string     { return "M" }
func (c *Command) Aliases() []string { return []string{"join"} }
func (c *Command) Usage() string     { return "merge <dir> <target> --digest <hex> [--hash <algorithm>]" }
func (c *Command) Brief() string     { return "Reassemble chunks into a verified file" }
func (c *Command) Help() string {
	return `Concatenate the chunks in <dir> in numeric order into <target> and verify
the result against --digest.

On success the chunk directory is removed. On a digest mismatch both the
chunk directory and <target> are kept and the command fails.

Usage:
  merge parts/ big.iso --digest 6b1f...
  merge parts/ big.iso --digest d41d8cd98f00b204e9800998ecf8427e --hash md5`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.StringP("digest", "d", "", "expected hex digest of the merged file (required)")
	fs.String("hash", "", "digest algorithm (default: hash from config)")
	fs.BoolP("quiet", "q", false, "hide progress")
}

func (c *Command) Run(ctx *command.Context) error {
	if err := command.ArgCount(ctx, c, 2, 2); err != nil {
		return err
	}
	dir, target := ctx.Args[0], ctx.Args[1]

	expected, _ := ctx.Flags.GetString("digest")
	if expected == "" {
		return fmt.Errorf("--digest is required")
	}
	algo, _ := ctx.Flags.GetString("hash")
	if algo == "" {
		algo = ctx.Config.Hash
	}
	d, err := digest.New(algo)
	if err != nil {
		return err
	}
	quiet, _ := ctx.Flags.GetBool("quiet")

	m := chunk.NewMerger(ctx.FS, d, ctx.Logger)
	onChunk, done := ctx.Progress("Merging "+dir, quiet)
	m.OnChunk = onChunk

	v, err := m.Merge(dir, target, expected)
	done()
	if err != nil {
		return err
	}
	if !v.Verified {
		fmt.Fprintf(ctx.Stdout, "Merged %d chunks into %s but verification failed; %s was kept\n", v.Chunks, target, dir)
		return v.Err()
	}

	fmt.Fprintf(ctx.Stdout, "Merged %d chunks (%d bytes) into %s, %s %s\n", v.Chunks, v.Bytes, target, d.Algorithm(), v.Actual)
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
			middleware.WithTiming(),
		),
	)
}
