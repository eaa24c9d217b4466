package split

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/chunk"
	"github.com/keshon/bsplit/internal/command"
	"github.com/keshon/bsplit/internal/config"
	"github.com/keshon/bsplit/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "split" }
func (c *Command) Short() string     { return "S" }
func (c *Command) Aliases() []string { return []string{"slice"} }
func (c *Command) Usage() string     { return "split <source> <dir> [--size <size>]" }
func (c *Command) Brief() string     { return "Split a file into numbered chunks" }
func (c *Command) Help() string {
	return `Split a file into chunk files named 1, 2, ... N inside <dir>.

Chunks are at most --size bytes (default: chunk_size from config) and never
larger than max_chunk_size. Existing chunk files in <dir> are replaced.

Usage:
  split big.iso parts/
  split big.iso parts/ --size 1MiB`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.VarP(new(config.ByteSize), "size", "s", "chunk size, e.g. 512KiB or 5MiB")
	fs.BoolP("quiet", "q", false, "hide progress")
}

func (c *Command) Run(ctx *command.Context) error {
	if err := command.ArgCount(ctx, c, 2, 2); err != nil {
		return err
	}
	src, dir := ctx.Args[0], ctx.Args[1]

	size, ok := ctx.Size("size")
	if !ok {
		size = int64(ctx.Config.ChunkSize)
	}
	quiet, _ := ctx.Flags.GetBool("quiet")

	s := chunk.NewSplitter(ctx.FS, ctx.Logger)
	s.MaxChunkSize = int64(ctx.Config.MaxChunkSize)
	onChunk, done := ctx.Progress("Splitting "+src, quiet)
	s.OnChunk = onChunk

	res, err := s.Split(src, dir, size)
	done()
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Split %s into %s\n", res, res.Dir)
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
