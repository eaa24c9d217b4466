package session

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/command"
	"github.com/keshon/bsplit/internal/config"
)

type leaf struct{}

func (leaf) Short() string                  { return "" }
func (leaf) Aliases() []string              { return nil }
func (leaf) Subcommands() []command.Command { return nil }
func (leaf) Flags(fs *pflag.FlagSet)        {}

type startCommand struct{ leaf }

func (c *startCommand) Name() string  { return "start" }
func (c *startCommand) Usage() string { return "session start <source> [--size <size>]" }
func (c *startCommand) Brief() string { return "Digest and split a file into a new session" }
func (c *startCommand) Help() string {
	return "Digest <source>, split it under a new session id and print the id."
}
func (c *startCommand) Flags(fs *pflag.FlagSet) {
	fs.VarP(new(config.ByteSize), "size", "s", "chunk size, e.g. 512KiB or 5MiB")
	fs.BoolP("quiet", "q", false, "hide progress")
}

func (c *startCommand) Run(ctx *command.Context) error {
	if err := command.ArgCount(ctx, c, 1, 1); err != nil {
		return err
	}
	size, ok := ctx.Size("size")
	if !ok {
		size = int64(ctx.Config.ChunkSize)
	}
	quiet, _ := ctx.Flags.GetBool("quiet")

	m, closeFn, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	onChunk, done := ctx.Progress("Splitting "+ctx.Args[0], quiet)
	m.OnChunk = onChunk
	rec, err := m.Start(ctx.Args[0], size)
	done()
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "%s\n", rec.ID)
	ctx.Logger.Info("split into session", "chunks", rec.Chunks, "dir", m.Dir(rec.ID))
	return nil
}

type assembleCommand struct{ leaf }

func (c *assembleCommand) Name() string  { return "assemble" }
func (c *assembleCommand) Usage() string { return "session assemble <id> <target>" }
func (c *assembleCommand) Brief() string { return "Merge a session into a verified file" }
func (c *assembleCommand) Help() string {
	return "Merge the chunks of session <id> into <target> and verify the recorded digest."
}
func (c *assembleCommand) Flags(fs *pflag.FlagSet) {
	fs.BoolP("quiet", "q", false, "hide progress")
}

func (c *assembleCommand) Run(ctx *command.Context) error {
	if err := command.ArgCount(ctx, c, 2, 2); err != nil {
		return err
	}
	quiet, _ := ctx.Flags.GetBool("quiet")

	m, closeFn, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	onChunk, done := ctx.Progress("Assembling "+shortID(ctx.Args[0]), quiet)
	m.OnChunk = onChunk
	rec, v, err := m.Assemble(ctx.Args[0], ctx.Args[1])
	done()
	if err != nil {
		return err
	}
	if !v.Verified {
		fmt.Fprintf(ctx.Stdout, "Session %s: verification failed; chunks kept\n", rec.ID)
		return v.Err()
	}
	fmt.Fprintf(ctx.Stdout, "Session %s assembled into %s\n", rec.ID, rec.Target)
	return nil
}

type listCommand struct{ leaf }

func (c *listCommand) Name() string  { return "list" }
func (c *listCommand) Usage() string { return "session list" }
func (c *listCommand) Brief() string { return "List sessions, oldest first" }
func (c *listCommand) Help() string  { return "List every recorded session, oldest first." }

func (c *listCommand) Run(ctx *command.Context) error {
	m, closeFn, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	recs, err := m.List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(ctx.Stdout, "No sessions.")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tCHUNKS\tSIZE\tSOURCE")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", rec.ID, rec.State, rec.Chunks, rec.Size, rec.Source)
	}
	return tw.Flush()
}

type showCommand struct{ leaf }

func (c *showCommand) Name() string  { return "show" }
func (c *showCommand) Usage() string { return "session show <id>" }
func (c *showCommand) Brief() string { return "Show one session" }
func (c *showCommand) Help() string  { return "Print the ledger record of session <id>." }

func (c *showCommand) Run(ctx *command.Context) error {
	if err := command.ArgCount(ctx, c, 1, 1); err != nil {
		return err
	}
	m, closeFn, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := m.Get(ctx.Args[0])
	if err != nil {
		return err
	}
	printRecord(ctx, rec)
	return nil
}

type dropCommand struct{ leaf }

func (c *dropCommand) Name() string  { return "drop" }
func (c *dropCommand) Usage() string { return "session drop <id>" }
func (c *dropCommand) Brief() string { return "Delete a session and its chunks" }
func (c *dropCommand) Help() string  { return "Delete the chunks and the record of session <id>." }

func (c *dropCommand) Run(ctx *command.Context) error {
	if err := command.ArgCount(ctx, c, 1, 1); err != nil {
		return err
	}
	m, closeFn, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Drop(ctx.Args[0]); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout, "Dropped session %s\n", ctx.Args[0])
	return nil
}
