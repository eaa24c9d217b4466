package session

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/command"
	"github.com/keshon/bsplit/internal/digest"
	"github.com/keshon/bsplit/internal/middleware"
	"github.com/keshon/bsplit/internal/session"
)

type Command struct{}

func (c *Command) Name() string      { return "session" }
func (c *Command) Short() string     { return "" }
func (c *Command) Aliases() []string { return []string{"sessions"} }
func (c *Command) Usage() string     { return "session <start|assemble|list|show|drop> [args...]" }
func (c *Command) Brief() string     { return "Split and reassemble files tracked by session id" }
func (c *Command) Help() string {
	return `Sessions keep the source digest next to the chunks, so a file can be
reassembled later with nothing but its session id.

Chunks live in <root>/<id>/ and records in <root>/sessions.db, where root
comes from config.

Usage:
  session start <source> [--size <size>]
  session assemble <id> <target>
  session list
  session show <id>
  session drop <id>`
}

func (c *Command) Subcommands() []command.Command {
	mws := []command.Middleware{middleware.WithDebugArgsPrint(), middleware.WithTiming()}
	return []command.Command{
		command.ApplyMiddlewares(&startCommand{}, mws...),
		command.ApplyMiddlewares(&assembleCommand{}, mws...),
		command.ApplyMiddlewares(&listCommand{}, mws...),
		command.ApplyMiddlewares(&showCommand{}, mws...),
		command.ApplyMiddlewares(&dropCommand{}, mws...),
	}
}

func (c *Command) Flags(fs *pflag.FlagSet) {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) > 0 {
		return fmt.Errorf("unknown session command %q", ctx.Args[0])
	}
	fmt.Fprintf(ctx.Stdout, "Usage: %s\n", c.Usage())
	return nil
}

// openManager opens the ledger under the configured root. The returned func
// closes it.
func openManager(ctx *command.Context) (*session.Manager, func(), error) {
	d, err := digest.New(ctx.Config.Hash)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := session.OpenLedger(ctx.Config.LedgerPath())
	if err != nil {
		return nil, nil, err
	}

	m := session.NewManager(ctx.Config.Root, ctx.FS, ledger, d, ctx.Logger)
	m.Splitter.MaxChunkSize = int64(ctx.Config.MaxChunkSize)
	return m, func() {
		if err := ledger.Close(); err != nil {
			ctx.Logger.Warn("closing ledger", "error", err)
		}
	}, nil
}

func printRecord(ctx *command.Context, rec *session.Record) {
	w := ctx.Stdout
	fmt.Fprintf(w, "Session:    %s\n", rec.ID)
	fmt.Fprintf(w, "State:      %s\n", rec.State)
	fmt.Fprintf(w, "Source:     %s\n", rec.Source)
	fmt.Fprintf(w, "Size:       %d bytes\n", rec.Size)
	fmt.Fprintf(w, "Chunks:     %d x %d bytes\n", rec.Chunks, rec.ChunkSize)
	fmt.Fprintf(w, "Digest:     %s %s\n", rec.Algorithm, rec.Digest)
	if rec.Target != "" {
		fmt.Fprintf(w, "Target:     %s\n", rec.Target)
	}
	fmt.Fprintf(w, "Created:    %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated:    %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func init() {
	command.RegisterCommand(&Command{})
}
