package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/config"
	"github.com/keshon/bsplit/internal/fs"
	"github.com/keshon/bsplit/internal/logging"
)

// Runner resolves and executes commands from a tree.
type Runner struct {
	Tree   *CommandTree
	FS     fs.FS
	Stdout io.Writer
	Stderr io.Writer

	// Config is used when no --config flag is given. Nil means config.Load.
	Config *config.Config
}

// RunCLI is the main entrypoint for executing commands against the global
// tree. It exits the process with status 1 on any error.
func RunCLI(args []string) {
	r := &Runner{Tree: tree, FS: fs.NewOSFS(), Stdout: os.Stdout, Stderr: os.Stderr}
	if err := r.Run(args); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// Run parses arguments, resolves subcommands, applies flags, and runs the
// target command.
func (r *Runner) Run(args []string) error {
	if len(args) == 0 {
		return errors.New("no command provided")
	}

	node, remaining, err := r.Tree.Resolve(args)
	if err != nil {
		return err
	}
	cmd := node.Cmd

	flags := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	flags.SetOutput(r.Stderr)
	configPath := flags.String("config", "", "config file (default $"+config.EnvConfig+")")
	verbose := flags.BoolP("verbose", "v", false, "log at debug level")
	cmd.Flags(flags)
	flags.Usage = func() {
		fmt.Fprintf(r.Stderr, "Usage: %s\n\nFlags:\n%s", cmd.Usage(), flags.FlagUsages())
	}
	if err := flags.Parse(remaining); err != nil {
		return err
	}

	cfg := r.Config
	if cfg == nil || *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}

	ctx := &Context{
		Args:   flags.Args(),
		Flags:  flags,
		Config: cfg,
		Logger: logging.New(r.Stderr, level),
		FS:     r.FS,
		Stdout: r.Stdout,
		Stderr: r.Stderr,
		Tree:   r.Tree,
	}
	return cmd.Run(ctx)
}
