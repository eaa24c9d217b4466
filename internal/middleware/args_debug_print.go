package middleware

import (
	"time"

	"github.com/keshon/bsplit/internal/command"
)

// WithDebugArgsPrint logs the positional arguments of every run at debug
// level.
func WithDebugArgsPrint() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				ctx.Logger.Debug("command", "name", cmd.Name(), "args", ctx.Args)
				return cmd.Run(ctx)
			},
		}
	}
}

// WithTiming logs how long a command took at debug level.
func WithTiming() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				start := time.Now()
				err := cmd.Run(ctx)
				ctx.Logger.Debug("command finished", "name", cmd.Name(), "elapsed", time.Since(start).Round(time.Millisecond), "error", err)
				return err
			},
		}
	}
}
