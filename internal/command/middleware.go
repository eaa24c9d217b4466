package command

// Middleware decorates a command, typically to add logging around Run.
type Middleware func(Command) Command

// WrappedCommand keeps the metadata of the embedded command and replaces
// its Run with Wrap when set.
type WrappedCommand struct {
	Command
	Wrap func(ctx *Context) error
}

func (w *WrappedCommand) Run(ctx *Context) error {
	if w.Wrap != nil {
		return w.Wrap(ctx)
	}
	return w.Command.Run(ctx)
}

// ApplyMiddlewares wraps cmd in mws; the last middleware runs outermost.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}
