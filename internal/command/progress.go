package command

import (
	"github.com/keshon/bsplit/internal/chunk"
	"github.com/keshon/bsplit/internal/progress"
)

// Progress starts a chunk progress display on Stderr unless quiet is set.
// The returned func must be called once the operation ends.
func (ctx *Context) Progress(message string, quiet bool) (chunk.ProgressFunc, func()) {
	if quiet || ctx.Stderr == nil {
		return nil, func() {}
	}
	p := progress.NewProgress(ctx.Stderr, 0, message)
	return p.Update, p.Finish
}
