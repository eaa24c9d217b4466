package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type ProgressTracker struct {
	w         io.Writer
	total     int
	current   int
	message   string
	mu        sync.Mutex
	startTime time.Time
	done      chan struct{}
	stopped   chan struct{}
}

// NewProgress starts a spinner on w. total may be zero when unknown; the
// first Update sets it.
func NewProgress(w io.Writer, total int, message string) *ProgressTracker {
	p := &ProgressTracker{
		w:         w,
		total:     total,
		message:   message,
		startTime: time.Now(),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go p.render()
	return p
}

func (p *ProgressTracker) render() {
	defer close(p.stopped)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := 0

	for {
		select {
		case <-p.done:
			p.mu.Lock()
			elapsed := time.Since(p.startTime)
			fmt.Fprintf(p.w, "\r✓ %s (%d/%d chunks, %s)          \n",
				p.message, p.current, p.total, elapsed.Round(time.Millisecond))
			p.mu.Unlock()
			return

		case <-ticker.C:
			p.mu.Lock()
			if p.total > 0 {
				percent := float64(p.current) / float64(p.total) * 100
				fmt.Fprintf(p.w, "\r%s %s [%d/%d] %.0f%%  ",
					spinner[frame%len(spinner)],
					p.message,
					p.current,
					p.total,
					percent)
			} else {
				fmt.Fprintf(p.w, "\r%s %s [%d chunks]  ",
					spinner[frame%len(spinner)],
					p.message,
					p.current)
			}
			p.mu.Unlock()
			frame++
		}
	}
}

// Update records that chunk ordinal of total is done. It matches
// chunk.ProgressFunc.
func (p *ProgressTracker) Update(ordinal, total int) {
	p.mu.Lock()
	p.current = ordinal
	p.total = total
	p.mu.Unlock()
}

func (p *ProgressTracker) Increment() {
	p.mu.Lock()
	p.current++
	p.mu.Unlock()
}

// Finish prints the summary line and waits for the renderer to exit.
func (p *ProgressTracker) Finish() {
	close(p.done)
	<-p.stopped
}
