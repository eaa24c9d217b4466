package progress_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/keshon/bsplit/internal/progress"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgress_FinishSummarizes(t *testing.T) {
	var out syncBuffer
	p := progress.NewProgress(&out, 0, "Splitting")
	for i := 1; i <= 3; i++ {
		p.Update(i, 3)
	}
	p.Finish()

	if !strings.Contains(out.String(), "✓ Splitting (3/3 chunks") {
		t.Fatalf("unexpected summary: %q", out.String())
	}
}

func TestProgress_Increment(t *testing.T) {
	var out syncBuffer
	p := progress.NewProgress(&out, 2, "Merging")
	p.Increment()
	p.Increment()
	p.Finish()

	if !strings.Contains(out.String(), "Merging (2/2 chunks") {
		t.Fatalf("unexpected summary: %q", out.String())
	}
}
