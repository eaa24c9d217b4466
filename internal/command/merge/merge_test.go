package merge_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/keshon/bsplit/internal/chunk"
	"github.com/keshon/bsplit/internal/command"
	"github.com/keshon/bsplit/internal/command/merge"
	"github.com/keshon/bsplit/internal/config"
	"github.com/keshon/bsplit/internal/digest"
	"github.com/keshon/bsplit/internal/fs"
)

func run(t *testing.T, fsys fs.FS, args ...string) (string, error) {
	t.Helper()
	tree := command.NewTree()
	tree.Register(&merge.Command{})
	var stdout bytes.Buffer
	r := &command.Runner{Tree: tree, FS: fsys, Stdout: &stdout, Stderr: &bytes.Buffer{}, Config: config.Default()}
	err := r.Run(append([]string{"merge"}, args...))
	return stdout.String(), err
}

func seed(mem *fs.MemoryFS) []byte {
	mem.MkdirAll("parts", 0o755)
	mem.WriteFile("parts/1", []byte("hello "), 0o644)
	mem.WriteFile("parts/2", []byte("chunked "), 0o644)
	mem.WriteFile("parts/3", []byte("world"), 0o644)
	return []byte("hello chunked world")
}

func TestMerge_Verified(t *testing.T) {
	mem := fs.NewMemoryFS()
	want := seed(mem)
	d, _ := digest.New(digest.MD5)

	out, err := run(t, mem, "parts", "out.txt", "--digest", strings.ToUpper(d.Bytes(want)), "--hash", "md5", "-q")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := mem.ReadFile("out.txt")
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q", got)
	}
	if mem.Exists("parts") {
		t.Error("chunk dir should be removed")
	}
	if !strings.Contains(out, "Merged 3 chunks") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestMerge_MismatchFailsAndKeepsChunks(t *testing.T) {
	mem := fs.NewMemoryFS()
	seed(mem)

	_, err := run(t, mem, "parts", "out.txt", "--digest", strings.Repeat("0", 32), "-q")
	if !errors.Is(err, chunk.ErrDigestMismatch) {
		t.Fatalf("expected ErrDigestMismatch, got %v", err)
	}
	if !mem.Exists("parts/2") || !mem.Exists("out.txt") {
		t.Error("chunks and target must be kept on mismatch")
	}
}

func TestMerge_RequiresDigest(t *testing.T) {
	mem := fs.NewMemoryFS()
	seed(mem)
	if _, err := run(t, mem, "parts", "out.txt"); err == nil {
		t.Fatal("expected error without --digest")
	}
	if _, err := run(t, mem, "parts", "out.txt", "--digest", "ab", "--hash", "crc"); !errors.Is(err, digest.ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if mem.Exists("out.txt") {
		t.Error("target must not be created on argument errors")
	}
}
