package chunk

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keshon/bsplit/internal/digest"
	"github.com/keshon/bsplit/internal/fs"
)

// Merger reassembles a chunk directory into a single verified file.
type Merger struct {
	FS      fs.FS
	Digest  *digest.Digester
	Logger  *slog.Logger
	OnChunk ProgressFunc
}

// NewMerger creates a Merger using d to verify output.
func NewMerger(fsys fs.FS, d *digest.Digester, logger *slog.Logger) *Merger {
	return &Merger{FS: fsys, Digest: d, Logger: logger}
}

// Verification is the outcome of a merge that ran to completion.
type Verification struct {
	Target   string `json:"target"`
	Chunks   int    `json:"chunks"`
	Bytes    int64  `json:"bytes"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Verified bool   `json:"verified"`
}

// Err returns nil for a verified merge and an ErrDigestMismatch otherwise.
func (v *Verification) Err() error {
	if v.Verified {
		return nil
	}
	return fmt.Errorf("%w: %q expected %s, got %s", ErrDigestMismatch, v.Target, v.Expected, v.Actual)
}

// Merge concatenates the chunks in dir into target in ordinal order and
// compares the digest of target with expected.
//
// On a match dir is removed. On a mismatch both dir and target stay on disk
// and the returned Verification has Verified=false with a nil error. I/O
// failures abort the merge with an *IOError; dir is never touched then.
func (m *Merger) Merge(dir, target, expected string) (*Verification, error) {
	log := loggerOrDiscard(m.Logger)

	if dir == "" {
		return nil, invalidArg("chunk directory path is empty")
	}
	fi, err := m.FS.Stat(dir)
	if err != nil {
		if m.FS.IsNotExist(err) {
			return nil, invalidArg("chunk directory %q does not exist", dir)
		}
		return nil, ioErr("stat chunk dir", dir, 0, err)
	}
	if !fi.IsDir() {
		return nil, invalidArg("chunk directory %q is not a directory", dir)
	}

	refs, err := m.listChunks(dir)
	if err != nil {
		return nil, err
	}

	want := digest.Normalize(expected)
	if want == "" {
		return nil, invalidArg("expected digest is empty")
	}
	if target == "" {
		return nil, invalidArg("merge target path is empty")
	}
	if m.FS.IsDir(target) {
		return nil, invalidArg("merge target %q is a directory", target)
	}
	if within(dir, target) {
		return nil, invalidArg("merge target %q is inside chunk directory %q", target, dir)
	}

	if m.FS.Exists(target) {
		if err := m.FS.Remove(target); err != nil {
			return nil, ioErr("remove old target", target, 0, err)
		}
	}
	out, err := m.FS.Create(target)
	if err != nil {
		return nil, ioErr("create target", target, 0, err)
	}

	var written int64
	for _, ref := range refs {
		n, err := m.appendChunk(out, dir, ref)
		written += n
		if err != nil {
			out.Close()
			return nil, err
		}
		log.Debug("chunk appended", "target", target, "ordinal", ref.Ordinal, "size", n)
		if m.OnChunk != nil {
			m.OnChunk(ref.Ordinal, len(refs))
		}
	}
	if err := out.Close(); err != nil {
		return nil, ioErr("close target", target, 0, err)
	}

	actual, err := m.Digest.File(m.FS, target)
	if err != nil {
		return nil, ioErr("digest target", target, 0, err)
	}

	v := &Verification{
		Target:   target,
		Chunks:   len(refs),
		Bytes:    written,
		Expected: want,
		Actual:   actual,
		Verified: actual == want,
	}

	if !v.Verified {
		log.Warn("merge digest mismatch", "dir", dir, "target", target, "expected", want, "actual", actual)
		return v, nil
	}

	if err := m.FS.RemoveAll(dir); err != nil {
		return v, ioErr("remove chunk dir", dir, 0, err)
	}
	log.Info("merge complete", "dir", dir, "target", target, "chunks", len(refs), "bytes", written, "digest", actual)
	return v, nil
}

// listChunks returns the chunks of dir sorted by ordinal. Names must be
// canonical ordinals and the sequence must run 1..N without gaps.
func (m *Merger) listChunks(dir string) ([]Ref, error) {
	entries, err := m.FS.ReadDir(dir)
	if err != nil {
		return nil, ioErr("list chunk dir", dir, 0, err)
	}
	if len(entries) == 0 {
		return nil, invalidArg("chunk directory %q is empty", dir)
	}

	refs := make([]Ref, 0, len(entries))
	for _, e := range entries {
		n, ok := ParseOrdinal(e.Name())
		if !ok || e.IsDir() {
			return nil, fmt.Errorf("%w: %q in %q", ErrInvalidChunkName, e.Name(), dir)
		}
		refs = append(refs, Ref{Ordinal: n})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Ordinal < refs[j].Ordinal })

	for i, r := range refs {
		if r.Ordinal != i+1 {
			last := refs[len(refs)-1].Ordinal
			return nil, fmt.Errorf("%w: %q lacks ordinal %d (%d of %d missing)", ErrMissingChunk, dir, i+1, last-len(refs), last)
		}
	}
	return refs, nil
}

func (m *Merger) appendChunk(out io.Writer, dir string, ref Ref) (int64, error) {
	path := filepath.Join(dir, ref.Name())

	fi, err := m.FS.Stat(path)
	if err != nil {
		return 0, ioErr("stat chunk", path, ref.Ordinal, err)
	}

	in, err := m.FS.OpenReaderAt(path)
	if err != nil {
		return 0, ioErr("open chunk", path, ref.Ordinal, err)
	}
	defer in.Close()

	n, err := fs.Transfer(in, 0, fi.Size(), out)
	if err != nil {
		return n, ioErr("append chunk", path, ref.Ordinal, err)
	}
	return n, nil
}

// within reports whether target resolves to a path inside dir. Relative and
// absolute spellings of the same location compare equal, as do paths reached
// through symlinks when they exist on disk.
func within(dir, target string) bool {
	d := resolve(dir)
	t := filepath.Join(resolve(filepath.Dir(target)), filepath.Base(target))
	rel, err := filepath.Rel(d, t)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func resolve(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
