package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// MemoryFS is a pure in-memory filesystem for tests.
type MemoryFS struct {
	files map[string][]byte
	dirs  map[string]struct{}
}

func NewMemoryFS() *MemoryFS {
	f := &MemoryFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
	f.dirs["/"] = struct{}{}
	f.dirs["."] = struct{}{}
	return f
}

// normalize paths
func clean(p string) string {
	if p == "" {
		return "."
	}
	return filepath.ToSlash(filepath.Clean(p))
}

func (f *MemoryFS) ensureDirExists(p string) error {
	p = clean(p)
	if _, ok := f.dirs[p]; !ok {
		return fs.ErrNotExist
	}
	return nil
}

// FS Interface Implementation

func (f *MemoryFS) Open(p string) (io.ReadSeekCloser, error) {
	data, ok := f.files[clean(p)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return &memReader{Reader: bytes.NewReader(data)}, nil
}

func (f *MemoryFS) OpenReaderAt(p string) (ReaderAtCloser, error) {
	data, ok := f.files[clean(p)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return &memReader{Reader: bytes.NewReader(data)}, nil
}

type memReader struct {
	*bytes.Reader
}

func (m *memReader) Close() error { return nil }

// Create truncates or creates p. Writes become visible immediately.
func (f *MemoryFS) Create(p string) (io.WriteCloser, error) {
	p = clean(p)
	if _, ok := f.dirs[p]; ok {
		return nil, fmt.Errorf("create %q: is a directory", p)
	}
	if err := f.ensureDirExists(path.Dir(p)); err != nil {
		return nil, err
	}
	f.files[p] = []byte{}
	return &memWriter{fs: f, path: p}, nil
}

type memWriter struct {
	fs     *MemoryFS
	path   string
	closed bool
}

func (w *memWriter) Write(b []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	w.fs.files[w.path] = append(w.fs.files[w.path], b...)
	return len(b), nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

func (f *MemoryFS) ReadFile(p string) ([]byte, error) {
	data, ok := f.files[clean(p)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (f *MemoryFS) WriteFile(p string, data []byte, perm os.FileMode) error {
	p = clean(p)
	dir := path.Dir(p)
	if err := f.ensureDirExists(dir); err != nil {
		return fmt.Errorf("write: dir %q does not exist", dir)
	}
	f.files[p] = append([]byte(nil), data...)
	return nil
}

func (f *MemoryFS) MkdirAll(p string, perm os.FileMode) error {
	p = clean(p)
	if _, ok := f.files[p]; ok {
		return fmt.Errorf("mkdir %q: not a directory", p)
	}
	cur := ""
	if strings.HasPrefix(p, "/") {
		cur = "/"
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." {
			continue
		}
		cur = path.Join(cur, seg)
		f.dirs[cur] = struct{}{}
	}
	return nil
}

func (f *MemoryFS) Remove(p string) error {
	p = clean(p)
	if _, ok := f.files[p]; ok {
		delete(f.files, p)
		return nil
	}
	if _, ok := f.dirs[p]; ok {
		if f.hasChildren(p) {
			return fmt.Errorf("remove %q: directory not empty", p)
		}
		delete(f.dirs, p)
		return nil
	}
	return fs.ErrNotExist
}

// RemoveAll removes p and everything below it. A missing path is not an error.
func (f *MemoryFS) RemoveAll(p string) error {
	p = clean(p)
	prefix := p + "/"
	for fp := range f.files {
		if fp == p || strings.HasPrefix(fp, prefix) {
			delete(f.files, fp)
		}
	}
	for dp := range f.dirs {
		if dp == p || strings.HasPrefix(dp, prefix) {
			delete(f.dirs, dp)
		}
	}
	return nil
}

func (f *MemoryFS) hasChildren(p string) bool {
	prefix := p + "/"
	for fp := range f.files {
		if strings.HasPrefix(fp, prefix) {
			return true
		}
	}
	for dp := range f.dirs {
		if strings.HasPrefix(dp, prefix) {
			return true
		}
	}
	return false
}

func (f *MemoryFS) Stat(p string) (os.FileInfo, error) {
	p = clean(p)
	if data, ok := f.files[p]; ok {
		return &fakeInfo{name: path.Base(p), size: int64(len(data)), dir: false}, nil
	}
	if _, ok := f.dirs[p]; ok {
		return &fakeInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, fs.ErrNotExist
}

// ReadDir lists direct children of p in map order, which is deliberately
// unsorted.
func (f *MemoryFS) ReadDir(p string) ([]os.DirEntry, error) {
	p = clean(p)
	if _, ok := f.dirs[p]; !ok {
		return nil, fs.ErrNotExist
	}

	var out []os.DirEntry
	prefix := p
	if prefix != "/" && prefix != "." {
		prefix += "/"
	}
	if prefix == "." {
		prefix = ""
	}

	seen := map[string]bool{}

	// dirs first
	for dp := range f.dirs {
		if dp == p || dp == "/" || dp == "." || !strings.HasPrefix(dp, prefix) {
			continue
		}
		name := strings.Split(strings.TrimPrefix(dp, prefix), "/")[0]
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, fakeDirEntry{name: name, isDir: true})
		}
	}

	// then files
	for fp := range f.files {
		if !strings.HasPrefix(fp, prefix) {
			continue
		}
		rest := strings.TrimPrefix(fp, prefix)
		name := strings.Split(rest, "/")[0]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if strings.Contains(rest, "/") {
			out = append(out, fakeDirEntry{name: name, isDir: true})
			continue
		}
		out = append(out, fakeDirEntry{name: name, size: int64(len(f.files[fp]))})
	}

	return out, nil
}

func (f *MemoryFS) IsNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
func (f *MemoryFS) IsDir(p string) bool       { _, ok := f.dirs[clean(p)]; return ok }
func (f *MemoryFS) Exists(p string) bool {
	p = clean(p)
	_, f1 := f.files[p]
	_, d1 := f.dirs[p]
	return f1 || d1
}

// Helpers

type fakeInfo struct {
	name string
	size int64
	dir  bool
}

func (f *fakeInfo) Name() string { return f.name }
func (f *fakeInfo) Size() int64  { return f.size }
func (f *fakeInfo) Mode() fs.FileMode {
	if f.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (f *fakeInfo) ModTime() time.Time { return time.Time{} }
func (f *fakeInfo) IsDir() bool        { return f.dir }
func (f *fakeInfo) Sys() interface{}   { return nil }

type fakeDirEntry struct {
	name  string
	size  int64
	isDir bool
}

func (d fakeDirEntry) Name() string { return d.name }
func (d fakeDirEntry) IsDir() bool  { return d.isDir }
func (d fakeDirEntry) Type() fs.FileMode {
	if d.isDir {
		return fs.ModeDir
	}
	return 0
}
func (d fakeDirEntry) Info() (os.FileInfo, error) {
	return &fakeInfo{name: d.name, size: d.size, dir: d.isDir}, nil
}
