package chunk_test

import (
	"errors"
	"io"

	"github.com/keshon/bsplit/internal/fs"
)

var errInjected = errors.New("injected failure")

// createFailFS fails Create for one path.
type createFailFS struct {
	*fs.MemoryFS
	failPath string
}

func (f *createFailFS) Create(p string) (io.WriteCloser, error) {
	if p == f.failPath {
		return nil, errInjected
	}
	return f.MemoryFS.Create(p)
}

// openFailFS fails OpenReaderAt for one path.
type openFailFS struct {
	*fs.MemoryFS
	failPath string
}

func (f *openFailFS) OpenReaderAt(p string) (fs.ReaderAtCloser, error) {
	if p == f.failPath {
		return nil, errInjected
	}
	return f.MemoryFS.OpenReaderAt(p)
}
