package fs

import (
	"io"
	"os"
)

// ReaderAtCloser is a random-access reader over a whole file.
type ReaderAtCloser interface {
	io.ReaderAt
	io.Closer
}

// FS abstracts filesystem operations.
type FS interface {
	Open(path string) (io.ReadSeekCloser, error)
	OpenReaderAt(path string) (ReaderAtCloser, error)
	Create(path string) (io.WriteCloser, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error
	Stat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	IsNotExist(err error) bool
	Exists(path string) bool
	IsDir(path string) bool
}
