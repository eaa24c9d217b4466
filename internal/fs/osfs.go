package fs

import (
	"io"
	"os"
)

// OSFS is a production implementation of FS using the standard library.
type OSFS struct{}

func NewOSFS() *OSFS {
	return &OSFS{}
}

func (r *OSFS) Open(path string) (io.ReadSeekCloser, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenReaderAt returns a memory-mapped view of the file.
func (r *OSFS) OpenReaderAt(path string) (ReaderAtCloser, error) {
	return openReaderAt(path)
}

func (r *OSFS) Create(path string) (io.WriteCloser, error) {
	f, err := create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *OSFS) Stat(path string) (os.FileInfo, error) {
	return stat(path)
}

func (r *OSFS) ReadFile(path string) ([]byte, error) {
	return readFile(path)
}

func (r *OSFS) ReadDir(path string) ([]os.DirEntry, error) {
	return readDir(path)
}

func (r *OSFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return writeFile(path, data, perm)
}

func (r *OSFS) MkdirAll(path string, perm os.FileMode) error {
	return mkdirAll(path, perm)
}

func (r *OSFS) Remove(path string) error {
	return remove(path)
}

func (r *OSFS) RemoveAll(path string) error {
	return removeAll(path)
}

func (r *OSFS) IsNotExist(err error) bool {
	return isNotExist(err)
}

func (r *OSFS) IsDir(path string) bool {
	return IsDir(path)
}

func (r *OSFS) Exists(path string) bool {
	return exists(path)
}
