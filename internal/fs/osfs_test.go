package fs_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/bsplit/internal/fs"
)

func TestOSFS_Open(t *testing.T) {
	called := false
	fsOverride := &fs.OSFS{}

	orig := fs.GetOpen()
	defer fs.SetOpen(orig)
	fs.SetOpen(func(path string) (*os.File, error) {
		called = true
		if path != "abc.txt" {
			t.Fatalf("expected path abc.txt, got %s", path)
		}
		return nil, errors.New("open-error")
	})

	_, err := fsOverride.Open("abc.txt")
	if !called {
		t.Fatal("hook not called")
	}
	if err == nil || err.Error() != "open-error" {
		t.Fatalf("expected open-error, got %v", err)
	}
}

func TestOSFS_Create(t *testing.T) {
	called := false
	fsOverride := &fs.OSFS{}

	orig := fs.GetCreate()
	defer fs.SetCreate(orig)
	fs.SetCreate(func(path string) (*os.File, error) {
		called = true
		return nil, errors.New("create-error")
	})

	wc, err := fsOverride.Create("x")
	if !called {
		t.Fatal("create hook not called")
	}
	if err == nil || err.Error() != "create-error" {
		t.Fatalf("expected create-error, got %v", err)
	}
	if wc != nil {
		t.Fatal("expected nil writer on error")
	}
}

func TestOSFS_OpenReaderAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("mapped-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := fs.NewOSFS().OpenReaderAt(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := make([]byte, 5)
	if _, err := r.ReadAt(buf, 7); err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if string(buf) != "bytes" {
		t.Fatalf("unexpected read %q", buf)
	}
}

func TestOSFS_OpenReaderAtEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := fs.NewOSFS().OpenReaderAt(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOSFS_Stat(t *testing.T) {
	called := false
	fsOverride := &fs.OSFS{}

	orig := fs.GetStat()
	defer fs.SetStat(orig)
	fs.SetStat(func(path string) (os.FileInfo, error) {
		called = true
		return nil, errors.New("stat-failed")
	})

	_, err := fsOverride.Stat("zzz")
	if !called {
		t.Fatal("expected stat hook to be called")
	}
	if err == nil || err.Error() != "stat-failed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOSFS_ReadFile(t *testing.T) {
	called := false
	fsOverride := &fs.OSFS{}

	orig := fs.GetReadFile()
	defer fs.SetReadFile(orig)
	fs.SetReadFile(func(path string) ([]byte, error) {
		called = true
		return []byte("hello"), nil
	})

	out, err := fsOverride.ReadFile("x")
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("readFile hook not called")
	}
	if string(out) != "hello" {
		t.Fatalf("expected hello, got %s", out)
	}
}

func TestOSFS_WriteFile(t *testing.T) {
	called := false
	fsOverride := &fs.OSFS{}

	orig := fs.GetWriteFile()
	defer fs.SetWriteFile(orig)
	fs.SetWriteFile(func(path string, data []byte, perm os.FileMode) error {
		called = true
		if path != "aaa" || string(data) != "bbb" || perm != 0o644 {
			t.Fatalf("unexpected write args")
		}
		return nil
	})

	if err := fsOverride.WriteFile("aaa", []byte("bbb"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("writeFile hook not called")
	}
}

func TestOSFS_MkdirAll(t *testing.T) {
	called := false
	fsOverride := &fs.OSFS{}

	orig := fs.GetMkdirAll()
	defer fs.SetMkdirAll(orig)
	fs.SetMkdirAll(func(path string, perm os.FileMode) error {
		called = true
		if perm != 0o755 {
			t.Fatalf("unexpected perm")
		}
		return nil
	})

	if err := fsOverride.MkdirAll("dir123", 0o755); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("mkdirAll hook not called")
	}
}

func TestOSFS_RemoveAndRemoveAll(t *testing.T) {
	var removed, removedAll string
	fsOverride := &fs.OSFS{}

	origRm := fs.GetRemove()
	defer fs.SetRemove(origRm)
	fs.SetRemove(func(path string) error {
		removed = path
		return nil
	})

	origRmAll := fs.GetRemoveAll()
	defer fs.SetRemoveAll(origRmAll)
	fs.SetRemoveAll(func(path string) error {
		removedAll = path
		return nil
	})

	if err := fsOverride.Remove("qqq"); err != nil {
		t.Fatal(err)
	}
	if err := fsOverride.RemoveAll("www"); err != nil {
		t.Fatal(err)
	}
	if removed != "qqq" || removedAll != "www" {
		t.Fatalf("hooks got %q / %q", removed, removedAll)
	}
}

func TestOSFS_ReadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10", "2", "1"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := fs.NewOSFS().ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// os.ReadDir orders lexically
	if entries[0].Name() != "1" || entries[1].Name() != "10" || entries[2].Name() != "2" {
		t.Fatalf("unexpected order: %s %s %s", entries[0].Name(), entries[1].Name(), entries[2].Name())
	}
}

func TestOSFS_IsNotExist(t *testing.T) {
	called := false
	fsOverride := &fs.OSFS{}
	errFake := errors.New("nope")

	orig := fs.GetIsNotExist()
	defer fs.SetIsNotExist(orig)
	fs.SetIsNotExist(func(err error) bool {
		called = true
		return err == errFake
	})

	if !fsOverride.IsNotExist(errFake) {
		t.Fatal("expected true")
	}
	if !called {
		t.Fatal("isNotExist not called")
	}
}

func TestOSFS_IsDir(t *testing.T) {
	tmp := t.TempDir()
	fsOverride := &fs.OSFS{}

	if !fsOverride.IsDir(tmp) {
		t.Fatalf("expected %s to be a dir", tmp)
	}
}

func TestOSFS_Exists(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "x")
	os.WriteFile(tmpFile, []byte("1"), 0o644)

	fsOverride := &fs.OSFS{}
	if !fsOverride.Exists(tmpFile) {
		t.Fatalf("expected file to exist")
	}
	if fsOverride.Exists(tmpFile + "-missing") {
		t.Fatalf("expected missing file to not exist")
	}
}
