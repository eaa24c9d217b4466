package chunk_test

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/bsplit/internal/chunk"
	"github.com/keshon/bsplit/internal/fs"
)

const mib = 1024 * 1024

func writeRandomFile(t *testing.T, path string, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	rand.New(rand.NewSource(int64(size))).Read(data)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestOSRoundTrip_TwelveMiB(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "source.bin")
	dir := filepath.Join(root, "session", "chunks")
	target := filepath.Join(root, "merged.bin")
	data := writeRandomFile(t, src, 12*mib)

	osfs := fs.NewOSFS()
	d := newDigester(t)
	sum, err := d.File(osfs, src)
	if err != nil {
		t.Fatal(err)
	}

	res, err := chunk.NewSplitter(osfs, nil).Split(src, dir, 64*mib)
	if err != nil {
		t.Fatal(err)
	}
	if res.ChunkSize != 5*mib || len(res.Chunks) != 3 {
		t.Fatalf("expected 3 chunks of 5 MiB cap, got %d of %d", len(res.Chunks), res.ChunkSize)
	}
	for i, want := range []int64{5 * mib, 5 * mib, 2 * mib} {
		fi, err := os.Stat(filepath.Join(dir, res.Chunks[i].Name()))
		if err != nil {
			t.Fatal(err)
		}
		if fi.Size() != want {
			t.Fatalf("chunk %d: %d bytes, want %d", i+1, fi.Size(), want)
		}
	}

	v, err := chunk.NewMerger(osfs, d, nil).Merge(dir, target, sum)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Verified || v.Actual != sum {
		t.Fatalf("expected verified merge, got %+v", v)
	}
	out, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("merged file differs from source")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("chunk dir should be gone")
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("source must not be touched")
	}
}

func TestOSRoundTrip_MissingMiddleChunk(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "source.bin")
	dir := filepath.Join(root, "chunks")
	target := filepath.Join(root, "merged.bin")
	writeRandomFile(t, src, 12*mib)

	osfs := fs.NewOSFS()
	d := newDigester(t)
	sum, _ := d.File(osfs, src)

	if _, err := chunk.NewSplitter(osfs, nil).Split(src, dir, 5*mib); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, "2")); err != nil {
		t.Fatal(err)
	}

	_, err := chunk.NewMerger(osfs, d, nil).Merge(dir, target, sum)
	if !errors.Is(err, chunk.ErrMissingChunk) {
		t.Fatalf("expected ErrMissingChunk, got %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("no 7 MiB target may be produced")
	}
}

func TestOSRoundTrip_LexicalListing(t *testing.T) {
	// os.ReadDir returns 1,10,11,2,...; merge must re-sort numerically
	root := t.TempDir()
	src := filepath.Join(root, "source.bin")
	dir := filepath.Join(root, "chunks")
	target := filepath.Join(root, "merged.bin")
	data := writeRandomFile(t, src, 11*1000+1)

	osfs := fs.NewOSFS()
	d := newDigester(t)

	res, err := chunk.NewSplitter(osfs, nil).Split(src, dir, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Chunks) != 12 {
		t.Fatalf("expected 12 chunks, got %d", len(res.Chunks))
	}

	v, err := chunk.NewMerger(osfs, d, nil).Merge(dir, target, d.Bytes(data))
	if err != nil || !v.Verified {
		t.Fatalf("merge failed: %v %+v", err, v)
	}
}

func TestOSRoundTrip_VariousSizes(t *testing.T) {
	osfs := fs.NewOSFS()
	d := newDigester(t)

	for _, tc := range []struct{ length, size int }{
		{1, 1}, {1, 4096}, {4096, 4096}, {4097, 4096}, {100_000, 333}, {0, 10},
	} {
		root := t.TempDir()
		src := filepath.Join(root, "src")
		dir := filepath.Join(root, "chunks")
		target := filepath.Join(root, "out")
		data := writeRandomFile(t, src, tc.length)

		res, err := chunk.NewSplitter(osfs, nil).Split(src, dir, int64(tc.size))
		if err != nil {
			t.Fatal(err)
		}
		if tc.length == 0 {
			// an empty chunk directory cannot be merged
			if _, err := chunk.NewMerger(osfs, d, nil).Merge(dir, target, d.Bytes(nil)); !errors.Is(err, chunk.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument for empty chunk dir, got %v", err)
			}
			continue
		}

		v, err := chunk.NewMerger(osfs, d, nil).Merge(dir, target, d.Bytes(data))
		if err != nil || !v.Verified {
			t.Fatalf("length=%d size=%d: %v %+v", tc.length, tc.size, err, v)
		}
		if v.Chunks != len(res.Chunks) {
			t.Fatalf("merged %d chunks, split wrote %d", v.Chunks, len(res.Chunks))
		}
		out, _ := os.ReadFile(target)
		if !bytes.Equal(out, data) {
			t.Fatalf("length=%d size=%d: output differs", tc.length, tc.size)
		}
	}
}

func TestOSMerge_RelativeTargetInsideAbsoluteChunkDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "chunks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "1"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)

	d := newDigester(t)
	_, err := chunk.NewMerger(fs.NewOSFS(), d, nil).Merge(dir, filepath.Join("chunks", "out"), d.Bytes([]byte("hello")))
	if !errors.Is(err, chunk.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1")); err != nil {
		t.Fatalf("chunk dir must be untouched: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Fatalf("target must not be created, stat err=%v", err)
	}
}

func TestOSMerge_TargetInsideChunkDirViaSymlink(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "chunks")
	link := filepath.Join(root, "alias")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "1"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	d := newDigester(t)
	_, err := chunk.NewMerger(fs.NewOSFS(), d, nil).Merge(dir, filepath.Join(link, "out"), d.Bytes([]byte("hello")))
	if !errors.Is(err, chunk.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1")); err != nil {
		t.Fatalf("chunk dir must be untouched: %v", err)
	}
}
